package dsl

import (
	"context"
	"testing"

	"github.com/aretw0/turing/internal/runtime"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func increment() *Builder {
	b := New("increment").Start("right").Accept("done").Reject("fail")

	b.State("right").
		Read('0').Right().To("right").
		Read('1').Right().To("right").
		Read('_').Left().To("carry")

	b.State("carry").
		Read('1').Write('0').Left().To("carry").
		Read('0').Write('1').To("done").
		Read('_').Write('1').To("done")
	return b
}

func TestBuilder_Build(t *testing.T) {
	m, err := increment().Build()
	require.NoError(t, err)

	assert.Equal(t, "increment", m.Name)
	assert.Equal(t, "right", m.Initial)
	require.Len(t, m.Table, 6)
	assert.Equal(t, domain.Transition{From: "right", Read: '0', To: "right", Write: '0', Dir: domain.Right}, m.Table[0])
	assert.Equal(t, domain.Transition{From: "carry", Read: '0', To: "done", Write: '1', Dir: domain.Stay}, m.Table[4])
}

func TestBuilder_SourceRoundTrip(t *testing.T) {
	src, err := increment().Source()
	require.NoError(t, err)

	eng := runtime.NewEngine(runtime.WithBlank('_'))
	m, err := eng.Load(context.Background(), src)
	require.NoError(t, err)

	built, err := increment().Build()
	require.NoError(t, err)
	assert.Equal(t, built.Table, m.Table)

	tests := map[string]string{"0": "1", "1011": "1100", "111": "1000", "": "1"}
	for input, want := range tests {
		result, err := eng.Execute(context.Background(), m, input)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusAccepted, result.Status)
		assert.Equal(t, want, result.Output, "input %q", input)
	}
}

func TestBuilder_Errors(t *testing.T) {
	tests := []struct {
		name  string
		build func() *Builder
		is    error
	}{
		{
			name:  "missing header",
			build: func() *Builder { return New("x").Start("q0").Accept("qA") },
			is:    domain.ErrEmptyState,
		},
		{
			name: "delimiter in state",
			build: func() *Builder {
				b := New("x").Start("q0").Accept("qA").Reject("qR")
				b.State("q0").Read('1').To("a,b")
				return b
			},
			is: domain.ErrMalformedTransition,
		},
		{
			name: "newline symbol",
			build: func() *Builder {
				b := New("x").Start("q0").Accept("qA").Reject("qR")
				b.State("q0").Read('\n').To("qA")
				return b
			},
			is: domain.ErrMalformedTransition,
		},
		{
			name: "unfinished rule",
			build: func() *Builder {
				b := New("x").Start("q0").Accept("qA").Reject("qR")
				b.State("q0").Read('1').Right()
				return b
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := tt.build().Build()
			assert.Nil(t, m)
			require.Error(t, err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}
