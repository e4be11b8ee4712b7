package runtime_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/turing/internal/runtime"
	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingSource fails after a number of successful reads.
type failingSource struct {
	*memory.Source
	reads int
	limit int
}

func (f *failingSource) ReadLine(maxLen int) (string, error) {
	if f.reads >= f.limit {
		return "", errors.Join(domain.ErrIO, errors.New("disk on fire"))
	}
	f.reads++
	return f.Source.ReadLine(maxLen)
}

func TestLoad_Simple(t *testing.T) {
	src := memory.NewFromLines("q0", "qA", "qR", "(q0,1)->(qA,0,S)", "(q0,0)->(qR,0,D)")

	m, err := runtime.NewEngine().Load(context.Background(), src)
	require.NoError(t, err)

	assert.Equal(t, "q0", m.Initial)
	assert.Equal(t, "qA", m.Accept)
	assert.Equal(t, "qR", m.Reject)
	require.Len(t, m.Table, 2)
	assert.Equal(t, domain.Transition{From: "q0", Read: '1', To: "qA", Write: '0', Dir: domain.Stay}, m.Table[0])
	assert.Equal(t, domain.Right, m.Table[1].Dir)
}

func TestLoad_HeaderOnly(t *testing.T) {
	m, err := runtime.NewEngine().Load(context.Background(), memory.NewSource("q0\nqA\nqR"))
	require.NoError(t, err)
	assert.Empty(t, m.Table)
}

func TestLoad_PreservesOrderAndDuplicates(t *testing.T) {
	src := memory.NewFromLines("q0", "qA", "qR",
		"(q0,1)->(qA,1,S)",
		"(q0,1)->(qR,1,S)",
	)
	m, err := runtime.NewEngine().Load(context.Background(), src)
	require.NoError(t, err)

	tr, ok := m.Table.Lookup("q0", '1')
	require.True(t, ok)
	assert.Equal(t, "qA", tr.To, "the earliest rule wins")
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		kind    error
		line    int
	}{
		{"Empty", "", domain.ErrIncompleteDescription, 0},
		{"Two Lines", "q0\nqA\n", domain.ErrIncompleteDescription, 0},
		{"Empty Accept", "q0\n\nqR\n", domain.ErrEmptyState, 0},
		{"Invalid Direction", "q0\nqA\nqR\n(q0,1)->(qA,0,X)\n", domain.ErrInvalidDirection, 4},
		{"Malformed Later Line", "q0\nqA\nqR\n(q0,1)->(qA,0,S)\nq0,1)->(qA,0,S)\n", domain.ErrMalformedTransition, 5},
		{"Blank Transition Line", "q0\nqA\nqR\n\n(q0,1)->(qA,0,S)\n", domain.ErrMalformedTransition, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := runtime.NewEngine().Load(context.Background(), memory.NewSource(tt.content))
			require.Error(t, err)
			assert.Nil(t, m, "no partial machine on failure")
			assert.ErrorIs(t, err, tt.kind)

			if tt.line > 0 {
				var perr *domain.ParseError
				require.ErrorAs(t, err, &perr)
				assert.Equal(t, tt.line, perr.Line)
			}
		})
	}
}

func TestLoad_IOFailure(t *testing.T) {
	src := &failingSource{
		Source: memory.NewFromLines("q0", "qA", "qR", "(q0,1)->(qA,0,S)"),
		limit:  3,
	}

	m, err := runtime.NewEngine().Load(context.Background(), src)
	assert.Nil(t, m)
	assert.ErrorIs(t, err, domain.ErrIO)
	assert.Contains(t, err.Error(), "line 4")
}

func TestLoad_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runtime.NewEngine().Load(ctx, memory.NewFromLines("q0", "qA", "qR", "(q0,1)->(qA,0,S)"))
	assert.ErrorIs(t, err, context.Canceled)
}
