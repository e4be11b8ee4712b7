package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/dsl"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func machine(rules ...domain.Transition) *domain.Machine {
	return &domain.Machine{Initial: "q0", Accept: "qA", Reject: "qR", Table: rules}
}

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		machine  *domain.Machine
		contains []string
		excludes []string
	}{
		{
			name: "Structure",
			machine: machine(
				domain.Transition{From: "q0", Read: '1', To: "q0", Write: '0', Dir: domain.Right},
				domain.Transition{From: "q0", Read: '0', To: "qA", Write: '0', Dir: domain.Stay},
			),
			contains: []string{
				"stateDiagram-v2\n",
				`state "q0" as s_q0`,
				"[*] --> s_q0",
				"s_q0 --> s_q0 : 1/0,D",
				"s_q0 --> s_qA : 0/0,S",
				"s_qA --> [*]",
				"s_qR --> [*]",
				"class s_qA accept",
				"class s_qR reject",
			},
			excludes: []string{"Overlay"},
		},
		{
			name: "Symbol Escaping",
			machine: machine(
				domain.Transition{From: "q0", Read: 0, To: "q0", Write: ':', Dir: domain.Left},
			),
			contains: []string{"s_q0 --> s_q0 : ␣/#58;,G"},
		},
		{
			name: "ID Sanitization",
			machine: machine(
				domain.Transition{From: "q0", Read: '1', To: "go-left", Write: '1', Dir: domain.Left},
				domain.Transition{From: "go-left", Read: '1', To: "go_left", Write: '1', Dir: domain.Left},
				domain.Transition{From: "go_left", Read: '1', To: `say "hi"`, Write: '1', Dir: domain.Left},
			),
			contains: []string{
				`state "go-left" as s_go_left`,
				`state "go_left" as s_go_left_2`,
				`state "say #quot;hi#quot;" as s_say__hi_`,
				"s_go_left --> s_go_left_2 : 1/1,G",
			},
		},
		{
			name:     "Shared Halting State",
			machine:  &domain.Machine{Initial: "q0", Accept: "qH", Reject: "qH"},
			contains: []string{"class s_qH accept"},
			excludes: []string{"reject fill", "class s_qH reject"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.machine, nil)
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, got, unwanted)
			}
		})
	}
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	m := machine(
		domain.Transition{From: "q0", Read: '1', To: "q1", Write: '1', Dir: domain.Right},
		domain.Transition{From: "q1", Read: '1', To: "qA", Write: '1', Dir: domain.Right},
	)

	got := graph.GenerateMermaid(m, &graph.GraphOverlay{
		VisitedStates: []string{"q0", "q1", "q0", "ghost", "qA"},
		CurrentState:  "qA",
	})

	assert.Contains(t, got, "%% Overlay Styles")
	assert.Equal(t, 1, strings.Count(got, "class s_q0 visited"), "visited states are deduplicated")
	assert.Contains(t, got, "class s_q1 visited")
	assert.Contains(t, got, "class s_qA current")
	assert.NotContains(t, got, "class s_qA visited")
	assert.NotContains(t, got, "ghost")
}

func increment(t *testing.T) *domain.Machine {
	t.Helper()
	b := dsl.New("increment").Start("right").Accept("done").Reject("fail")
	b.State("right").
		Read('0').Right().To("right").
		Read('1').Right().To("right").
		Read('_').Left().To("carry")
	b.State("carry").
		Read('1').Write('0').Left().To("carry").
		Read('0').Write('1').To("done").
		Read('_').Write('1').To("done")

	m, err := b.Build()
	require.NoError(t, err)
	return m
}

func TestGenerateMermaid_Golden(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	m := increment(t)

	g.Assert(t, "increment", []byte(graph.GenerateMermaid(m, nil)))
	g.Assert(t, "increment_overlay", []byte(graph.GenerateMermaid(m, &graph.GraphOverlay{
		VisitedStates: []string{"right", "right", "carry", "done"},
		CurrentState:  "done",
	})))
}
