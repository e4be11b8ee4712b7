package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
)

// GraphOverlay contains dynamic run data to visualize on the graph.
type GraphOverlay struct {
	VisitedStates []string
	CurrentState  string
}

// GenerateMermaid produces a Mermaid stateDiagram-v2 from a machine.
// Each rule becomes one edge labeled "read/write,direction". The initial
// state is entered from [*] and both halting states lead to [*], styled as
// accept and reject. Overlay styles (visited/current) are applied if provided.
func GenerateMermaid(m *domain.Machine, overlay *GraphOverlay) string {
	ids := newIDs()

	var sb strings.Builder
	sb.WriteString("stateDiagram-v2\n")
	for _, state := range m.States() {
		fmt.Fprintf(&sb, "    state \"%s\" as %s\n", escapeLabel(state), ids.get(state))
	}

	fmt.Fprintf(&sb, "    [*] --> %s\n", ids.get(m.Initial))
	for _, tr := range m.Table {
		fmt.Fprintf(&sb, "    %s --> %s : %s/%s,%c\n",
			ids.get(tr.From), ids.get(tr.To), symbol(tr.Read), symbol(tr.Write), tr.Dir.Letter())
	}
	fmt.Fprintf(&sb, "    %s --> [*]\n", ids.get(m.Accept))
	if m.Reject != m.Accept {
		fmt.Fprintf(&sb, "    %s --> [*]\n", ids.get(m.Reject))
	}

	sb.WriteString("\n    classDef accept fill:#c8e6c9,stroke:#2e7d32,stroke-width:2px,color:#000\n")
	fmt.Fprintf(&sb, "    class %s accept\n", ids.get(m.Accept))
	if m.Reject != m.Accept {
		sb.WriteString("    classDef reject fill:#ffcdd2,stroke:#c62828,stroke-width:2px,color:#000\n")
		fmt.Fprintf(&sb, "    class %s reject\n", ids.get(m.Reject))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000\n")

		seen := make(map[string]bool)
		for _, state := range overlay.VisitedStates {
			if seen[state] || state == overlay.CurrentState || !ids.has(state) {
				continue
			}
			seen[state] = true
			fmt.Fprintf(&sb, "    class %s visited\n", ids.get(state))
		}
		if overlay.CurrentState != "" && ids.has(overlay.CurrentState) {
			fmt.Fprintf(&sb, "    class %s current\n", ids.get(overlay.CurrentState))
		}
	}

	return sb.String()
}

// ids assigns each state a Mermaid-safe identifier, unique even when two
// state names sanitize to the same text.
type ids struct {
	byState map[string]string
	taken   map[string]bool
}

func newIDs() *ids {
	return &ids{byState: make(map[string]string), taken: make(map[string]bool)}
}

func (i *ids) has(state string) bool {
	_, ok := i.byState[state]
	return ok
}

func (i *ids) get(state string) string {
	if id, ok := i.byState[state]; ok {
		return id
	}
	base := sanitizeMermaidID(state)
	id := base
	for n := 2; i.taken[id]; n++ {
		id = fmt.Sprintf("%s_%d", base, n)
	}
	i.taken[id] = true
	i.byState[state] = id
	return id
}

func sanitizeMermaidID(id string) string {
	var sb strings.Builder
	sb.WriteString("s_")
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "#quot;")
}

// symbol renders a tape symbol for an edge label. Mermaid treats several
// punctuation characters specially, so anything but letters and digits is
// written as an entity code.
func symbol(b byte) string {
	switch {
	case b == 0:
		return "␣"
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return string(b)
	}
	return fmt.Sprintf("#%d;", b)
}
