package domain

// Table is the ordered rule set of a machine. Order is significant: Lookup
// returns the earliest inserted rule matching a (state, symbol) pair.
type Table []Transition

// Lookup returns the first rule for state and symbol.
func (t Table) Lookup(state string, symbol byte) (Transition, bool) {
	for _, tr := range t {
		if tr.Matches(state, symbol) {
			return tr, true
		}
	}
	return Transition{}, false
}

// From returns the rules leaving state, in table order.
func (t Table) From(state string) []Transition {
	var out []Transition
	for _, tr := range t {
		if tr.From == state {
			out = append(out, tr)
		}
	}
	return out
}

// Sources returns the states that have at least one rule, in order of first
// appearance.
func (t Table) Sources() []string {
	seen := make(map[string]bool)
	var states []string
	for _, tr := range t {
		if !seen[tr.From] {
			seen[tr.From] = true
			states = append(states, tr.From)
		}
	}
	return states
}

// States returns every state named by the table, in order of first appearance.
func (t Table) States() []string {
	seen := make(map[string]bool)
	var states []string
	for _, tr := range t {
		for _, id := range []string{tr.From, tr.To} {
			if !seen[id] {
				seen[id] = true
				states = append(states, id)
			}
		}
	}
	return states
}
