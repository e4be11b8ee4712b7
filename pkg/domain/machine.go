package domain

import "strings"

// Machine is a loaded machine description. It is immutable once loading
// completes; every run builds its own tape, so a Machine may be executed
// concurrently.
type Machine struct {
	// Name is a descriptive label (usually the description file's base name).
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	Initial string `json:"initial" yaml:"initial"`
	Accept  string `json:"accept" yaml:"accept"`
	Reject  string `json:"reject" yaml:"reject"`

	Table Table `json:"transitions" yaml:"transitions"`
}

// IsHalting reports whether state is the accept or the reject state.
func (m *Machine) IsHalting(state string) bool {
	return state == m.Accept || state == m.Reject
}

// States returns the distinguished states followed by any other state named
// by the table, without duplicates.
func (m *Machine) States() []string {
	seen := make(map[string]bool)
	var states []string
	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			states = append(states, id)
		}
	}
	add(m.Initial)
	add(m.Accept)
	add(m.Reject)
	for _, id := range m.Table.States() {
		add(id)
	}
	return states
}

// Description renders the machine back into the line-oriented text format.
func (m *Machine) Description() string {
	var sb strings.Builder
	sb.WriteString(m.Initial + "\n")
	sb.WriteString(m.Accept + "\n")
	sb.WriteString(m.Reject + "\n")
	for _, tr := range m.Table {
		sb.WriteString(tr.String() + "\n")
	}
	return sb.String()
}
