package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Transition defines a rule of the machine: while in From with Read under the
// head, write Write, move the head by Dir and enter To.
type Transition struct {
	From  string    `json:"from" yaml:"from"`
	Read  byte      `json:"read" yaml:"read"`
	To    string    `json:"to" yaml:"to"`
	Write byte      `json:"write" yaml:"write"`
	Dir   Direction `json:"dir" yaml:"dir"`
}

// NewTransition validates every field and returns a complete Transition.
// On error the zero Transition is returned.
func NewTransition(from string, read byte, to string, write byte, dir Direction) (Transition, error) {
	if err := ValidateState(from); err != nil {
		return Transition{}, fmt.Errorf("from state: %w", err)
	}
	if err := ValidateState(to); err != nil {
		return Transition{}, fmt.Errorf("to state: %w", err)
	}
	if !dir.Valid() {
		return Transition{}, fmt.Errorf("%w: %d", ErrInvalidDirection, int(dir))
	}
	return Transition{From: from, Read: read, To: to, Write: write, Dir: dir}, nil
}

// ValidateState checks that id can be used as a state identifier inside a
// transition line: non-empty and free of the ',' and ')' delimiters.
func ValidateState(id string) error {
	if id == "" {
		return ErrEmptyState
	}
	if strings.ContainsAny(id, ",)\n") {
		return fmt.Errorf("%w: state %q contains a delimiter", ErrMalformedTransition, id)
	}
	return nil
}

// Matches reports whether the rule applies to the given state and symbol.
func (t Transition) Matches(state string, symbol byte) bool {
	return t.From == state && t.Read == symbol
}

// String renders the transition in description notation: (FROM,READ)->(TO,WRITE,DIR).
func (t Transition) String() string {
	var sb strings.Builder
	sb.Grow(len(t.From) + len(t.To) + 12)
	sb.WriteByte('(')
	sb.WriteString(t.From)
	sb.WriteByte(',')
	sb.WriteByte(t.Read)
	sb.WriteString(")->(")
	sb.WriteString(t.To)
	sb.WriteByte(',')
	sb.WriteByte(t.Write)
	sb.WriteByte(',')
	sb.WriteByte(t.Dir.Letter())
	sb.WriteByte(')')
	return sb.String()
}

// transitionWire is the serialized shape of a Transition, with symbols as
// one-character strings.
type transitionWire struct {
	From  string    `json:"from" yaml:"from"`
	Read  string    `json:"read" yaml:"read"`
	To    string    `json:"to" yaml:"to"`
	Write string    `json:"write" yaml:"write"`
	Dir   Direction `json:"dir" yaml:"dir"`
}

func (t Transition) wire() transitionWire {
	return transitionWire{
		From:  t.From,
		Read:  string([]byte{t.Read}),
		To:    t.To,
		Write: string([]byte{t.Write}),
		Dir:   t.Dir,
	}
}

// MarshalJSON encodes symbols as strings instead of numbers.
func (t Transition) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.wire())
}

// UnmarshalJSON decodes and validates a serialized transition.
func (t *Transition) UnmarshalJSON(data []byte) error {
	var w transitionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if len(w.Read) != 1 || len(w.Write) != 1 {
		return fmt.Errorf("%w: symbols must be exactly one byte", ErrMalformedTransition)
	}
	parsed, err := NewTransition(w.From, w.Read[0], w.To, w.Write[0], w.Dir)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalYAML mirrors MarshalJSON for YAML encoders.
func (t Transition) MarshalYAML() (any, error) {
	return t.wire(), nil
}
