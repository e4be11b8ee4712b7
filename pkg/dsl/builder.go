package dsl

import (
	"errors"
	"fmt"

	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/domain"
)

// Builder manages the machine construction. Rules keep the order in which
// they were declared, which is the order Lookup honors.
type Builder struct {
	machine domain.Machine
	rules   []*RuleBuilder
}

// New creates a new machine builder.
func New(name string) *Builder {
	return &Builder{machine: domain.Machine{Name: name}}
}

// Start sets the initial state.
func (b *Builder) Start(state string) *Builder {
	b.machine.Initial = state
	return b
}

// Accept sets the accepting halting state.
func (b *Builder) Accept(state string) *Builder {
	b.machine.Accept = state
	return b
}

// Reject sets the rejecting halting state.
func (b *Builder) Reject(state string) *Builder {
	b.machine.Reject = state
	return b
}

// State starts declaring the rules leaving a state.
func (b *Builder) State(id string) *StateBuilder {
	return &StateBuilder{id: id, builder: b}
}

// Build validates the declarations and compiles them into a Machine.
func (b *Builder) Build() (*domain.Machine, error) {
	var errs []error
	for role, id := range map[string]string{
		"start":  b.machine.Initial,
		"accept": b.machine.Accept,
		"reject": b.machine.Reject,
	} {
		if err := domain.ValidateState(id); err != nil {
			errs = append(errs, fmt.Errorf("%s state: %w", role, err))
		}
	}

	table := make(domain.Table, 0, len(b.rules))
	for _, r := range b.rules {
		tr, err := r.compile()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		table = append(table, tr)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	m := b.machine
	m.Table = table
	return &m, nil
}

// Source builds the machine and renders it as a LineSource, ready for
// turing.Engine.Run.
func (b *Builder) Source() (*memory.Source, error) {
	m, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build machine: %w", err)
	}
	return memory.NewFromMachine(m), nil
}

// StateBuilder provides a fluent API for declaring rules leaving one state.
type StateBuilder struct {
	id      string
	builder *Builder
}

// Read declares a rule firing when the head reads symbol. The rule writes
// the same symbol back and stays, unless told otherwise.
func (s *StateBuilder) Read(symbol byte) *RuleBuilder {
	r := &RuleBuilder{
		state: s,
		rule:  domain.Transition{From: s.id, Read: symbol, Write: symbol, Dir: domain.Stay},
	}
	s.builder.rules = append(s.builder.rules, r)
	return r
}

// RuleBuilder configures a single transition.
type RuleBuilder struct {
	state *StateBuilder
	rule  domain.Transition
	done  bool
}

// Write sets the symbol written before moving.
func (r *RuleBuilder) Write(symbol byte) *RuleBuilder {
	r.rule.Write = symbol
	return r
}

// Move sets the head movement.
func (r *RuleBuilder) Move(dir domain.Direction) *RuleBuilder {
	r.rule.Dir = dir
	return r
}

func (r *RuleBuilder) Left() *RuleBuilder  { return r.Move(domain.Left) }
func (r *RuleBuilder) Right() *RuleBuilder { return r.Move(domain.Right) }
func (r *RuleBuilder) Stay() *RuleBuilder  { return r.Move(domain.Stay) }

// To sets the target state and returns to the state so more rules can
// be chained.
func (r *RuleBuilder) To(state string) *StateBuilder {
	r.rule.To = state
	r.done = true
	return r.state
}

func (r *RuleBuilder) compile() (domain.Transition, error) {
	tr := r.rule
	if !r.done {
		return domain.Transition{}, fmt.Errorf("rule (%s,%q): missing target state", tr.From, tr.Read)
	}
	if tr.Read == '\n' || tr.Write == '\n' {
		return domain.Transition{}, fmt.Errorf("%w: rule (%s,%q): newline is not a tape symbol", domain.ErrMalformedTransition, tr.From, tr.Read)
	}
	out, err := domain.NewTransition(tr.From, tr.Read, tr.To, tr.Write, tr.Dir)
	if err != nil {
		return domain.Transition{}, fmt.Errorf("rule (%s,%q): %w", tr.From, tr.Read, err)
	}
	return out, nil
}
