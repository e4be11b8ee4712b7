package runtime

import (
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/tape"
)

// Run is the mutable state of one execution: the current state, the tape and
// the step counter. It belongs to a single goroutine.
type Run struct {
	machine *domain.Machine
	tape    *tape.Tape
	state   string
	steps   int
	status  domain.Status
}

// NewRun positions a fresh tape on input and enters the initial state. A
// machine whose initial state is a halting state halts immediately.
func NewRun(m *domain.Machine, input string, blank byte) *Run {
	r := &Run{
		machine: m,
		tape:    tape.New(input, blank),
		state:   m.Initial,
		status:  domain.StatusRunning,
	}
	r.checkHalt()
	return r
}

// Step applies the first rule matching the current state and symbol, then
// re-evaluates halting. Calling Step on a halted run is a no-op. When no
// rule matches the run becomes stuck and a *domain.StuckError is returned.
func (r *Run) Step() (domain.Transition, error) {
	if r.status != domain.StatusRunning {
		return domain.Transition{}, nil
	}

	symbol := r.tape.Read()
	tr, ok := r.machine.Table.Lookup(r.state, symbol)
	if !ok {
		r.status = domain.StatusStuck
		return domain.Transition{}, &domain.StuckError{State: r.state, Symbol: symbol, Step: r.steps}
	}

	r.tape.Write(tr.Write)
	r.tape.Move(tr.Dir)
	r.state = tr.To
	r.steps++
	r.checkHalt()
	return tr, nil
}

// checkHalt compares the current state against accept, then reject.
func (r *Run) checkHalt() {
	switch r.state {
	case r.machine.Accept:
		r.status = domain.StatusAccepted
	case r.machine.Reject:
		r.status = domain.StatusRejected
	}
}

// Status returns where the run stands.
func (r *Run) Status() domain.Status {
	return r.status
}

// State returns the current machine state.
func (r *Run) State() string {
	return r.state
}

// Steps returns the number of applied transitions.
func (r *Run) Steps() int {
	return r.steps
}

// Tape returns a copy of the tape contents.
func (r *Run) Tape() tape.Snapshot {
	return r.tape.Snapshot()
}
