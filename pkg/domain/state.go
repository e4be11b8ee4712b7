package domain

import "time"

// Status defines where a run stands.
type Status string

const (
	StatusRunning  Status = "running"  // Not halted (interrupted or bounded)
	StatusAccepted Status = "accepted" // Reached the accept state
	StatusRejected Status = "rejected" // Reached the reject state
	StatusStuck    Status = "stuck"    // No rule for the current (state, symbol)
)

// Halted reports whether the status is a final verdict of the machine.
func (s Status) Halted() bool {
	return s == StatusAccepted || s == StatusRejected
}

// Result captures the outcome of one run.
type Result struct {
	// ID identifies the run (used as the key in a ResultStore).
	ID string `json:"id" yaml:"id"`

	// Machine is the name of the executed machine, if any.
	Machine string `json:"machine,omitempty" yaml:"machine,omitempty"`

	Input  string `json:"input" yaml:"input"`
	Status Status `json:"status" yaml:"status"`

	// State is the machine state when the run ended.
	State string `json:"state" yaml:"state"`

	// Steps counts applied transitions.
	Steps int `json:"steps" yaml:"steps"`

	// Cells holds the materialized tape cells, left to right, and Head the
	// index of the head within them.
	Cells string `json:"cells" yaml:"cells"`
	Head  int    `json:"head" yaml:"head"`

	// Output is the tape contents with blank padding trimmed.
	Output string `json:"output" yaml:"output"`

	StartedAt time.Time     `json:"started_at" yaml:"started_at"`
	Duration  time.Duration `json:"duration" yaml:"duration"`

	// Error holds the message of the error that ended the run, if any.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	// Sealed holds the encrypted result when it was stored through an
	// encrypting store; Input, Cells, Output and Error are then empty.
	Sealed string `json:"sealed,omitempty" yaml:"sealed,omitempty"`
}

// Symbol returns the symbol under the head at the end of the run.
func (r *Result) Symbol() byte {
	if r.Head < 0 || r.Head >= len(r.Cells) {
		return 0
	}
	return r.Cells[r.Head]
}

// Accepted is shorthand for Status == StatusAccepted.
func (r *Result) Accepted() bool {
	return r.Status == StatusAccepted
}
