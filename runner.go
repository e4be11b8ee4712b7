package turing

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/tape"
)

// TapeRenderer turns a tape snapshot into a printable line.
// This allows for TUI rendering (colors) without coupling the core package.
type TapeRenderer func(tape.Snapshot) string

// Runner executes a machine and writes a step-by-step trace to Output.
// This allows for easy testing and integration with different frontends (CLI, TUI, etc).
type Runner struct {
	Output   io.Writer
	Renderer TapeRenderer
	// Every prints one trace line every N steps (default 1).
	Every int
}

// NewRunner creates a Runner writing plain-text traces to w.
func NewRunner(w io.Writer) *Runner {
	return &Runner{
		Output:   w,
		Renderer: PlainTape,
		Every:    1,
	}
}

// Run executes m against input, tracing every step, then prints the verdict.
func (r *Runner) Run(ctx context.Context, eng *Engine, m *domain.Machine, input string) (*domain.Result, error) {
	if r.Output == nil {
		return nil, fmt.Errorf("output writer must be set")
	}
	render := r.Renderer
	if render == nil {
		render = PlainTape
	}
	every := r.Every
	if every < 1 {
		every = 1
	}

	fmt.Fprintf(r.Output, "%6d  %-24s %s\n", 0, m.Initial, render(tape.New(input, eng.blank).Snapshot()))

	result, err := eng.Trace(ctx, m, input, func(step int, tr domain.Transition, snap tape.Snapshot) {
		if step%every != 0 {
			return
		}
		fmt.Fprintf(r.Output, "%6d  %-24s %s\n", step, tr.String(), render(snap))
	})
	if result != nil {
		fmt.Fprintf(r.Output, "%s in state %s after %d steps\n", strings.ToUpper(string(result.Status)), result.State, result.Steps)
	}
	return result, err
}

// PlainTape renders the trimmed tape with the head cell in brackets.
// Blank cells are shown as '_' when the blank is NUL.
func PlainTape(snap tape.Snapshot) string {
	start, end := 0, len(snap.Cells)
	for start < snap.Head && snap.Cells[start] == snap.Blank {
		start++
	}
	for end-1 > snap.Head && snap.Cells[end-1] == snap.Blank {
		end--
	}

	var sb strings.Builder
	for i := start; i < end; i++ {
		c := snap.Cells[i]
		if c == 0 {
			c = '_'
		}
		if i == snap.Head {
			sb.WriteByte('[')
			sb.WriteByte(c)
			sb.WriteByte(']')
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String()
}
