package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/config"
	"github.com/aretw0/turing/internal/presentation/tui"
	tea "github.com/charmbracelet/bubbletea"
)

// DebugOptions configures an interactive stepping session.
type DebugOptions struct {
	Path  string
	Input string
	// Delay is the pause between steps in play mode.
	Delay time.Duration
}

// NewStepper loads the description at opts.Path and prepares a debugger
// model for it, using the blank and step limit of cfg.
func NewStepper(ctx context.Context, eng *turing.Engine, cfg config.Config, opts DebugOptions, out io.Writer) (tui.Stepper, error) {
	m, err := eng.LoadFile(ctx, opts.Path)
	if err != nil {
		return tui.Stepper{}, err
	}
	return tui.NewStepper(m, opts.Input,
		tui.WithStepBlank(cfg.BlankSymbol()),
		tui.WithStepLimit(cfg.MaxSteps),
		tui.WithDelay(opts.Delay),
		tui.WithTapeRenderer(tui.TapeRenderer(tui.Profile(out))),
	), nil
}

// Debug runs an interactive session on in/out, then prints where the run
// stopped. The returned error follows the exit conventions of Run.
func Debug(ctx context.Context, eng *turing.Engine, cfg config.Config, opts DebugOptions, in io.Reader, out io.Writer) error {
	model, err := NewStepper(ctx, eng, cfg, opts, out)
	if err != nil {
		return err
	}

	final, err := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	).Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("debugger failed: %w", err)
	}
	s, ok := final.(tui.Stepper)
	if !ok {
		return err
	}

	fmt.Fprintf(out, "%s in state %s after %d steps\n", strings.ToUpper(string(s.Status())), s.State(), s.Steps())
	return exitFor(s.Status(), s.Err())
}
