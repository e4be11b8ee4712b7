package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/aretw0/turing/pkg/domain"
)

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	Path   string
	Input  string
	Format string
	// Trace prints every step (text format only).
	Trace bool
	Every int
	Watch bool
}

// ExitError carries the process exit code for a run that completed without
// being accepted.
type ExitError struct {
	Code   int
	Status domain.Status
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("machine %s", e.Status)
}

// Exit codes by final status.
const (
	ExitRejected = 2
	ExitStuck    = 3
	ExitBounded  = 4
)

// Run loads the description at opts.Path and runs it, writing the outcome
// to w. Runs that do not accept return an *ExitError.
func Run(ctx context.Context, eng *turing.Engine, opts RunOptions, w io.Writer) error {
	if err := ValidateFormat(opts.Format); err != nil {
		return err
	}

	m, err := eng.LoadFile(ctx, opts.Path)
	if err != nil {
		return err
	}

	var result *domain.Result
	if opts.Trace && opts.Format == FormatText {
		r := turing.NewRunner(w)
		r.Renderer = tui.TapeRenderer(tui.Profile(w))
		r.Every = opts.Every
		result, err = r.Run(ctx, eng, m, opts.Input)
	} else {
		result, err = eng.Execute(ctx, m, opts.Input)
		if result != nil {
			if werr := WriteResult(w, opts.Format, result); werr != nil {
				return werr
			}
		}
	}
	if result == nil {
		return err
	}
	return exitFor(result.Status, err)
}

// exitFor maps the outcome of a run to the error returned by the command.
func exitFor(status domain.Status, err error) error {
	switch {
	case isInterrupted(err):
		return err
	case errors.Is(err, domain.ErrStuck):
		return &ExitError{Code: ExitStuck, Status: status}
	case errors.Is(err, domain.ErrStepLimit):
		return &ExitError{Code: ExitBounded, Status: status}
	case err != nil:
		return err
	case status == domain.StatusRejected:
		return &ExitError{Code: ExitRejected, Status: status}
	}
	return nil
}
