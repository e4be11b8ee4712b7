package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/turing/internal/compiler"
	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/tape"
	"github.com/google/uuid"
)

// Engine is the core machine runner. It holds configuration only; every run
// owns its own tape, so an Engine is safe for concurrent use.
type Engine struct {
	parser   *compiler.Parser
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
	maxSteps int
	blank    byte
	newID    func() string
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithMaxSteps bounds the number of applied transitions per run.
// Zero (the default) means unbounded: a run may then never return.
func WithMaxSteps(n int) EngineOption {
	return func(e *Engine) {
		e.maxSteps = n
	}
}

// WithBlank sets the blank symbol used for unwritten cells.
func WithBlank(symbol byte) EngineOption {
	return func(e *Engine) {
		e.blank = symbol
	}
}

// WithIDGenerator overrides how run IDs are generated.
func WithIDGenerator(fn func() string) EngineOption {
	return func(e *Engine) {
		e.newID = fn
	}
}

// NewEngine creates a new engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		parser: compiler.NewParser(),
		logger: logging.NewNop(),
		blank:  tape.Blank,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs m against input until it halts, gets stuck, exceeds the step
// bound or ctx is done. A Result is always returned; the error is non-nil for
// every outcome other than accept or reject.
//
// Without a step bound and with a non-cancellable context, Execute returns
// only if the machine halts on input, which is undecidable in general.
func (e *Engine) Execute(ctx context.Context, m *domain.Machine, input string) (*domain.Result, error) {
	return e.drive(ctx, m, input, nil)
}

// TraceFunc observes a run after every applied transition.
type TraceFunc func(run *Run, tr domain.Transition)

// Trace behaves like Execute and calls fn after every applied transition,
// with the run available for tape inspection.
func (e *Engine) Trace(ctx context.Context, m *domain.Machine, input string, fn TraceFunc) (*domain.Result, error) {
	return e.drive(ctx, m, input, fn)
}

func (e *Engine) drive(ctx context.Context, m *domain.Machine, input string, trace TraceFunc) (*domain.Result, error) {
	result := &domain.Result{
		ID:        e.newID(),
		Machine:   m.Name,
		Input:     input,
		StartedAt: time.Now().UTC(),
	}
	base := func(t domain.EventType) domain.EventBase {
		return domain.EventBase{Timestamp: time.Now(), Type: t, RunID: result.ID, Machine: m.Name}
	}

	run := NewRun(m, input, e.blank)
	if e.hooks.OnRunStart != nil {
		e.hooks.OnRunStart(ctx, &domain.RunEvent{EventBase: base(domain.EventRunStart), Input: input, State: m.Initial})
	}
	e.logger.Debug("run started", "run_id", result.ID, "state", m.Initial, "input_len", len(input))

	debug := e.logger.Enabled(ctx, slog.LevelDebug)
	var err error
	for run.Status() == domain.StatusRunning {
		if err = ctx.Err(); err != nil {
			break
		}
		if e.maxSteps > 0 && run.Steps() >= e.maxSteps {
			err = fmt.Errorf("%w: %d", domain.ErrStepLimit, e.maxSteps)
			break
		}

		var tr domain.Transition
		tr, err = run.Step()
		if err != nil {
			break
		}
		if debug {
			e.logger.Debug("step", "run_id", result.ID, "step", run.Steps(), "transition", tr.String())
		}
		if trace != nil {
			trace(run, tr)
		}
		if e.hooks.OnStep != nil {
			e.hooks.OnStep(ctx, &domain.StepEvent{EventBase: base(domain.EventStep), Step: run.Steps(), Transition: tr})
		}
	}

	snap := run.Tape()
	result.Status = run.Status()
	result.State = run.State()
	result.Steps = run.Steps()
	result.Cells = string(snap.Cells)
	result.Head = snap.Head
	result.Output = snap.String()
	result.Duration = time.Since(result.StartedAt)
	if err != nil {
		result.Error = err.Error()
	}

	if e.hooks.OnRunEnd != nil {
		e.hooks.OnRunEnd(ctx, &domain.HaltEvent{EventBase: base(domain.EventRunEnd), Result: result, Err: err})
	}
	attrs := []any{
		"run_id", result.ID,
		"status", result.Status,
		"state", result.State,
		"steps", result.Steps,
		"duration", result.Duration,
	}
	if err != nil {
		attrs = append(attrs, "error", err)
	}
	e.logger.Info("run finished", attrs...)
	return result, err
}
