package turing

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/internal/runtime"
	"github.com/aretw0/turing/pkg/adapters/file"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/aretw0/turing/pkg/tape"
)

// Version is the library version reported by the CLI and servers.
const Version = "0.3.0"

// Engine is the high-level entry point for the turing library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Engine struct {
	runtime  *runtime.Engine
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	store    ports.ResultStore
	maxSteps int
	blank    byte
	Name     string
}

var _ ports.Runner = (*Engine)(nil)

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMaxSteps bounds every run to n applied transitions (0 = unbounded).
func WithMaxSteps(n int) Option {
	return func(e *Engine) {
		e.maxSteps = n
	}
}

// WithBlank sets the blank symbol (default '\x00').
func WithBlank(symbol byte) Option {
	return func(e *Engine) {
		e.blank = symbol
	}
}

// WithStore persists every finished run in store.
func WithStore(store ports.ResultStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithName labels the engine; the label is attached to logs.
func WithName(name string) Option {
	return func(e *Engine) {
		e.Name = name
	}
}

// New initializes a new Engine.
func New(opts ...Option) *Engine {
	eng := &Engine{blank: tape.Blank}
	for _, opt := range opts {
		opt(eng)
	}

	// Ensure logger is initialized (so we don't pass nil to runtime).
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("machine", eng.Name)
	}

	eng.runtime = runtime.NewEngine(
		runtime.WithLogger(eng.logger),
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithMaxSteps(eng.maxSteps),
		runtime.WithBlank(eng.blank),
	)
	return eng
}

// Load reads and parses a machine description.
func (e *Engine) Load(ctx context.Context, src ports.LineSource) (*domain.Machine, error) {
	return e.runtime.Load(ctx, src)
}

// LoadFile reads a machine description from a file.
func (e *Engine) LoadFile(ctx context.Context, path string) (*domain.Machine, error) {
	src, err := file.Open(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return e.Load(ctx, src)
}

// Execute runs an already loaded machine against input. Accepted and rejected
// runs return a nil error; stuck, bounded or canceled runs return both the
// Result and an error.
func (e *Engine) Execute(ctx context.Context, m *domain.Machine, input string) (*domain.Result, error) {
	result, err := e.runtime.Execute(ctx, m, input)
	return result, e.persist(ctx, result, err)
}

// StepFunc observes one applied transition and the tape right after it.
type StepFunc func(step int, tr domain.Transition, snap tape.Snapshot)

// Trace behaves like Execute and calls fn after every applied transition.
// Copying the tape on every step makes tracing O(tape) per step.
func (e *Engine) Trace(ctx context.Context, m *domain.Machine, input string, fn StepFunc) (*domain.Result, error) {
	result, err := e.runtime.Trace(ctx, m, input, func(run *runtime.Run, tr domain.Transition) {
		fn(run.Steps(), tr, run.Tape())
	})
	return result, e.persist(ctx, result, err)
}

// Run loads a description from src and executes it against input.
// Load and parse failures return a nil Result.
func (e *Engine) Run(ctx context.Context, src ports.LineSource, input string) (*domain.Result, error) {
	m, err := e.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	return e.Execute(ctx, m, input)
}

// RunFile loads the description at path and executes it against input.
func (e *Engine) RunFile(ctx context.Context, path string, input string) (*domain.Result, error) {
	m, err := e.LoadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return e.Execute(ctx, m, input)
}

// Store returns the configured result store, if any.
func (e *Engine) Store() ports.ResultStore {
	return e.store
}

func (e *Engine) persist(ctx context.Context, result *domain.Result, runErr error) error {
	if e.store == nil || result == nil {
		return runErr
	}
	// Persist even when the run was canceled.
	if err := e.store.Save(context.WithoutCancel(ctx), result); err != nil {
		e.logger.Error("failed to save result", "run_id", result.ID, "error", err)
		if runErr == nil {
			return fmt.Errorf("failed to save result: %w", err)
		}
	}
	return runErr
}
