package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventRunStart EventType = "run_start"
	EventStep     EventType = "step"
	EventRunEnd   EventType = "run_end"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	RunID     string    `json:"run_id"`
	Machine   string    `json:"machine,omitempty"`
}

// RunEvent marks the start of a run.
type RunEvent struct {
	EventBase
	Input string `json:"input"`
	State string `json:"state"`
}

// StepEvent describes one applied transition.
type StepEvent struct {
	EventBase
	Step       int        `json:"step"`
	Transition Transition `json:"transition"`
}

// HaltEvent marks the end of a run, whatever its outcome.
type HaltEvent struct {
	EventBase
	Result *Result `json:"result"`
	Err    error   `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
// Hooks run synchronously on the engine's goroutine.
type LifecycleHooks struct {
	OnRunStart func(context.Context, *RunEvent)
	OnStep     func(context.Context, *StepEvent)
	OnRunEnd   func(context.Context, *HaltEvent)
}

// Merge returns hooks calling h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnRunStart: chain(h.OnRunStart, other.OnRunStart),
		OnStep:     chain(h.OnStep, other.OnStep),
		OnRunEnd:   chain(h.OnRunEnd, other.OnRunEnd),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
