package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "turing"

// Metrics holds the Prometheus collectors updated by the engine hooks.
type Metrics struct {
	Runs        *prometheus.CounterVec
	Steps       *prometheus.CounterVec
	Transitions *prometheus.CounterVec
	Duration    *prometheus.HistogramVec
	Active      prometheus.Gauge
}

// NewMetrics creates unregistered collectors.
func NewMetrics() *Metrics {
	return &Metrics{
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Total number of finished runs by final status",
			},
			[]string{"machine", "status"},
		),
		Steps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "steps_total",
				Help:      "Total number of applied transitions",
			},
			[]string{"machine"},
		),
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "state_visits_total",
				Help:      "Total number of transitions into each state",
			},
			[]string{"machine", "state"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Duration of runs",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
			[]string{"machine"},
		),
		Active: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "runs_active",
				Help:      "Number of runs in progress",
			},
		),
	}
}

// MustRegister registers every collector with r.
func (m *Metrics) MustRegister(r prometheus.Registerer) {
	r.MustRegister(m.Runs, m.Steps, m.Transitions, m.Duration, m.Active)
}

// Hooks returns lifecycle hooks recording into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *domain.RunEvent) {
			m.Active.Inc()
		},
		OnStep: func(ctx context.Context, e *domain.StepEvent) {
			m.Steps.WithLabelValues(e.Machine).Inc()
			m.Transitions.WithLabelValues(e.Machine, e.Transition.To).Inc()
		},
		OnRunEnd: func(ctx context.Context, e *domain.HaltEvent) {
			m.Active.Dec()
			if e.Result == nil {
				return
			}
			m.Runs.WithLabelValues(e.Machine, string(e.Result.Status)).Inc()
			m.Duration.WithLabelValues(e.Machine).Observe(e.Result.Duration.Seconds())
		},
	}
}

// LoggingHooks returns hooks writing one structured record per event.
// Step records are emitted at Debug level.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *domain.RunEvent) {
			logger.InfoContext(ctx, "run_start", "run_id", e.RunID, "machine", e.Machine, "state", e.State)
		},
		OnStep: func(ctx context.Context, e *domain.StepEvent) {
			logger.DebugContext(ctx, "step", "run_id", e.RunID, "step", e.Step, "transition", e.Transition.String())
		},
		OnRunEnd: func(ctx context.Context, e *domain.HaltEvent) {
			attrs := []any{"run_id", e.RunID, "machine", e.Machine}
			if e.Result != nil {
				attrs = append(attrs, "status", e.Result.Status, "steps", e.Result.Steps)
			}
			if e.Err != nil {
				attrs = append(attrs, "error", e.Err)
			}
			logger.InfoContext(ctx, "run_end", attrs...)
		},
	}
}
