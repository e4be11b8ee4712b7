package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const desc = "q0\nqA\nqR\n(q0,1)->(q0,1,D)\n(q0,0)->(qR,0,S)\n"

func TestMetrics_Hooks(t *testing.T) {
	m := observability.NewMetrics()
	reg := prometheus.NewRegistry()
	m.MustRegister(reg)

	eng := turing.New(turing.WithLifecycleHooks(m.Hooks()))
	ctx := context.Background()

	_, err := eng.Run(ctx, memory.NewSource(desc), "110")
	require.NoError(t, err)
	_, err = eng.Run(ctx, memory.NewSource(desc), "2")
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs.WithLabelValues("", "rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs.WithLabelValues("", "stuck")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Steps.WithLabelValues("")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Transitions.WithLabelValues("", "q0")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitions.WithLabelValues("", "qR")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Active))
	assert.Equal(t, 1, testutil.CollectAndCount(m.Duration))
}

func TestMetrics_DoubleRegisterPanics(t *testing.T) {
	m := observability.NewMetrics()
	reg := prometheus.NewRegistry()
	m.MustRegister(reg)
	assert.Panics(t, func() { m.MustRegister(reg) })
}

func TestLoggingHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	eng := turing.New(turing.WithLifecycleHooks(observability.LoggingHooks(logger)))
	_, err := eng.Run(context.Background(), memory.NewSource(desc), "10")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "msg=run_start")
	assert.Contains(t, out, "msg=step")
	assert.Contains(t, out, "transition=(q0,1)->(q0,1,D)")
	assert.Contains(t, out, "msg=run_end")
	assert.Contains(t, out, "status=rejected")
	assert.NotContains(t, out, "error=")
}
