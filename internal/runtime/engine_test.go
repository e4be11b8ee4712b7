package runtime_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/turing/internal/runtime"
	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, e *runtime.Engine, lines ...string) *domain.Machine {
	t.Helper()
	m, err := e.Load(context.Background(), memory.NewFromLines(lines...))
	require.NoError(t, err)
	return m
}

func TestEngine_ScenarioA_Accepts(t *testing.T) {
	e := runtime.NewEngine()
	m := load(t, e, "q0", "qA", "qR", "(q0,1)->(qA,0,S)")

	result, err := e.Execute(context.Background(), m, "1")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusAccepted, result.Status)
	assert.True(t, result.Accepted())
	assert.Equal(t, "qA", result.State)
	assert.Equal(t, 1, result.Steps)
	assert.Equal(t, byte('0'), result.Symbol())
	assert.Empty(t, result.Error)
}

func TestEngine_ScenarioB_Stuck(t *testing.T) {
	e := runtime.NewEngine()
	m := load(t, e, "q0", "qA", "qR", "(q0,1)->(qA,0,S)")

	result, err := e.Execute(context.Background(), m, "0")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStuck)

	var stuck *domain.StuckError
	require.True(t, errors.As(err, &stuck))
	assert.Equal(t, "q0", stuck.State)
	assert.Equal(t, byte('0'), stuck.Symbol)
	assert.Equal(t, 0, stuck.Step)

	require.NotNil(t, result)
	assert.Equal(t, domain.StatusStuck, result.Status)
	assert.Equal(t, err.Error(), result.Error)
}

func TestEngine_ScenarioD_BinaryIncrement(t *testing.T) {
	e := runtime.NewEngine(runtime.WithBlank('_'))
	m := load(t, e, "q0", "qA", "qR",
		"(q0,1)->(q0,0,G)",
		"(q0,_)->(qA,1,S)",
	)

	result, err := e.Execute(context.Background(), m, "1")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusAccepted, result.Status)
	assert.Equal(t, "10", result.Output)
	assert.Equal(t, byte('1'), result.Symbol())
	assert.Equal(t, 2, result.Steps)
}

func TestEngine_Rejects(t *testing.T) {
	e := runtime.NewEngine(runtime.WithBlank('_'))
	// Accept strings of 1s only: scan right, reject on 0, accept on blank.
	m := load(t, e, "scan", "yes", "no",
		"(scan,1)->(scan,1,D)",
		"(scan,0)->(no,0,S)",
		"(scan,_)->(yes,_,S)",
	)

	accepted, err := e.Execute(context.Background(), m, "111")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAccepted, accepted.Status)
	assert.Equal(t, 4, accepted.Steps)

	rejected, err := e.Execute(context.Background(), m, "1101")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, rejected.Status)
	assert.Equal(t, "no", rejected.State)
	assert.Equal(t, 3, rejected.Steps)
}

func TestEngine_InitialHaltingState(t *testing.T) {
	e := runtime.NewEngine()
	m := &domain.Machine{Initial: "qA", Accept: "qA", Reject: "qR"}

	result, err := e.Execute(context.Background(), m, "anything")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAccepted, result.Status)
	assert.Equal(t, 0, result.Steps)
}

func TestEngine_AcceptCheckedBeforeReject(t *testing.T) {
	e := runtime.NewEngine()
	m := &domain.Machine{Initial: "q", Accept: "q", Reject: "q"}

	result, err := e.Execute(context.Background(), m, "")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAccepted, result.Status)
}

func TestEngine_FirstMatchingRuleWins(t *testing.T) {
	e := runtime.NewEngine()
	m := load(t, e, "q0", "qA", "qR",
		"(q0,1)->(qR,1,S)",
		"(q0,1)->(qA,1,S)",
	)

	result, err := e.Execute(context.Background(), m, "1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, result.Status)
}

// loopForever moves right over blanks indefinitely.
func loopForever(t *testing.T, e *runtime.Engine) *domain.Machine {
	return load(t, e, "q0", "qA", "qR", "(q0,_)->(q0,_,D)")
}

func TestEngine_MaxSteps(t *testing.T) {
	e := runtime.NewEngine(runtime.WithBlank('_'), runtime.WithMaxSteps(100))
	m := loopForever(t, e)

	result, err := e.Execute(context.Background(), m, "")
	assert.ErrorIs(t, err, domain.ErrStepLimit)
	assert.Equal(t, domain.StatusRunning, result.Status)
	assert.Equal(t, 100, result.Steps)
	assert.Equal(t, 100, result.Head)
}

func TestEngine_ContextCancellation(t *testing.T) {
	e := runtime.NewEngine(runtime.WithBlank('_'))
	m := loopForever(t, e)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	result, err := e.Execute(ctx, m, "")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, domain.StatusRunning, result.Status)
	assert.Positive(t, result.Steps)
}

func TestEngine_LifecycleHooks(t *testing.T) {
	var started, ended int
	var steps []int
	var final *domain.Result

	hooks := domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *domain.RunEvent) {
			started++
			assert.Equal(t, "q0", e.State)
			assert.Equal(t, "run-1", e.RunID)
		},
		OnStep: func(ctx context.Context, e *domain.StepEvent) {
			steps = append(steps, e.Step)
		},
		OnRunEnd: func(ctx context.Context, e *domain.HaltEvent) {
			ended++
			final = e.Result
			assert.NoError(t, e.Err)
		},
	}

	e := runtime.NewEngine(
		runtime.WithBlank('_'),
		runtime.WithLifecycleHooks(hooks),
		runtime.WithIDGenerator(func() string { return "run-1" }),
	)
	m := load(t, e, "q0", "qA", "qR", "(q0,1)->(q0,0,G)", "(q0,_)->(qA,1,S)")

	result, err := e.Execute(context.Background(), m, "1")
	require.NoError(t, err)

	assert.Equal(t, 1, started)
	assert.Equal(t, 1, ended)
	assert.Equal(t, []int{1, 2}, steps)
	assert.Same(t, result, final)
	assert.Equal(t, "run-1", result.ID)
}

func TestEngine_MachineReuse(t *testing.T) {
	// A loaded machine is immutable: runs never see each other's tape.
	e := runtime.NewEngine(runtime.WithBlank('_'))
	m := load(t, e, "q0", "qA", "qR", "(q0,1)->(q0,0,G)", "(q0,_)->(qA,1,S)")

	first, err := e.Execute(context.Background(), m, "1")
	require.NoError(t, err)
	second, err := e.Execute(context.Background(), m, "1")
	require.NoError(t, err)

	assert.Equal(t, first.Output, second.Output)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestEngine_Trace(t *testing.T) {
	e := runtime.NewEngine(runtime.WithBlank('_'))
	m := load(t, e, "q0", "qA", "qR", "(q0,1)->(q0,0,G)", "(q0,_)->(qA,1,S)")

	var tapes []string
	result, err := e.Trace(context.Background(), m, "1", func(run *runtime.Run, tr domain.Transition) {
		tapes = append(tapes, string(run.Tape().Cells))
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"_0", "10"}, tapes)
	assert.Equal(t, domain.StatusAccepted, result.Status)
}
