package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunResultStoreContract runs a suite of tests to verify that a ResultStore
// implementation adheres to the defined interface contract.
func RunResultStoreContract(t *testing.T, store ResultStore) {
	ctx := context.Background()
	runID := "contract-test-run-" + time.Now().Format("20060102150405")

	newResult := func(id string) *domain.Result {
		return &domain.Result{
			ID:        id,
			Machine:   "inc",
			Input:     "1",
			Status:    domain.StatusAccepted,
			State:     "qA",
			Steps:     2,
			Cells:     "\x0010",
			Head:      1,
			Output:    "10",
			StartedAt: time.Now().UTC().Truncate(time.Second),
			Duration:  3 * time.Millisecond,
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		result := newResult(runID)

		err := store.Save(ctx, result)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, runID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, result.Status, loaded.Status)
		assert.Equal(t, result.State, loaded.State)
		assert.Equal(t, result.Steps, loaded.Steps)
		assert.Equal(t, result.Cells, loaded.Cells, "blank cells survive persistence")
		assert.Equal(t, result.Head, loaded.Head)
		assert.Equal(t, byte('1'), loaded.Symbol())
		assert.True(t, result.StartedAt.Equal(loaded.StartedAt))
	})

	t.Run("Load Isolation", func(t *testing.T) {
		loaded, err := store.Load(ctx, runID)
		require.NoError(t, err)
		loaded.State = "mutated"

		again, err := store.Load(ctx, runID)
		require.NoError(t, err)
		assert.Equal(t, "qA", again.State, "mutating a loaded result must not affect the store")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+runID)
		assert.ErrorIs(t, err, domain.ErrResultNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, newResult(runID))
		require.NoError(t, err)

		err = store.Delete(ctx, runID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, runID)
		assert.ErrorIs(t, err, domain.ErrResultNotFound, "Load after Delete should return ErrResultNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := runID + "-1"
		id2 := runID + "-2"
		_ = store.Save(ctx, newResult(id1))
		_ = store.Save(ctx, newResult(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
