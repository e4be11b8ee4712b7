package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/turing/pkg/adapters/sqlite"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) (*sqlite.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "runs.db")
	store, err := sqlite.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, path
}

func TestSQLiteStore_Contract(t *testing.T) {
	store, _ := openStore(t)
	ports.RunResultStoreContract(t, store)
}

func TestSQLiteStore_Migrated(t *testing.T) {
	store, _ := openStore(t)

	version, err := store.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
}

func TestSQLiteStore_Reopen(t *testing.T) {
	store, path := openStore(t)
	ctx := context.Background()

	result := &domain.Result{ID: "r1", Machine: "inc", Status: domain.StatusAccepted, State: "qA", Cells: "\x0010", Head: 1}
	require.NoError(t, store.Save(ctx, result))
	require.NoError(t, store.Close())

	again, err := sqlite.Open(path)
	require.NoError(t, err)
	defer again.Close()

	loaded, err := again.Load(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "\x0010", loaded.Cells)
	assert.Equal(t, byte('1'), loaded.Symbol())
}

func TestSQLiteStore_Upsert(t *testing.T) {
	store, _ := openStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &domain.Result{ID: "r1", Status: domain.StatusRunning, Steps: 1}))
	require.NoError(t, store.Save(ctx, &domain.Result{ID: "r1", Status: domain.StatusRejected, Steps: 7}))

	loaded, err := store.Load(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, loaded.Status)
	assert.Equal(t, 7, loaded.Steps)

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"r1"}, ids)
}

func TestSQLiteStore_ListOrderAndCounts(t *testing.T) {
	store, _ := openStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(ctx, &domain.Result{ID: "b", Status: domain.StatusAccepted, StartedAt: base.Add(time.Second)}))
	require.NoError(t, store.Save(ctx, &domain.Result{ID: "a", Status: domain.StatusStuck, StartedAt: base.Add(2 * time.Second), Error: "stuck: no transition"}))
	require.NoError(t, store.Save(ctx, &domain.Result{ID: "c", Status: domain.StatusAccepted, StartedAt: base}))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, ids)

	failed, err := store.Failed(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, failed)

	counts, err := store.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[domain.Status]int{domain.StatusAccepted: 2, domain.StatusStuck: 1}, counts)
}

func TestSQLiteStore_NotFound(t *testing.T) {
	store, _ := openStore(t)

	_, err := store.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrResultNotFound)
	assert.NoError(t, store.Delete(context.Background(), "missing"))
}
