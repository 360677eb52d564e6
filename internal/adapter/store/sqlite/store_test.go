package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/bkyoung/gridbench/internal/usecase/solve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleRun(id string) solve.StoreRun {
	return solve.StoreRun{
		RunID:     id,
		Timestamp: time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC),
		Model:     "gpt-5-nano-high",
		DataDir:   "data/evaluation",
		CorpusRev: "deadbeef",
	}
}

func TestCreateRunAndUpdateCost(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateRun(ctx, sampleRun("run-1")))
	require.NoError(t, store.UpdateRunCost(ctx, "run-1", 1.23))

	runs, err := store.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-1", runs[0].RunID)
	assert.Equal(t, "gpt-5-nano-high", runs[0].Model)
	assert.Equal(t, "deadbeef", runs[0].CorpusRev)
	assert.InDelta(t, 1.23, runs[0].TotalCost, 1e-9)
}

func TestCreateRunDuplicateID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateRun(ctx, sampleRun("run-1")))
	assert.Error(t, store.CreateRun(ctx, sampleRun("run-1")))
}

func TestUpdateRunCostUnknownRun(t *testing.T) {
	store := newTestStore(t)
	err := store.UpdateRunCost(context.Background(), "missing", 0.5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSaveAttemptCounts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateRun(ctx, sampleRun("run-1")))

	attempts := []solve.StoreAttempt{
		{RunID: "run-1", TaskID: "t1", Slot: 1, Status: "success", PromptTokens: 100, OutputTokens: 50, ReasoningTokens: 30, Cost: 0.01, Duration: 2 * time.Second, CreatedAt: time.Now()},
		{RunID: "run-1", TaskID: "t1", Slot: 2, Status: "exhausted", ErrorKind: "provider error", CreatedAt: time.Now()},
		{RunID: "run-1", TaskID: "t2", Slot: 1, Status: "failed", ErrorKind: "config error", CreatedAt: time.Now()},
	}
	for _, a := range attempts {
		require.NoError(t, store.SaveAttempt(ctx, a))
	}

	runs, err := store.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 3, runs[0].Attempts)
	assert.Equal(t, 1, runs[0].Succeeded)
}

func TestSaveAttemptRejectsUnknownStatus(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateRun(ctx, sampleRun("run-1")))
	err := store.SaveAttempt(ctx, solve.StoreAttempt{
		RunID: "run-1", TaskID: "t1", Slot: 1, Status: "bogus", CreatedAt: time.Now(),
	})
	assert.Error(t, err)
}

func TestSaveAttemptRequiresRun(t *testing.T) {
	store := newTestStore(t)
	err := store.SaveAttempt(context.Background(), solve.StoreAttempt{
		RunID: "missing", TaskID: "t1", Slot: 1, Status: "success", CreatedAt: time.Now(),
	})
	assert.Error(t, err, "foreign key enforcement")
}

func TestListRunsNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	older := sampleRun("run-old")
	older.Timestamp = time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	newer := sampleRun("run-new")
	newer.Timestamp = time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.CreateRun(ctx, older))
	require.NoError(t, store.CreateRun(ctx, newer))

	runs, err := store.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-new", runs[0].RunID)
	assert.Equal(t, "run-old", runs[1].RunID)
}
