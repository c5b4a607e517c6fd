package journal

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "state", "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	store := openTestStore(t)
	assert.FileExists(t, store.Path())
}

func TestRecordAndGetRun(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	started := time.Now().Add(-time.Second)
	id, err := store.RecordRun(ctx, Run{
		Operation:  "place",
		Root:       "/work",
		StartedAt:  started,
		FinishedAt: time.Now(),
		Succeeded:  2,
		Failed:     1,
		Entries: []EntryRecord{
			{Filename: "a1.txt", Destination: "folder_a", Outcome: "ok"},
			{Filename: "b1.txt", Destination: "folder_b", Outcome: "ok"},
			{Filename: "ghost.txt", Destination: "folder_g", Outcome: "failed",
				FailureKind: "copy", Detail: "no such file"},
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	run, err := store.GetRun(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "place", run.Operation)
	assert.Equal(t, 2, run.Succeeded)
	assert.Equal(t, 1, run.Failed)
	require.Len(t, run.Entries, 3)
	assert.Equal(t, "ghost.txt", run.Entries[2].Filename)
	assert.Equal(t, "copy", run.Entries[2].FailureKind)
	assert.Empty(t, run.Entries[0].FailureKind)
	assert.WithinDuration(t, started, run.StartedAt, time.Millisecond)
}

func TestListRunsNewestFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		_, err := store.RecordRun(ctx, Run{
			Operation:  "place",
			Root:       "/work",
			StartedAt:  base.Add(time.Duration(i) * time.Minute),
			FinishedAt: base.Add(time.Duration(i)*time.Minute + time.Second),
		})
		require.NoError(t, err)
	}

	runs, err := store.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.True(t, runs[0].StartedAt.After(runs[1].StartedAt))
}

func TestGetRunMissing(t *testing.T) {
	store := openTestStore(t)

	_, err := store.GetRun(context.Background(), "no-such-run")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestReopenExistingJournal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "journal.db")

	store, err := Open(path)
	require.NoError(t, err)
	id, err := store.RecordRun(context.Background(), Run{
		Operation: "clean", Root: "/w",
		StartedAt: time.Now(), FinishedAt: time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	run, err := reopened.GetRun(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "clean", run.Operation)
}
