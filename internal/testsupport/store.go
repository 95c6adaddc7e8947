package testsupport

import (
	"context"
	"testing"
	"time"

	"chapterize/internal/config"
	"chapterize/internal/history"
)

// MustOpenStore opens a history.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	store, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewRun inserts a finished run for tests using the provided store. Fields not
// derivable from the arguments get plausible defaults.
func NewRun(t testing.TB, store *history.Store, runID, input string, status history.Status) *history.Run {
	t.Helper()

	started := time.Now().UTC().Add(-time.Minute)
	run := &history.Run{
		RunID:        runID,
		Input:        input,
		OutputDir:    "/tmp/out",
		Method:       "metadata",
		Format:       "mp3",
		Bitrate:      "128k",
		ChapterCount: 3,
		Status:       status,
		StartedAt:    started,
		FinishedAt:   started.Add(30 * time.Second),
	}
	if err := store.Insert(context.Background(), run); err != nil {
		t.Fatalf("store.Insert: %v", err)
	}
	return run
}
