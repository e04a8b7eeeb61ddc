package testsupport

import (
	"context"
	"testing"

	"av3atool/internal/config"
	"av3atool/internal/history"
)

// MustOpenHistory opens a history.Store for tests and registers cleanup.
func MustOpenHistory(t testing.TB, cfg *config.Config) *history.Store {
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

// StartRun inserts a running row for tests using the provided store.
func StartRun(t testing.TB, store *history.Store, jobID, flow, input string) *history.Record {
	t.Helper()

	rec, err := store.Start(context.Background(), jobID, flow, input, nil)
	if err != nil {
		t.Fatalf("store.Start: %v", err)
	}
	return rec
}
