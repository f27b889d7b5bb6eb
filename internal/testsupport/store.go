package testsupport

import (
	"context"
	"testing"

	"cinematch/internal/config"
	"cinematch/internal/history"
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

// RecordBuild stores a minimal build record and returns it.
func RecordBuild(t testing.TB, store *history.Store, profiles int) history.Build {
	t.Helper()

	build, err := store.RecordBuild(context.Background(), history.Build{
		MinAvgRating: 3.5,
		Profiles:     profiles,
	})
	if err != nil {
		t.Fatalf("store.RecordBuild: %v", err)
	}
	return build
}
