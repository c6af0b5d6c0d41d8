package testsupport

import (
	"context"
	"testing"

	"dbvoir/internal/config"
	"dbvoir/internal/ledger"
)

// MustOpenStore opens a ledger.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *ledger.Store {
	t.Helper()

	store, err := ledger.Open(cfg)
	if err != nil {
		t.Fatalf("ledger.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// Enqueue records a download for tests using the provided store.
func Enqueue(t testing.TB, store *ledger.Store, sourcePath string) *ledger.Item {
	t.Helper()

	item, _, err := store.Enqueue(context.Background(), sourcePath)
	if err != nil {
		t.Fatalf("store.Enqueue: %v", err)
	}
	return item
}
