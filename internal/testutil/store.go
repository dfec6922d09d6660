package testutil

import (
	"testing"

	"daybook/internal/database"
	"daybook/internal/database/migrations"
	"daybook/internal/journal"
)

// NewTestStore creates a new in-memory SQLite store with schema applied.
// The store is automatically closed when the test completes.
func NewTestStore(t *testing.T) journal.Store {
	t.Helper()

	store, err := database.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}

	if err := migrations.MigrateUp(store.DB()); err != nil {
		store.Close()
		t.Fatalf("failed to apply schema: %v", err)
	}

	t.Cleanup(func() {
		store.Close()
	})

	return store
}

// InsertRaw inserts an entry directly, bypassing the service layer, for
// seeding legacy or duplicate records.
func InsertRaw(t *testing.T, store journal.Store, e *journal.Entry) {
	t.Helper()
	if err := store.Insert(e); err != nil {
		t.Fatalf("failed to insert entry %s: %v", e.ID, err)
	}
}
