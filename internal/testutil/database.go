// Package testutil provides test helpers shared by the financas packages:
// an in-memory database and a fluent builder for ledger entries.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/financas/internal/model"
	"github.com/Veraticus/financas/internal/service"
	"github.com/Veraticus/financas/internal/storage"
)

// TestDB represents a test database with associated test utilities.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates a new in-memory test database seeded with entries.
// It automatically handles migrations and cleanup.
//
// Example:
//
//	db := testutil.SetupTestDB(t,
//		testutil.NewEntry("luz").DueOn("2026-02-10").Build(),
//	)
func SetupTestDB(t *testing.T, entries ...model.Lancamento) *TestDB {
	t.Helper()
	return SetupTestDBWithOptions(t, TestDBOptions{Entries: entries})
}

// TestDBOptions provides configuration options for test database setup.
type TestDBOptions struct {
	Clock   service.Clock
	Entries []model.Lancamento
}

// SetupTestDBWithOptions creates a test database with custom options.
func SetupTestDBWithOptions(t *testing.T, opts TestDBOptions) *TestDB {
	t.Helper()

	var storeOpts []storage.Option
	if opts.Clock != nil {
		storeOpts = append(storeOpts, storage.WithClock(opts.Clock))
	}

	store, err := storage.NewSQLiteStorage(":memory:", storeOpts...)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	for i := range opts.Entries {
		if err := store.Create(ctx, &opts.Entries[i]); err != nil {
			t.Fatalf("failed to seed entry %q: %v", opts.Entries[i].ID, err)
		}
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{
		Storage: store,
		t:       t,
	}
}

// MustGet returns the stored entry with the given id or fails the test.
func (db *TestDB) MustGet(id string) model.Lancamento {
	db.t.Helper()
	entry, err := db.Storage.Get(context.Background(), id)
	if err != nil {
		db.t.Fatalf("failed to get entry %q: %v", id, err)
	}
	return *entry
}

// MustList returns every stored entry or fails the test.
func (db *TestDB) MustList() []model.Lancamento {
	db.t.Helper()
	entries, err := db.Storage.List(context.Background())
	if err != nil {
		db.t.Fatalf("failed to list entries: %v", err)
	}
	return entries
}
