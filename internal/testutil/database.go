// Package testutil provides shared test helpers for smsledger packages.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/smsledger/internal/model"
	"github.com/Veraticus/smsledger/internal/service"
	"github.com/Veraticus/smsledger/internal/storage"
)

// TestDB represents a test database with associated test utilities.
type TestDB struct {
	Storage service.Storage
	t       *testing.T
}

// SetupTestDB creates a migrated in-memory test database that is closed
// when the test finishes.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()
	return SetupTestDBWithOptions(t, TestDBOptions{})
}

// TestDBOptions provides configuration options for test database setup.
type TestDBOptions struct {
	CustomSetup    func(context.Context, service.Storage) error
	Merchants      []model.Merchant
	SkipMigrations bool
}

// SetupTestDBWithOptions creates a test database with custom options.
func SetupTestDBWithOptions(t *testing.T, opts TestDBOptions) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	ctx := context.Background()

	if !opts.SkipMigrations {
		if err := store.Migrate(ctx); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}
	}

	for i := range opts.Merchants {
		if err := store.SaveMerchant(ctx, &opts.Merchants[i]); err != nil {
			t.Fatalf("failed to seed merchant %q: %v", opts.Merchants[i].OriginalName, err)
		}
	}

	if opts.CustomSetup != nil {
		if err := opts.CustomSetup(ctx, store); err != nil {
			t.Fatalf("custom setup failed: %v", err)
		}
	}

	return &TestDB{
		Storage: store,
		t:       t,
	}
}

// MustListTransactions returns every stored transaction or fails the test.
func (db *TestDB) MustListTransactions(filter service.TransactionFilter) []model.Transaction {
	db.t.Helper()
	txns, err := db.Storage.ListTransactions(context.Background(), filter)
	if err != nil {
		db.t.Fatalf("failed to list transactions: %v", err)
	}
	return txns
}
