// Package testutil provides test helpers shared across packages.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Veraticus/spice-rules/internal/model"
	"github.com/Veraticus/spice-rules/internal/storage"
)

// TestDB is a migrated database in a temporary directory, closed when the
// test ends. Commands under test can open the same file via Path.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates a new test database seeded with txns.
// It automatically handles migrations and cleanup.
//
// Example:
//
//	db := testutil.SetupTestDB(t,
//		testutil.Categorized("1", "2024-01-15", "CHIPOTLE", -12.5, "Food"),
//	)
func SetupTestDB(t *testing.T, txns ...model.CategorizedTransaction) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "spice.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	if len(txns) > 0 {
		if _, err := store.SaveCategorized(ctx, txns); err != nil {
			t.Fatalf("failed to seed transactions: %v", err)
		}
	}

	return &TestDB{Storage: store, t: t}
}

// Path returns the database file path.
func (db *TestDB) Path() string {
	return db.Storage.Path()
}

// Categorized builds a categorized transaction for seeding.
func Categorized(id, date, description string, amount float64, category string) model.CategorizedTransaction {
	return model.Transaction{
		ID:          id,
		Date:        date,
		Description: description,
		Amount:      amount,
	}.WithCategory(category)
}

// MustCategory returns the stored category of the transaction with id or fails the test.
func (db *TestDB) MustCategory(id string) string {
	db.t.Helper()

	txns, err := db.Storage.GetTransactions(context.Background(), "")
	if err != nil {
		db.t.Fatalf("failed to load transactions: %v", err)
	}
	for _, txn := range txns {
		if txn.ID == id {
			return txn.Category
		}
	}
	db.t.Fatalf("transaction %q not found", id)
	return ""
}
