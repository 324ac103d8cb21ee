package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/neurofit/internal/db"
)

// NewTestDB returns a migrated in-memory store that lives for the test.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	return openStore(t, db.MemoryPath)
}

// NewTestFileDB returns a migrated store in a WAL file under t.TempDir, along
// with its path so a test can reopen it.
func NewTestFileDB(t *testing.T) (*sql.DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "neurofit.db")
	return openStore(t, path), path
}

func openStore(t *testing.T, path string) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(path)
	if err != nil {
		t.Fatalf("opening store %s: %v", path, err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}

// NewTestUoW wraps database in the transaction runner the services use.
func NewTestUoW(database *sql.DB) *db.SQLiteUnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}
