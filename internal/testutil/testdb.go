package testutil

import (
	"database/sql"
	"testing"

	"github.com/alexanderramin/fieldplan/internal/db"
	"github.com/alexanderramin/fieldplan/internal/domain"
)

// NewTestDB opens a migrated in-memory planning database that lives until
// the test ends.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

// NewSeededDB is NewTestDB with TestCatalogs already stored.
func NewSeededDB(t *testing.T) (*sql.DB, *domain.Catalogs) {
	t.Helper()
	database := NewTestDB(t)
	return database, SeedCatalogs(t, database)
}

func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}
