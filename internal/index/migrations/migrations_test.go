package migrations

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	// In-memory SQLite is per-connection; keep the pool at one so the
	// migration and the assertions see the same database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()

	var count int
	err := db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name,
	).Scan(&count)
	if err != nil {
		t.Fatalf("querying sqlite_master: %v", err)
	}
	return count == 1
}

func TestMigrateUp(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp failed: %v", err)
	}

	for _, table := range []string{"records", "sweeps"} {
		if !tableExists(t, db, table) {
			t.Errorf("table %s missing after migration", table)
		}
	}
}

func TestMigrateUpIsIdempotent(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateUp(db); err != nil {
		t.Fatalf("first MigrateUp failed: %v", err)
	}
	if err := MigrateUp(db); err != nil {
		t.Fatalf("second MigrateUp failed: %v", err)
	}
}
