// Package index implements the durable content index: a SQLite store
// of (path, content-hash) records for files swept into a session, plus
// the sweep history.
package index

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/OmbraDiFenice/dupe-remover/internal/clones"
	"github.com/OmbraDiFenice/dupe-remover/internal/index/migrations"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteIndex implements the clones.Index interface using SQLite.
type SQLiteIndex struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the index database at the given path and
// brings its schema up to date. path can be a file path or ":memory:"
// for an in-memory index.
func Open(path string) (*SQLiteIndex, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating index schema: %w", err)
	}

	return &SQLiteIndex{db: db, path: path}, nil
}

// OpenConnection opens and configures a SQLite database connection.
// Exported for tools and tests that need a configured connection
// without the migration step.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign key constraints (SQLite default is OFF for backward compatibility)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// Reset discards all file records. The sweep history survives a reset;
// only the swept (path, hash) records are unrecoverable afterwards.
// Safe to call on a freshly created index.
func (s *SQLiteIndex) Reset() error {
	if _, err := s.db.Exec("DELETE FROM records"); err != nil {
		return fmt.Errorf("resetting index: %w", err)
	}
	return nil
}

// Store classifies the file by extension, hashes its content, and
// appends a (path, hash) record. Files outside the allow-list return
// clones.ErrUnsupported. The same path may be stored more than once;
// the index is a flat record store, not a set.
func (s *SQLiteIndex) Store(path string) error {
	if !isSupported(path) {
		return fmt.Errorf("%s: %w", path, clones.ErrUnsupported)
	}

	hash, err := hashFile(path)
	if err != nil {
		return fmt.Errorf("hashing %s: %w", path, err)
	}

	if _, err := s.db.Exec("INSERT INTO records (path, hash) VALUES (?, ?)", path, hash); err != nil {
		return fmt.Errorf("inserting record for %s: %w", path, err)
	}
	return nil
}

// FindDuplicateGroups returns every group of 2+ records sharing a hash.
// Groups are ordered by hash and each group's files are sorted
// lexicographically, so the result is deterministic for a given record
// set.
func (s *SQLiteIndex) FindDuplicateGroups() ([]clones.Duplicate, error) {
	rows, err := s.db.Query("SELECT hash FROM records GROUP BY hash HAVING COUNT(hash) > 1 ORDER BY hash")
	if err != nil {
		return nil, fmt.Errorf("querying duplicate hashes: %w", err)
	}
	defer rows.Close()

	var hashes []string
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return nil, fmt.Errorf("scanning duplicate hash: %w", err)
		}
		hashes = append(hashes, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading duplicate hashes: %w", err)
	}

	duplicates := make([]clones.Duplicate, 0, len(hashes))
	for _, h := range hashes {
		files, err := s.findAllWithHash(h)
		if err != nil {
			return nil, err
		}
		duplicates = append(duplicates, clones.Duplicate{ContentHash: h, Files: files})
	}
	return duplicates, nil
}

// findAllWithHash returns all paths recorded with the given hash,
// sorted lexicographically.
func (s *SQLiteIndex) findAllWithHash(hash string) ([]string, error) {
	rows, err := s.db.Query("SELECT path FROM records WHERE hash = ? ORDER BY path", hash)
	if err != nil {
		return nil, fmt.Errorf("querying paths for hash %s: %w", hash, err)
	}
	defer rows.Close()

	var files []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scanning path: %w", err)
		}
		files = append(files, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading paths: %w", err)
	}
	return files, nil
}

// Remove deletes every record whose path is in the duplicate's files.
// All deletions happen in one transaction.
func (s *SQLiteIndex) Remove(d clones.Duplicate) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	for _, path := range d.Files {
		if _, err := tx.Exec("DELETE FROM records WHERE path = ?", path); err != nil {
			return fmt.Errorf("deleting record for %s: %w", path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Sweep history

// CreateSweep records the start of a sweep and returns its ID.
func (s *SQLiteIndex) CreateSweep(root string, startedAt time.Time) (string, error) {
	id := uuid.New().String()
	_, err := s.db.Exec(
		"INSERT INTO sweeps (id, root, started_at, status) VALUES (?, ?, ?, 'running')",
		id, root, startedAt,
	)
	if err != nil {
		return "", fmt.Errorf("creating sweep record: %w", err)
	}
	return id, nil
}

// FinishSweep finalizes a sweep record with its outcome counts.
func (s *SQLiteIndex) FinishSweep(id string, status string, indexed, skipped, failed int64, finishedAt time.Time) error {
	_, err := s.db.Exec(
		"UPDATE sweeps SET finished_at = ?, status = ?, indexed = ?, skipped = ?, failed = ? WHERE id = ?",
		finishedAt, status, indexed, skipped, failed, id,
	)
	if err != nil {
		return fmt.Errorf("finishing sweep record: %w", err)
	}
	return nil
}

// ListSweeps returns the most recent sweep records, newest first.
func (s *SQLiteIndex) ListSweeps(limit int) ([]*clones.SweepRecord, error) {
	rows, err := s.db.Query(
		"SELECT id, root, started_at, finished_at, status, indexed, skipped, failed FROM sweeps ORDER BY started_at DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing sweeps: %w", err)
	}
	defer rows.Close()

	var records []*clones.SweepRecord
	for rows.Next() {
		var r clones.SweepRecord
		if err := rows.Scan(&r.ID, &r.Root, &r.StartedAt, &r.FinishedAt, &r.Status, &r.Indexed, &r.Skipped, &r.Failed); err != nil {
			return nil, fmt.Errorf("scanning sweep record: %w", err)
		}
		records = append(records, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading sweep records: %w", err)
	}
	return records, nil
}

// Path returns the database file path (or ":memory:" for in-memory indexes).
func (s *SQLiteIndex) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *SQLiteIndex) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Compile-time check that SQLiteIndex implements clones.Index
var _ clones.Index = (*SQLiteIndex)(nil)
