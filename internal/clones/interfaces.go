package clones

import (
	"errors"
	"io"
	"io/fs"
	"time"
)

// ErrUnsupported is returned by Index.Store for files whose extension is
// not in the allow-list. Callers treat it as a skip, not a failure.
var ErrUnsupported = errors.New("unsupported file type")

// Index is the durable content index: (path, hash) records swept into a
// session, plus the sweep history.
type Index interface {
	// Reset discards all file records. Safe to call on a fresh index.
	// Sweep history is preserved.
	Reset() error

	// Store hashes the file and appends a (path, hash) record.
	// Returns ErrUnsupported for files outside the extension allow-list.
	Store(path string) error

	// FindDuplicateGroups returns all groups of 2+ records sharing a
	// hash, each group's members sorted lexicographically. Deterministic
	// for a given record set.
	FindDuplicateGroups() ([]Duplicate, error)

	// Remove deletes every record whose path is in the duplicate's files.
	Remove(d Duplicate) error

	// Sweep history

	CreateSweep(root string, startedAt time.Time) (string, error)
	FinishSweep(id string, status string, indexed, skipped, failed int64, finishedAt time.Time) error
	ListSweeps(limit int) ([]*SweepRecord, error)

	// Close closes the underlying store.
	Close() error
}

// Queue holds at most one pending deletion decision per duplicate group,
// keyed by content hash, in insertion order.
type Queue interface {
	// Add upserts a decision. If the group already has an entry, only its
	// ToKeep is replaced. Returns an error if toKeep is not a member of
	// the duplicate's files.
	Add(d Duplicate, toKeep string) error

	// Remove drops the entry for the duplicate's hash; no-op if absent.
	Remove(d Duplicate)

	// Get returns the entry for a content hash, or nil.
	Get(contentHash string) *DeletionEntry

	// Clear empties the queue.
	Clear()

	// Len returns the number of pending entries.
	Len() int

	// Entries returns a snapshot of the entries in insertion order.
	Entries() []*DeletionEntry

	// Preview renders a human-readable summary of the queue.
	Preview() string

	// Persist writes the queue as a single JSON document to its session's
	// queue location, overwriting any existing file.
	Persist() error
}

// FilesystemManager abstracts filesystem access so the service can be
// tested against a scratch tree and so all OS calls live in one place.
type FilesystemManager interface {
	// Resolve converts a raw path to an absolute path and verifies it exists.
	Resolve(rawPath string) (string, error)

	// Walk visits every entry under root. fn receives regular file paths
	// with a nil error; entries the walker could not read are passed
	// through with their error so the caller can decide whether to
	// continue. fn returning an error aborts the walk.
	Walk(root string, fn func(path string, err error) error) error

	// Open opens a file for reading.
	Open(path string) (io.ReadCloser, error)

	// Create creates or truncates a file for writing.
	Create(path string) (io.WriteCloser, error)

	// Stat returns file info for a path.
	Stat(path string) (fs.FileInfo, error)

	// Exists reports whether a path exists.
	Exists(path string) bool

	// Remove deletes a file.
	Remove(path string) error

	// IsIgnored reports whether the path matches the configured ignore
	// patterns, relative to root.
	IsIgnored(path string, root string) (bool, error)
}

// Trash archives file content by checksum before deletion so an executed
// deletion can be undone. Put is idempotent per checksum.
type Trash interface {
	Put(checksum string, r io.Reader, size int64) error
	Get(checksum string, w io.Writer) error
	Validate() error
}

// Encryptor encrypts content headed for the trash.
type Encryptor interface {
	Setup(passphrase string) error
	Encrypt(r io.Reader, w io.Writer) error
	Unlock(passphrase string) (DecryptionContext, error)
	IsConfigured() bool
}

// DecryptionContext holds an unlocked key for decrypting trashed content.
type DecryptionContext interface {
	Decrypt(r io.Reader, w io.Writer) error
}

// Logger is the minimal logging interface used by the service.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}
