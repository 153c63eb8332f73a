// Package session names the durable storage locations for one working
// context: the content index database and the persisted deletion queue,
// both derived from a single session directory.
package session

import "path/filepath"

const (
	indexFileName = "hashes.db"
	queueFileName = "deletion_queue.json"
)

// Session is an immutable value type. Re-targeting the application to a
// different directory means constructing a new Session, never mutating
// an existing one.
type Session struct {
	dir string
}

// New creates a Session over the given directory.
func New(dir string) *Session {
	return &Session{dir: dir}
}

// Dir returns the session directory.
func (s *Session) Dir() string { return s.dir }

// IndexPath returns the location of the content index database.
func (s *Session) IndexPath() string { return filepath.Join(s.dir, indexFileName) }

// QueuePath returns the location of the persisted deletion queue.
func (s *Session) QueuePath() string { return filepath.Join(s.dir, queueFileName) }
