// Package queue implements the deletion queue: the stateful collection
// of pending keep/delete decisions, one per duplicate group, persisted
// as a JSON document in the session directory.
package queue

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/OmbraDiFenice/dupe-remover/internal/clones"
	"github.com/OmbraDiFenice/dupe-remover/internal/session"
)

// DeletionQueue holds at most one DeletionEntry per content hash. The
// slice preserves insertion order for stable iteration and persistence;
// the map gives hash lookups. The queue file is owned by exactly one
// session at a time and all mutation is serialized through the mutex.
type DeletionQueue struct {
	session *session.Session

	mu      sync.Mutex
	entries []*clones.DeletionEntry
	byHash  map[string]*clones.DeletionEntry
}

var _ clones.Queue = (*DeletionQueue)(nil)

// New creates an empty queue bound to the given session.
func New(s *session.Session) *DeletionQueue {
	return &DeletionQueue{
		session: s,
		byHash:  make(map[string]*clones.DeletionEntry),
	}
}

// Add upserts the decision for the duplicate's group. If an entry
// already exists for the hash, only its ToKeep is replaced; the queue
// never holds two entries for the same group. toKeep must be one of the
// duplicate's files.
func (q *DeletionQueue) Add(d clones.Duplicate, toKeep string) error {
	if !slices.Contains(d.Files, toKeep) {
		return fmt.Errorf("kept file %s is not part of the duplicate group %s", toKeep, d.ContentHash)
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if entry, ok := q.byHash[d.ContentHash]; ok {
		entry.ToKeep = toKeep
		return nil
	}

	q.addNew(&clones.DeletionEntry{Duplicate: d, ToKeep: toKeep})
	return nil
}

// addNew appends an entry. Caller must hold the mutex.
func (q *DeletionQueue) addNew(entry *clones.DeletionEntry) {
	q.entries = append(q.entries, entry)
	q.byHash[entry.Duplicate.ContentHash] = entry
}

// Remove drops the entry for the duplicate's hash; no-op if absent.
func (q *DeletionQueue) Remove(d clones.Duplicate) {
	q.mu.Lock()
	defer q.mu.Unlock()

	entry, ok := q.byHash[d.ContentHash]
	if !ok {
		return
	}

	q.entries = slices.DeleteFunc(q.entries, func(e *clones.DeletionEntry) bool {
		return e == entry
	})
	delete(q.byHash, d.ContentHash)
}

// Get returns the entry for the given content hash, or nil.
func (q *DeletionQueue) Get(contentHash string) *clones.DeletionEntry {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.byHash[contentHash]
}

// Clear empties the queue. Invoked whenever a fresh sweep invalidates
// prior groupings.
func (q *DeletionQueue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries = nil
	q.byHash = make(map[string]*clones.DeletionEntry)
}

// Len returns the number of pending entries.
func (q *DeletionQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// Entries returns a snapshot of the entries in insertion order. The
// snapshot is safe to iterate while the queue is mutated.
func (q *DeletionQueue) Entries() []*clones.DeletionEntry {
	q.mu.Lock()
	defer q.mu.Unlock()
	return slices.Clone(q.entries)
}

// Preview renders the queue as human-readable text: one block per
// entry, in queue order.
func (q *DeletionQueue) Preview() string {
	q.mu.Lock()
	defer q.mu.Unlock()

	blocks := make([]string, len(q.entries))
	for i, entry := range q.entries {
		blocks[i] = entry.FormatForOutput()
	}
	return strings.Join(blocks, "\n")
}

// Persist serializes the queue (entries in insertion order) as a single
// JSON array to the session's queue location, overwriting any existing
// file. Persisting the same queue twice produces the same document.
func (q *DeletionQueue) Persist() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	entries := q.entries
	if entries == nil {
		entries = []*clones.DeletionEntry{}
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encoding deletion queue: %w", err)
	}

	if err := os.WriteFile(q.session.QueuePath(), data, 0644); err != nil {
		return fmt.Errorf("writing deletion queue: %w", err)
	}
	return nil
}

// Load reconstructs a queue from the JSON document at the session's
// queue location. A missing or malformed file is an error; there is no
// silent empty-queue fallback.
func Load(s *session.Session) (*DeletionQueue, error) {
	data, err := os.ReadFile(s.QueuePath())
	if err != nil {
		return nil, fmt.Errorf("reading deletion queue: %w", err)
	}

	var entries []*clones.DeletionEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decoding deletion queue %s: %w", s.QueuePath(), err)
	}

	q := New(s)
	for _, entry := range entries {
		// One entry per group is a queue invariant; a document that
		// repeats a hash is malformed, not an upsert.
		if _, ok := q.byHash[entry.Duplicate.ContentHash]; ok {
			return nil, fmt.Errorf("decoding deletion queue %s: duplicate entry for content hash %s", s.QueuePath(), entry.Duplicate.ContentHash)
		}
		q.addNew(entry)
	}
	return q, nil
}
