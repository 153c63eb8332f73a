package trash

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/OmbraDiFenice/dupe-remover/internal/clones"
)

// MemoryTrash is an in-memory implementation of the Trash interface,
// useful for testing. Safe for concurrent use.
type MemoryTrash struct {
	mu      sync.RWMutex
	content map[string][]byte // checksum -> content
}

// NewMemoryTrash creates a new in-memory trash.
func NewMemoryTrash() *MemoryTrash {
	return &MemoryTrash{
		content: make(map[string][]byte),
	}
}

// Put stores content identified by its checksum.
func (m *MemoryTrash) Put(checksum string, r io.Reader, size int64) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read content: %w", err)
	}

	if int64(len(data)) != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Idempotent: storing the same checksum multiple times is safe
	m.content[checksum] = data
	return nil
}

// Get retrieves content by checksum.
func (m *MemoryTrash) Get(checksum string, w io.Writer) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.content[checksum]
	if !ok {
		return fmt.Errorf("content not found: %s", checksum)
	}

	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write content: %w", err)
	}

	return nil
}

// Contains reports whether content with the given checksum is archived.
func (m *MemoryTrash) Contains(checksum string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.content[checksum]
	return ok
}

// Validate always succeeds for in-memory trash.
func (m *MemoryTrash) Validate() error {
	return nil
}

// Compile-time check that MemoryTrash implements clones.Trash
var _ clones.Trash = (*MemoryTrash)(nil)
