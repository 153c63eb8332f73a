package testutil

import (
	"path/filepath"
	"testing"

	"github.com/OmbraDiFenice/dupe-remover/internal/index"
)

// NewTestIndex creates a content index backed by a temporary database
// file with migrations applied. The index is automatically closed when
// the test completes.
func NewTestIndex(t *testing.T) *index.SQLiteIndex {
	t.Helper()

	idx, err := index.Open(filepath.Join(t.TempDir(), "hashes.db"))
	if err != nil {
		t.Fatalf("failed to open index: %v", err)
	}

	t.Cleanup(func() {
		idx.Close()
	})

	return idx
}
