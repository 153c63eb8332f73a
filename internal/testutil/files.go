package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFiles creates the given files under dir, creating intermediate
// directories as needed. Keys are slash-separated paths relative to dir.
func WriteFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()

	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("creating directory for %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("writing %s: %v", rel, err)
		}
	}
}
