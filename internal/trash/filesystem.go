// Package trash archives file content by checksum before deletion so an
// executed deletion can be undone. Duplicates share content, so a whole
// group occupies a single object regardless of how many copies are
// deleted.
package trash

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/OmbraDiFenice/dupe-remover/internal/clones"
)

// FileSystemTrash stores archived content as files in a directory:
//
//	<root>/
//	  content/
//	    <checksum>   (content files, named by SHA-256)
type FileSystemTrash struct {
	root       string
	contentDir string
}

// NewFileSystemTrash creates a filesystem trash rooted at the given path.
func NewFileSystemTrash(root string) (*FileSystemTrash, error) {
	contentDir := filepath.Join(root, "content")

	if err := os.MkdirAll(contentDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create content directory: %w", err)
	}

	return &FileSystemTrash{
		root:       root,
		contentDir: contentDir,
	}, nil
}

// Put stores content identified by its checksum.
// The operation is idempotent: storing the same checksum multiple times is safe.
func (t *FileSystemTrash) Put(checksum string, r io.Reader, size int64) error {
	destPath := filepath.Join(t.contentDir, checksum)

	// If content already exists, skip (idempotent)
	if _, err := os.Stat(destPath); err == nil {
		// Consume the reader to maintain expected behavior
		written, err := io.Copy(io.Discard, r)
		if err != nil {
			return fmt.Errorf("failed to read content: %w", err)
		}
		if written != size {
			return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, written)
		}
		return nil
	}

	return t.writeFile(destPath, r, size)
}

// Get retrieves content by checksum and writes it to w.
func (t *FileSystemTrash) Get(checksum string, w io.Writer) error {
	srcPath := filepath.Join(t.contentDir, checksum)

	f, err := os.Open(srcPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("content not found: %s", checksum)
		}
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	return nil
}

// Validate verifies that the trash directories are accessible.
func (t *FileSystemTrash) Validate() error {
	for _, dir := range []string{t.root, t.contentDir} {
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("trash directory not accessible: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("trash path is not a directory: %s", dir)
		}
	}
	return nil
}

// writeFile writes data from r to the specified path using atomic write
// (temp file + rename).
func (t *FileSystemTrash) writeFile(destPath string, r io.Reader, expectedSize int64) error {
	// Create temp file in the same directory to ensure atomic rename works
	dir := filepath.Dir(destPath)
	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	// Clean up temp file on failure
	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	written, err := io.Copy(tmpFile, r)
	if err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if written != expectedSize {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", expectedSize, written)
	}

	// Atomic rename
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

// Compile-time check that FileSystemTrash implements clones.Trash
var _ clones.Trash = (*FileSystemTrash)(nil)
