// Package fs contains the real-filesystem implementation of the
// clones.FilesystemManager interface plus the ignore-pattern matcher
// and the recursive directory copy used for session relocation.
package fs

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/OmbraDiFenice/dupe-remover/internal/clones"
)

// OSFilesystemManager performs actual filesystem operations using the
// os package.
type OSFilesystemManager struct {
	ignore *IgnoreMatcher
}

// NewOSFilesystemManager creates a filesystem manager that operates on
// the real filesystem, ignoring paths matching the given patterns.
func NewOSFilesystemManager(ignorePatterns []string) *OSFilesystemManager {
	return &OSFilesystemManager{
		ignore: NewIgnoreMatcher(ignorePatterns),
	}
}

// Resolve converts a raw path to an absolute path and verifies it exists.
func (m *OSFilesystemManager) Resolve(rawPath string) (string, error) {
	absPath, err := filepath.Abs(rawPath)
	if err != nil {
		return "", fmt.Errorf("resolving absolute path: %w", err)
	}

	if _, err := os.Stat(absPath); err != nil {
		return "", fmt.Errorf("stat path: %w", err)
	}

	return absPath, nil
}

// Walk visits every entry under root, depth-first. Regular files are
// passed to fn with a nil error; entries the walker could not read are
// passed through with their error so the caller can contain the failure
// and continue. fn returning an error aborts the walk.
func (m *OSFilesystemManager) Walk(root string, fn func(path string, err error) error) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if ferr := fn(p, err); ferr != nil {
				return ferr
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		return fn(p, nil)
	})
}

// Open opens a file for reading.
func (m *OSFilesystemManager) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// Create creates or truncates a file for writing.
func (m *OSFilesystemManager) Create(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

// Stat returns file info for a path.
func (m *OSFilesystemManager) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// Exists reports whether the path exists.
func (m *OSFilesystemManager) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Remove deletes a file.
func (m *OSFilesystemManager) Remove(path string) error {
	return os.Remove(path)
}

// IsIgnored reports whether the path matches the configured ignore
// patterns, evaluated against the path relative to root.
func (m *OSFilesystemManager) IsIgnored(path string, root string) (bool, error) {
	relativePath, err := filepath.Rel(root, path)
	if err != nil {
		return false, fmt.Errorf("calculating relative path: %w", err)
	}
	return m.ignore.Match(relativePath), nil
}

// CopyDir recursively copies the directory tree at src to dst. dst must
// not exist. Used for session "save as": the session directory is
// copied wholesale and a new session is constructed over the copy.
func CopyDir(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	if !srcInfo.IsDir() {
		return fmt.Errorf("source is not a directory: %s", src)
	}

	if _, err := os.Stat(dst); err == nil {
		return fmt.Errorf("destination already exists: %s", dst)
	}

	return filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, p)
		if err != nil {
			return fmt.Errorf("calculating relative path: %w", err)
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			info, err := d.Info()
			if err != nil {
				return fmt.Errorf("stat %s: %w", p, err)
			}
			return os.MkdirAll(target, info.Mode().Perm())
		}
		if !d.Type().IsRegular() {
			return nil
		}
		return copyFile(p, target)
	})
}

// copyFile copies a single regular file, preserving its permissions.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", src, err)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying to %s: %w", dst, err)
	}
	return out.Close()
}

// Compile-time check that OSFilesystemManager implements clones.FilesystemManager
var _ clones.FilesystemManager = (*OSFilesystemManager)(nil)
