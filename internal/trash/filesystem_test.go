package trash

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileSystemTrashPutGet(t *testing.T) {
	trash, err := NewFileSystemTrash(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSystemTrash failed: %v", err)
	}

	content := []byte("some image bytes")
	if err := trash.Put("checksum1", bytes.NewReader(content), int64(len(content))); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	var out bytes.Buffer
	if err := trash.Get("checksum1", &out); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !bytes.Equal(out.Bytes(), content) {
		t.Errorf("Get = %q, want %q", out.Bytes(), content)
	}
}

func TestFileSystemTrashPutIsIdempotent(t *testing.T) {
	trash, err := NewFileSystemTrash(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSystemTrash failed: %v", err)
	}

	content := []byte("same content")
	if err := trash.Put("checksum1", bytes.NewReader(content), int64(len(content))); err != nil {
		t.Fatalf("first Put failed: %v", err)
	}
	if err := trash.Put("checksum1", bytes.NewReader(content), int64(len(content))); err != nil {
		t.Fatalf("second Put failed: %v", err)
	}

	var out bytes.Buffer
	if err := trash.Get("checksum1", &out); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !bytes.Equal(out.Bytes(), content) {
		t.Errorf("Get = %q, want %q", out.Bytes(), content)
	}
}

func TestFileSystemTrashPutSizeMismatch(t *testing.T) {
	trash, err := NewFileSystemTrash(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSystemTrash failed: %v", err)
	}

	content := []byte("short")
	if err := trash.Put("checksum1", bytes.NewReader(content), 100); err == nil {
		t.Fatal("expected size mismatch error")
	}

	// The failed write must not leave a content file behind.
	var out bytes.Buffer
	if err := trash.Get("checksum1", &out); err == nil {
		t.Fatal("expected Get to fail after a failed Put")
	}
}

func TestFileSystemTrashGetMissing(t *testing.T) {
	trash, err := NewFileSystemTrash(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSystemTrash failed: %v", err)
	}

	var out bytes.Buffer
	err = trash.Get("missing", &out)
	if err == nil {
		t.Fatal("expected error for missing content")
	}
	if !strings.Contains(err.Error(), "content not found") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFileSystemTrashValidate(t *testing.T) {
	root := t.TempDir()
	trash, err := NewFileSystemTrash(root)
	if err != nil {
		t.Fatalf("NewFileSystemTrash failed: %v", err)
	}

	if err := trash.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}

	if err := os.RemoveAll(filepath.Join(root, "content")); err != nil {
		t.Fatalf("removing content dir: %v", err)
	}
	if err := trash.Validate(); err == nil {
		t.Error("expected Validate to fail without content dir")
	}
}
