package trash

import (
	"bytes"
	"testing"
)

func TestMemoryTrashPutGet(t *testing.T) {
	trash := NewMemoryTrash()

	content := []byte("in-memory bytes")
	if err := trash.Put("checksum1", bytes.NewReader(content), int64(len(content))); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if !trash.Contains("checksum1") {
		t.Error("Contains = false after Put")
	}

	var out bytes.Buffer
	if err := trash.Get("checksum1", &out); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !bytes.Equal(out.Bytes(), content) {
		t.Errorf("Get = %q, want %q", out.Bytes(), content)
	}
}

func TestMemoryTrashPutSizeMismatch(t *testing.T) {
	trash := NewMemoryTrash()

	if err := trash.Put("checksum1", bytes.NewReader([]byte("short")), 100); err == nil {
		t.Fatal("expected size mismatch error")
	}
	if trash.Contains("checksum1") {
		t.Error("failed Put must not store content")
	}
}

func TestMemoryTrashGetMissing(t *testing.T) {
	trash := NewMemoryTrash()

	var out bytes.Buffer
	if err := trash.Get("missing", &out); err == nil {
		t.Fatal("expected error for missing content")
	}
}
