package config

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig("/data/dupe-remover")

	if cfg.LogDir != filepath.Join("/data/dupe-remover", "log") {
		t.Errorf("LogDir = %q", cfg.LogDir)
	}
	if cfg.SessionDir != filepath.Join("/data/dupe-remover", "session") {
		t.Errorf("SessionDir = %q", cfg.SessionDir)
	}
	if cfg.Trash.Type != "filesystem" {
		t.Errorf("Trash.Type = %q, want filesystem", cfg.Trash.Type)
	}
	if cfg.Trash.FSTrashRoot != filepath.Join("/data/dupe-remover", "trash") {
		t.Errorf("Trash.FSTrashRoot = %q", cfg.Trash.FSTrashRoot)
	}
	if cfg.Trash.Encrypt {
		t.Error("Trash.Encrypt should default to false")
	}
}

func TestReadWriteRoundTrip(t *testing.T) {
	m := &Manager{}
	original := NewConfig("/data/dupe-remover")
	original.Trash.Encrypt = true
	original.Filesystem.Ignore = []string{"*.tmp", ".cache/*"}

	var buf bytes.Buffer
	if err := m.Write(&buf, original); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if got.BaseDir != original.BaseDir {
		t.Errorf("BaseDir = %q, want %q", got.BaseDir, original.BaseDir)
	}
	if got.Trash.Type != "filesystem" || !got.Trash.Encrypt {
		t.Errorf("Trash = %+v", got.Trash)
	}
	if len(got.Filesystem.Ignore) != 2 || got.Filesystem.Ignore[0] != "*.tmp" {
		t.Errorf("Filesystem.Ignore = %v", got.Filesystem.Ignore)
	}
}

func TestReadMalformed(t *testing.T) {
	m := &Manager{}
	if _, err := m.Read(strings.NewReader("not [valid toml")); err == nil {
		t.Fatal("expected error for malformed config")
	}
}

func TestInit(t *testing.T) {
	t.Run("creates the config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "conf", "dupe-remover.toml")
		cfg := NewConfig("/data/dupe-remover")

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init failed: %v", err)
		}

		got, err := ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile failed: %v", err)
		}
		if got.BaseDir != "/data/dupe-remover" {
			t.Errorf("BaseDir = %q", got.BaseDir)
		}
	})

	t.Run("refuses to overwrite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "dupe-remover.toml")
		cfg := NewConfig("/data/dupe-remover")

		if err := Init(path, cfg); err != nil {
			t.Fatalf("first Init failed: %v", err)
		}
		if err := Init(path, cfg); err == nil {
			t.Fatal("expected error for existing config")
		}
	})
}

func TestReadFromFileMissing(t *testing.T) {
	if _, err := ReadFromFile(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
