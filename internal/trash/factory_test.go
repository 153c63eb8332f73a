package trash

import (
	"path/filepath"
	"testing"

	"github.com/OmbraDiFenice/dupe-remover/internal/config"
)

func TestNewTrashFromConfig(t *testing.T) {
	t.Run("none disables trashing", func(t *testing.T) {
		for _, typ := range []string{"", "none"} {
			trash, err := NewTrashFromConfig(config.TrashConfig{Type: typ})
			if err != nil {
				t.Errorf("type %q: unexpected error: %v", typ, err)
			}
			if trash != nil {
				t.Errorf("type %q: expected nil trash", typ)
			}
		}
	})

	t.Run("memory", func(t *testing.T) {
		trash, err := NewTrashFromConfig(config.TrashConfig{Type: "memory"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := trash.(*MemoryTrash); !ok {
			t.Errorf("got %T, want *MemoryTrash", trash)
		}
	})

	t.Run("filesystem", func(t *testing.T) {
		root := filepath.Join(t.TempDir(), "trash")
		trash, err := NewTrashFromConfig(config.TrashConfig{Type: "filesystem", FSTrashRoot: root})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := trash.(*FileSystemTrash); !ok {
			t.Errorf("got %T, want *FileSystemTrash", trash)
		}
	})

	t.Run("filesystem requires a root", func(t *testing.T) {
		if _, err := NewTrashFromConfig(config.TrashConfig{Type: "filesystem"}); err == nil {
			t.Fatal("expected error for missing fs_trash_root")
		}
	})

	t.Run("unknown type fails", func(t *testing.T) {
		if _, err := NewTrashFromConfig(config.TrashConfig{Type: "tape"}); err == nil {
			t.Fatal("expected error for unknown type")
		}
	})
}
