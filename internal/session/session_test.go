package session

import (
	"path/filepath"
	"testing"
)

func TestSessionPaths(t *testing.T) {
	s := New("/data/sessions/current")

	if got := s.Dir(); got != "/data/sessions/current" {
		t.Errorf("Dir() = %q", got)
	}
	if got, want := s.IndexPath(), filepath.Join("/data/sessions/current", "hashes.db"); got != want {
		t.Errorf("IndexPath() = %q, want %q", got, want)
	}
	if got, want := s.QueuePath(), filepath.Join("/data/sessions/current", "deletion_queue.json"); got != want {
		t.Errorf("QueuePath() = %q, want %q", got, want)
	}
}
