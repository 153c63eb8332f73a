package clones

import (
	"slices"
	"testing"
)

func TestDeletionEntryToDelete(t *testing.T) {
	entry := &DeletionEntry{
		Duplicate: Duplicate{
			ContentHash: "abc123",
			Files:       []string{"/photos/a.jpg", "/photos/b.jpg", "/photos/c.jpg"},
		},
		ToKeep: "/photos/b.jpg",
	}

	got := entry.ToDelete()
	want := []string{"/photos/a.jpg", "/photos/c.jpg"}
	if !slices.Equal(got, want) {
		t.Errorf("ToDelete() = %v, want %v", got, want)
	}
}

func TestDeletionEntryToDeleteKeepsGroupOrder(t *testing.T) {
	entry := &DeletionEntry{
		Duplicate: Duplicate{
			ContentHash: "abc123",
			Files:       []string{"/z.jpg", "/a.jpg", "/m.jpg"},
		},
		ToKeep: "/a.jpg",
	}

	got := entry.ToDelete()
	want := []string{"/z.jpg", "/m.jpg"}
	if !slices.Equal(got, want) {
		t.Errorf("ToDelete() = %v, want %v", got, want)
	}
}

func TestDeletionEntryFormatForOutput(t *testing.T) {
	entry := &DeletionEntry{
		Duplicate: Duplicate{
			ContentHash: "abc123",
			Files:       []string{"/photos/a.jpg", "/photos/b.jpg"},
		},
		ToKeep: "/photos/a.jpg",
	}

	got := entry.FormatForOutput()
	want := "\n# duplicates of: /photos/a.jpg\n# hash: abc123\n/photos/b.jpg\n"
	if got != want {
		t.Errorf("FormatForOutput() = %q, want %q", got, want)
	}
}

func TestSweepReportCounts(t *testing.T) {
	r := &SweepReport{Root: "/photos"}
	r.add("/photos/a.jpg", SweepIndexed, nil)
	r.add("/photos/b.jpg", SweepIndexed, nil)
	r.add("/photos/notes.txt", SweepSkippedUnsupported, nil)
	r.add("/photos/.cache/x.jpg", SweepSkippedIgnored, nil)
	r.add("/photos/broken.jpg", SweepFailed, nil)

	indexed, skipped, failed := r.Counts()
	if indexed != 2 || skipped != 2 || failed != 1 {
		t.Errorf("Counts() = (%d, %d, %d), want (2, 2, 1)", indexed, skipped, failed)
	}
}

func TestDeleteReportDeleted(t *testing.T) {
	r := &DeleteReport{}
	r.add("/photos/a.jpg", DeleteDone, nil)
	r.add("/photos/b.jpg", DeleteMissing, nil)
	r.add("/photos/c.jpg", DeleteDone, nil)
	r.add("/photos/d.jpg", DeleteArchiveFailed, nil)

	if got := r.Deleted(); got != 2 {
		t.Errorf("Deleted() = %d, want 2", got)
	}
}
