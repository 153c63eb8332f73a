package clones

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Duplicate is one group of files sharing identical content.
// Files are sorted lexicographically and a group always has at least
// two members; a single file is never a duplicate.
type Duplicate struct {
	ContentHash string   `json:"content_hash"`
	Files       []string `json:"files"`
}

// DeletionEntry records the operator's decision for one duplicate group:
// keep ToKeep, delete everything else in the group.
type DeletionEntry struct {
	Duplicate Duplicate `json:"duplicate"`
	ToKeep    string    `json:"to_keep"`
}

// ToDelete returns the files slated for deletion: every member of the
// group except the kept one, in group order. Computed on demand so it
// can never drift from Duplicate and ToKeep.
func (e *DeletionEntry) ToDelete() []string {
	doomed := make([]string, 0, len(e.Duplicate.Files))
	for _, f := range e.Duplicate.Files {
		if f != e.ToKeep {
			doomed = append(doomed, f)
		}
	}
	return doomed
}

// FormatForOutput renders the entry as a human-readable block: a header
// naming the kept file and the content hash, then the doomed paths one
// per line.
func (e *DeletionEntry) FormatForOutput() string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n# duplicates of: %s\n", e.ToKeep)
	fmt.Fprintf(&b, "# hash: %s\n", e.Duplicate.ContentHash)
	b.WriteString(strings.Join(e.ToDelete(), "\n"))
	b.WriteString("\n")
	return b.String()
}

// SweepRecord is one row of sweep history: a single run of AnalyzeDir.
type SweepRecord struct {
	ID         string
	Root       string
	StartedAt  time.Time
	FinishedAt sql.NullTime
	Status     string // "success" or "error"
	Indexed    int64
	Skipped    int64
	Failed     int64
}
