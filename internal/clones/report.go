package clones

// SweepStatus classifies the outcome of one path during a sweep.
type SweepStatus string

const (
	SweepIndexed            SweepStatus = "indexed"
	SweepSkippedUnsupported SweepStatus = "skipped-unsupported"
	SweepSkippedIgnored     SweepStatus = "skipped-ignored"
	SweepFailed             SweepStatus = "failed"
)

// SweepOutcome is the result for a single path visited during a sweep.
type SweepOutcome struct {
	Path   string
	Status SweepStatus
	Err    error
}

// SweepReport collects per-path outcomes of one AnalyzeDir run.
// The sweep itself always runs to completion; failures show up here
// (and in the log), never as an aggregate error.
type SweepReport struct {
	Root     string
	Outcomes []SweepOutcome
}

func (r *SweepReport) add(path string, status SweepStatus, err error) {
	r.Outcomes = append(r.Outcomes, SweepOutcome{Path: path, Status: status, Err: err})
}

// Counts returns the number of indexed, skipped, and failed paths.
// Both skip variants count as skipped.
func (r *SweepReport) Counts() (indexed, skipped, failed int64) {
	for _, o := range r.Outcomes {
		switch o.Status {
		case SweepIndexed:
			indexed++
		case SweepSkippedUnsupported, SweepSkippedIgnored:
			skipped++
		case SweepFailed:
			failed++
		}
	}
	return
}

// DeleteStatus classifies the outcome of one path during deletion execution.
type DeleteStatus string

const (
	DeleteDone          DeleteStatus = "deleted"
	DeleteMissing       DeleteStatus = "missing"
	DeleteFailed        DeleteStatus = "delete-failed"
	DeleteArchiveFailed DeleteStatus = "archive-failed"
)

// DeleteOutcome is the result for a single path during deletion execution.
type DeleteOutcome struct {
	Path   string
	Status DeleteStatus
	Err    error
}

// DeleteReport collects per-path outcomes of one ExecuteQueuedDeletions
// run. Entries are always removed from queue and index once processed,
// so this is the only record of paths that could not be deleted.
type DeleteReport struct {
	Outcomes []DeleteOutcome
}

func (r *DeleteReport) add(path string, status DeleteStatus, err error) {
	r.Outcomes = append(r.Outcomes, DeleteOutcome{Path: path, Status: status, Err: err})
}

// Deleted returns the number of paths actually removed from disk.
func (r *DeleteReport) Deleted() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == DeleteDone {
			n++
		}
	}
	return n
}
