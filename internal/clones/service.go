package clones

import (
	"bytes"
	"errors"
	"fmt"
)

// Service is the orchestration layer that composes the content index,
// the deletion queue, the filesystem, and the optional trash into the
// high-level operations the CLI exposes. It holds no state of its own
// beyond the components it delegates to.
type Service struct {
	index     Index
	queue     Queue
	trash     Trash     // nil when trashing is disabled
	encryptor Encryptor // nil when trash encryption is disabled
	fsmgr     FilesystemManager
	logger    Logger
	clock     Clock
}

// NewService creates a new Service with the provided dependencies.
// trash and encryptor may be nil to disable pre-deletion archiving and
// archive encryption respectively.
func NewService(index Index, queue Queue, trash Trash, encryptor Encryptor, fsmgr FilesystemManager, logger Logger, clock Clock) *Service {
	return &Service{
		index:     index,
		queue:     queue,
		trash:     trash,
		encryptor: encryptor,
		fsmgr:     fsmgr,
		logger:    logger,
		clock:     clock,
	}
}

// AnalyzeDir rebuilds the content index from the directory tree rooted
// at root: the index is reset, the deletion queue is cleared (prior
// decisions may reference stale groups), and every reachable file is
// hashed and recorded. Unsupported, ignored, and unreadable files are
// skipped without aborting the sweep; the report carries their outcomes.
//
// At most one sweep may be in flight at a time, and callers must not
// query duplicate groups or mutate the queue until it returns.
func (s *Service) AnalyzeDir(root string) (*SweepReport, error) {
	s.logger.Info("analyze started", "root", root)

	if err := s.index.Reset(); err != nil {
		return nil, fmt.Errorf("resetting index: %w", err)
	}
	s.queue.Clear()

	sweepID, err := s.index.CreateSweep(root, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("recording sweep: %w", err)
	}

	report := &SweepReport{Root: root}

	walkErr := s.fsmgr.Walk(root, func(path string, err error) error {
		if err != nil {
			s.logger.Warn("could not read path", "path", path, "error", err)
			report.add(path, SweepFailed, err)
			return nil
		}

		ignored, err := s.fsmgr.IsIgnored(path, root)
		if err != nil {
			s.logger.Warn("checking ignore rules", "path", path, "error", err)
			report.add(path, SweepFailed, err)
			return nil
		}
		if ignored {
			s.logger.Debug("ignoring", "path", path)
			report.add(path, SweepSkippedIgnored, nil)
			return nil
		}

		s.logger.Debug("processing", "path", path)
		switch err := s.index.Store(path); {
		case errors.Is(err, ErrUnsupported):
			s.logger.Info("skipping", "path", path)
			report.add(path, SweepSkippedUnsupported, nil)
		case err != nil:
			s.logger.Warn("could not index file", "path", path, "error", err)
			report.add(path, SweepFailed, err)
		default:
			report.add(path, SweepIndexed, nil)
		}
		return nil
	})

	indexed, skipped, failed := report.Counts()
	status := "success"
	if walkErr != nil {
		status = "error"
	}
	if err := s.index.FinishSweep(sweepID, status, indexed, skipped, failed, s.clock.Now()); err != nil {
		return report, fmt.Errorf("finishing sweep record: %w", err)
	}
	if walkErr != nil {
		return report, fmt.Errorf("walking %s: %w", root, walkErr)
	}

	s.logger.Info("analyze complete", "indexed", indexed, "skipped", skipped, "failed", failed)
	return report, nil
}

// DuplicateGroups returns all duplicate groups in the current index.
func (s *Service) DuplicateGroups() ([]Duplicate, error) {
	return s.index.FindDuplicateGroups()
}

// QueueDecision records the operator's choice to keep keepPath from the
// given duplicate group. Re-queuing a group replaces its kept file.
func (s *Service) QueueDecision(d Duplicate, keepPath string) error {
	return s.queue.Add(d, keepPath)
}

// UnqueueDecision drops any pending decision for the duplicate's group.
func (s *Service) UnqueueDecision(d Duplicate) {
	s.queue.Remove(d)
}

// Decision returns the pending decision for the duplicate's group, or nil.
func (s *Service) Decision(d Duplicate) *DeletionEntry {
	return s.queue.Get(d.ContentHash)
}

// PreviewQueue renders the pending deletions as human-readable text.
func (s *Service) PreviewQueue() string {
	return s.queue.Preview()
}

// ClearQueue drops all pending decisions.
func (s *Service) ClearQueue() {
	s.queue.Clear()
}

// SaveSession persists the deletion queue to the session's queue
// location. The index is already durable after every store and remove.
func (s *Service) SaveSession() error {
	return s.queue.Persist()
}

// ExecuteQueuedDeletions deletes every file slated for deletion by the
// queued entries. Missing files and failed deletions are logged and
// skipped; they never stop the batch. When a trash is configured, each
// file's content is archived by hash before it is unlinked, and a
// failed archive skips that path's deletion.
//
// Every processed entry is removed from both the queue and the index
// regardless of per-path failures, so the two converge to what remains
// on disk; the report records what actually happened to each path.
func (s *Service) ExecuteQueuedDeletions() (*DeleteReport, error) {
	report := &DeleteReport{}

	for _, entry := range s.queue.Entries() {
		for _, path := range entry.ToDelete() {
			s.logger.Info("deleting", "path", path)

			if !s.fsmgr.Exists(path) {
				s.logger.Warn("could not delete: does not exist", "path", path)
				report.add(path, DeleteMissing, nil)
				continue
			}

			if s.trash != nil {
				if err := s.archiveFile(path, entry.Duplicate.ContentHash); err != nil {
					s.logger.Warn("could not archive, skipping deletion", "path", path, "error", err)
					report.add(path, DeleteArchiveFailed, err)
					continue
				}
			}

			if err := s.fsmgr.Remove(path); err != nil {
				s.logger.Warn("could not delete", "path", path, "error", err)
				report.add(path, DeleteFailed, err)
				continue
			}
			report.add(path, DeleteDone, nil)
		}

		s.queue.Remove(entry.Duplicate)
		if err := s.index.Remove(entry.Duplicate); err != nil {
			return report, fmt.Errorf("removing group from index: %w", err)
		}
	}

	s.logger.Info("deletion complete", "deleted", report.Deleted())
	return report, nil
}

// archiveFile stores the file's content in the trash under its group's
// content hash. Archiving is idempotent per hash, so a group of
// duplicates occupies one trash object.
func (s *Service) archiveFile(path string, checksum string) error {
	f, err := s.fsmgr.Open(path)
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	if s.encryptor != nil {
		var buf bytes.Buffer
		if err := s.encryptor.Encrypt(f, &buf); err != nil {
			return fmt.Errorf("encrypting content: %w", err)
		}
		return s.trash.Put(checksum, &buf, int64(buf.Len()))
	}

	info, err := s.fsmgr.Stat(path)
	if err != nil {
		return fmt.Errorf("stat file: %w", err)
	}
	return s.trash.Put(checksum, f, info.Size())
}

// RestoreFromTrash writes previously archived content back to dest.
// decryptCtx is required when the trash is encrypted; pass nil otherwise.
func (s *Service) RestoreFromTrash(checksum string, dest string, decryptCtx DecryptionContext) error {
	if s.trash == nil {
		return fmt.Errorf("no trash configured")
	}

	w, err := s.fsmgr.Create(dest)
	if err != nil {
		return fmt.Errorf("creating destination: %w", err)
	}
	defer w.Close()

	if decryptCtx == nil {
		if err := s.trash.Get(checksum, w); err != nil {
			return fmt.Errorf("reading from trash: %w", err)
		}
		return nil
	}

	var buf bytes.Buffer
	if err := s.trash.Get(checksum, &buf); err != nil {
		return fmt.Errorf("reading from trash: %w", err)
	}
	if err := decryptCtx.Decrypt(&buf, w); err != nil {
		return fmt.Errorf("decrypting content: %w", err)
	}

	s.logger.Info("restored from trash", "checksum", checksum, "dest", dest)
	return nil
}

// History returns the most recent sweep records, newest first.
func (s *Service) History(limit int) ([]*SweepRecord, error) {
	return s.index.ListSweeps(limit)
}
