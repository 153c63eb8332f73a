// Package app wires configuration, logging, and the concrete component
// implementations into a ready-to-use application for the CLI.
package app

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/OmbraDiFenice/dupe-remover/internal/clones"
	"github.com/OmbraDiFenice/dupe-remover/internal/config"
	"github.com/OmbraDiFenice/dupe-remover/internal/encryption"
	"github.com/OmbraDiFenice/dupe-remover/internal/fs"
	"github.com/OmbraDiFenice/dupe-remover/internal/index"
	"github.com/OmbraDiFenice/dupe-remover/internal/queue"
	"github.com/OmbraDiFenice/dupe-remover/internal/session"
	"github.com/OmbraDiFenice/dupe-remover/internal/trash"
)

// App holds the configured application components and exposes the
// operations the CLI commands call.
type App struct {
	cfg       *config.Config
	sess      *session.Session
	index     *index.SQLiteIndex
	queue     *queue.DeletionQueue
	trash     clones.Trash
	encryptor clones.Encryptor
	fsmgr     *fs.OSFilesystemManager
	service   *clones.Service
	logger    *slog.Logger
	logFile   *os.File
}

// NewApp builds an App from the given configuration. operation names
// the CLI operation being run and is recorded in every log line.
// sessionOverride, when non-empty, replaces the configured session
// directory for this run.
func NewApp(cfg *config.Config, operation string, sessionOverride string) (*App, error) {
	opID := fmt.Sprintf("%s-%s", operation, time.Now().UTC().Format("20060102T150405Z"))
	logger, logFile, err := newLogger(cfg.LogDir, opID)
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}

	sessionDir := cfg.SessionDir
	if sessionOverride != "" {
		sessionDir = sessionOverride
	}
	sess := session.New(sessionDir)
	if err := os.MkdirAll(sess.Dir(), 0755); err != nil {
		logFile.Close()
		return nil, fmt.Errorf("creating session directory: %w", err)
	}

	idx, err := index.Open(sess.IndexPath())
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("opening content index: %w", err)
	}

	trsh, err := trash.NewTrashFromConfig(cfg.Trash)
	if err != nil {
		idx.Close()
		logFile.Close()
		return nil, fmt.Errorf("initializing trash: %w", err)
	}

	// Every CLI invocation builds a fresh App, so pending decisions
	// from earlier invocations live only in the persisted queue file.
	// A session that has never saved a queue starts empty; an existing
	// file that fails to load is an error, never a silent empty queue.
	q := queue.New(sess)
	if _, statErr := os.Stat(sess.QueuePath()); statErr == nil {
		q, err = queue.Load(sess)
		if err != nil {
			idx.Close()
			logFile.Close()
			return nil, fmt.Errorf("loading deletion queue: %w", err)
		}
	}

	var enc clones.Encryptor
	if trsh != nil && cfg.Trash.Encrypt {
		enc, err = encryption.NewEncryptorFromConfig(cfg.Encryption)
		if err != nil {
			idx.Close()
			logFile.Close()
			return nil, fmt.Errorf("initializing encryptor: %w", err)
		}
		if !enc.IsConfigured() {
			idx.Close()
			logFile.Close()
			return nil, fmt.Errorf("trash encryption is enabled but no key pair is configured, run 'dupe-remover trash keygen' first")
		}
	}

	a := &App{
		cfg:       cfg,
		sess:      sess,
		index:     idx,
		queue:     q,
		trash:     trsh,
		encryptor: enc,
		fsmgr:     fs.NewOSFilesystemManager(cfg.Filesystem.Ignore),
		logger:    logger,
		logFile:   logFile,
	}
	a.rebuildService()
	return a, nil
}

func (a *App) rebuildService() {
	a.service = clones.NewService(a.index, a.queue, a.trash, a.encryptor, a.fsmgr, &slogAdapter{l: a.logger}, &clones.RealClock{})
}

// Session returns the session the App is attached to.
func (a *App) Session() *session.Session {
	return a.sess
}

// AnalyzeDir resolves root and sweeps it into the content index,
// replacing the previous index contents and clearing the queue.
func (a *App) AnalyzeDir(root string) (*clones.SweepReport, error) {
	resolved, err := a.fsmgr.Resolve(root)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", root, err)
	}
	return a.service.AnalyzeDir(resolved)
}

// DuplicateGroups returns all duplicate groups in the current index.
func (a *App) DuplicateGroups() ([]clones.Duplicate, error) {
	return a.service.DuplicateGroups()
}

// QueueDecision records the choice to keep keepPath from the duplicate
// group identified by contentHash.
func (a *App) QueueDecision(contentHash string, keepPath string) error {
	groups, err := a.service.DuplicateGroups()
	if err != nil {
		return fmt.Errorf("looking up duplicate groups: %w", err)
	}

	resolved, err := filepath.Abs(keepPath)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", keepPath, err)
	}

	for _, d := range groups {
		if d.ContentHash == contentHash {
			return a.service.QueueDecision(d, resolved)
		}
	}
	return fmt.Errorf("no duplicate group with hash %s", contentHash)
}

// UnqueueDecision drops any pending decision for the group identified
// by contentHash. Unknown hashes are a no-op.
func (a *App) UnqueueDecision(contentHash string) {
	entry := a.queue.Get(contentHash)
	if entry == nil {
		return
	}
	a.service.UnqueueDecision(entry.Duplicate)
}

// Decision returns the pending decision for contentHash, or nil.
func (a *App) Decision(contentHash string) *clones.DeletionEntry {
	return a.queue.Get(contentHash)
}

// PreviewQueue renders the pending deletions as human-readable text.
func (a *App) PreviewQueue() string {
	return a.service.PreviewQueue()
}

// QueueLen returns the number of pending decisions.
func (a *App) QueueLen() int {
	return a.queue.Len()
}

// ClearQueue drops all pending decisions.
func (a *App) ClearQueue() {
	a.service.ClearQueue()
}

// Delete executes every queued deletion.
func (a *App) Delete() (*clones.DeleteReport, error) {
	return a.service.ExecuteQueuedDeletions()
}

// SaveSession persists the deletion queue into the session directory.
func (a *App) SaveSession() error {
	return a.service.SaveSession()
}

// LoadSession attaches the App to the session stored in dir, replacing
// the current index and queue. The current session is left untouched if
// the load fails.
func (a *App) LoadSession(dir string) error {
	sess := session.New(dir)

	q, err := queue.Load(sess)
	if err != nil {
		return fmt.Errorf("loading deletion queue: %w", err)
	}

	idx, err := index.Open(sess.IndexPath())
	if err != nil {
		return fmt.Errorf("opening content index: %w", err)
	}

	if a.index != nil {
		if err := a.index.Close(); err != nil {
			a.logger.Warn("closing previous index", "error", err)
		}
	}

	a.sess = sess
	a.index = idx
	a.queue = q
	a.rebuildService()

	a.logger.Info("session loaded", "dir", dir)
	return nil
}

// SaveSessionAs persists the current session, copies it to dest, and
// attaches the App to the copy. dest must not already exist.
func (a *App) SaveSessionAs(dest string) error {
	if err := a.service.SaveSession(); err != nil {
		return fmt.Errorf("persisting queue: %w", err)
	}

	// The sqlite file must not have an open connection while it is
	// copied, so detach before copying and reattach afterwards.
	if err := a.index.Close(); err != nil {
		return fmt.Errorf("closing index: %w", err)
	}
	a.index = nil

	copyErr := fs.CopyDir(a.sess.Dir(), dest)

	target := dest
	if copyErr != nil {
		target = a.sess.Dir()
	}
	if err := a.LoadSession(target); err != nil {
		return fmt.Errorf("reattaching to session %s: %w", target, err)
	}

	if copyErr != nil {
		return fmt.Errorf("copying session to %s: %w", dest, copyErr)
	}
	return nil
}

// SetupEncryption generates and stores a new trash encryption key pair
// protected by passphrase.
func (a *App) SetupEncryption(passphrase string) error {
	enc, err := encryption.NewEncryptorFromConfig(a.cfg.Encryption)
	if err != nil {
		return fmt.Errorf("initializing encryptor: %w", err)
	}
	if err := enc.Setup(passphrase); err != nil {
		return fmt.Errorf("generating key pair: %w", err)
	}
	a.logger.Info("encryption key pair generated",
		"public_key", a.cfg.Encryption.PublicKeyPath,
		"private_key", a.cfg.Encryption.PrivateKeyPath)
	return nil
}

// EncryptionEnabled reports whether trashed content is encrypted.
func (a *App) EncryptionEnabled() bool {
	return a.encryptor != nil
}

// RestoreFromTrash writes archived content identified by checksum to
// dest. passphrase unlocks the private key when encryption is enabled
// and is ignored otherwise.
func (a *App) RestoreFromTrash(checksum string, dest string, passphrase string) error {
	var decryptCtx clones.DecryptionContext
	if a.encryptor != nil {
		ctx, err := a.encryptor.Unlock(passphrase)
		if err != nil {
			return fmt.Errorf("unlocking private key: %w", err)
		}
		decryptCtx = ctx
	}
	return a.service.RestoreFromTrash(checksum, dest, decryptCtx)
}

// History returns the most recent sweeps, newest first.
func (a *App) History(limit int) ([]*clones.SweepRecord, error) {
	return a.service.History(limit)
}

// Close releases the App's resources.
func (a *App) Close() error {
	var firstErr error
	if a.index != nil {
		if err := a.index.Close(); err != nil {
			firstErr = err
		}
	}
	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
