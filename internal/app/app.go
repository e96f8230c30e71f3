package app

import (
	"fmt"
	"io"
	"os"
	"path"
	"time"

	"plannerd/internal/config"
	"plannerd/internal/encryption"
	"plannerd/internal/journal"
	"plannerd/internal/mirror"
	"plannerd/internal/model"
	"plannerd/internal/snapshot"
	"plannerd/internal/state"
	"plannerd/internal/store"
)

// App is the application layer between the CLI/HTTP handlers and the state
// service. It constructs all dependencies from config, records mutating
// operations in the journal, and manages resource lifecycles on Close.
type App struct {
	cfg       *config.Config
	service   *state.Service
	journal   state.Journal
	mirror    state.Mirror
	encryptor state.Encryptor
	logger    state.Logger
	clock     state.Clock
	idgen     state.IDGenerator
	logFile   *os.File
}

// New creates a fully wired App from the given config.
// The caller must call Close when done.
func New(cfg *config.Config) (*App, error) {
	docStore, err := store.NewFileStore(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("creating document store: %w", err)
	}

	snapStore, err := snapshot.NewSnapshotStoreFromConfig(cfg.Snapshots, cfg.SnapshotDir())
	if err != nil {
		return nil, fmt.Errorf("creating snapshot store: %w", err)
	}

	mir, err := mirror.NewMirrorFromConfig(cfg.Mirror)
	if err != nil {
		return nil, fmt.Errorf("creating mirror: %w", err)
	}

	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		return nil, fmt.Errorf("creating encryptor: %w", err)
	}

	jnl, err := journal.NewJournalFromConfig(cfg.Journal, cfg.JournalDir())
	if err != nil {
		return nil, fmt.Errorf("creating journal: %w", err)
	}

	runID := time.Now().UTC().Format("20060102T150405Z")
	logger, logFile, err := newLogger(cfg.LogDir, runID)
	if err != nil {
		jnl.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	adapter := &slogAdapter{l: logger}
	svc := state.NewService(docStore, snapStore, mir, enc, adapter, state.RealClock{})

	return &App{
		cfg:       cfg,
		service:   svc,
		journal:   jnl,
		mirror:    mir,
		encryptor: enc,
		logger:    adapter,
		clock:     state.RealClock{},
		idgen:     state.UUIDGenerator{},
		logFile:   logFile,
	}, nil
}

// NewWithDeps creates an App from explicit dependencies. Used by tests to
// inject deterministic fakes.
func NewWithDeps(cfg *config.Config, svc *state.Service, jnl state.Journal, mir state.Mirror, enc state.Encryptor, logger state.Logger, clock state.Clock, idgen state.IDGenerator) *App {
	return &App{
		cfg:       cfg,
		service:   svc,
		journal:   jnl,
		mirror:    mir,
		encryptor: enc,
		logger:    logger,
		clock:     clock,
		idgen:     idgen,
	}
}

// Config returns the app's configuration.
func (a *App) Config() *config.Config { return a.cfg }

// GetState returns the current document.
func (a *App) GetState() (*model.Document, error) {
	return a.service.Load()
}

// SaveState persists doc as the current document, taking a snapshot of it
// first when createBackup is true. The operation is journaled.
func (a *App) SaveState(doc *model.Document, createBackup bool) (time.Time, string, error) {
	started := a.clock.Now()
	savedAt, backupID, err := a.service.Save(doc, createBackup)
	a.recordJournal("SaveState", backupID, started, err)
	return savedAt, backupID, err
}

// ListBackups returns the current backup catalog in creation order.
func (a *App) ListBackups() ([]model.BackupRecord, error) {
	return a.service.ListBackups()
}

// Restore replaces the current document with the named snapshot's content,
// taking a safety snapshot first. The operation is journaled.
func (a *App) Restore(backupID string) (time.Time, *model.Document, error) {
	started := a.clock.Now()
	restoredAt, doc, err := a.service.Restore(backupID)
	a.recordJournal("Restore", backupID, started, err)
	return restoredAt, doc, err
}

// History returns the most recent journal entries, newest first.
func (a *App) History(limit int) ([]*model.JournalEntry, error) {
	return a.journal.List(limit)
}

// FetchMirrored downloads the snapshot for backupID from the mirror and
// writes its plaintext to w. When encryption is configured the passphrase
// unlocks the private key; otherwise it is ignored.
func (a *App) FetchMirrored(backupID string, passphrase string, w io.Writer) error {
	if a.mirror == nil {
		return fmt.Errorf("no mirror configured")
	}

	backups, err := a.service.ListBackups()
	if err != nil {
		return err
	}

	var name string
	for _, b := range backups {
		if b.ID == backupID {
			name = path.Base(b.FilePath)
			break
		}
	}
	if name == "" {
		return fmt.Errorf("%w: %s", state.ErrNotFound, backupID)
	}

	if !a.encryptor.IsConfigured() {
		return a.mirror.Fetch(name, w)
	}

	ctx, err := a.encryptor.Unlock(passphrase)
	if err != nil {
		return fmt.Errorf("unlocking private key: %w", err)
	}

	pr, pw := io.Pipe()
	fetchErrCh := make(chan error, 1)
	go func() {
		err := a.mirror.Fetch(name, pw)
		pw.CloseWithError(err)
		fetchErrCh <- err
	}()

	decryptErr := ctx.Decrypt(pr, w)
	pr.CloseWithError(decryptErr) // unblock goroutine if Decrypt failed early
	<-fetchErrCh                  // wait for goroutine to finish (no leak)

	if decryptErr != nil {
		return fmt.Errorf("decrypting snapshot: %w", decryptErr)
	}
	return nil
}

// Encryptor returns the configured encryptor, for CLI key setup.
func (a *App) Encryptor() state.Encryptor { return a.encryptor }

// Logger returns the app's logger, for handlers that log directly.
func (a *App) Logger() state.Logger { return a.logger }

// recordJournal appends a journal entry for a finished mutating operation.
// Journal writes are best-effort: a failed append is logged, never
// propagated; the document write already succeeded or failed on its own.
func (a *App) recordJournal(op string, backupID string, started time.Time, opErr error) {
	status := "success"
	if opErr != nil {
		status = "error"
	}
	finished := a.clock.Now()

	entry := &model.JournalEntry{
		ID:         a.idgen.New(),
		Operation:  op,
		BackupID:   backupID,
		Status:     status,
		StartedAt:  started,
		FinishedAt: &finished,
	}
	if err := a.journal.Record(entry); err != nil {
		a.logger.Warn("journal write failed", "operation", op, "error", err)
	}
}

// Close releases the journal and the log file.
func (a *App) Close() error {
	var firstErr error

	if a.journal != nil {
		if err := a.journal.Close(); err != nil {
			firstErr = fmt.Errorf("closing journal: %w", err)
		}
	}

	if a.logFile != nil {
		a.logFile.Close()
	}

	return firstErr
}
