package state

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path"
	"sync"
	"time"

	"plannerd/internal/model"
)

// PreRestoreReason is recorded on the safety snapshot taken before a
// restore overwrites the current document.
const PreRestoreReason = "pre_restore"

// Service is the orchestration layer over the document store and the
// backup catalog. A single mutex serializes every load+mutate+save
// sequence: the document file has no locking discipline of its own and
// concurrent writers follow last-write-wins semantics, so in-process
// serialization is the only guard against interleaved partial writes.
// Cross-process coordination is explicitly not provided.
type Service struct {
	store     DocumentStore
	snapshots SnapshotStore
	mirror    Mirror    // nil when mirroring is disabled
	encryptor Encryptor // encrypts mirror uploads when configured
	logger    Logger
	clock     Clock

	mu sync.Mutex
}

// NewService creates a Service with the provided dependencies.
// mirror may be nil to disable offsite snapshot copies.
func NewService(store DocumentStore, snapshots SnapshotStore, mirror Mirror, encryptor Encryptor, logger Logger, clock Clock) *Service {
	return &Service{
		store:     store,
		snapshots: snapshots,
		mirror:    mirror,
		encryptor: encryptor,
		logger:    logger,
		clock:     clock,
	}
}

// Load returns the current document. A missing file yields a fresh default
// document; an unreadable file yields a fresh default with a warning. The
// caller always gets a structurally valid document.
func (s *Service) Load() (*model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// load is Load without the mutex, for callers already holding it.
func (s *Service) load() (*model.Document, error) {
	res, err := s.store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading document: %w", err)
	}
	if res.Recovered {
		s.logger.Warn("document file unreadable, fell back to default document", "cause", res.Cause)
	}
	if res.Document.SchemaVersion != model.SchemaVersion {
		s.logger.Warn("document schema version mismatch",
			"have", res.Document.SchemaVersion, "want", model.SchemaVersion)
	}
	return res.Document, nil
}

// Save persists the document as the new current state, last write wins.
// When createBackup is true, a snapshot of doc is taken first and its
// record is appended to doc's catalog before the write, so the persisted
// document carries the updated catalog. Returns the wall-clock time used
// for the operation and the new backup id ("" when no backup was made).
func (s *Service) Save(doc *model.Document, createBackup bool) (time.Time, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc.Normalize()
	now := s.clock.Now()

	var backupID string
	if createBackup {
		rec, err := s.createSnapshot(doc, now, model.DefaultBackupReason)
		if err != nil {
			return time.Time{}, "", fmt.Errorf("creating backup: %w", err)
		}
		backupID = rec.ID
	}

	if err := s.store.Save(doc); err != nil {
		return time.Time{}, "", fmt.Errorf("saving document: %w", err)
	}

	s.logger.Info("document saved", "backup_id", backupID)
	return now, backupID, nil
}

// ListBackups returns the current document's catalog in insertion order,
// which is chronological creation order. Only the catalog is consulted,
// never the snapshot directory: an orphaned snapshot file is invisible and
// a record whose file was deleted surfaces only on restore.
func (s *Service) ListBackups() ([]model.BackupRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	return doc.Backups, nil
}

// createSnapshot writes a full copy of doc to the snapshot store and
// appends a catalog record to doc.Backups unless an identical record is
// already present. The snapshot payload is serialized after the append,
// so the snapshot file contains its own catalog entry. The current
// document file is NOT written here; persisting the updated catalog is
// the caller's responsibility.
//
// Ids and filenames derive from ts at one-second granularity: two
// snapshots within the same second share an id and filename, and the
// second write overwrites the first file's content.
func (s *Service) createSnapshot(doc *model.Document, ts time.Time, reason string) (*model.BackupRecord, error) {
	stamp := ts.Format("20060102_150405")
	name := "state_" + stamp + ".json"

	rec := model.BackupRecord{
		ID:           "bkp_" + stamp,
		CreatedAtISO: ts.Format(time.RFC3339),
		Reason:       reason,
		FilePath:     path.Join("backups", name),
	}

	if !doc.HasBackup(rec) {
		doc.Backups = append(doc.Backups, rec)
	}

	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing snapshot: %w", err)
	}

	if err := s.snapshots.Put(name, bytes.NewReader(payload), int64(len(payload))); err != nil {
		return nil, fmt.Errorf("writing snapshot %s: %w", name, err)
	}

	s.mirrorSnapshot(name, payload)

	s.logger.Info("snapshot created", "backup_id", rec.ID, "reason", reason)
	return &rec, nil
}

// mirrorSnapshot uploads a snapshot payload to the mirror, encrypting it
// first when an encryptor is configured. Best-effort: failures are logged
// and never propagate; the local snapshot is authoritative.
func (s *Service) mirrorSnapshot(name string, payload []byte) {
	if s.mirror == nil {
		return
	}

	data := payload
	if s.encryptor != nil && s.encryptor.IsConfigured() {
		var buf bytes.Buffer
		if err := s.encryptor.Encrypt(bytes.NewReader(payload), &buf); err != nil {
			s.logger.Warn("mirror upload skipped: encryption failed", "snapshot", name, "error", err)
			return
		}
		data = buf.Bytes()
	}

	if err := s.mirror.Put(name, bytes.NewReader(data), int64(len(data))); err != nil {
		s.logger.Warn("mirror upload failed", "snapshot", name, "error", err)
		return
	}
	s.logger.Debug("snapshot mirrored", "snapshot", name)
}
