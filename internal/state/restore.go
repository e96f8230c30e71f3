package state

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"plannerd/internal/model"
)

// Restore replaces the current document with the content of the snapshot
// identified by backupID. Before anything is overwritten a safety snapshot
// of the current document is taken, so the pre-restore state is itself
// recoverable. The restored document keeps the *current* catalog (with the
// safety record appended) rather than the snapshot's historical one: the
// catalog is an append-only audit trail, and restoring old business data
// must not hide the record of backups taken since.
//
// Returns ErrNotFound (wrapped) when backupID has no catalog record or the
// referenced snapshot file is missing; in either case nothing is written.
func (s *Service) Restore(backupID string) (time.Time, *model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load()
	if err != nil {
		return time.Time{}, nil, err
	}

	rec := current.FindBackup(backupID)
	if rec == nil {
		return time.Time{}, nil, fmt.Errorf("%w: %s", ErrNotFound, backupID)
	}

	name := path.Base(rec.FilePath)
	exists, err := s.snapshots.Exists(name)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("checking snapshot %s: %w", rec.FilePath, err)
	}
	if !exists {
		return time.Time{}, nil, fmt.Errorf("%w: snapshot file %s is missing", ErrNotFound, rec.FilePath)
	}

	now := s.clock.Now()
	if _, err := s.createSnapshot(current, now, PreRestoreReason); err != nil {
		return time.Time{}, nil, fmt.Errorf("creating safety snapshot: %w", err)
	}

	var buf bytes.Buffer
	if err := s.snapshots.Get(name, &buf); err != nil {
		return time.Time{}, nil, fmt.Errorf("reading snapshot %s: %w", rec.FilePath, err)
	}

	candidate := model.NewDocument()
	if err := json.Unmarshal(buf.Bytes(), candidate); err != nil {
		return time.Time{}, nil, fmt.Errorf("parsing snapshot %s: %w", rec.FilePath, err)
	}
	candidate.Normalize()
	if err := candidate.Validate(); err != nil {
		return time.Time{}, nil, fmt.Errorf("snapshot %s: %w", rec.FilePath, err)
	}

	// The current catalog wins over the snapshot's embedded one.
	candidate.Backups = current.Backups

	if err := s.store.Save(candidate); err != nil {
		return time.Time{}, nil, fmt.Errorf("saving restored document: %w", err)
	}

	s.logger.Info("document restored", "backup_id", backupID)
	return now, candidate, nil
}
