package state

import "plannerd/internal/model"

// Journal records mutating operations (save, restore) for audit purposes.
// It complements the in-document backup catalog: the catalog is the
// authoritative list of snapshots, the journal is the history of what was
// done and when.
type Journal interface {
	// Record appends an entry. The entry's ID must be set by the caller.
	Record(entry *model.JournalEntry) error

	// List returns the most recent entries, newest first.
	List(limit int) ([]*model.JournalEntry, error)

	// Close closes the underlying storage.
	Close() error
}
