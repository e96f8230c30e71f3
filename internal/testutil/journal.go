package testutil

import (
	"testing"

	"plannerd/internal/journal"
)

// NewTestJournal creates an in-memory SQLite journal, closed via t.Cleanup.
func NewTestJournal(t *testing.T) *journal.SQLiteJournal {
	t.Helper()
	j, err := journal.NewSQLiteJournal(":memory:")
	if err != nil {
		t.Fatalf("creating test journal: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}
