package testutil

import (
	"testing"

	"plannerd/internal/mirror"
	"plannerd/internal/snapshot"
	"plannerd/internal/store"
)

// NewTestStore creates a FileStore rooted in a fresh temp directory.
func NewTestStore(t *testing.T) *store.FileStore {
	t.Helper()
	s, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}
	return s
}

// NewTestSnapshotStore creates an in-memory snapshot store.
func NewTestSnapshotStore() *snapshot.MemorySnapshotStore {
	return snapshot.NewMemorySnapshotStore()
}

// NewTestMirror creates an in-memory mirror.
func NewTestMirror() *mirror.MemoryMirror {
	return mirror.NewMemoryMirror()
}
