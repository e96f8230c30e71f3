package snapshot

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"plannerd/internal/state"
)

// MemorySnapshotStore keeps snapshot payloads in memory. Useful for
// testing. Safe for concurrent use.
type MemorySnapshotStore struct {
	mu       sync.RWMutex
	payloads map[string][]byte
}

// NewMemorySnapshotStore creates an empty in-memory snapshot store.
func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{payloads: make(map[string][]byte)}
}

// Put stores the payload under name, replacing any existing one.
func (m *MemorySnapshotStore) Put(name string, r io.Reader, size int64) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading snapshot: %w", err)
	}
	if int64(len(data)) != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.payloads[name] = data
	return nil
}

// Get writes the payload stored under name to w.
func (m *MemorySnapshotStore) Get(name string, w io.Writer) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.payloads[name]
	if !ok {
		return fmt.Errorf("snapshot not found: %s", name)
	}
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// Exists reports whether a payload is stored under name.
func (m *MemorySnapshotStore) Exists(name string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.payloads[name]
	return ok, nil
}

// Delete removes the payload stored under name, if any. Test helper for
// simulating catalog/filesystem divergence.
func (m *MemorySnapshotStore) Delete(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.payloads, name)
}

// Compile-time check that MemorySnapshotStore implements state.SnapshotStore.
var _ state.SnapshotStore = (*MemorySnapshotStore)(nil)
