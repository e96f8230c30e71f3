package mirror

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"plannerd/internal/state"
)

// MemoryMirror keeps mirrored payloads in memory. Useful for testing.
// Safe for concurrent use.
type MemoryMirror struct {
	mu       sync.RWMutex
	payloads map[string][]byte
}

// NewMemoryMirror creates an empty in-memory mirror.
func NewMemoryMirror() *MemoryMirror {
	return &MemoryMirror{payloads: make(map[string][]byte)}
}

// Put stores the payload under name, replacing any existing one.
func (m *MemoryMirror) Put(name string, r io.Reader, size int64) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading payload: %w", err)
	}
	if int64(len(data)) != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.payloads[name] = data
	return nil
}

// Fetch writes the payload stored under name to w.
func (m *MemoryMirror) Fetch(name string, w io.Writer) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.payloads[name]
	if !ok {
		return fmt.Errorf("mirrored snapshot not found: %s", name)
	}
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing payload: %w", err)
	}
	return nil
}

// Has reports whether a payload is stored under name. Test helper.
func (m *MemoryMirror) Has(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.payloads[name]
	return ok
}

// ValidateSetup always succeeds for the in-memory mirror.
func (m *MemoryMirror) ValidateSetup() error {
	return nil
}

// Compile-time check that MemoryMirror implements state.Mirror.
var _ state.Mirror = (*MemoryMirror)(nil)
