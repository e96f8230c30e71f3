package snapshot

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"plannerd/internal/state"
)

// FileSnapshotStore keeps one file per snapshot in a single directory.
// Names are chosen by the catalog (state_YYYYMMDD_HHMMSS.json); writing an
// existing name replaces its content.
type FileSnapshotStore struct {
	dir string
}

// NewFileSnapshotStore creates a snapshot store rooted at dir, creating
// the directory if needed.
func NewFileSnapshotStore(dir string) (*FileSnapshotStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating snapshot directory: %w", err)
	}
	return &FileSnapshotStore{dir: dir}, nil
}

// Put writes the payload to dir/name using atomic write (temp file + rename).
func (s *FileSnapshotStore) Put(name string, r io.Reader, size int64) error {
	destPath := filepath.Join(s.dir, name)

	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	written, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if written != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, written)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}

	success = true
	return nil
}

// Get reads dir/name and writes it to w.
func (s *FileSnapshotStore) Get(name string, w io.Writer) error {
	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("snapshot not found: %s", name)
		}
		return fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("reading snapshot: %w", err)
	}
	return nil
}

// Exists reports whether dir/name is present.
func (s *FileSnapshotStore) Exists(name string) (bool, error) {
	_, err := os.Stat(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("checking snapshot: %w", err)
	}
	return true, nil
}

// Compile-time check that FileSnapshotStore implements state.SnapshotStore.
var _ state.SnapshotStore = (*FileSnapshotStore)(nil)
