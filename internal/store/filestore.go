package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"plannerd/internal/model"
	"plannerd/internal/state"
)

// StateFileName is the name of the current-document file inside the data
// directory.
const StateFileName = "state.json"

// FileStore persists the document as a single JSON file in a data
// directory. It owns that file exclusively; snapshot files live elsewhere.
type FileStore struct {
	dataDir   string
	statePath string
}

// NewFileStore creates a FileStore rooted at dataDir, creating the
// directory if needed.
func NewFileStore(dataDir string) (*FileStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &FileStore{
		dataDir:   dataDir,
		statePath: filepath.Join(dataDir, StateFileName),
	}, nil
}

// Load reads the document file. A missing file yields a fresh default
// document. A file that fails to parse or fails structural validation
// yields a fresh default with Recovered set and the failure in Cause;
// that is a silent-data-loss path for the file's previous content, so
// callers should surface the cause.
func (s *FileStore) Load() (*state.LoadResult, error) {
	data, err := os.ReadFile(s.statePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &state.LoadResult{Document: model.NewDocument()}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", s.statePath, err)
	}

	doc := model.NewDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		return recovered(fmt.Errorf("parsing %s: %w", s.statePath, err)), nil
	}
	doc.Normalize()
	if err := doc.Validate(); err != nil {
		return recovered(fmt.Errorf("validating %s: %w", s.statePath, err)), nil
	}

	return &state.LoadResult{Document: doc}, nil
}

// Save serializes the full document and replaces the file in one rename.
// The write lands fully or the prior file's content remains: a crash
// mid-write never leaves a truncated document behind.
func (s *FileStore) Save(doc *model.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("serializing document: %w", err)
	}

	// Temp file in the same directory so the rename stays on one filesystem.
	tmp, err := os.CreateTemp(s.dataDir, ".tmp-state-*")
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

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.statePath); err != nil {
		return fmt.Errorf("replacing %s: %w", s.statePath, err)
	}

	success = true
	return nil
}

func recovered(cause error) *state.LoadResult {
	return &state.LoadResult{
		Document:  model.NewDocument(),
		Recovered: true,
		Cause:     cause,
	}
}

// Compile-time check that FileStore implements state.DocumentStore.
var _ state.DocumentStore = (*FileStore)(nil)
