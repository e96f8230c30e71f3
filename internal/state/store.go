package state

import (
	"io"

	"plannerd/internal/model"
)

// LoadResult is the outcome of reading the document file. Recovered
// distinguishes a clean load (or a fresh default for a missing file) from
// a fallback taken because the on-disk file was unreadable: in the latter
// case Document is a fresh default and Cause carries the original failure
// so callers can surface the data-loss risk instead of masking it.
type LoadResult struct {
	Document  *model.Document
	Recovered bool
	Cause     error
}

// DocumentStore owns durable read/write of exactly one JSON document at a
// fixed path.
type DocumentStore interface {
	// Load reads the document file. A missing file is not an error: a
	// fresh default document is returned. A file that exists but fails to
	// parse or fails structural validation also yields a default document,
	// with Recovered set; the store never returns a partially constructed
	// or nil document.
	Load() (*LoadResult, error)

	// Save serializes the full document and overwrites the file in one
	// operation. Always overwrites unconditionally: last write wins. No
	// version check, no merge.
	Save(doc *model.Document) error
}

// SnapshotStore holds one immutable payload per snapshot file, keyed by
// filename. Writing an existing name overwrites its content; the catalog's
// one-second id granularity makes that reachable for rapid snapshots.
type SnapshotStore interface {
	// Put stores the payload read from r under name. size is the number
	// of bytes that will be read from r.
	Put(name string, r io.Reader, size int64) error

	// Get retrieves the payload stored under name and writes it to w.
	Get(name string, w io.Writer) error

	// Exists reports whether a payload is stored under name.
	Exists(name string) (bool, error)
}
