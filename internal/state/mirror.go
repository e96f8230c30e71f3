package state

import "io"

// Mirror is an optional offsite copy of each snapshot file. Uploads are
// best-effort: the local snapshot store stays authoritative and a failed
// mirror write never fails the save that produced the snapshot.
type Mirror interface {
	// Put stores a snapshot payload under name. size is the number of
	// bytes that will be read from r.
	Put(name string, r io.Reader, size int64) error

	// Fetch retrieves a mirrored snapshot payload and writes it to w.
	Fetch(name string, w io.Writer) error

	// ValidateSetup verifies that the mirror is accessible and properly
	// configured.
	ValidateSetup() error
}
