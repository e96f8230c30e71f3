package state

import "errors"

// ErrNotFound is returned when a backup id has no catalog record, or when
// a record's snapshot file is missing from disk (catalog/filesystem
// divergence). The HTTP layer maps it to 404.
var ErrNotFound = errors.New("backup not found")
