package snapshot

import (
	"fmt"

	"plannerd/internal/config"
	"plannerd/internal/state"
)

// NewSnapshotStoreFromConfig creates a SnapshotStore implementation based
// on the snapshot config type. dir is the effective snapshot directory
// (config.SnapshotDir()).
func NewSnapshotStoreFromConfig(cfg config.SnapshotConfig, dir string) (state.SnapshotStore, error) {
	switch cfg.Type {
	case "memory":
		return NewMemorySnapshotStore(), nil
	case "filesystem", "":
		return NewFileSnapshotStore(dir)
	default:
		return nil, fmt.Errorf("unknown snapshot store type: %s", cfg.Type)
	}
}
