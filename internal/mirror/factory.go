package mirror

import (
	"fmt"

	"plannerd/internal/config"
	"plannerd/internal/state"
)

// NewMirrorFromConfig creates a Mirror implementation based on the mirror
// config type. Returns (nil, nil) when mirroring is disabled.
func NewMirrorFromConfig(cfg config.MirrorConfig) (state.Mirror, error) {
	switch cfg.Type {
	case "":
		return nil, nil
	case "memory":
		return NewMemoryMirror(), nil
	case "s3":
		return NewS3Mirror(cfg)
	default:
		return nil, fmt.Errorf("unknown mirror type: %s", cfg.Type)
	}
}
