package journal

import (
	"fmt"
	"path/filepath"

	"plannerd/internal/config"
	"plannerd/internal/state"
)

// NewJournalFromConfig creates a Journal implementation based on the
// journal config type. dir is the effective journal directory
// (config.JournalDir()).
func NewJournalFromConfig(cfg config.JournalConfig, dir string) (state.Journal, error) {
	switch cfg.Type {
	case "sqlite", "":
		if dir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite journal")
		}
		return NewSQLiteJournal(filepath.Join(dir, "journal.db"))
	case "memory":
		return NewSQLiteJournal(":memory:")
	default:
		return nil, fmt.Errorf("unknown journal type: %s", cfg.Type)
	}
}
