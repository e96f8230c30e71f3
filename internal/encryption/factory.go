package encryption

import (
	"fmt"

	"plannerd/internal/config"
	"plannerd/internal/state"
)

// NewEncryptorFromConfig creates an Encryptor implementation based on the
// encryption config type.
func NewEncryptorFromConfig(cfg config.EncryptionConfig) (state.Encryptor, error) {
	switch cfg.Type {
	case "", "none":
		return NewNoneEncryptor(), nil
	case "age":
		return NewAgeEncryptor(cfg), nil
	default:
		return nil, fmt.Errorf("unknown encryption type: %s", cfg.Type)
	}
}
