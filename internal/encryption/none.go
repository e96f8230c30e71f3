package encryption

import (
	"fmt"
	"io"

	"plannerd/internal/state"
)

// NoneEncryptor is the default encryptor: it never reports itself as
// configured, so mirrored snapshots are uploaded in plaintext. Unlock
// still works and yields a passthrough context, keeping fetch code paths
// uniform.
type NoneEncryptor struct{}

var _ state.Encryptor = (*NoneEncryptor)(nil)

func NewNoneEncryptor() *NoneEncryptor { return &NoneEncryptor{} }

// Setup is a no-op: there are no keys to generate.
func (*NoneEncryptor) Setup(string) error { return nil }

// Encrypt copies r to w unchanged.
func (*NoneEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copying data: %w", err)
	}
	return nil
}

// Unlock ignores the passphrase and returns a passthrough context.
func (*NoneEncryptor) Unlock(string) (state.DecryptionContext, error) {
	return &passthroughContext{}, nil
}

// IsConfigured always returns false: nothing is ever encrypted.
func (*NoneEncryptor) IsConfigured() bool { return false }

type passthroughContext struct{}

func (*passthroughContext) Decrypt(r io.Reader, w io.Writer) error {
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copying data: %w", err)
	}
	return nil
}
