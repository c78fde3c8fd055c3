package domain

import "context"

// KMSKeeper unwraps key values that are stored encrypted by an external KMS.
//
// *secrets.Keeper from gocloud.dev satisfies this interface.
type KMSKeeper interface {
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}
