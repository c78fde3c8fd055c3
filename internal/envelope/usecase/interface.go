// Package usecase implements envelope encryption, decryption and key rotation.
package usecase

import (
	"context"

	envelopeDomain "github.com/allisson/fieldcrypt/internal/envelope/domain"
	recordDomain "github.com/allisson/fieldcrypt/internal/record/domain"
)

// RecordStore is the external store holding one envelope per identity.
//
// Writes are unconditional: a Put racing another writer of the same identity is
// last-write-wins.
type RecordStore interface {
	Put(ctx context.Context, identity, envelope string) error
	// ListAfter returns up to limit records ordered by identity, starting after
	// afterIdentity. An empty afterIdentity starts from the beginning.
	ListAfter(ctx context.Context, afterIdentity string, limit int) ([]*recordDomain.Record, error)
}

// EnvelopeUseCase defines stateless encrypt and decrypt operations.
type EnvelopeUseCase interface {
	// Encrypt seals plaintext under the current key version.
	Encrypt(ctx context.Context, plaintext []byte) (*envelopeDomain.EncryptResult, error)
	// Decrypt parses a serialized envelope and opens it with the key version it names.
	//
	// Security Note: callers MUST zero the returned plaintext after use.
	Decrypt(ctx context.Context, envelope string) ([]byte, error)
	// DecryptEnvelope opens an already parsed envelope.
	DecryptEnvelope(ctx context.Context, env envelopeDomain.Envelope) ([]byte, error)
}

// RotationUseCase defines re-encryption of stale envelopes under the current key version.
type RotationUseCase interface {
	// Rewrite decrypts an envelope and, if its key version is not current, seals the
	// plaintext under the current version. It never writes to the store.
	Rewrite(ctx context.Context, envelope string) (*envelopeDomain.RewriteResult, error)
	// DecryptWithLazyRotation returns the plaintext of a stored envelope and persists the
	// rotated envelope before returning when its key version is stale.
	DecryptWithLazyRotation(
		ctx context.Context,
		identity, envelope string,
	) (*envelopeDomain.LazyResult, error)
	// RotateAll rewrites every stale envelope in the store.
	RotateAll(ctx context.Context) (*envelopeDomain.RotationReport, error)
}
