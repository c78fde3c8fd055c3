// Package service provides the cryptographic services behind versioned field encryption:
// the AES-256-GCM cipher with a detached authentication tag, the cipher factory, the KMS
// keeper opener and the key provider adapter over an external key source.
package service

import (
	"context"

	cryptoDomain "github.com/allisson/fieldcrypt/internal/crypto/domain"
)

// AEAD defines authenticated encryption with the tag kept apart from the ciphertext.
type AEAD interface {
	// Seal encrypts plaintext under a freshly generated random nonce.
	Seal(plaintext []byte) (nonce, tag, ciphertext []byte, err error)

	// Open verifies the tag and decrypts. Any verification failure is reported as
	// cryptoDomain.ErrAuthenticationFailure.
	Open(nonce, tag, ciphertext []byte) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// KeySource is the read contract of the external secret store holding a key family.
//
// Values are returned exactly as stored: base64 text, possibly KMS-wrapped.
type KeySource interface {
	// FetchCurrent returns the active value and its version identifier from one atomic read.
	FetchCurrent(ctx context.Context, family string) (valueBase64, versionID string, err error)

	// FetchVersion returns the value stored for versionID.
	// Returns cryptoDomain.ErrKeyNotFound if the version has no value.
	FetchVersion(ctx context.Context, family, versionID string) (valueBase64 string, err error)
}

// KeyProvider resolves validated key material for a single key family.
type KeyProvider interface {
	// Current returns the active key material together with its version.
	Current(ctx context.Context) (*cryptoDomain.KeyMaterial, error)

	// ByVersion returns the key material stored under an explicit version.
	ByVersion(ctx context.Context, version string) (*cryptoDomain.KeyMaterial, error)
}
