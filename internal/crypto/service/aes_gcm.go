package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"

	cryptoDomain "github.com/allisson/fieldcrypt/internal/crypto/domain"
)

// AESGCMCipher implements the AEAD interface using AES-256-GCM.
//
// Security properties:
//   - 256-bit key size
//   - 12-byte nonce, randomly generated for every Seal call
//   - 16-byte authentication tag, returned separately from the ciphertext
//   - no additional authenticated data
//
// The cipher instance is stateless and safe for concurrent use.
type AESGCMCipher struct {
	aead cipher.AEAD
}

// NewAESGCM creates a new AES-256-GCM cipher instance.
//
// The key must be exactly 32 bytes. The cipher keeps its own expanded key schedule, so
// the caller may zero the key slice as soon as this function returns.
func NewAESGCM(key []byte) (*AESGCMCipher, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, errors.New("key must be exactly 32 bytes")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &AESGCMCipher{aead: aead}, nil
}

// Seal encrypts plaintext with a fresh random nonce and splits the GCM output into
// ciphertext and the trailing 16-byte tag.
func (a *AESGCMCipher) Seal(plaintext []byte) (nonce, tag, ciphertext []byte, err error) {
	nonce = make([]byte, a.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := a.aead.Seal(nil, nonce, plaintext, nil)
	split := len(sealed) - a.aead.Overhead()

	return nonce, sealed[split:], sealed[:split], nil
}

// Open decrypts ciphertext after verifying tag under nonce.
//
// Wrong nonce or tag lengths, a tampered ciphertext and a wrong key all produce the same
// ErrAuthenticationFailure so callers cannot tell them apart.
func (a *AESGCMCipher) Open(nonce, tag, ciphertext []byte) ([]byte, error) {
	if len(nonce) != a.aead.NonceSize() || len(tag) != a.aead.Overhead() {
		return nil, cryptoDomain.ErrAuthenticationFailure
	}

	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := a.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, cryptoDomain.ErrAuthenticationFailure
	}
	return plaintext, nil
}
