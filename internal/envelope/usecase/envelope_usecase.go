package usecase

import (
	"context"

	cryptoDomain "github.com/allisson/fieldcrypt/internal/crypto/domain"
	cryptoService "github.com/allisson/fieldcrypt/internal/crypto/service"
	envelopeDomain "github.com/allisson/fieldcrypt/internal/envelope/domain"
	apperrors "github.com/allisson/fieldcrypt/internal/errors"
)

// envelopeUseCase implements EnvelopeUseCase.
type envelopeUseCase struct {
	keyProvider cryptoService.KeyProvider
	aeadManager cryptoService.AEADManager
}

// Encrypt seals plaintext with a fresh nonce under the current key version.
//
// The key material is zeroed before returning. Nothing is persisted.
func (e *envelopeUseCase) Encrypt(
	ctx context.Context,
	plaintext []byte,
) (*envelopeDomain.EncryptResult, error) {
	km, err := e.keyProvider.Current(ctx)
	if err != nil {
		return nil, err
	}
	defer km.Zero()

	env, err := seal(e.aeadManager, km, plaintext)
	if err != nil {
		return nil, err
	}

	return &envelopeDomain.EncryptResult{
		Envelope:   env.String(),
		KeyVersion: km.Version,
	}, nil
}

// Decrypt parses envelope and opens it.
func (e *envelopeUseCase) Decrypt(ctx context.Context, envelope string) ([]byte, error) {
	env, err := envelopeDomain.ParseEnvelope(envelope)
	if err != nil {
		return nil, err
	}
	return e.DecryptEnvelope(ctx, env)
}

// DecryptEnvelope fetches the key version named by env and opens it.
//
// A tag mismatch is reported as ErrAuthenticationFailure without further detail.
func (e *envelopeUseCase) DecryptEnvelope(
	ctx context.Context,
	env envelopeDomain.Envelope,
) ([]byte, error) {
	km, err := e.keyProvider.ByVersion(ctx, env.KeyVersion)
	if err != nil {
		return nil, err
	}
	defer km.Zero()

	return open(e.aeadManager, km, env)
}

// seal encrypts plaintext under km and builds the envelope labelled with km.Version.
func seal(
	aeadManager cryptoService.AEADManager,
	km *cryptoDomain.KeyMaterial,
	plaintext []byte,
) (envelopeDomain.Envelope, error) {
	cipher, err := aeadManager.CreateCipher(km.Key, cryptoDomain.AESGCM)
	if err != nil {
		return envelopeDomain.Envelope{}, err
	}

	nonce, tag, ciphertext, err := cipher.Seal(plaintext)
	if err != nil {
		return envelopeDomain.Envelope{}, apperrors.Wrap(err, "failed to encrypt plaintext")
	}

	return envelopeDomain.NewEnvelope(km.Version, nonce, tag, ciphertext)
}

// open decrypts env with km.
func open(
	aeadManager cryptoService.AEADManager,
	km *cryptoDomain.KeyMaterial,
	env envelopeDomain.Envelope,
) ([]byte, error) {
	cipher, err := aeadManager.CreateCipher(km.Key, cryptoDomain.AESGCM)
	if err != nil {
		return nil, err
	}
	return cipher.Open(env.Nonce, env.Tag, env.Ciphertext)
}

// NewEnvelopeUseCase creates a new EnvelopeUseCase.
func NewEnvelopeUseCase(
	keyProvider cryptoService.KeyProvider,
	aeadManager cryptoService.AEADManager,
) EnvelopeUseCase {
	return &envelopeUseCase{
		keyProvider: keyProvider,
		aeadManager: aeadManager,
	}
}
