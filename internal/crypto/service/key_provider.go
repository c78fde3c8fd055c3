package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	cryptoDomain "github.com/allisson/fieldcrypt/internal/crypto/domain"
)

// keyProvider adapts a KeySource into validated key material for one key family.
//
// When a KMS keeper is configured, stored values are base64 KMS ciphertexts and are
// unwrapped before validation. Nothing is cached: every call goes to the source.
type keyProvider struct {
	source KeySource
	family string
	keeper cryptoDomain.KMSKeeper
}

// NewKeyProvider creates a KeyProvider for family backed by source.
// keeper may be nil when stored values are plain base64 keys.
func NewKeyProvider(source KeySource, family string, keeper cryptoDomain.KMSKeeper) KeyProvider {
	return &keyProvider{
		source: source,
		family: family,
		keeper: keeper,
	}
}

// Current returns the active key material.
//
// Value and version come from a single FetchCurrent call, so the version label always
// names the bytes that are returned.
func (p *keyProvider) Current(ctx context.Context) (*cryptoDomain.KeyMaterial, error) {
	value, version, err := p.source.FetchCurrent(ctx, p.family)
	if err != nil {
		return nil, classifySourceError(err)
	}
	if version == "" {
		return nil, fmt.Errorf("%w: no active version for key family %s", cryptoDomain.ErrKeyNotFound, p.family)
	}
	return p.materialize(ctx, version, value)
}

// ByVersion returns the key material stored under version.
func (p *keyProvider) ByVersion(ctx context.Context, version string) (*cryptoDomain.KeyMaterial, error) {
	if version == "" {
		return nil, fmt.Errorf("%w: empty key version", cryptoDomain.ErrKeyNotFound)
	}

	value, err := p.source.FetchVersion(ctx, p.family, version)
	if err != nil {
		return nil, classifySourceError(err)
	}
	return p.materialize(ctx, version, value)
}

// materialize decodes, optionally unwraps, and validates a stored value.
func (p *keyProvider) materialize(
	ctx context.Context,
	version, value string,
) (*cryptoDomain.KeyMaterial, error) {
	key, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("%w: key version %s is not valid base64", cryptoDomain.ErrInvalidKeyMaterial, version)
	}

	if p.keeper != nil {
		wrapped := key
		key, err = p.keeper.Decrypt(ctx, wrapped)
		if err != nil {
			return nil, fmt.Errorf(
				"%w: failed to unwrap key version %s: %v",
				cryptoDomain.ErrKeyProviderUnavailable,
				version,
				err,
			)
		}
	}

	km, err := cryptoDomain.NewKeyMaterial(version, key)
	if err != nil {
		cryptoDomain.Zero(key)
		return nil, err
	}
	return km, nil
}

// classifySourceError keeps the key error kinds from the source and maps anything else
// to ErrKeyProviderUnavailable.
func classifySourceError(err error) error {
	switch {
	case errors.Is(err, cryptoDomain.ErrKeyNotFound),
		errors.Is(err, cryptoDomain.ErrKeyProviderUnavailable),
		errors.Is(err, cryptoDomain.ErrInvalidKeyMaterial):
		return err
	default:
		return fmt.Errorf("%w: %v", cryptoDomain.ErrKeyProviderUnavailable, err)
	}
}
