package service

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/allisson/go-pwdhash"

	apperrors "github.com/allisson/fieldcrypt/internal/errors"
)

// adminTokenSize is the number of random bytes in a generated token.
const adminTokenSize = 32

// adminTokenService implements AdminTokenService using Argon2id hashes.
type adminTokenService struct {
	hasher *pwdhash.PasswordHasher
}

// NewAdminTokenService creates an AdminTokenService using the Moderate Argon2id policy.
func NewAdminTokenService() AdminTokenService {
	hasher, err := pwdhash.New(
		pwdhash.WithPolicy(pwdhash.PolicyModerate),
	)
	if err != nil {
		// This should never happen with valid policy
		panic(err)
	}

	return &adminTokenService{
		hasher: hasher,
	}
}

// Generate creates a URL-safe base64 token from 32 random bytes and hashes it.
func (s *adminTokenService) Generate() (string, string, error) {
	randomBytes := make([]byte, adminTokenSize)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate admin token")
	}
	plainToken := base64.RawURLEncoding.EncodeToString(randomBytes)

	tokenHash, err := s.hasher.Hash([]byte(plainToken))
	if err != nil {
		return "", "", apperrors.Wrap(err, "failed to hash admin token")
	}

	return plainToken, tokenHash, nil
}

// Verify compares plainToken against tokenHash in constant time.
func (s *adminTokenService) Verify(plainToken string, tokenHash string) bool {
	if plainToken == "" || tokenHash == "" {
		return false
	}
	ok, err := s.hasher.Verify([]byte(plainToken), tokenHash)
	if err != nil {
		return false
	}
	return ok
}
