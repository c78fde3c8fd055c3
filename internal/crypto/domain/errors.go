package domain

import (
	"github.com/allisson/fieldcrypt/internal/errors"
)

// Key and cipher error definitions.
//
// These domain-specific errors wrap standard errors from internal/errors so the HTTP
// layer can map them to status codes without inspecting messages. None of them ever
// carries key bytes, nonces or tags.
var (
	// ErrKeyNotFound indicates the key family has no material for the requested version,
	// or no active version is configured.
	//
	// HTTP Status: 404 Not Found
	ErrKeyNotFound = errors.Wrap(errors.ErrNotFound, "key not found")

	// ErrInvalidKeyMaterial indicates the key store returned a value that is not valid
	// base64 or does not decode to exactly 32 bytes.
	//
	// HTTP Status: 500 Internal Server Error
	ErrInvalidKeyMaterial = errors.New("invalid key material")

	// ErrKeyProviderUnavailable indicates the external key store could not be reached.
	//
	// HTTP Status: 503 Service Unavailable
	ErrKeyProviderUnavailable = errors.Wrap(errors.ErrUnavailable, "key provider unavailable")

	// ErrAuthenticationFailure indicates the authentication tag did not verify.
	//
	// This happens when the ciphertext or tag was tampered with, or when the envelope
	// was sealed with different key bytes than the ones stored under its version. The
	// specific cause is never disclosed.
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrAuthenticationFailure = errors.Wrap(errors.ErrInvalidInput, "authentication failure")
)

// ErrUnsupportedAlgorithm indicates the requested encryption algorithm is not supported.
var ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")
