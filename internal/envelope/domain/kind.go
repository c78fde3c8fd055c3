package domain

import (
	"errors"

	cryptoDomain "github.com/allisson/fieldcrypt/internal/crypto/domain"
)

// ErrorKind is the closed set of failure categories reported to callers.
type ErrorKind string

const (
	KindKeyNotFound              ErrorKind = "key_not_found"
	KindInvalidKeyMaterial       ErrorKind = "invalid_key_material"
	KindKeyProviderUnavailable   ErrorKind = "key_provider_unavailable"
	KindMalformedEnvelope        ErrorKind = "malformed_envelope"
	KindUnsupportedFormatVersion ErrorKind = "unsupported_format_version"
	KindAuthenticationFailure    ErrorKind = "authentication_failure"
	KindStoreUnavailable         ErrorKind = "store_unavailable"
	KindUnknown                  ErrorKind = "unknown"
)

// kindErrors is checked in order; the first sentinel found in the chain wins.
var kindErrors = []struct {
	err  error
	kind ErrorKind
}{
	{ErrMalformedEnvelope, KindMalformedEnvelope},
	{ErrUnsupportedFormatVersion, KindUnsupportedFormatVersion},
	{cryptoDomain.ErrAuthenticationFailure, KindAuthenticationFailure},
	{cryptoDomain.ErrInvalidKeyMaterial, KindInvalidKeyMaterial},
	{cryptoDomain.ErrKeyNotFound, KindKeyNotFound},
	{cryptoDomain.ErrKeyProviderUnavailable, KindKeyProviderUnavailable},
	{ErrStoreUnavailable, KindStoreUnavailable},
}

// KindOf classifies err. Errors outside the taxonomy are KindUnknown.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	for _, ke := range kindErrors {
		if errors.Is(err, ke.err) {
			return ke.kind
		}
	}
	return KindUnknown
}
