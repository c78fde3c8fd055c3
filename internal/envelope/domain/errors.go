package domain

import (
	"github.com/allisson/fieldcrypt/internal/errors"
)

// Envelope and record store error definitions.
var (
	// ErrMalformedEnvelope indicates the envelope string does not have five fields, has an
	// empty key version, holds invalid base64 or has a nonce or tag of the wrong length.
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrMalformedEnvelope = errors.Wrap(errors.ErrInvalidInput, "malformed envelope")

	// ErrUnsupportedFormatVersion indicates a well-formed envelope whose first field is not "1".
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrUnsupportedFormatVersion = errors.Wrap(errors.ErrInvalidInput, "unsupported envelope format version")

	// ErrStoreUnavailable indicates the record store rejected or failed a read or write.
	//
	// HTTP Status: 503 Service Unavailable
	ErrStoreUnavailable = errors.Wrap(errors.ErrUnavailable, "record store unavailable")
)
