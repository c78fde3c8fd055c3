// Package keysource provides KeySource implementations backed by HashiCorp Vault KV v2
// and by static environment configuration.
package keysource

import (
	"github.com/allisson/fieldcrypt/internal/errors"
)

// Static key source configuration errors.
var (
	// ErrKeyVersionsNotSet indicates KEY_VERSIONS is empty.
	ErrKeyVersionsNotSet = errors.Wrap(errors.ErrInvalidInput, "KEY_VERSIONS not set")

	// ErrActiveKeyVersionNotSet indicates ACTIVE_KEY_VERSION is empty.
	ErrActiveKeyVersionNotSet = errors.Wrap(errors.ErrInvalidInput, "ACTIVE_KEY_VERSION not set")

	// ErrInvalidKeyVersionsFormat indicates an entry of KEY_VERSIONS is not "version:base64key".
	ErrInvalidKeyVersionsFormat = errors.Wrap(errors.ErrInvalidInput, "invalid KEY_VERSIONS format")

	// ErrDuplicateKeyVersion indicates the same version id appears twice in KEY_VERSIONS.
	ErrDuplicateKeyVersion = errors.Wrap(errors.ErrInvalidInput, "duplicate key version")

	// ErrActiveKeyVersionNotFound indicates ACTIVE_KEY_VERSION does not name any entry.
	ErrActiveKeyVersionNotFound = errors.Wrap(errors.ErrInvalidInput, "active key version not found")
)
