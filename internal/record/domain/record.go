// Package domain defines the encrypted record stored per identity.
package domain

import (
	"time"

	envelopeDomain "github.com/allisson/fieldcrypt/internal/envelope/domain"
)

// Record holds the envelope stored for one identity.
type Record struct {
	// Identity is the record key (e.g. a username).
	Identity string
	// Envelope is the serialized ciphertext envelope. It is opaque to the store.
	Envelope string
	// CreatedAt is the UTC timestamp when the record was first stored.
	CreatedAt time.Time
	// UpdatedAt is the UTC timestamp of the last envelope write.
	UpdatedAt time.Time
}

// KeyVersion returns the key version named by the stored envelope, or "" when the
// envelope cannot be parsed.
func (r *Record) KeyVersion() string {
	env, err := envelopeDomain.ParseEnvelope(r.Envelope)
	if err != nil {
		return ""
	}
	return env.KeyVersion
}

// RevealedRecord is the decrypted value of a record after a read with lazy rotation.
type RevealedRecord struct {
	Identity string
	// Plaintext must be zeroed by the caller after use.
	Plaintext  []byte
	Rotated    bool
	OldVersion string
	NewVersion string
}
