// Package domain defines the core cryptographic domain models for versioned field encryption.
//
// A key family is a named series of 256-bit keys, each identified by an opaque version
// string. Exactly one version is active at a time; older versions stay readable so that
// envelopes sealed under them can be decrypted and rotated.
package domain

import "fmt"

// KeyMaterial is one version of a key family's symmetric key.
//
// KeyMaterial is borrowed for the duration of a single encrypt or decrypt call and then
// zeroed. It is never cached or persisted by this module.
type KeyMaterial struct {
	Version string // Opaque version identifier (e.g. "v3")
	Key     []byte // Raw 32-byte key
}

// NewKeyMaterial validates the key length and returns the key material.
// The caller's slice is retained, not copied.
func NewKeyMaterial(version string, key []byte) (*KeyMaterial, error) {
	if version == "" {
		return nil, fmt.Errorf("%w: empty key version", ErrKeyNotFound)
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf(
			"%w: key version %s must be %d bytes, got %d",
			ErrInvalidKeyMaterial,
			version,
			KeySize,
			len(key),
		)
	}
	return &KeyMaterial{Version: version, Key: key}, nil
}

// Zero clears the key bytes. Safe to call on a nil receiver.
func (k *KeyMaterial) Zero() {
	if k == nil {
		return
	}
	Zero(k.Key)
}
