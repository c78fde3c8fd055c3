// Package domain defines the self-describing ciphertext envelope and the closed set of
// error kinds reported by encryption, decryption and rotation.
package domain

import (
	"encoding/base64"
	"fmt"
	"strings"

	cryptoDomain "github.com/allisson/fieldcrypt/internal/crypto/domain"
)

// Envelope is a ciphertext together with everything needed to decrypt it except the key.
//
// Serialized form (standard base64 with padding):
//
//	1:<key_version>:<b64(nonce)>:<b64(tag)>:<b64(ciphertext)>
//
// Envelopes are values; nothing in this module mutates one after construction.
type Envelope struct {
	FormatVersion string
	KeyVersion    string
	Nonce         []byte // 12 bytes
	Tag           []byte // 16 bytes
	Ciphertext    []byte
}

// NewEnvelope builds a format "1" envelope and validates nonce and tag lengths.
//
// Returns ErrMalformedEnvelope if the key version is empty or contains the field
// separator, or if the nonce or tag has the wrong length.
func NewEnvelope(keyVersion string, nonce, tag, ciphertext []byte) (Envelope, error) {
	if err := validateParts(keyVersion, nonce, tag); err != nil {
		return Envelope{}, err
	}
	return Envelope{
		FormatVersion: FormatVersion,
		KeyVersion:    keyVersion,
		Nonce:         nonce,
		Tag:           tag,
		Ciphertext:    ciphertext,
	}, nil
}

// ParseEnvelope decodes the serialized form.
//
// The field count is checked before the format version, so "2:a:b" is malformed
// while "2:v1:<nonce>:<tag>:<ct>" is an unsupported format version.
//
// Returns:
//   - ErrMalformedEnvelope if there are not exactly five fields, the key version is
//     empty, a field is not valid base64, or the nonce or tag has the wrong length
//   - ErrUnsupportedFormatVersion if the first field is not "1"
func ParseEnvelope(s string) (Envelope, error) {
	parts := strings.Split(s, separator)
	if len(parts) != envelopeFields {
		return Envelope{}, fmt.Errorf(
			"%w: expected %d fields, got %d",
			ErrMalformedEnvelope,
			envelopeFields,
			len(parts),
		)
	}

	if parts[0] != FormatVersion {
		return Envelope{}, ErrUnsupportedFormatVersion
	}

	keyVersion := parts[1]
	if keyVersion == "" {
		return Envelope{}, fmt.Errorf("%w: empty key version", ErrMalformedEnvelope)
	}

	nonce, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil {
		return Envelope{}, fmt.Errorf("%w: nonce is not valid base64", ErrMalformedEnvelope)
	}
	tag, err := base64.StdEncoding.DecodeString(parts[3])
	if err != nil {
		return Envelope{}, fmt.Errorf("%w: tag is not valid base64", ErrMalformedEnvelope)
	}
	ciphertext, err := base64.StdEncoding.DecodeString(parts[4])
	if err != nil {
		return Envelope{}, fmt.Errorf("%w: ciphertext is not valid base64", ErrMalformedEnvelope)
	}

	return NewEnvelope(keyVersion, nonce, tag, ciphertext)
}

// String serializes the envelope. The output is deterministic for a given envelope.
func (e Envelope) String() string {
	return strings.Join([]string{
		FormatVersion,
		e.KeyVersion,
		base64.StdEncoding.EncodeToString(e.Nonce),
		base64.StdEncoding.EncodeToString(e.Tag),
		base64.StdEncoding.EncodeToString(e.Ciphertext),
	}, separator)
}

func validateParts(keyVersion string, nonce, tag []byte) error {
	if keyVersion == "" {
		return fmt.Errorf("%w: empty key version", ErrMalformedEnvelope)
	}
	if strings.Contains(keyVersion, separator) {
		return fmt.Errorf("%w: key version must not contain %q", ErrMalformedEnvelope, separator)
	}
	if len(nonce) != cryptoDomain.NonceSize {
		return fmt.Errorf(
			"%w: nonce must be %d bytes, got %d",
			ErrMalformedEnvelope,
			cryptoDomain.NonceSize,
			len(nonce),
		)
	}
	if len(tag) != cryptoDomain.TagSize {
		return fmt.Errorf(
			"%w: tag must be %d bytes, got %d",
			ErrMalformedEnvelope,
			cryptoDomain.TagSize,
			len(tag),
		)
	}
	return nil
}
