package domain

// Algorithm represents the cryptographic algorithm used for encryption.
//
// Envelopes carry no algorithm field: format version "1" is bound to AES-256-GCM, so a
// new algorithm would require a new envelope format version.
type Algorithm string

const (
	// AESGCM represents the AES-256-GCM authenticated encryption algorithm.
	//
	// Key features:
	//   - 256-bit key size
	//   - 12-byte nonce (96 bits), freshly random per encryption
	//   - 16-byte authentication tag, carried separately in the envelope
	AESGCM Algorithm = "aes-256-gcm"
)

const (
	// KeySize is the required key material length in bytes (AES-256).
	KeySize = 32

	// NonceSize is the GCM nonce length in bytes.
	NonceSize = 12

	// TagSize is the GCM authentication tag length in bytes.
	TagSize = 16
)
