// Package service provides the admin token service that guards the HTTP API.
package service

// AdminTokenService generates and verifies the bearer token that guards the /v1 API.
//
// Only the hash of the token is ever configured on the server (ADMIN_TOKEN_HASH). The plain
// token is shown once when generated and is then held by the operator.
type AdminTokenService interface {
	// Generate creates a new random token and its hash.
	Generate() (plainToken string, tokenHash string, err error)

	// Verify reports whether plainToken matches tokenHash. Malformed hashes never match.
	Verify(plainToken string, tokenHash string) bool
}
