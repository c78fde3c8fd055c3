package commands

import (
	"fmt"
	"io"

	authService "github.com/allisson/fieldcrypt/internal/auth/service"
)

// RunCreateAdminToken generates a new admin token and prints it together with the hash
// to configure as ADMIN_TOKEN_HASH. The plain token is not stored anywhere.
func RunCreateAdminToken(
	tokenService authService.AdminTokenService,
	writer io.Writer,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	plainToken, tokenHash, err := tokenService.Generate()
	if err != nil {
		return fmt.Errorf("failed to generate admin token: %w", err)
	}

	if format == formatJSON {
		return writeJSON(writer, map[string]string{
			"token":      plainToken,
			"token_hash": tokenHash,
		})
	}

	_, _ = fmt.Fprintln(writer, "# Admin token (shown once, send as 'Authorization: Bearer <token>')")
	_, _ = fmt.Fprintf(writer, "%s\n\n", plainToken)
	_, _ = fmt.Fprintln(writer, "# Server configuration")
	_, _ = fmt.Fprintf(writer, "ADMIN_TOKEN_HASH='%s'\n", tokenHash)
	return nil
}
