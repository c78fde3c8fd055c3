package commands

import (
	"context"
	"fmt"
	"io"

	cryptoDomain "github.com/allisson/fieldcrypt/internal/crypto/domain"
	recordUseCase "github.com/allisson/fieldcrypt/internal/record/usecase"
)

type revealOutput struct {
	Identity   string `json:"identity"`
	Plaintext  string `json:"plaintext"`
	Rotated    bool   `json:"rotated"`
	OldVersion string `json:"old_version,omitempty"`
	NewVersion string `json:"new_version,omitempty"`
}

// RunReveal decrypts the stored record for identity and prints its plaintext. A record
// sealed under a stale key version is rotated and persisted before it is printed.
func RunReveal(
	ctx context.Context,
	recordUC recordUseCase.RecordUseCase,
	writer io.Writer,
	identity, format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	if identity == "" {
		return fmt.Errorf("--identity is required")
	}

	revealed, err := recordUC.Reveal(ctx, identity)
	if err != nil {
		return fmt.Errorf("failed to reveal record: %w", err)
	}
	defer cryptoDomain.Zero(revealed.Plaintext)

	if format == formatJSON {
		return writeJSON(writer, revealOutput{
			Identity:   revealed.Identity,
			Plaintext:  string(revealed.Plaintext),
			Rotated:    revealed.Rotated,
			OldVersion: revealed.OldVersion,
			NewVersion: revealed.NewVersion,
		})
	}

	_, _ = fmt.Fprintf(writer, "Identity:  %s\n", revealed.Identity)
	_, _ = fmt.Fprintf(writer, "Plaintext: %s\n", revealed.Plaintext)
	if revealed.Rotated {
		_, _ = fmt.Fprintf(writer, "Rotated:   %s -> %s\n", revealed.OldVersion, revealed.NewVersion)
	}
	return nil
}
