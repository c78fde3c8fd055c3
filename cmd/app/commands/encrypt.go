package commands

import (
	"context"
	"fmt"
	"io"

	envelopeUseCase "github.com/allisson/fieldcrypt/internal/envelope/usecase"
	recordUseCase "github.com/allisson/fieldcrypt/internal/record/usecase"
)

type encryptOutput struct {
	Identity   string `json:"identity,omitempty"`
	Envelope   string `json:"envelope"`
	KeyVersion string `json:"key_version"`
}

// RunEncrypt seals plaintext under the current key version. With an empty identity the
// envelope is only printed; otherwise it is stored as a new record for identity.
func RunEncrypt(
	ctx context.Context,
	envelopeUC envelopeUseCase.EnvelopeUseCase,
	recordUC recordUseCase.RecordUseCase,
	writer io.Writer,
	identity, plaintext, format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	if plaintext == "" {
		return fmt.Errorf("--plaintext is required")
	}

	var output encryptOutput
	if identity == "" {
		result, err := envelopeUC.Encrypt(ctx, []byte(plaintext))
		if err != nil {
			return fmt.Errorf("failed to encrypt: %w", err)
		}
		output = encryptOutput{Envelope: result.Envelope, KeyVersion: result.KeyVersion}
	} else {
		record, err := recordUC.Create(ctx, identity, []byte(plaintext))
		if err != nil {
			return fmt.Errorf("failed to store record: %w", err)
		}
		output = encryptOutput{
			Identity:   record.Identity,
			Envelope:   record.Envelope,
			KeyVersion: record.KeyVersion(),
		}
	}

	if format == formatJSON {
		return writeJSON(writer, output)
	}

	if output.Identity != "" {
		_, _ = fmt.Fprintf(writer, "Identity:    %s\n", output.Identity)
	}
	_, _ = fmt.Fprintf(writer, "Key version: %s\n", output.KeyVersion)
	_, _ = fmt.Fprintf(writer, "Envelope:    %s\n", output.Envelope)
	return nil
}
