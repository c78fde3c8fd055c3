package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"

	cryptoDomain "github.com/allisson/fieldcrypt/internal/crypto/domain"
	cryptoService "github.com/allisson/fieldcrypt/internal/crypto/service"
)

// keyEncrypter is the part of a gocloud secrets.Keeper used to wrap new keys.
type keyEncrypter interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
}

// RunCreateKey generates a new 32-byte key version for a key family and prints how to
// store it. When kmsKeyURI is set, the key is wrapped with the KMS key first and the
// printed value is the base64 KMS ciphertext.
//
// Key material is zeroed from memory after encoding.
func RunCreateKey(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	logger *slog.Logger,
	writer io.Writer,
	family, version, kmsKeyURI string,
) error {
	if family == "" || version == "" {
		return fmt.Errorf("--family and --version are required")
	}
	if err := validateKeyVersion(version); err != nil {
		return err
	}

	key := make([]byte, cryptoDomain.KeySize)
	if _, err := rand.Read(key); err != nil {
		return fmt.Errorf("failed to generate key: %w", err)
	}
	defer cryptoDomain.Zero(key)

	stored := key
	if kmsKeyURI != "" {
		wrapped, err := wrapWithKMS(ctx, kmsService, logger, kmsKeyURI, key)
		if err != nil {
			return err
		}
		stored = wrapped
	}
	value := base64.StdEncoding.EncodeToString(stored)

	logger.Info("key version created",
		slog.String("family", family),
		slog.String("version", version),
		slog.Bool("kms_wrapped", kmsKeyURI != ""),
	)

	_, _ = fmt.Fprintf(writer, "# New key version %q for key family %q\n", version, family)
	if kmsKeyURI != "" {
		_, _ = fmt.Fprintf(writer, "# Wrapped with %s; set KMS_PROVIDER and KMS_KEY_URI on the server\n", kmsKeyURI)
	}
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintln(writer, "# Vault (KV v2): add the version and make it current in one write")
	_, _ = fmt.Fprintf(writer,
		"vault kv patch secret/%s %s=%q current-version=%q current-value=%q\n",
		family, version, value, version, value,
	)
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintln(writer, "# Static key source: append to KEY_VERSIONS and activate")
	_, _ = fmt.Fprintf(writer, "KEY_VERSIONS=\"...,%s:%s\"\n", version, value)
	_, _ = fmt.Fprintf(writer, "ACTIVE_KEY_VERSION=\"%s\"\n", version)

	return nil
}

// wrapWithKMS encrypts key with the KMS key at kmsKeyURI.
func wrapWithKMS(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	logger *slog.Logger,
	kmsKeyURI string,
	key []byte,
) ([]byte, error) {
	keeper, err := kmsService.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil {
			logger.Warn("failed to close KMS keeper", slog.Any("error", closeErr))
		}
	}()

	encrypter, ok := keeper.(keyEncrypter)
	if !ok {
		return nil, fmt.Errorf("KMS keeper does not support encryption")
	}

	wrapped, err := encrypter.Encrypt(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt key with KMS: %w", err)
	}
	return wrapped, nil
}

// validateKeyVersion rejects versions that cannot appear in an envelope.
func validateKeyVersion(version string) error {
	for _, r := range version {
		if r == ':' || r == ',' || r == ' ' {
			return fmt.Errorf("invalid key version %q: must not contain ':', ',' or spaces", version)
		}
	}
	return nil
}
