package keysource

import (
	"context"
	"fmt"
	"strings"
	"time"

	vault "github.com/hashicorp/vault/api"

	cryptoDomain "github.com/allisson/fieldcrypt/internal/crypto/domain"
)

// Field names of a key family secret.
const (
	fieldCurrentVersion = "current-version"
	fieldCurrentValue   = "current-value"
)

// VaultConfig configures the Vault KV v2 key source.
type VaultConfig struct {
	Address   string
	Token     string
	Mount     string // KV v2 mount path, e.g. "secret"
	Namespace string
	Timeout   time.Duration
}

// VaultSource reads key families from a Vault KV v2 mount.
//
// Each family is one secret at <mount>/data/<family> holding:
//
//	current-version: "v2"
//	current-value:   "<base64 key for v2>"
//	v1:              "<base64 key for v1>"
//	v2:              "<base64 key for v2>"
//
// Every call is one read of that secret; nothing is cached.
type VaultSource struct {
	client *vault.Client
	mount  string
}

// NewVaultSource builds a Vault client from cfg.
//
// Retries are disabled: an unreachable Vault fails within Timeout.
func NewVaultSource(cfg VaultConfig) (*VaultSource, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("vault address is required")
	}

	vc := vault.DefaultConfig()
	if vc.Error != nil {
		return nil, fmt.Errorf("failed to load vault config: %w", vc.Error)
	}
	vc.Address = cfg.Address
	vc.MaxRetries = 0
	if cfg.Timeout > 0 {
		vc.Timeout = cfg.Timeout
	}

	client, err := vault.NewClient(vc)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}
	client.SetToken(cfg.Token)
	if cfg.Namespace != "" {
		client.SetNamespace(cfg.Namespace)
	}

	mount := strings.Trim(cfg.Mount, "/")
	if mount == "" {
		mount = "secret"
	}

	return &VaultSource{client: client, mount: mount}, nil
}

// FetchCurrent returns the current value and version from a single read of the
// family secret.
func (s *VaultSource) FetchCurrent(ctx context.Context, family string) (string, string, error) {
	data, err := s.read(ctx, family)
	if err != nil {
		return "", "", err
	}

	version, _ := data[fieldCurrentVersion].(string)
	if version == "" {
		return "", "", fmt.Errorf("%w: key family %s has no %s", cryptoDomain.ErrKeyNotFound, family, fieldCurrentVersion)
	}

	value, err := resolveValue(data, family, version)
	if err != nil {
		return "", "", err
	}

	return value, version, nil
}

// FetchVersion returns the value stored under versionID.
func (s *VaultSource) FetchVersion(ctx context.Context, family, versionID string) (string, error) {
	data, err := s.read(ctx, family)
	if err != nil {
		return "", err
	}

	return resolveValue(data, family, versionID)
}

// resolveValue returns the value for version. The current-value field stands in for
// the version field of the current version; when both are set they must agree.
func resolveValue(data map[string]interface{}, family, version string) (string, error) {
	value, _ := data[version].(string)

	if current, _ := data[fieldCurrentVersion].(string); current == version {
		currentValue, _ := data[fieldCurrentValue].(string)
		switch {
		case value == "":
			value = currentValue
		case currentValue != "" && currentValue != value:
			return "", fmt.Errorf(
				"%w: key family %s has %s that differs from version %s",
				cryptoDomain.ErrInvalidKeyMaterial,
				family,
				fieldCurrentValue,
				version,
			)
		}
	}

	if value == "" {
		return "", fmt.Errorf("%w: key family %s has no version %s", cryptoDomain.ErrKeyNotFound, family, version)
	}
	return value, nil
}

// Ping checks that Vault is initialized and unsealed.
func (s *VaultSource) Ping(ctx context.Context) error {
	h, err := s.client.Sys().HealthWithContext(ctx)
	switch {
	case err != nil:
		return fmt.Errorf("%w: vault %s: %v", cryptoDomain.ErrKeyProviderUnavailable, s.client.Address(), err)
	case h == nil:
		return fmt.Errorf("%w: vault %s: no response", cryptoDomain.ErrKeyProviderUnavailable, s.client.Address())
	case !h.Initialized || h.Sealed:
		return fmt.Errorf(
			"%w: vault %s: initialized: %t, sealed: %t",
			cryptoDomain.ErrKeyProviderUnavailable,
			s.client.Address(),
			h.Initialized,
			h.Sealed,
		)
	}
	return nil
}

// read fetches the data map of the family secret.
func (s *VaultSource) read(ctx context.Context, family string) (map[string]interface{}, error) {
	path := s.mount + "/data/" + family

	secret, err := s.client.Logical().ReadWithContext(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", cryptoDomain.ErrKeyProviderUnavailable, path, err)
	}
	if secret == nil || secret.Data == nil {
		return nil, fmt.Errorf("%w: key family %s", cryptoDomain.ErrKeyNotFound, family)
	}

	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok || data == nil {
		return nil, fmt.Errorf("%w: key family %s has no data", cryptoDomain.ErrKeyNotFound, family)
	}
	return data, nil
}
