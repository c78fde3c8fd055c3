package service

import (
	"context"
	"fmt"
	"net/url"

	"gocloud.dev/secrets"

	cryptoDomain "github.com/allisson/fieldcrypt/internal/crypto/domain"

	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// kmsSchemes maps KMS_PROVIDER values to the URL scheme their gocloud driver registers.
var kmsSchemes = map[string]string{
	"localsecrets":  "base64key",
	"gcpkms":        "gcpkms",
	"awskms":        "awskms",
	"azurekeyvault": "azurekeyvault",
	"hashivault":    "hashivault",
}

// KMSService opens keepers that wrap and unwrap stored key values.
type KMSService interface {
	// OpenKeeper opens a keeper for keyURI. The returned keeper is a *secrets.Keeper and
	// also supports Encrypt, which key creation uses to wrap new key versions.
	OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error)
}

type kmsService struct{}

// NewKMSService creates a KMSService backed by gocloud.dev/secrets.
func NewKMSService() KMSService {
	return &kmsService{}
}

// OpenKeeper supports gcpkms://, awskms://, azurekeyvault://, hashivault:// and base64key:// URIs.
// hashivault reads VAULT_SERVER_URL and VAULT_SERVER_TOKEN from the environment.
func (k *kmsService) OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error) {
	if keyURI == "" {
		return nil, fmt.Errorf("failed to open KMS keeper: empty key URI")
	}

	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	return keeper, nil
}

// CheckKeyURI verifies that keyURI uses the scheme registered by provider, so a
// KMS_PROVIDER/KMS_KEY_URI mismatch fails at startup rather than on the first unwrap.
func CheckKeyURI(provider, keyURI string) error {
	scheme, ok := kmsSchemes[provider]
	if !ok {
		return fmt.Errorf("unsupported KMS provider %q", provider)
	}

	u, err := url.Parse(keyURI)
	if err != nil {
		return fmt.Errorf("invalid KMS key URI: %w", err)
	}
	if u.Scheme != scheme {
		return fmt.Errorf("KMS key URI scheme %q does not match provider %s (want %s://)", u.Scheme, provider, scheme)
	}
	return nil
}
