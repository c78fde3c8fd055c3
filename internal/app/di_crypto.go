package app

import (
	"context"
	"fmt"

	"github.com/allisson/fieldcrypt/internal/config"
	cryptoDomain "github.com/allisson/fieldcrypt/internal/crypto/domain"
	"github.com/allisson/fieldcrypt/internal/crypto/keysource"
	cryptoService "github.com/allisson/fieldcrypt/internal/crypto/service"
)

// AEADManager returns the AEAD manager service.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = cryptoService.NewAEADManager()
	})
	return c.aeadManager
}

// KMSService returns the KMS service.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// KMSKeeper returns the keeper that unwraps stored key values, or nil when no KMS
// provider is configured.
func (c *Container) KMSKeeper() (cryptoDomain.KMSKeeper, error) {
	var err error
	c.kmsKeeperInit.Do(func() {
		c.kmsKeeper, err = c.initKMSKeeper()
		if err != nil {
			c.initErrors["kmsKeeper"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["kmsKeeper"]; exists {
		return nil, storedErr
	}
	return c.kmsKeeper, nil
}

// KeySource returns the external key source selected by KEY_SOURCE.
func (c *Container) KeySource() (cryptoService.KeySource, error) {
	var err error
	c.keySourceInit.Do(func() {
		c.keySource, err = c.initKeySource()
		if err != nil {
			c.initErrors["keySource"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keySource"]; exists {
		return nil, storedErr
	}
	return c.keySource, nil
}

// KeyProvider returns the key provider for the configured key family.
func (c *Container) KeyProvider() (cryptoService.KeyProvider, error) {
	var err error
	c.keyProviderInit.Do(func() {
		c.keyProvider, err = c.initKeyProvider()
		if err != nil {
			c.initErrors["keyProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyProvider"]; exists {
		return nil, storedErr
	}
	return c.keyProvider, nil
}

// initKMSKeeper opens the KMS keeper when KMS_PROVIDER is set.
func (c *Container) initKMSKeeper() (cryptoDomain.KMSKeeper, error) {
	if c.config.KMSProvider == "" {
		return nil, nil
	}

	if err := cryptoService.CheckKeyURI(c.config.KMSProvider, c.config.KMSKeyURI); err != nil {
		return nil, err
	}

	keeper, err := c.KMSService().OpenKeeper(context.Background(), c.config.KMSKeyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open kms keeper for provider %s: %w", c.config.KMSProvider, err)
	}
	return keeper, nil
}

// initKeySource creates the Vault or static key source.
func (c *Container) initKeySource() (cryptoService.KeySource, error) {
	switch c.config.KeySource {
	case config.KeySourceVault:
		source, err := keysource.NewVaultSource(keysource.VaultConfig{
			Address:   c.config.VaultAddress,
			Token:     c.config.VaultToken,
			Mount:     c.config.VaultKVMount,
			Namespace: c.config.VaultNamespace,
			Timeout:   c.config.VaultTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create vault key source: %w", err)
		}
		return source, nil
	case config.KeySourceStatic:
		source, err := keysource.NewStaticSource(
			c.config.KeyFamily,
			c.config.KeyVersions,
			c.config.ActiveKeyVersion,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create static key source: %w", err)
		}
		return source, nil
	default:
		return nil, fmt.Errorf("unsupported key source: %s", c.config.KeySource)
	}
}

// initKeyProvider combines the key source and the optional KMS keeper.
func (c *Container) initKeyProvider() (cryptoService.KeyProvider, error) {
	source, err := c.KeySource()
	if err != nil {
		return nil, fmt.Errorf("failed to get key source for key provider: %w", err)
	}

	keeper, err := c.KMSKeeper()
	if err != nil {
		return nil, fmt.Errorf("failed to get kms keeper for key provider: %w", err)
	}

	return cryptoService.NewKeyProvider(source, c.config.KeyFamily, keeper), nil
}
