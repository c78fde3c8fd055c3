package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/secrets"

	cryptoDomain "github.com/allisson/fieldcrypt/internal/crypto/domain"
)

// fakeKeySource is an in-memory KeySource used by provider tests.
type fakeKeySource struct {
	versions   map[string]string
	current    string
	err        error
	fetchCalls int
}

func (f *fakeKeySource) FetchCurrent(ctx context.Context, family string) (string, string, error) {
	f.fetchCalls++
	if f.err != nil {
		return "", "", f.err
	}
	return f.versions[f.current], f.current, nil
}

func (f *fakeKeySource) FetchVersion(ctx context.Context, family, versionID string) (string, error) {
	f.fetchCalls++
	if f.err != nil {
		return "", f.err
	}
	value, ok := f.versions[versionID]
	if !ok {
		return "", cryptoDomain.ErrKeyNotFound
	}
	return value, nil
}

func randomKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, cryptoDomain.KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func TestKeyProvider_Current(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		key := randomKey(t)
		source := &fakeKeySource{
			versions: map[string]string{"v1": base64.StdEncoding.EncodeToString(key)},
			current:  "v1",
		}
		provider := NewKeyProvider(source, "encryption-key", nil)

		km, err := provider.Current(ctx)
		require.NoError(t, err)
		assert.Equal(t, "v1", km.Version)
		assert.Equal(t, key, km.Key)
	})

	t.Run("NoCaching", func(t *testing.T) {
		source := &fakeKeySource{
			versions: map[string]string{
				"v1": base64.StdEncoding.EncodeToString(randomKey(t)),
				"v2": base64.StdEncoding.EncodeToString(randomKey(t)),
			},
			current: "v1",
		}
		provider := NewKeyProvider(source, "encryption-key", nil)

		km, err := provider.Current(ctx)
		require.NoError(t, err)
		assert.Equal(t, "v1", km.Version)

		source.current = "v2"
		km, err = provider.Current(ctx)
		require.NoError(t, err)
		assert.Equal(t, "v2", km.Version)
		assert.Equal(t, 2, source.fetchCalls)
	})

	t.Run("Error_EmptyActiveVersion", func(t *testing.T) {
		source := &fakeKeySource{versions: map[string]string{}}
		provider := NewKeyProvider(source, "encryption-key", nil)

		_, err := provider.Current(ctx)
		assert.ErrorIs(t, err, cryptoDomain.ErrKeyNotFound)
	})

	t.Run("Error_ShortKey", func(t *testing.T) {
		source := &fakeKeySource{
			versions: map[string]string{"v1": base64.StdEncoding.EncodeToString(make([]byte, 16))},
			current:  "v1",
		}
		provider := NewKeyProvider(source, "encryption-key", nil)

		km, err := provider.Current(ctx)
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeyMaterial)
		assert.Nil(t, km)
	})

	t.Run("Error_InvalidBase64", func(t *testing.T) {
		source := &fakeKeySource{
			versions: map[string]string{"v1": "not base64!!"},
			current:  "v1",
		}
		provider := NewKeyProvider(source, "encryption-key", nil)

		_, err := provider.Current(ctx)
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeyMaterial)
	})

	t.Run("Error_SourceFailureIsUnavailable", func(t *testing.T) {
		source := &fakeKeySource{err: errors.New("connection refused")}
		provider := NewKeyProvider(source, "encryption-key", nil)

		_, err := provider.Current(ctx)
		assert.ErrorIs(t, err, cryptoDomain.ErrKeyProviderUnavailable)
		assert.Contains(t, err.Error(), "connection refused")
	})
}

func TestKeyProvider_ByVersion(t *testing.T) {
	ctx := context.Background()
	key := randomKey(t)
	source := &fakeKeySource{
		versions: map[string]string{"v1": base64.StdEncoding.EncodeToString(key)},
		current:  "v1",
	}
	provider := NewKeyProvider(source, "encryption-key", nil)

	t.Run("Success", func(t *testing.T) {
		km, err := provider.ByVersion(ctx, "v1")
		require.NoError(t, err)
		assert.Equal(t, "v1", km.Version)
		assert.Equal(t, key, km.Key)
	})

	t.Run("Error_UnknownVersion", func(t *testing.T) {
		_, err := provider.ByVersion(ctx, "v9")
		assert.ErrorIs(t, err, cryptoDomain.ErrKeyNotFound)
	})

	t.Run("Error_EmptyVersion", func(t *testing.T) {
		_, err := provider.ByVersion(ctx, "")
		assert.ErrorIs(t, err, cryptoDomain.ErrKeyNotFound)
	})
}

func TestKeyProvider_KMSWrappedValues(t *testing.T) {
	ctx := context.Background()
	kmsService := NewKMSService()

	keeperInterface, err := kmsService.OpenKeeper(ctx, newLocalKeyURI(t))
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, keeperInterface.Close())
	}()

	keeper, ok := keeperInterface.(*secrets.Keeper)
	require.True(t, ok)

	key := randomKey(t)
	wrapped, err := keeper.Encrypt(ctx, key)
	require.NoError(t, err)

	t.Run("Success_Unwrap", func(t *testing.T) {
		source := &fakeKeySource{
			versions: map[string]string{"v1": base64.StdEncoding.EncodeToString(wrapped)},
			current:  "v1",
		}
		provider := NewKeyProvider(source, "encryption-key", keeperInterface)

		km, err := provider.Current(ctx)
		require.NoError(t, err)
		assert.Equal(t, key, km.Key)
	})

	t.Run("Error_UnwrapFailure", func(t *testing.T) {
		source := &fakeKeySource{
			versions: map[string]string{"v1": base64.StdEncoding.EncodeToString(randomKey(t))},
			current:  "v1",
		}
		provider := NewKeyProvider(source, "encryption-key", keeperInterface)

		_, err := provider.Current(ctx)
		assert.ErrorIs(t, err, cryptoDomain.ErrKeyProviderUnavailable)
	})
}
