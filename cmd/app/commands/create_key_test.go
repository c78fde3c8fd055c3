package commands

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/fieldcrypt/internal/crypto/domain"
)

type MockKMSService struct {
	mock.Mock
}

func (m *MockKMSService) OpenKeeper(ctx context.Context, uri string) (cryptoDomain.KMSKeeper, error) {
	args := m.Called(ctx, uri)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(cryptoDomain.KMSKeeper), args.Error(1)
}

type MockKMSKeeper struct {
	mock.Mock
}

func (m *MockKMSKeeper) Encrypt(ctx context.Context, plaintext []byte) ([]byte, error) {
	args := m.Called(ctx, plaintext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockKMSKeeper) Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error) {
	args := m.Called(ctx, ciphertext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockKMSKeeper) Close() error {
	return m.Called().Error(0)
}

// decryptOnlyKeeper satisfies KMSKeeper without an Encrypt method.
type decryptOnlyKeeper struct{}

func (decryptOnlyKeeper) Decrypt(_ context.Context, c []byte) ([]byte, error) { return c, nil }
func (decryptOnlyKeeper) Close() error                                        { return nil }

func TestRunCreateKey(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("plain-key", func(t *testing.T) {
		var out bytes.Buffer
		err := RunCreateKey(ctx, nil, logger, &out, "records", "v3", "")
		require.NoError(t, err)

		output := out.String()
		require.Contains(t, output, "vault kv patch secret/records v3=")
		require.Contains(t, output, `current-version="v3"`)
		require.Contains(t, output, `ACTIVE_KEY_VERSION="v3"`)

		var encoded string
		for line := range strings.SplitSeq(output, "\n") {
			if rest, ok := strings.CutPrefix(line, `KEY_VERSIONS="...,v3:`); ok {
				encoded = strings.TrimSuffix(rest, `"`)
			}
		}
		key, err := base64.StdEncoding.DecodeString(encoded)
		require.NoError(t, err)
		require.Len(t, key, cryptoDomain.KeySize)
	})

	t.Run("kms-wrapped", func(t *testing.T) {
		mockService := &MockKMSService{}
		mockKeeper := &MockKMSKeeper{}

		mockService.On("OpenKeeper", ctx, "base64key://...").Return(mockKeeper, nil)
		mockKeeper.On("Encrypt", ctx, mock.AnythingOfType("[]uint8")).Return([]byte("encrypted"), nil)
		mockKeeper.On("Close").Return(nil)

		var out bytes.Buffer
		err := RunCreateKey(ctx, mockService, logger, &out, "records", "v2", "base64key://...")
		require.NoError(t, err)
		require.Contains(t, out.String(), "v2:"+base64.StdEncoding.EncodeToString([]byte("encrypted")))
		require.Contains(t, out.String(), "Wrapped with base64key://...")

		mockService.AssertExpectations(t)
		mockKeeper.AssertExpectations(t)
	})

	t.Run("missing-parameters", func(t *testing.T) {
		err := RunCreateKey(ctx, nil, logger, nil, "", "", "")
		require.Error(t, err)
		require.Contains(t, err.Error(), "required")
	})

	t.Run("invalid-version", func(t *testing.T) {
		err := RunCreateKey(ctx, nil, logger, nil, "records", "v:1", "")
		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid key version")
	})

	t.Run("open-keeper-error", func(t *testing.T) {
		mockService := &MockKMSService{}
		mockService.On("OpenKeeper", ctx, "bad://uri").Return(nil, errors.New("unsupported scheme"))

		err := RunCreateKey(ctx, mockService, logger, io.Discard, "records", "v2", "bad://uri")
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to open KMS keeper")
		mockService.AssertExpectations(t)
	})

	t.Run("encrypt-error", func(t *testing.T) {
		mockService := &MockKMSService{}
		mockKeeper := &MockKMSKeeper{}

		mockService.On("OpenKeeper", ctx, "base64key://...").Return(mockKeeper, nil)
		mockKeeper.On("Encrypt", ctx, mock.AnythingOfType("[]uint8")).Return(nil, errors.New("kms down"))
		mockKeeper.On("Close").Return(nil)

		err := RunCreateKey(ctx, mockService, logger, io.Discard, "records", "v2", "base64key://...")
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to encrypt key with KMS")
		mockKeeper.AssertExpectations(t)
	})

	t.Run("keeper-without-encrypt", func(t *testing.T) {
		mockService := &MockKMSService{}
		mockService.On("OpenKeeper", ctx, "base64key://...").Return(decryptOnlyKeeper{}, nil)

		err := RunCreateKey(ctx, mockService, logger, io.Discard, "records", "v2", "base64key://...")
		require.Error(t, err)
		require.Contains(t, err.Error(), "does not support encryption")
	})
}
