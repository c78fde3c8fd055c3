package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	cryptoDomain "github.com/allisson/fieldcrypt/internal/crypto/domain"
	"github.com/allisson/fieldcrypt/internal/envelope/domain"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected domain.ErrorKind
	}{
		{"Nil", nil, ""},
		{"Malformed", domain.ErrMalformedEnvelope, domain.KindMalformedEnvelope},
		{"Unsupported", domain.ErrUnsupportedFormatVersion, domain.KindUnsupportedFormatVersion},
		{"AuthFailure", cryptoDomain.ErrAuthenticationFailure, domain.KindAuthenticationFailure},
		{"InvalidKey", cryptoDomain.ErrInvalidKeyMaterial, domain.KindInvalidKeyMaterial},
		{"KeyNotFound", cryptoDomain.ErrKeyNotFound, domain.KindKeyNotFound},
		{"ProviderUnavailable", cryptoDomain.ErrKeyProviderUnavailable, domain.KindKeyProviderUnavailable},
		{"StoreUnavailable", domain.ErrStoreUnavailable, domain.KindStoreUnavailable},
		{
			"Wrapped",
			fmt.Errorf("rotating alice: %w", fmt.Errorf("%w: version v9", cryptoDomain.ErrKeyNotFound)),
			domain.KindKeyNotFound,
		},
		{"Unknown", errors.New("boom"), domain.KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, domain.KindOf(tt.err))
		})
	}
}
