// Package usecase implements storing and revealing encrypted records.
package usecase

import (
	"context"

	envelopeDomain "github.com/allisson/fieldcrypt/internal/envelope/domain"
	recordDomain "github.com/allisson/fieldcrypt/internal/record/domain"
)

// RecordRepository defines the record persistence operations used by RecordUseCase.
type RecordRepository interface {
	Create(ctx context.Context, record *recordDomain.Record) error
	Get(ctx context.Context, identity string) (*recordDomain.Record, error)
}

// RecordUseCase defines operations on encrypted records.
type RecordUseCase interface {
	// Create encrypts plaintext under the current key version and stores it for identity.
	// Returns ErrRecordAlreadyExists if identity already has a record.
	Create(ctx context.Context, identity string, plaintext []byte) (*recordDomain.Record, error)
	// Reveal decrypts the record for identity, rotating it first if its key version is stale.
	//
	// Security Note: callers MUST zero the returned plaintext after use.
	Reveal(ctx context.Context, identity string) (*recordDomain.RevealedRecord, error)
	// RotateAll rewrites every stale record under the current key version.
	RotateAll(ctx context.Context) (*envelopeDomain.RotationReport, error)
}
