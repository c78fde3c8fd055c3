package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/allisson/fieldcrypt/internal/database"
	envelopeDomain "github.com/allisson/fieldcrypt/internal/envelope/domain"
	envelopeUseCase "github.com/allisson/fieldcrypt/internal/envelope/usecase"
	apperrors "github.com/allisson/fieldcrypt/internal/errors"
	recordDomain "github.com/allisson/fieldcrypt/internal/record/domain"
)

// recordUseCase implements RecordUseCase.
type recordUseCase struct {
	txManager  database.TxManager
	recordRepo RecordRepository
	envelopes  envelopeUseCase.EnvelopeUseCase
	rotation   envelopeUseCase.RotationUseCase
}

// Create checks for an existing record and inserts the new one in the same transaction.
// A concurrent insert that wins the race surfaces as ErrRecordAlreadyExists from the
// repository.
func (r *recordUseCase) Create(
	ctx context.Context,
	identity string,
	plaintext []byte,
) (*recordDomain.Record, error) {
	var record *recordDomain.Record

	err := r.txManager.WithTx(ctx, func(txCtx context.Context) error {
		_, err := r.recordRepo.Get(txCtx, identity)
		switch {
		case err == nil:
			return recordDomain.ErrRecordAlreadyExists
		case !apperrors.Is(err, recordDomain.ErrRecordNotFound):
			return storeError(err)
		}

		encrypted, err := r.envelopes.Encrypt(txCtx, plaintext)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		record = &recordDomain.Record{
			Identity:  identity,
			Envelope:  encrypted.Envelope,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := r.recordRepo.Create(txCtx, record); err != nil {
			if apperrors.Is(err, recordDomain.ErrRecordAlreadyExists) {
				return err
			}
			return storeError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return record, nil
}

// Reveal loads the record and decrypts it with lazy rotation.
func (r *recordUseCase) Reveal(ctx context.Context, identity string) (*recordDomain.RevealedRecord, error) {
	record, err := r.recordRepo.Get(ctx, identity)
	if err != nil {
		if apperrors.Is(err, recordDomain.ErrRecordNotFound) {
			return nil, err
		}
		return nil, storeError(err)
	}

	result, err := r.rotation.DecryptWithLazyRotation(ctx, record.Identity, record.Envelope)
	if err != nil {
		return nil, err
	}

	return &recordDomain.RevealedRecord{
		Identity:   record.Identity,
		Plaintext:  result.Plaintext,
		Rotated:    result.Rotated,
		OldVersion: result.OldVersion,
		NewVersion: result.NewVersion,
	}, nil
}

// RotateAll delegates to the rotation use case.
func (r *recordUseCase) RotateAll(ctx context.Context) (*envelopeDomain.RotationReport, error) {
	return r.rotation.RotateAll(ctx)
}

func storeError(err error) error {
	return fmt.Errorf("%w: %v", envelopeDomain.ErrStoreUnavailable, err)
}

// NewRecordUseCase creates a new RecordUseCase.
func NewRecordUseCase(
	txManager database.TxManager,
	recordRepo RecordRepository,
	envelopes envelopeUseCase.EnvelopeUseCase,
	rotation envelopeUseCase.RotationUseCase,
) RecordUseCase {
	return &recordUseCase{
		txManager:  txManager,
		recordRepo: recordRepo,
		envelopes:  envelopes,
		rotation:   rotation,
	}
}
