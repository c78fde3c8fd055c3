// Package mocks provides mock implementations of the record use case for testing HTTP handlers.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	envelopeDomain "github.com/allisson/fieldcrypt/internal/envelope/domain"
	recordDomain "github.com/allisson/fieldcrypt/internal/record/domain"
)

// MockRecordUseCase is a mock implementation of RecordUseCase.
type MockRecordUseCase struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockRecordUseCase) Create(
	ctx context.Context,
	identity string,
	plaintext []byte,
) (*recordDomain.Record, error) {
	args := m.Called(ctx, identity, plaintext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recordDomain.Record), args.Error(1)
}

// Reveal mocks the Reveal method.
func (m *MockRecordUseCase) Reveal(ctx context.Context, identity string) (*recordDomain.RevealedRecord, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recordDomain.RevealedRecord), args.Error(1)
}

// RotateAll mocks the RotateAll method.
func (m *MockRecordUseCase) RotateAll(ctx context.Context) (*envelopeDomain.RotationReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*envelopeDomain.RotationReport), args.Error(1)
}
