// Package mocks provides mock implementations of the envelope use case interfaces for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	envelopeDomain "github.com/allisson/fieldcrypt/internal/envelope/domain"
	recordDomain "github.com/allisson/fieldcrypt/internal/record/domain"
)

// MockEnvelopeUseCase is a mock implementation of EnvelopeUseCase.
type MockEnvelopeUseCase struct {
	mock.Mock
}

// Encrypt mocks the Encrypt method.
func (m *MockEnvelopeUseCase) Encrypt(ctx context.Context, plaintext []byte) (*envelopeDomain.EncryptResult, error) {
	args := m.Called(ctx, plaintext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*envelopeDomain.EncryptResult), args.Error(1)
}

// Decrypt mocks the Decrypt method.
func (m *MockEnvelopeUseCase) Decrypt(ctx context.Context, envelope string) ([]byte, error) {
	args := m.Called(ctx, envelope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// DecryptEnvelope mocks the DecryptEnvelope method.
func (m *MockEnvelopeUseCase) DecryptEnvelope(ctx context.Context, env envelopeDomain.Envelope) ([]byte, error) {
	args := m.Called(ctx, env)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockRotationUseCase is a mock implementation of RotationUseCase.
type MockRotationUseCase struct {
	mock.Mock
}

// Rewrite mocks the Rewrite method.
func (m *MockRotationUseCase) Rewrite(ctx context.Context, envelope string) (*envelopeDomain.RewriteResult, error) {
	args := m.Called(ctx, envelope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*envelopeDomain.RewriteResult), args.Error(1)
}

// DecryptWithLazyRotation mocks the DecryptWithLazyRotation method.
func (m *MockRotationUseCase) DecryptWithLazyRotation(
	ctx context.Context,
	identity, envelope string,
) (*envelopeDomain.LazyResult, error) {
	args := m.Called(ctx, identity, envelope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*envelopeDomain.LazyResult), args.Error(1)
}

// RotateAll mocks the RotateAll method.
func (m *MockRotationUseCase) RotateAll(ctx context.Context) (*envelopeDomain.RotationReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*envelopeDomain.RotationReport), args.Error(1)
}

// MockRecordStore is a mock implementation of RecordStore.
type MockRecordStore struct {
	mock.Mock
}

// Put mocks the Put method.
func (m *MockRecordStore) Put(ctx context.Context, identity, envelope string) error {
	args := m.Called(ctx, identity, envelope)
	return args.Error(0)
}

// ListAfter mocks the ListAfter method.
func (m *MockRecordStore) ListAfter(
	ctx context.Context,
	afterIdentity string,
	limit int,
) ([]*recordDomain.Record, error) {
	args := m.Called(ctx, afterIdentity, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*recordDomain.Record), args.Error(1)
}
