// Package mocks provides mock implementations of the auth services for testing.
package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockAdminTokenService is a mock implementation of AdminTokenService for testing.
type MockAdminTokenService struct {
	mock.Mock
}

// Generate mocks the Generate method of AdminTokenService.
func (m *MockAdminTokenService) Generate() (string, string, error) {
	args := m.Called()
	return args.String(0), args.String(1), args.Error(2)
}

// Verify mocks the Verify method of AdminTokenService.
func (m *MockAdminTokenService) Verify(plainToken string, tokenHash string) bool {
	args := m.Called(plainToken, tokenHash)
	return args.Bool(0)
}
