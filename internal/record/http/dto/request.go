// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/fieldcrypt/internal/validation"
)

// MaxPlaintextSize is the largest decoded plaintext accepted by the API.
const MaxPlaintextSize = 64 * 1024

// EncryptRequest contains the parameters for a stateless encryption.
type EncryptRequest struct {
	Plaintext string `json:"plaintext"` // Base64-encoded plaintext
}

// Validate checks if the encrypt request is valid.
func (r *EncryptRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Plaintext,
			validation.Required,
			customValidation.NotBlank,
			customValidation.Base64,
			customValidation.Base64MaxDecodedLen(MaxPlaintextSize),
		),
	)
}

// CreateRecordRequest contains the parameters for storing an encrypted record.
type CreateRecordRequest struct {
	Identity  string `json:"identity"`
	Plaintext string `json:"plaintext"` // Base64-encoded plaintext
}

// Validate checks if the create record request is valid.
func (r *CreateRecordRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Identity,
			validation.Required,
			customValidation.NotBlank,
			customValidation.Identity,
			validation.Length(1, 255),
		),
		validation.Field(&r.Plaintext,
			validation.Required,
			customValidation.NotBlank,
			customValidation.Base64,
			customValidation.Base64MaxDecodedLen(MaxPlaintextSize),
		),
	)
}
