package domain

import (
	"github.com/allisson/fieldcrypt/internal/errors"
)

// Record-specific error definitions.
var (
	// ErrRecordNotFound indicates no record exists for the identity.
	ErrRecordNotFound = errors.Wrap(errors.ErrNotFound, "record not found")

	// ErrRecordAlreadyExists indicates a record already exists for the identity.
	ErrRecordAlreadyExists = errors.Wrap(errors.ErrConflict, "record already exists")
)
