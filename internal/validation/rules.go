// Package validation provides custom validation rules for request DTOs.
package validation

import (
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/fieldcrypt/internal/errors"
)

// identityRegex allows the characters found in usernames, emails and opaque ids.
var identityRegex = regexp.MustCompile(`^[A-Za-z0-9._@+\-]+$`)

// WrapValidationError wraps validation errors as domain ErrInvalidInput.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// Identity validates a record identity.
var Identity = validation.NewStringRuleWithError(
	func(s string) bool {
		return identityRegex.MatchString(s)
	},
	validation.NewError(
		"validation_identity",
		"must contain only letters, digits and the characters . _ @ + -",
	),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)
