package validation

import (
	"encoding/base64"

	validation "github.com/jellydator/validation"
)

// Base64 validates that a string is valid standard base64.
var Base64 = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_base64_type", "must be a string")
	}
	if s == "" {
		return nil // Let Required handle empty strings
	}
	if _, err := base64.StdEncoding.DecodeString(s); err != nil {
		return validation.NewError("validation_base64", "must be valid base64-encoded data")
	}
	return nil
})

// Base64MaxDecodedLen rejects base64 strings that decode to more than n bytes.
// Invalid base64 is left to the Base64 rule.
func Base64MaxDecodedLen(n int) validation.Rule {
	return validation.By(func(value interface{}) error {
		s, ok := value.(string)
		if !ok || s == "" {
			return nil
		}
		if base64.StdEncoding.DecodedLen(len(s)) <= n {
			return nil
		}
		decoded, err := base64.StdEncoding.DecodeString(s)
		if err != nil || len(decoded) <= n {
			return nil
		}
		return validation.NewError("validation_base64_max_len", "decoded value is too large")
	})
}
