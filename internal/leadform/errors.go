package leadform

import "errors"

// ValidationError reports a missing or empty required identity field. It is
// the only error class that turns into a 400 response; everything downstream
// soft-fails.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return "leadform: required field " + e.Field + " is missing or empty"
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ErrLeadNotFound is returned when a stored lead cannot be found.
var ErrLeadNotFound = errors.New("leadform: lead not found")
