package services

import "errors"

// Error variables
var (
	ErrValidation         = errors.New("validation failed")
	ErrUserAlreadyExists  = errors.New("username or email already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrStorage            = errors.New("user storage unavailable")
)

// ValidationError describes a rejected registration field.
// It matches ErrValidation with errors.Is.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + " " + e.Reason
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
