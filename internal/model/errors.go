package model

import "errors"

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrForbidden       = errors.New("address does not match authenticated wallet")
)

// ValidationError reports a missing or invalid request field. It is always
// raised before the store is touched.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

// StoreUnavailableError wraps a connectivity failure to the document store.
// Callers may retry later.
type StoreUnavailableError struct {
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return "database unavailable: " + e.Err.Error()
}

func (e *StoreUnavailableError) Unwrap() error { return e.Err }

// IsValidation reports whether err is, or wraps, a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsStoreUnavailable reports whether err is, or wraps, a StoreUnavailableError.
func IsStoreUnavailable(err error) bool {
	var u *StoreUnavailableError
	return errors.As(err, &u)
}
