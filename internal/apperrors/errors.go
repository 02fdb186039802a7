package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDataStore indicates a failure talking to the underlying database
// (connection failure, query timeout, unexpected fault).
var ErrDataStore = errors.New("data store error")

// FieldError is a validation error tied to a specific request parameter.
// Handlers use it to build 400 responses naming the offending field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// Unwrap makes errors.Is(err, ErrValidation) hold for every FieldError.
func (e *FieldError) Unwrap() error {
	return ErrValidation
}

// NewFieldError creates a FieldError for the given parameter.
func NewFieldError(field, message string) *FieldError {
	return &FieldError{Field: field, Message: message}
}
