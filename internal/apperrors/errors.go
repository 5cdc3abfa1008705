package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// AppError carries an HTTP-like status code alongside the wrapped cause.
// Used for infrastructure failures that handlers translate into responses.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError wrapping an underlying cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewValidationError creates an error that matches errors.Is(err, ErrValidation).
func NewValidationError(message string) error {
	return fmt.Errorf("%w: %s", ErrValidation, message)
}

// NewNotFoundError creates an error that matches errors.Is(err, ErrNotFound).
func NewNotFoundError(message string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, message)
}

// NewDuplicateError creates an error that matches errors.Is(err, ErrDuplicate).
func NewDuplicateError(message string) error {
	return fmt.Errorf("%w: %s", ErrDuplicate, message)
}
