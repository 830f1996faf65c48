package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	// ErrExtractionFailure means the bytes are not a readable document at
	// all: both pipelines errored, not merely produced empty text. It is the
	// only per-document error surfaced to callers.
	ErrExtractionFailure = errors.New("document extraction failed")
	ErrNotFound          = errors.New("resource not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrValidation        = errors.New("validation failed")
	// ErrConflict marks a repository insert that lost a same-hash race. It is
	// resolved internally by re-reading the winner's row and never reaches a
	// caller.
	ErrConflict = errors.New("persistence conflict")
	ErrInternal = errors.New("internal error")
	ErrDatabase = errors.New("database error")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
