// Package errors carries coded application errors across adapter and CLI
// boundaries. Domain packages use sentinel errors; this package tags failures
// with a stable code the CLI reports on exit.
package errors

import (
	"errors"
	"fmt"
)

// Stable error codes reported at the CLI boundary.
const (
	CodeConfigInvalid = "CONFIG_INVALID"
	CodeDataError     = "DATA_ERROR"
	CodeFitError      = "FIT_ERROR"
	CodeDatabaseError = "DATABASE_ERROR"
	CodeInternalError = "INTERNAL_ERROR"
)

// AppError pairs a message with a stable code and an optional cause.
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// DatabaseError tags a persistence failure.
func DatabaseError(message string, cause error) *AppError {
	return &AppError{Code: CodeDatabaseError, Message: message, Cause: cause}
}

// Code returns the code of the first AppError in the chain, or
// CodeInternalError when the chain carries none.
func Code(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternalError
}
