package apperror

import (
	"errors"
	"fmt"
)

// Code identifies the error class a failure belongs to. Controllers never
// branch on codes themselves; the error handler middleware maps them to
// HTTP statuses.
type Code string

const (
	CodeUnauthorized  Code = "UNAUTHORIZED"   // bad or missing credentials
	CodeForbidden     Code = "FORBIDDEN"      // role/participant mismatch
	CodeNotFound      Code = "NOT_FOUND"      // chat/participant/agent absent
	CodeValidation    Code = "VALIDATION"     // malformed or empty input
	CodeStateConflict Code = "STATE_CONFLICT" // re-asserting current state
	CodeInternal      Code = "INTERNAL"       // unexpected persistence failure
)

type AppError struct {
	Code    Code
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code Code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func Wrap(code Code, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func Unauthorized(message string) *AppError  { return New(CodeUnauthorized, message) }
func Forbidden(message string) *AppError     { return New(CodeForbidden, message) }
func NotFound(message string) *AppError      { return New(CodeNotFound, message) }
func Validation(message string) *AppError    { return New(CodeValidation, message) }
func StateConflict(message string) *AppError { return New(CodeStateConflict, message) }

func Internal(err error) *AppError {
	return Wrap(CodeInternal, "internal error", err)
}

// As extracts an AppError from an error chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
