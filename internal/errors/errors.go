// Package errors defines the coded error type shared by the service and
// HTTP layers. Handlers branch on the code to pick a status and message
// instead of string-matching wrapped errors.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes an application error.
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "not_found"
	ErrCodeConflict     ErrorCode = "conflict"
	ErrCodeValidation   ErrorCode = "validation"
	ErrCodeForeignKey   ErrorCode = "foreign_key"
	ErrCodeUnauthorized ErrorCode = "unauthorized"
	ErrCodeForbidden    ErrorCode = "forbidden"
	// ErrCodeProvider marks failures talking to the identity provider.
	ErrCodeProvider ErrorCode = "provider"
	ErrCodeInternal ErrorCode = "internal"
	ErrCodeTimeout  ErrorCode = "timeout"
	ErrCodeCanceled ErrorCode = "canceled"
)

// AppError carries a code, a user-presentable message, an optional cause for
// wrapping, and an optional field name for validation errors.
type AppError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Field   string
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

func newError(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// NotFound builds a not_found error.
func NotFound(message string) *AppError { return newError(ErrCodeNotFound, message) }

// NotFoundf builds a not_found error with a formatted message.
func NotFoundf(format string, args ...any) *AppError {
	return newError(ErrCodeNotFound, fmt.Sprintf(format, args...))
}

// Conflict builds a conflict error.
func Conflict(message string) *AppError { return newError(ErrCodeConflict, message) }

// Validation builds a validation error.
func Validation(message string) *AppError { return newError(ErrCodeValidation, message) }

// ValidationField builds a validation error scoped to one input field.
func ValidationField(field, message string) *AppError {
	err := newError(ErrCodeValidation, message)
	err.Field = field
	return err
}

// ForeignKey builds a foreign_key error.
func ForeignKey(message string) *AppError { return newError(ErrCodeForeignKey, message) }

// Unauthorized builds an unauthorized error.
func Unauthorized(message string) *AppError { return newError(ErrCodeUnauthorized, message) }

// Forbidden builds a forbidden error.
func Forbidden(message string) *AppError { return newError(ErrCodeForbidden, message) }

// Provider builds a provider error.
func Provider(message string) *AppError { return newError(ErrCodeProvider, message) }

// Internal builds an internal error.
func Internal(message string) *AppError { return newError(ErrCodeInternal, message) }

// Wrap attaches a code and message to an existing error. Wrapping nil
// returns nil so call sites can wrap unconditionally.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsNotFound reports whether err carries ErrCodeNotFound.
func IsNotFound(err error) bool { return isCode(err, ErrCodeNotFound) }

// IsConflict reports whether err carries ErrCodeConflict.
func IsConflict(err error) bool { return isCode(err, ErrCodeConflict) }

// IsValidation reports whether err carries ErrCodeValidation.
func IsValidation(err error) bool { return isCode(err, ErrCodeValidation) }

// IsForeignKey reports whether err carries ErrCodeForeignKey.
func IsForeignKey(err error) bool { return isCode(err, ErrCodeForeignKey) }

// IsUnauthorized reports whether err carries ErrCodeUnauthorized.
func IsUnauthorized(err error) bool { return isCode(err, ErrCodeUnauthorized) }

// IsForbidden reports whether err carries ErrCodeForbidden.
func IsForbidden(err error) bool { return isCode(err, ErrCodeForbidden) }

// IsProvider reports whether err carries ErrCodeProvider.
func IsProvider(err error) bool { return isCode(err, ErrCodeProvider) }

// IsInternal reports whether err carries ErrCodeInternal.
func IsInternal(err error) bool { return isCode(err, ErrCodeInternal) }

// IsTimeout reports whether err carries ErrCodeTimeout.
func IsTimeout(err error) bool { return isCode(err, ErrCodeTimeout) }

// IsCanceled reports whether err carries ErrCodeCanceled.
func IsCanceled(err error) bool { return isCode(err, ErrCodeCanceled) }

// GetCode extracts the ErrorCode from err, or "" for non-AppErrors.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetField extracts the Field from err, or "" when absent.
func GetField(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}
