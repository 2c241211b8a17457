package errors

import (
	"errors"
	"fmt"
)

// AppError represents an application error with additional context
type AppError struct {
	Code     string      `json:"code"`
	Message  string      `json:"message"`
	Internal error       `json:"-"`
	Details  interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Internal)
	}
	return e.Message
}

// Unwrap returns the internal error for errors.Is and errors.As
func (e *AppError) Unwrap() error {
	return e.Internal
}

// Common error codes
const (
	ErrCodeInternal               = "INTERNAL_ERROR"
	ErrCodeBadRequest             = "BAD_REQUEST"
	ErrCodeNotFound               = "NOT_FOUND"
	ErrCodeValidation             = "VALIDATION_ERROR"
	ErrCodeSourceUnavailable      = "SOURCE_UNAVAILABLE"
	ErrCodeValidationInconclusive = "VALIDATION_INCONCLUSIVE"
	ErrCodePersistenceFailure     = "PERSISTENCE_FAILURE"
)

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with an AppError
func Wrap(err error, code, message string) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		Internal: err,
	}
}

// WithDetails adds details to an AppError
func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

// Code extracts the error code from an error chain, or ErrCodeInternal.
func Code(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

// Common error constructors

// Internal creates an internal error
func Internal(message string, err error) *AppError {
	return Wrap(err, ErrCodeInternal, message)
}

// BadRequest creates a bad request error
func BadRequest(message string) *AppError {
	return New(ErrCodeBadRequest, message)
}

// NotFound creates a not found error
func NotFound(resource string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource))
}

// ValidationError creates a validation error
func ValidationError(message string, details interface{}) *AppError {
	return New(ErrCodeValidation, message).WithDetails(details)
}

// SourceUnavailable wraps a failed fetch from an external source. The
// analysis continues with whatever data it has and degrades to
// undetermined results instead of fabricating them.
func SourceUnavailable(source string, err error) *AppError {
	return Wrap(err, ErrCodeSourceUnavailable,
		fmt.Sprintf("Failed to reach %s", source))
}

// ValidationInconclusive marks an analysis whose inputs were
// insufficient to compute a meaningful result. Distinct from a computed
// poor score.
func ValidationInconclusive(message string) *AppError {
	return New(ErrCodeValidationInconclusive, message)
}

// PersistenceFailure wraps a store write error. The in-memory report is
// still returned to the caller; the write is neither retried nor
// rolled back.
func PersistenceFailure(table string, err error) *AppError {
	return Wrap(err, ErrCodePersistenceFailure,
		fmt.Sprintf("Failed to persist %s record", table))
}
