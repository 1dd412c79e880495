// Package errors provides standardized domain errors with codes for the StoryLoop API.
//
// Usage:
//
//	// In services - return typed errors
//	if itemExists {
//	    return errors.DuplicateInBatch("ISBN already scanned in this batch")
//	}
//
//	// In handlers - check with errors.Is
//	if errors.Is(err, errors.ErrDuplicateInBatch) {
//	    return nil, err // huma error handler maps the code to 409
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
)

// Code represents a machine-readable error code.
type Code string

// Error codes used throughout the application.
const (
	CodeNotFound         Code = "NOT_FOUND"
	CodeAlreadyExists    Code = "ALREADY_EXISTS"
	CodeValidation       Code = "VALIDATION"
	CodeConflict         Code = "CONFLICT"
	CodeInternal         Code = "INTERNAL"
	CodeInvalidISBN      Code = "INVALID_ISBN"
	CodeDuplicateInBatch Code = "DUPLICATE_IN_BATCH"
	CodeBatchNotOpen     Code = "BATCH_NOT_OPEN"
	CodeBatchFull        Code = "BATCH_FULL"
	CodeCounterConflict  Code = "COUNTER_CONFLICT"
	CodeRateLimited      Code = "RATE_LIMITED"
)

// HTTPStatus returns the appropriate HTTP status code for an error code.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeAlreadyExists, CodeConflict, CodeDuplicateInBatch, CodeBatchFull, CodeCounterConflict:
		return http.StatusConflict
	case CodeValidation, CodeInvalidISBN:
		return http.StatusBadRequest
	case CodeBatchNotOpen:
		return http.StatusUnprocessableEntity
	case CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error with a code, message, and optional details.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error  // unexported, for wrapping
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target matches this error.
// Matches if target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPStatus returns the HTTP status code for this error.
func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// WithDetails returns a new error with additional details.
func (e *Error) WithDetails(details any) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		cause:   e.cause,
	}
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		cause:   err,
	}
}

// Sentinel errors for use with errors.Is().
var (
	ErrNotFound         = &Error{Code: CodeNotFound, Message: "not found"}
	ErrAlreadyExists    = &Error{Code: CodeAlreadyExists, Message: "already exists"}
	ErrValidation       = &Error{Code: CodeValidation, Message: "validation error"}
	ErrConflict         = &Error{Code: CodeConflict, Message: "conflict"}
	ErrInternal         = &Error{Code: CodeInternal, Message: "internal error"}
	ErrInvalidISBN      = &Error{Code: CodeInvalidISBN, Message: "invalid ISBN"}
	ErrDuplicateInBatch = &Error{Code: CodeDuplicateInBatch, Message: "ISBN already scanned in this batch"}
	ErrBatchNotOpen     = &Error{Code: CodeBatchNotOpen, Message: "batch is not open"}
	ErrBatchFull        = &Error{Code: CodeBatchFull, Message: "batch is full"}
	ErrCounterConflict  = &Error{Code: CodeCounterConflict, Message: "SKU counter conflict"}
)

// Constructor functions for creating errors with custom messages.

// NotFound creates a not found error.
func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// NotFoundf creates a not found error with formatted message.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// AlreadyExists creates an already exists error.
func AlreadyExists(msg string) *Error {
	return &Error{Code: CodeAlreadyExists, Message: msg}
}

// Validation creates a validation error.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// Validationf creates a validation error with formatted message.
func Validationf(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// ValidationWithDetails creates a validation error with details.
func ValidationWithDetails(msg string, details any) *Error {
	return &Error{Code: CodeValidation, Message: msg, Details: details}
}

// Conflict creates a conflict error.
func Conflict(msg string) *Error {
	return &Error{Code: CodeConflict, Message: msg}
}

// Internal creates an internal error.
func Internal(msg string) *Error {
	return &Error{Code: CodeInternal, Message: msg}
}

// Internalf creates an internal error with formatted message.
func Internalf(format string, args ...any) *Error {
	return &Error{Code: CodeInternal, Message: fmt.Sprintf(format, args...)}
}

// InvalidISBN creates an invalid ISBN error.
func InvalidISBN(msg string) *Error {
	return &Error{Code: CodeInvalidISBN, Message: msg}
}

// InvalidISBNf creates an invalid ISBN error with formatted message.
func InvalidISBNf(format string, args ...any) *Error {
	return &Error{Code: CodeInvalidISBN, Message: fmt.Sprintf(format, args...)}
}

// DuplicateInBatch creates a duplicate scan error.
func DuplicateInBatch(msg string) *Error {
	return &Error{Code: CodeDuplicateInBatch, Message: msg}
}

// BatchNotOpen creates a batch not open error.
func BatchNotOpen(msg string) *Error {
	return &Error{Code: CodeBatchNotOpen, Message: msg}
}

// BatchFull creates a batch full error.
func BatchFull(msg string) *Error {
	return &Error{Code: CodeBatchFull, Message: msg}
}

// CounterConflict creates a SKU counter conflict error.
func CounterConflict(msg string) *Error {
	return &Error{Code: CodeCounterConflict, Message: msg}
}

// Wrap wraps an error with a code and message.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}

// Wrapf wraps an error with a code and formatted message.
func Wrapf(err error, code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), cause: err}
}
