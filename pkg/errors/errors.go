// Package errors provides structured error types for erwd.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the layout core, CLI and HTTP service
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages that name the offending widget
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Core layout failures use the codes [ErrCodeInvalidRange],
// [ErrCodeCyclicConstraint], [ErrCodeDomain], [ErrCodeNonConvergence] and
// [ErrCodeMissingChildState]. Failures of the surrounding layers (file
// loading, configuration, caching) use the INVALID_* and NOT_FOUND codes.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidRange, "segment [%d,%d] is inverted", lo, hi)
//	if errors.Is(err, errors.ErrCodeInvalidRange) {
//	    // Handle malformed range
//	}
//
//	// Wrap existing errors with the widget that caused them
//	err := errors.Wrap(errors.ErrCodeNonConvergence, origErr, "widget %q", name)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Layout core errors
	ErrCodeInvalidRange      Code = "INVALID_RANGE"
	ErrCodeCyclicConstraint  Code = "CYCLIC_CONSTRAINT"
	ErrCodeDomain            Code = "DOMAIN_ERROR"
	ErrCodeNonConvergence    Code = "NON_CONVERGENCE"
	ErrCodeMissingChildState Code = "MISSING_CHILD_STATE"

	// Input validation errors
	ErrCodeInvalidInput       Code = "INVALID_INPUT"
	ErrCodeInvalidWidget      Code = "INVALID_WIDGET"
	ErrCodeInvalidSizeComment Code = "INVALID_SIZE_COMMENT"
	ErrCodeInvalidConfig      Code = "INVALID_CONFIG"
	ErrCodeInvalidPath        Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Network errors (cache backends)
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
// The outermost *Error decides; use [Has] to search the whole chain.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// Has reports whether any *Error in the chain of err carries code.
// The engine wraps core failures with the widget name, so callers that care
// about the root cause (for example a NON_CONVERGENCE deep inside a page)
// use Has rather than Is.
func Has(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message chain without code prefixes,
// so "widget \"page\"" wrapping "cycle a -> b -> a" reads as
// "widget \"page\": cycle a -> b -> a". For other errors, returns the
// error string as-is.
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + UserMessage(e.Cause)
}
