// Package errors provides standardized domain errors with codes for Overseer.
//
// Usage:
//
//	// In components - return typed errors
//	if !info.IsDir() {
//	    return errors.NotADirectory(path)
//	}
//
//	// In callers - check with errors.Is
//	if errors.Is(err, errors.ErrPathNotFound) {
//	    // handle missing root
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
	// CodePathNotFound means a target path does not exist on the filesystem.
	CodePathNotFound Code = "PATH_NOT_FOUND"
	// CodeNotADirectory means a path exists but is not a directory.
	CodeNotADirectory Code = "NOT_A_DIRECTORY"
	// CodeInvalidName means a path has no usable final component.
	CodeInvalidName Code = "INVALID_NAME"
	// CodeIO wraps an underlying filesystem failure during a walk or save.
	CodeIO Code = "IO"
	// CodeDecode means a corrupt snapshot or a non-text event payload.
	CodeDecode Code = "DECODE"
	// CodeOS means a native event-source or session failure.
	CodeOS Code = "OS"
	// CodeInternal is the catch-all for unexpected failures.
	CodeInternal Code = "INTERNAL"
)

// HTTPStatus returns the appropriate HTTP status code for an error code.
func (c Code) HTTPStatus() int {
	switch c {
	case CodePathNotFound:
		return http.StatusNotFound
	case CodeNotADirectory, CodeInvalidName:
		return http.StatusBadRequest
	case CodeDecode:
		return http.StatusUnprocessableEntity
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
	ErrPathNotFound  = &Error{Code: CodePathNotFound, Message: "path does not exist"}
	ErrNotADirectory = &Error{Code: CodeNotADirectory, Message: "path is not a directory"}
	ErrInvalidName   = &Error{Code: CodeInvalidName, Message: "invalid name"}
	ErrIO            = &Error{Code: CodeIO, Message: "i/o failure"}
	ErrDecode        = &Error{Code: CodeDecode, Message: "decode failure"}
	ErrOS            = &Error{Code: CodeOS, Message: "os failure"}
	ErrInternal      = &Error{Code: CodeInternal, Message: "internal error"}
)

// Constructor functions for creating errors with custom messages.

// PathNotFound creates a path-not-found error for the given path.
func PathNotFound(path string) *Error {
	return &Error{Code: CodePathNotFound, Message: fmt.Sprintf("path does not exist: %s", path)}
}

// NotADirectory creates a not-a-directory error for the given path.
func NotADirectory(path string) *Error {
	return &Error{Code: CodeNotADirectory, Message: fmt.Sprintf("path is not a directory: %s", path)}
}

// InvalidName creates an invalid-name error for the given path.
func InvalidName(path string) *Error {
	return &Error{Code: CodeInvalidName, Message: fmt.Sprintf("path has no valid final component: %s", path)}
}

// IO creates an i/o error wrapping the underlying failure.
func IO(msg string, cause error) *Error {
	return &Error{Code: CodeIO, Message: msg, cause: cause}
}

// Decode creates a decode error wrapping the underlying failure.
func Decode(msg string, cause error) *Error {
	return &Error{Code: CodeDecode, Message: msg, cause: cause}
}

// OS creates an os error wrapping the underlying failure.
func OS(msg string, cause error) *Error {
	return &Error{Code: CodeOS, Message: msg, cause: cause}
}

// Internal creates an internal error.
func Internal(msg string) *Error {
	return &Error{Code: CodeInternal, Message: msg}
}

// Wrap wraps an error with a code and message.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}

// Wrapf wraps an error with a code and formatted message.
func Wrapf(err error, code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), cause: err}
}
