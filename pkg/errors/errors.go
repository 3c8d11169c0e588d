// Package errors provides structured error types for shaderinc.
//
// Every failure that aborts a resolution run carries a machine-readable
// [Code] so the CLI and the HTTP API can report it consistently:
//
//   - DOCUMENT_UNREADABLE: a document could not be read from storage
//   - PATH_UNRESOLVABLE: an include literal did not canonicalize
//   - CIRCULAR_DEPENDENCY: an include closed a cycle
//   - MALFORMED_INVOCATION: the entry point did not get exactly one literal path
//   - MAX_DEPTH_EXCEEDED: include nesting went past the configured limit
//
// # Usage
//
//	err := errors.DocumentUnreadable(id, cause)
//	if errors.Is(err, errors.ErrCodeDocumentUnreadable) {
//	    // handle
//	}
//
//	var cycle *errors.CycleError
//	if stderrors.As(err, &cycle) {
//	    fmt.Println(cycle.Path)
//	}
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Resolution errors
	ErrCodeDocumentUnreadable  Code = "DOCUMENT_UNREADABLE"
	ErrCodePathUnresolvable    Code = "PATH_UNRESOLVABLE"
	ErrCodeCircularDependency  Code = "CIRCULAR_DEPENDENCY"
	ErrCodeMalformedInvocation Code = "MALFORMED_INVOCATION"
	ErrCodeMaxDepthExceeded    Code = "MAX_DEPTH_EXCEEDED"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Subject string // Document identifier or include literal the error is about (optional)
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
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
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
// For *Error types, returns the message (and cause) without the code prefix.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// CycleError carries the include chain that closed a cycle.
type CycleError struct {
	Path []string
}

// Error renders the chain joined by arrows.
func (e *CycleError) Error() string {
	return strings.Join(e.Path, " -> ")
}

// DocumentUnreadable reports a failed storage read of id.
func DocumentUnreadable(id string, cause error) *Error {
	e := Wrap(ErrCodeDocumentUnreadable, cause, "read document %s", id)
	e.Subject = id
	return e
}

// PathUnresolvable reports an include literal that could not be canonicalized.
func PathUnresolvable(literal string, cause error) *Error {
	e := Wrap(ErrCodePathUnresolvable, cause, "resolve include path %q", literal)
	e.Subject = literal
	return e
}

// CircularDependency reports the cycle closed by the most recent include.
// The path is copied.
func CircularDependency(path []string) *Error {
	p := make([]string, len(path))
	copy(p, path)
	e := Wrap(ErrCodeCircularDependency, &CycleError{Path: p}, "circular dependency detected")
	if len(p) > 0 {
		e.Subject = p[0]
	}
	return e
}

// MalformedInvocation reports an entry point called with something other
// than a single literal path.
func MalformedInvocation(format string, args ...any) *Error {
	return New(ErrCodeMalformedInvocation, format, args...)
}

// MaxDepthExceeded reports include nesting deeper than limit at id.
func MaxDepthExceeded(id string, limit int) *Error {
	e := New(ErrCodeMaxDepthExceeded, "include depth exceeds %d at %s", limit, id)
	e.Subject = id
	return e
}

// CyclePath returns the cycle carried by err, or nil.
func CyclePath(err error) []string {
	var ce *CycleError
	if errors.As(err, &ce) {
		return ce.Path
	}
	return nil
}
