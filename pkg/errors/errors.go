// Package errors provides structured error types for hyperpart.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library, CLI and HTTP API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The codes mirror the failure kinds of the partitioning boundary:
//   - INVALID_INPUT: local validation failures, detected before any engine call
//   - CONFIG_ERROR: engine configuration unreadable or rejected
//   - UNCONFIGURED_CONTEXT: partitioning with a context that was never configured
//   - ALLOCATION_FAILED: the engine could not create a context or hypergraph
//   - ENGINE_FAILURE: the partition call itself failed
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "k must be at least 1, got %d", k)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeConfig, origErr, "read config %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Boundary errors
	ErrCodeInvalidInput        Code = "INVALID_INPUT"
	ErrCodeConfig              Code = "CONFIG_ERROR"
	ErrCodeUnconfiguredContext Code = "UNCONFIGURED_CONTEXT"
	ErrCodeAllocation          Code = "ALLOCATION_FAILED"
	ErrCodeEngineFailure       Code = "ENGINE_FAILURE"

	// Handle lifecycle errors
	ErrCodeClosed    Code = "HANDLE_CLOSED"
	ErrCodeAbandoned Code = "HANDLE_ABANDONED"
	ErrCodeCanceled  Code = "CANCELED"

	// File errors
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

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
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Retryable reports whether a caller may reasonably retry an operation that
// failed with err after adjusting its parameters. Allocation failures signal
// resource exhaustion and are never retryable; engine failures are, with a
// different seed or a relaxed imbalance.
func Retryable(err error) bool {
	switch GetCode(err) {
	case ErrCodeEngineFailure, ErrCodeCanceled:
		return true
	default:
		return false
	}
}
