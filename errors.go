package cstyle

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of an error
type ErrorType string

const (
	// ErrorTypeConfig represents configuration-related errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeFS represents file system-related errors
	ErrorTypeFS ErrorType = "filesystem"
	// ErrorTypeEncoding represents text encoding errors
	ErrorTypeEncoding ErrorType = "encoding"
	// ErrorTypeCheck represents check-internal errors
	ErrorTypeCheck ErrorType = "check"
	// ErrorTypeCache represents cache-related errors
	ErrorTypeCache ErrorType = "cache"
)

// ErrChecksFailed is returned by a command when at least one file had a
// violation or was reformatted. The hook runner treats this as a failed
// commit so reformatted files get re-staged.
var ErrChecksFailed = errors.New("style checks failed")

// AppError is a custom error type that provides context about the error
type AppError struct {
	Type    ErrorType // The category of the error
	Message string    // A human-readable error message
	Err     error     // The underlying error, if any
	File    string    // The file related to the error, if applicable
	Details string    // Additional details about the error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new configuration error
func NewConfigError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeConfig,
		Message: message,
		Err:     err,
	}
}

// NewFSError creates a new file system error
func NewFSError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeFS,
		Message: message,
		Err:     err,
	}
}

// NewEncodingError creates a new text encoding error
func NewEncodingError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeEncoding,
		Message: message,
		Err:     err,
	}
}

// NewCheckError creates a new check-internal error
func NewCheckError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeCheck,
		Message: message,
		Err:     err,
	}
}

// NewCacheError creates a new cache error
func NewCacheError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeCache,
		Message: message,
		Err:     err,
	}
}

// WithFile adds file information to an error, wrapping it in an AppError if needed
func WithFile(err error, file string) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		appErr.File = file
		return appErr
	}
	return &AppError{
		Type:    ErrorTypeCheck,
		Message: err.Error(),
		Err:     err,
		File:    file,
	}
}

// WithDetails adds additional details to an error, wrapping it in an AppError if needed
func WithDetails(err error, details string) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		appErr.Details = details
		return appErr
	}
	return &AppError{
		Type:    ErrorTypeCheck,
		Message: err.Error(),
		Err:     err,
		Details: details,
	}
}

// ErrorInfo holds the extractable context of an AppError
type ErrorInfo struct {
	Type    ErrorType
	File    string
	Details string
}

// GetErrorInfo extracts AppError context from an error chain.
// Returns false if the chain contains no AppError.
func GetErrorInfo(err error) (ErrorInfo, bool) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return ErrorInfo{}, false
	}
	return ErrorInfo{
		Type:    appErr.Type,
		File:    appErr.File,
		Details: appErr.Details,
	}, true
}
