package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies errors raised outside the HTTP layer
type ErrorType string

const (
	ErrTypeConfig ErrorType = "CONFIG"
	ErrTypeUsage  ErrorType = "USAGE"
	ErrTypeInput  ErrorType = "INPUT"
)

// AppError is an error from startup or the command line tools. HTTP
// handlers report APIError instead.
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to see the cause
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value any) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// NewConfigError reports configuration that could not be loaded or is invalid
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// NewUsageError reports a bad command line
func NewUsageError(format string, args ...any) *AppError {
	return NewAppError(ErrTypeUsage, fmt.Sprintf(format, args...), nil)
}

// NewInputError reports an input file that could not be opened or read
func NewInputError(message string, cause error) *AppError {
	return NewAppError(ErrTypeInput, message, cause)
}

// IsType reports whether err wraps an AppError of type t
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == t
}
