package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents different types of errors in the system
type ErrorType string

const (
	// ErrorTypeInvalidArgument indicates a required input was empty or malformed
	ErrorTypeInvalidArgument ErrorType = "INVALID_ARGUMENT"

	// ErrorTypeAuthenticationRequired indicates a mandatory bearer token was missing
	ErrorTypeAuthenticationRequired ErrorType = "AUTHENTICATION_REQUIRED"

	// ErrorTypeRequestFailed indicates the remote API answered with a non-success status
	ErrorTypeRequestFailed ErrorType = "REQUEST_FAILED"

	// ErrorTypeNetworkUnavailable indicates a transport-level failure
	ErrorTypeNetworkUnavailable ErrorType = "NETWORK_UNAVAILABLE"

	// ErrorTypeNotFound indicates a resource was not found
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeInternal indicates an internal error
	ErrorTypeInternal ErrorType = "INTERNAL"
)

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Message string
	// Status is the HTTP status code for ErrorTypeRequestFailed, zero otherwise.
	Status int
	Err    error
}

// Error implements the error interface
func (e *AppError) Error() string {
	msg := e.Message
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", e.Message, e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, msg)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewInvalidArgumentError creates a new invalid argument error
func NewInvalidArgumentError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidArgument,
		Message: message,
	}
}

// NewAuthenticationRequiredError creates a new authentication required error
func NewAuthenticationRequiredError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeAuthenticationRequired,
		Message: message,
	}
}

// NewRequestFailedError creates an error for a non-success HTTP response
func NewRequestFailedError(status int, message string) *AppError {
	return &AppError{
		Type:    ErrorTypeRequestFailed,
		Message: message,
		Status:  status,
	}
}

// NewNetworkUnavailableError creates a new transport failure error
func NewNetworkUnavailableError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeNetworkUnavailable,
		Message: message,
		Err:     err,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}

// IsType reports whether err wraps an AppError of type t.
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}

// UserMessage returns the single line shown to a user for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeNetworkUnavailable:
			return "Unable to reach the restaurant service"
		case ErrorTypeRequestFailed:
			return fmt.Sprintf("API call failed: %s", appErr.Message)
		default:
			return appErr.Message
		}
	}
	return err.Error()
}
