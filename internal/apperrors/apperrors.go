// Package apperrors defines the application error taxonomy shared by the
// HTTP handlers and the Telegram command interpreter.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType classifies an application error
type ErrorType string

const (
	ErrorTypeValidation       ErrorType = "validation_error"
	ErrorTypeConflict         ErrorType = "conflict"
	ErrorTypeNotFound         ErrorType = "not_found"
	ErrorTypeUnauthorized     ErrorType = "unauthorized"
	ErrorTypeInvalidOperation ErrorType = "invalid_operation"
	ErrorTypeStorage          ErrorType = "storage_error"
)

// AppError carries the error type, an HTTP status code and a user-facing
// message. Message is what HTTP callers and chat users see; Details is for
// logs only.
type AppError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Code    int       `json:"-"`
	Details string    `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func newError(t ErrorType, code int, message string, details []string) *AppError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &AppError{Type: t, Message: message, Code: code, Details: detail}
}

// NewValidationError creates a validation error (HTTP 400)
func NewValidationError(message string, details ...string) *AppError {
	return newError(ErrorTypeValidation, http.StatusBadRequest, message, details)
}

// NewConflictError creates a conflict error (HTTP 400, e.g. duplicate slug)
func NewConflictError(message string, details ...string) *AppError {
	return newError(ErrorTypeConflict, http.StatusBadRequest, message, details)
}

// NewNotFoundError creates a not found error (HTTP 404)
func NewNotFoundError(message string, details ...string) *AppError {
	return newError(ErrorTypeNotFound, http.StatusNotFound, message, details)
}

// NewUnauthorizedError creates an unauthorized error (HTTP 401)
func NewUnauthorizedError(message string, details ...string) *AppError {
	return newError(ErrorTypeUnauthorized, http.StatusUnauthorized, message, details)
}

// NewInvalidOperationError creates an invalid operation error (HTTP 400).
// In the chat channel this is reported back to the requester, never treated
// as an engine failure.
func NewInvalidOperationError(message string, details ...string) *AppError {
	return newError(ErrorTypeInvalidOperation, http.StatusBadRequest, message, details)
}

// NewStorageError creates a storage error (HTTP 500)
func NewStorageError(message string, details ...string) *AppError {
	return newError(ErrorTypeStorage, http.StatusInternalServerError, message, details)
}

// GetAppError extracts an AppError from err, or nil
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsConflictError checks if the error is a conflict error
func IsConflictError(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == ErrorTypeConflict
}

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == ErrorTypeNotFound
}

// IsInvalidOperationError checks if the error is an invalid operation error
func IsInvalidOperationError(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == ErrorTypeInvalidOperation
}
