package shared

import (
	"errors"
	"fmt"
)

// Error codes understood by the HTTP layer
const (
	CodeNotFound            = "NOT_FOUND"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeValidation          = "VALIDATION"
	CodeConflict            = "CONFLICT"
	CodePersistenceFailure  = "PERSISTENCE_FAILURE"
	CodeNotificationFailure = "NOTIFICATION_FAILURE"
	CodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	cause   error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause, if any
func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is matches domain errors by code so that errors.Is(err, ErrNotFound)
// holds for any not-found error regardless of its message.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewNotFoundError reports a missing entity
func NewNotFoundError(entity string) *DomainError {
	return NewDomainError(CodeNotFound, fmt.Sprintf("%s not found", entity))
}

// NewValidationError reports bad input or a disallowed state
func NewValidationError(format string, args ...any) *DomainError {
	return NewDomainError(CodeValidation, fmt.Sprintf(format, args...))
}

// NewConflictError reports a uniqueness or mutability conflict
func NewConflictError(format string, args ...any) *DomainError {
	return NewDomainError(CodeConflict, fmt.Sprintf(format, args...))
}

// NewUnauthorizedError reports a missing or invalid caller identity
func NewUnauthorizedError(message string) *DomainError {
	return NewDomainError(CodeUnauthorized, message)
}

// NewPersistenceError wraps a storage failure
func NewPersistenceError(op string, err error) *DomainError {
	return &DomainError{
		Code:    CodePersistenceFailure,
		Message: fmt.Sprintf("failed to %s", op),
		cause:   err,
	}
}

// NewNotificationError wraps an email dispatch failure
func NewNotificationError(err error) *DomainError {
	return &DomainError{
		Code:    CodeNotificationFailure,
		Message: "failed to send notification",
		cause:   err,
	}
}

// ErrConcurrencyConflict is returned when a versioned save finds the row
// already moved on
var ErrConcurrencyConflict = NewDomainError(CodeConcurrencyConflict, "Resource was modified by another process")

// IsCode reports whether err is a DomainError carrying the given code
func IsCode(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}
