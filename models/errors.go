package models

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies domain failures.
type ErrorKind string

const (
	KindNotFound     ErrorKind = "NOT_FOUND"
	KindUnauthorized ErrorKind = "UNAUTHORIZED"
	KindValidation   ErrorKind = "VALIDATION_ERROR"
	KindConflict     ErrorKind = "CONFLICT"
	KindInternal     ErrorKind = "INTERNAL_ERROR"
)

// AppError is a failure with an HTTP status, a message for the caller and an
// optional label naming the operation that failed.
type AppError struct {
	Kind    ErrorKind
	Status  int
	Message string
	Label   string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithLabel returns a copy of e carrying label.
func (e *AppError) WithLabel(label string) *AppError {
	cp := *e
	cp.Label = label
	return &cp
}

func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Kind:    KindNotFound,
		Status:  http.StatusNotFound,
		Message: resource + " not found",
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Kind:    KindUnauthorized,
		Status:  http.StatusForbidden,
		Message: message,
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Kind:    KindValidation,
		Status:  http.StatusBadRequest,
		Message: message,
	}
}

func NewConflictError(message string) *AppError {
	return &AppError{
		Kind:    KindConflict,
		Status:  http.StatusConflict,
		Message: message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Kind:    KindInternal,
		Status:  http.StatusInternalServerError,
		Message: "Internal server error",
		Err:     err,
	}
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// AsAppError converts any error into an AppError, wrapping unknown errors as internal.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError(err)
}
