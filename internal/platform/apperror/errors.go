package apperror

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an application error for transport mapping.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindUnauthorized Kind = "unauthorized"
	KindRateLimited  Kind = "rate_limited"
	KindInternal     Kind = "internal"
)

// AppError is an error that carries a client-safe message and a kind.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewValidationError creates an error for invalid client input.
func NewValidationError(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

// NewMissingFieldsError creates a validation error naming every missing field.
func NewMissingFieldsError(fields ...string) *AppError {
	return NewValidationError("missing required fields: " + strings.Join(fields, ", "))
}

// NewUnauthorizedError creates an error for a missing or mismatched credential.
func NewUnauthorizedError() *AppError {
	return &AppError{Kind: KindUnauthorized, Message: "unauthorized"}
}

// NewRateLimitedError creates an error for a client over its request ceiling.
func NewRateLimitedError() *AppError {
	return &AppError{Kind: KindRateLimited, Message: "too many requests"}
}

// NewInternalError wraps an unexpected fault. The cause is never shown to callers.
func NewInternalError(err error) *AppError {
	return &AppError{Kind: KindInternal, Message: "internal server error", Err: err}
}

// KindOf returns the kind of err, or KindInternal for errors that are not AppErrors.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}
