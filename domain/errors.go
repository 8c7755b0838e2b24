package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeValidation   ErrorCode = "VALIDATION_FAILED"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeInternal     ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Closed error set of the application. Not-found values deliberately do not
// distinguish "absent" from "owned by someone else", and the credential
// errors use a single generic message so emails cannot be probed.
var (
	ErrUserNotFound       = NewError(ErrCodeNotFound, "user not found")
	ErrListNotFound       = NewError(ErrCodeNotFound, "task list not found")
	ErrTaskNotFound       = NewError(ErrCodeNotFound, "task not found")
	ErrEmailTaken         = NewError(ErrCodeConflict, "email already exists")
	ErrEmailInUse         = NewError(ErrCodeConflict, "email already in use")
	ErrInvalidCredentials = NewError(ErrCodeUnauthorized, "invalid credentials")
	ErrIncorrectPassword  = NewError(ErrCodeUnauthorized, "incorrect current password")
	ErrWeakPassword       = NewError(ErrCodeValidation, "new password must be at least 6 characters long")
	ErrInvalidToken       = NewError(ErrCodeUnauthorized, "invalid token")
	ErrUnauthorized       = NewError(ErrCodeUnauthorized, "authentication required")
	ErrInvalidPayload     = NewError(ErrCodeValidation, "invalid payload")
)

// FieldError is a single violated validation rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates every violated rule of a request so callers
// see the full set, not just the first failure.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return code == ErrCodeValidation
	}
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}
