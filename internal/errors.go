package internal

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed backend interaction. The console surfaces one
// generic notification per failure either way; the kind exists so callers can
// tell a dead backend from a rejected request from a missing entity without
// parsing response bodies.
type ErrorKind string

const (
	ErrorKindNetwork  ErrorKind = "network"
	ErrorKindRejected ErrorKind = "rejected"
	ErrorKindNotFound ErrorKind = "not_found"
)

type AppError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func NewNetworkError(message string, cause error) *AppError {
	return &AppError{Kind: ErrorKindNetwork, Message: message, Cause: cause}
}

func NewRejectedError(message string) *AppError {
	return &AppError{Kind: ErrorKindRejected, Message: message}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Kind: ErrorKindNotFound, Message: message}
}

// KindOf reports the classification of err, defaulting to rejected for
// errors that did not originate in the backend client.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ErrorKindRejected
}

func IsNotFound(err error) bool {
	return KindOf(err) == ErrorKindNotFound
}
