// Package apperrors is the single error taxonomy shared by services and HTTP handlers.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for the request boundary
type Kind uint

const (
	KindUnknown Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
	KindExternal
	KindInternal
)

// Error represents a custom error with additional context
type Error struct {
	Kind       Kind
	Message    string
	Err        error
	StatusCode int
	Code       string
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New creates a new custom error
func New(kind Kind, message string, err error) *Error {
	return &Error{
		Kind:       kind,
		Message:    message,
		Err:        err,
		StatusCode: kindToStatusCode(kind),
		Code:       kindToCode(kind),
	}
}

func Validation(message string) *Error { return New(KindValidation, message, nil) }

func Unauthenticated(message string) *Error { return New(KindAuthentication, message, nil) }

func Forbidden(message string) *Error { return New(KindAuthorization, message, nil) }

func NotFound(message string) *Error { return New(KindNotFound, message, nil) }

func Conflict(message string) *Error { return New(KindConflict, message, nil) }

func External(message string, err error) *Error { return New(KindExternal, message, err) }

func Internal(message string, err error) *Error { return New(KindInternal, message, err) }

// KindOf reports the kind of err, KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

func kindToStatusCode(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func kindToCode(kind Kind) string {
	switch kind {
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindAuthentication:
		return "AUTHENTICATION_ERROR"
	case KindAuthorization:
		return "AUTHORIZATION_ERROR"
	case KindNotFound:
		return "NOT_FOUND"
	case KindConflict:
		return "CONFLICT"
	case KindExternal:
		return "UPSTREAM_UNAVAILABLE"
	case KindInternal:
		return "INTERNAL_ERROR"
	default:
		return "UNKNOWN_ERROR"
	}
}
