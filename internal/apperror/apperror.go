package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for HTTP mapping.
type Kind int

const (
	KindValidation Kind = iota
	KindNotFound
	KindUnauthenticated
	KindInvalidCredential
	KindForbidden
	KindBusinessRule
	KindInternal
)

// Error carries a user-facing message plus an optional wrapped cause.
// Field-level problems (validation) go into Details.
type Error struct {
	Kind    Kind
	Message string
	Details []string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

func (e *Error) WithCause(err error) *Error {
	return &Error{Kind: e.Kind, Message: e.Message, Details: e.Details, cause: err}
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Validation(message string, details ...string) *Error {
	return &Error{Kind: KindValidation, Message: message, Details: details}
}

func NotFound(message string) *Error        { return New(KindNotFound, message) }
func Unauthenticated(message string) *Error { return New(KindUnauthenticated, message) }
func InvalidCredential(message string) *Error {
	return New(KindInvalidCredential, message)
}
func Forbidden(message string) *Error    { return New(KindForbidden, message) }
func BusinessRule(message string) *Error { return New(KindBusinessRule, message) }
func Internal(message string) *Error     { return New(KindInternal, message) }

// StatusCode maps an error to its HTTP status. Unknown errors are 500.
func StatusCode(err error) int {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	switch appErr.Kind {
	case KindValidation, KindBusinessRule:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthenticated, KindInvalidCredential:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Public returns the message and details safe to show a client. Internal
// errors are masked outside debug builds.
func Public(err error, debug bool) (string, []string) {
	var appErr *Error
	if !errors.As(err, &appErr) || appErr.Kind == KindInternal {
		if debug {
			return err.Error(), nil
		}
		return "Internal server error", nil
	}
	return appErr.Message, appErr.Details
}
