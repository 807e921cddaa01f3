// Package apperr defines the error kinds reported to storefront clients.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	ServerError Kind = iota
	Unauthenticated
	InvalidSession
	ValidationError
	NotFound
	Conflict
)

func (k Kind) String() string {
	switch k {
	case Unauthenticated:
		return "unauthenticated"
	case InvalidSession:
		return "invalid_session"
	case ValidationError:
		return "validation_error"
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	default:
		return "server_error"
	}
}

// HTTPStatus maps a kind onto the status used by the HTTP endpoints.
func (k Kind) HTTPStatus() int {
	switch k {
	case Unauthenticated, InvalidSession:
		return http.StatusUnauthorized
	case ValidationError:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error carries a client-facing message and an optional internal cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns ServerError for anything that is not an *Error.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ServerError
}

// MessageOf returns the client-facing message. Causes of server errors are
// never exposed.
func MessageOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Kind != ServerError {
		return ae.Message
	}
	return "Server error"
}
