// Package apperr defines the error taxonomy shared by the service layer
// and maps it to HTTP statuses in one place, so handlers never invent
// status codes of their own.
package apperr

import (
	"errors"
	"net/http"
)

var (
	// ErrNotFound means a referenced user or row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidOperation means the request is well-formed HTTP but
	// nonsensical, such as a self-invite or a malformed email.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrConflict means a friendship row already exists for the canonical
	// pair. Deliberately undifferentiated: it covers both "already pending"
	// and "already friends".
	ErrConflict = errors.New("conflict")

	// ErrForbidden means the actor is not a party to the relationship, or
	// lacks an accepted relationship for a gated read or write.
	ErrForbidden = errors.New("forbidden")
)

// HTTPStatus converts service errors into HTTP status codes.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidOperation):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
