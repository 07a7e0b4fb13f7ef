// Package apperrors defines the error taxonomy shared by every core
// operation. Controllers map these to HTTP status codes at the edge;
// nothing in the core swallows an authorization or validation failure.
package apperrors

import (
	"errors"
	"net/http"
)

var (
	// ErrValidation marks malformed input: unknown category, rating
	// outside 1..5, missing required field.
	ErrValidation = errors.New("validation error")

	// ErrNotAuthorized marks a role, ownership, or sector rule violation.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrInvalidTransition marks an illegal status move. Illegal moves
	// fail, they are never clamped to a nearby legal status.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrAlreadyClosed marks a force close of an issue already Closed.
	ErrAlreadyClosed = errors.New("issue already closed")

	// ErrDuplicateFeedback marks a second feedback for the same
	// (citizen, issue) pair.
	ErrDuplicateFeedback = errors.New("feedback already submitted")

	// ErrDuplicateRegistration marks a uniqueness violation on email,
	// houseId, or sector.
	ErrDuplicateRegistration = errors.New("registration already exists")

	// ErrNotFound marks an id that does not resolve.
	ErrNotFound = errors.New("not found")

	// ErrNoRecipients marks a broadcast whose computed recipient set
	// is empty.
	ErrNoRecipients = errors.New("no recipients in scope")
)

// HTTPStatus maps a taxonomy error to the response code controllers
// should use. Unknown errors map to 500.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrAlreadyClosed):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, ErrDuplicateFeedback), errors.Is(err, ErrDuplicateRegistration):
		return http.StatusConflict
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrNoRecipients):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
