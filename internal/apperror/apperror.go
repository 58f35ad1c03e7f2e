package apperror

import (
	"errors"
	"net/http"
)

// Error is a sentinel error that carries the HTTP status it maps to.
type Error struct {
	Status  int
	Message string
}

// New creates a new sentinel error.
func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

func (e *Error) Error() string {
	return e.Message
}

var (
	ErrInvalidRange      = New(http.StatusBadRequest, "invalid date range")
	ErrCapacityExceeded  = New(http.StatusUnprocessableEntity, "guest count exceeds property capacity")
	ErrNotAvailable      = New(http.StatusConflict, "dates are not available")
	ErrInvalidTransition = New(http.StatusConflict, "invalid booking status transition")
	ErrNotFound          = New(http.StatusNotFound, "resource not found")
	ErrPermissionDenied  = New(http.StatusForbidden, "permission denied")
	ErrInvalidInput      = New(http.StatusBadRequest, "invalid input parameters")
)

// StatusOf returns the HTTP status for err, falling back to 500 for errors
// that do not wrap an *Error.
func StatusOf(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}
