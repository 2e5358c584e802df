package errors

import (
	"errors"
	"net/http"
)

// Sentinel failures the service layer translates store results into.
// Handlers and the voice toolbox match on these with errors.Is.
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidFormat    = errors.New("invalid date/time format")
	ErrConflict         = errors.New("no availability for the requested time")
	ErrOverbooked       = errors.New("capacity exceeded while confirming the booking")
	ErrStoreUnavailable = errors.New("reservation system temporarily unavailable")
)

// HTTPError represents an error with an associated HTTP status code.
type HTTPError struct {
	Code    int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTPError with the given code and message.
func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{
		Code:    code,
		Message: message,
	}
}

// StatusFor maps a service failure onto an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidFormat):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict), errors.Is(err, ErrOverbooked):
		return http.StatusConflict
	case errors.Is(err, ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
