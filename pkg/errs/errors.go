package errs

import (
	"errors"
	"net/http"

	"github.com/cwrk-planet/course-relay/internal/domain"
)

var (
	ErrUnavailable = errors.New("service unavailable")
)

// ToHTTP maps domain errors to an HTTP status code.
func ToHTTP(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidUser),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidCursor):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Message is the client-facing text for err; internals are not leaked.
func Message(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidUser):
		return "Invalid user"
	case errors.Is(err, domain.ErrInvalidCursor):
		return "invalid_cursor"
	case errors.Is(err, domain.ErrUserNotFound):
		return "user not found"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid input"
	case errors.Is(err, ErrUnavailable):
		return "service unavailable"
	default:
		return "internal error"
	}
}
