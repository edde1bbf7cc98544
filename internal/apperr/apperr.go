// Package apperr defines the error taxonomy shared by every module.
// Services wrap one of the sentinel values below; handlers map the
// sentinel to an HTTP status with Status.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound covers missing entities and entities the caller may not see.
	ErrNotFound = errors.New("not found")
	// ErrInvalid covers well-formed requests that violate a business invariant.
	ErrInvalid = errors.New("invalid request")
	// ErrForbidden covers role, ownership and seller-status gate failures.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict covers state-machine precondition failures and storage
	// constraint violations.
	ErrConflict = errors.New("conflict")
	// ErrUnauthorized covers missing or bad credentials.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrTooManyRequests covers rate-limit rejections.
	ErrTooManyRequests = errors.New("too many requests")
)

type appError struct {
	kind error
	msg  string
}

func (e *appError) Error() string { return e.msg }

func (e *appError) Unwrap() error { return e.kind }

// E builds an error of the given kind carrying a caller-facing message.
// The message stands alone; the kind is only reachable through errors.Is.
func E(kind error, format string, args ...interface{}) error {
	return &appError{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Status maps a taxonomy error to its HTTP status code. Errors outside
// the taxonomy are treated as server errors.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrTooManyRequests):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
