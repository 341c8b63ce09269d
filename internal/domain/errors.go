package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// Implementing this interface enables extensible error handling in the
// handler layer without enumerating every concrete type there.
type HTTPError interface {
	error
	StatusCode() int
}

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a resource was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}

	// UnauthorizedError indicates authentication failure
	UnauthorizedError struct {
		Message string
	}
)

// Error implementations
func (e *NotFoundError) Error() string     { return e.Message }
func (e *ValidationError) Error() string   { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }

// StatusCode implementations (HTTPError interface)
func (e *NotFoundError) StatusCode() int     { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int   { return http.StatusBadRequest }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNoSession is returned by store operations that require a current
	// session when none exists (e.g. after the last session was deleted).
	ErrNoSession = errors.New("no current session")
)

// ConflictError reports which field collided with an existing resource,
// e.g. a duplicate email or username at registration. The field name is part
// of the contract: callers must be able to tell the user what conflicted.
type ConflictError struct {
	Field string
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already exists", e.Field)
}

// StatusCode implements the HTTPError interface. Duplicate registration is
// reported as a validation-class failure to the client.
func (e *ConflictError) StatusCode() int {
	return http.StatusBadRequest
}

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
