// Package apperr defines the application error taxonomy. Every failure that
// reaches the HTTP boundary is represented by an *Error so that the central
// error handler can decide status code and response shape in one place.
// Handlers and middleware signal failures by returning an *Error; they never
// render error responses themselves.
package apperr

import (
	"fmt"
	"net/http"
)

// Violation describes a single field-level validation failure. A rejected
// request carries one Violation per failed rule so the client sees the
// complete set at once.
type Violation struct {
	Field         string `json:"field"`
	Message       string `json:"message"`
	RejectedValue any    `json:"value,omitempty"`
}

// Error is a classified application error. Operational errors are anticipated
// user-facing conditions (bad input, bad credentials, not found, forbidden)
// whose Message is safe to return to the client. Non-operational errors are
// unexpected faults; their detail stays server-side.
type Error struct {
	Status      int         // HTTP status code
	Message     string      // client-facing message for operational errors
	Violations  []Violation // populated for validation failures only
	Operational bool        // safe to describe to the client
	Err         error       // underlying cause, kept for server-side logs
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the underlying cause to errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.Err }

// New builds an operational error with an explicit status code.
func New(status int, message string) *Error {
	return &Error{Status: status, Message: message, Operational: true}
}

// BadRequest marks invalid client input, including duplicate unique keys
// surfaced on create.
func BadRequest(message string) *Error {
	return New(http.StatusBadRequest, message)
}

// Validation wraps an accumulated violation list into a single 400 error.
func Validation(violations []Violation) *Error {
	e := New(http.StatusBadRequest, "Validation failed")
	e.Violations = violations
	return e
}

// Unauthorized covers missing, invalid and expired tokens as well as bad
// login credentials.
func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, message)
}

// Forbidden marks a mutation attempt on a resource owned by someone else.
func Forbidden(message string) *Error {
	return New(http.StatusForbidden, message)
}

// NotFound marks an absent resource or identity.
func NotFound(message string) *Error {
	return New(http.StatusNotFound, message)
}

// Internal wraps an unexpected fault. The wrapped error never reaches the
// client verbatim; the error handler substitutes a generic message unless the
// deployment runs in verbose mode.
func Internal(err error) *Error {
	return &Error{
		Status:  http.StatusInternalServerError,
		Message: "Something went wrong!",
		Err:     err,
	}
}
