// Package analysis contains the HTTP clients for the two external analysis
// services: the Responder (generative text) and the Verifier (claim
// fact-check). This file holds the shared error taxonomy.
//
// Every client failure is an *Error whose Error() string is the literal,
// user-facing message that gets persisted to the interaction log. Callers
// branch on the failure class with errors.Is against the Err* kinds below.
package analysis

import "errors"

// Failure classes.
var (
	// ErrConfiguration means a required credential or endpoint is missing.
	// It is detected before any network call.
	ErrConfiguration = errors.New("configuration error")

	// ErrTransport covers timeouts and network-level failures.
	ErrTransport = errors.New("transport error")

	// ErrUpstream is a non-success status from the remote service.
	ErrUpstream = errors.New("upstream error")

	// ErrProtocol means a success response could not be decoded into the
	// expected shape.
	ErrProtocol = errors.New("protocol error")

	// ErrBadRequest is the Verifier rejecting the request (HTTP 400).
	ErrBadRequest = errors.New("bad request")

	// ErrUnavailable is the Verifier reporting itself down (HTTP 503).
	ErrUnavailable = errors.New("service unavailable")

	// ErrValidation is invalid input caught before any network call.
	ErrValidation = errors.New("validation error")
)

// Error is a classified analysis failure.
type Error struct {
	Kind error  // one of the Err* classes
	Msg  string // literal message, stored verbatim in the log
	Err  error  // underlying cause, if any
}

func (e *Error) Error() string { return e.Msg }

// Unwrap exposes the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// Is matches the failure class.
func (e *Error) Is(target error) bool { return e.Kind == target }

func newError(kind error, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: cause}
}

// IsAnalysisError reports whether err came from one of the analysis clients.
func IsAnalysisError(err error) bool {
	var e *Error
	return errors.As(err, &e)
}
