// Package services implements the interaction pipeline shared by every
// channel: validate, identify the actor, invoke an analysis client, log the
// attempt, and shape the reply.
//
// This file centralizes the service-level error values. Translation into
// HTTP status codes happens in the handler layer. Analysis client failures
// are not wrapped here: they are returned unchanged so their literal message
// reaches the caller (see package analysis).
package services

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAPIKey is returned when an API key matches no registered
	// client. Its message is persisted verbatim in the interaction log.
	ErrInvalidAPIKey = errors.New("Invalid API key")

	// ErrInvalidPayload is returned for input that fails channel-level
	// validation (blank message, Telegram update without chat id or text).
	ErrInvalidPayload = errors.New("invalid payload")

	// ErrUnreadableFile is returned when text cannot be extracted from an
	// uploaded document.
	ErrUnreadableFile = errors.New("Failed to read uploaded file.")

	// ErrLogNotFound is returned when deleting a log id that does not exist.
	ErrLogNotFound = errors.New("interaction log not found")

	// ErrStorage marks a failure of the backing store.
	ErrStorage = errors.New("storage error")
)

// storageErr wraps a repository failure so callers can match ErrStorage while
// the cause stays available through errors.Unwrap chains.
func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}
