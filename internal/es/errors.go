package es

import "errors"

// Rejection taxonomy shared by the decision layer and the stores. Handlers
// translate these with errors.Is; everything else is an internal failure.
var (
	// ErrNotFound signals that a stream holds no events although existence
	// was required.
	ErrNotFound = errors.New("stream not found")

	// ErrAlreadyExists signals a create command against a stream that
	// already has events.
	ErrAlreadyExists = errors.New("stream already exists")

	// ErrInvalidStateTransition signals a command that is not permitted in
	// the aggregate's current status.
	ErrInvalidStateTransition = errors.New("invalid state transition")

	// ErrInvalidOperation signals a command violating a data-level
	// precondition.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrConcurrencyConflict signals that the expected stream revision did
	// not match the actual revision at append time. Callers are expected to
	// re-read, re-decide and retry up to a bound of their choosing.
	ErrConcurrencyConflict = errors.New("concurrency conflict")

	// ErrUnknownEventType signals an event tag outside the closed set of an
	// aggregate. This is a model/version mismatch, not a business error,
	// and must abort the operation instead of producing state.
	ErrUnknownEventType = errors.New("unknown event type")
)
