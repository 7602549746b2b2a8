package es

import "context"

// EventStore is the boundary to the append-only event log.
//
// Revisions count the events appended to a stream: a stream with revision N
// holds events at positions 1..N. Reading an unknown stream yields an empty
// slice and revision 0, never an error.
type EventStore interface {
	// Read returns the stream's events in position order together with the
	// stream's current revision.
	Read(ctx context.Context, streamID string) ([]Event, int64, error)

	// Append atomically appends events if expectedRevision matches the
	// stream's current revision and returns the new revision. A mismatch
	// fails with ErrConcurrencyConflict and writes nothing.
	Append(ctx context.Context, streamID string, expectedRevision int64, events []Event) (int64, error)
}

// EventFeed reads the global, cross-stream event feed in global position
// order. Projections and relays tail it in batches.
type EventFeed interface {
	ReadAll(ctx context.Context, afterPosition int64, limit int) ([]Event, error)
}
