package es

import (
	"context"
)

// ProjectionWriter consumes the global event feed and maintains a derived
// read model. Implementations own their schema and their checkpoint; Apply
// must be idempotent for the events it has already seen.
type ProjectionWriter interface {
	Name() string
	SubscribedEvents() []EventType
	ApplyMigration(context.Context) error
	LatestPosition(context.Context) (int64, error)
	Apply(context.Context, ...Event) error
}
