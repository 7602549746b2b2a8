package es

import (
	"context"
	"slices"
)

// Subscription drives a catch-up subscription: it tails an EventFeed in
// batches and hands the subscribed event types to a ProjectionWriter,
// starting from the projection's own checkpoint.
type Subscription struct {
	feed      EventFeed
	batchSize int
}

func NewSubscription(feed EventFeed, batchSize int) *Subscription {
	return &Subscription{
		feed:      feed,
		batchSize: batchSize,
	}
}

// CatchUp applies all feed events past the projection's checkpoint and
// returns once the feed is exhausted.
func (s *Subscription) CatchUp(ctx context.Context, projection ProjectionWriter) error {
	if err := projection.ApplyMigration(ctx); err != nil {
		return err
	}

	lastPosition, err := projection.LatestPosition(ctx)
	if err != nil {
		return err
	}

	subscribed := projection.SubscribedEvents()

	for {
		events, err := s.feed.ReadAll(ctx, lastPosition, s.batchSize)
		if err != nil {
			return err
		}

		if len(events) == 0 {
			return nil
		}

		matched := []Event{}
		for _, event := range events {
			if slices.Contains(subscribed, event.Type) {
				matched = append(matched, event)
			}
		}

		if len(matched) > 0 {
			if err := projection.Apply(ctx, matched...); err != nil {
				return err
			}
		}

		lastPosition = events[len(events)-1].GlobalPosition
	}
}
