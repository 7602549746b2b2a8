package es_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopcart/internal/es"
)

// recordingProjection collects applied events in memory.
type recordingProjection struct {
	subscribed []es.EventType
	applied    []es.Event
	position   int64
}

func (p *recordingProjection) Name() string                         { return "recording" }
func (p *recordingProjection) SubscribedEvents() []es.EventType     { return p.subscribed }
func (p *recordingProjection) ApplyMigration(context.Context) error { return nil }

func (p *recordingProjection) LatestPosition(context.Context) (int64, error) {
	return p.position, nil
}

func (p *recordingProjection) Apply(_ context.Context, events ...es.Event) error {
	p.applied = append(p.applied, events...)
	p.position = events[len(events)-1].GlobalPosition
	return nil
}

func TestSubscriptionCatchUp(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T) *es.MemoryEventStore {
		t.Helper()
		store := es.NewMemoryEventStore()

		_, err := store.Append(ctx, "cart-1", 0, []es.Event{
			testEvent("cart.opened", 0),
			testEvent("cart.item_added", 1),
			testEvent("cart.item_added", 2),
			testEvent("cart.confirmed", 3),
		})
		require.NoError(t, err)
		return store
	}

	t.Run("applies subscribed events in feed order", func(t *testing.T) {
		store := seed(t)
		projection := &recordingProjection{
			subscribed: []es.EventType{"cart.item_added"},
		}

		// Batch size 1 forces multiple rounds through the feed.
		err := es.NewSubscription(store, 1).CatchUp(ctx, projection)
		require.NoError(t, err)

		require.Len(t, projection.applied, 2)
		assert.Equal(t, es.EventType("cart.item_added"), projection.applied[0].Type)
		assert.Less(t, projection.applied[0].GlobalPosition, projection.applied[1].GlobalPosition)
	})

	t.Run("resumes from the projection checkpoint", func(t *testing.T) {
		store := seed(t)
		projection := &recordingProjection{
			subscribed: []es.EventType{"cart.opened", "cart.item_added", "cart.confirmed"},
		}

		err := es.NewSubscription(store, 10).CatchUp(ctx, projection)
		require.NoError(t, err)
		require.Len(t, projection.applied, 4)

		// A second catch-up without new events applies nothing further.
		err = es.NewSubscription(store, 10).CatchUp(ctx, projection)
		require.NoError(t, err)
		assert.Len(t, projection.applied, 4)

		_, err = store.Append(ctx, "cart-1", 4, []es.Event{testEvent("cart.canceled", 4)})
		require.NoError(t, err)

		err = es.NewSubscription(store, 10).CatchUp(ctx, projection)
		require.NoError(t, err)
		assert.Len(t, projection.applied, 4, "canceled is not subscribed")
	})
}
