package relay

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"shopcart/internal/cart"
	"shopcart/internal/es"
)

// MessageWriter is the slice of kafka.Writer the relay needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Checkpoint persists the relay's position in the global event feed across
// restarts.
type Checkpoint interface {
	Load(ctx context.Context) (int64, error)
	Store(ctx context.Context, position int64) error
}

// Relay forwards cart events from the event feed to a Kafka topic, keyed by
// stream id so one cart's events stay in order within a partition. It plugs
// into es.Subscription as a projection whose "read model" is the topic.
type Relay struct {
	writer     MessageWriter
	checkpoint Checkpoint
}

func New(writer MessageWriter, checkpoint Checkpoint) *Relay {
	return &Relay{
		writer:     writer,
		checkpoint: checkpoint,
	}
}

func (r *Relay) Name() string {
	return "kafka_relay"
}

func (r *Relay) SubscribedEvents() []es.EventType {
	return []es.EventType{
		cart.ShoppingCartOpenedType,
		cart.ProductItemAddedType,
		cart.ProductItemRemovedType,
		cart.ShoppingCartConfirmedType,
		cart.ShoppingCartCanceledType,
	}
}

func (r *Relay) ApplyMigration(context.Context) error {
	return nil
}

func (r *Relay) LatestPosition(ctx context.Context) (int64, error) {
	return r.checkpoint.Load(ctx)
}

func (r *Relay) Apply(ctx context.Context, events ...es.Event) error {
	if len(events) == 0 {
		return nil
	}

	messages := make([]kafka.Message, 0, len(events))
	maxPosition := int64(0)

	for _, event := range events {
		if event.GlobalPosition > maxPosition {
			maxPosition = event.GlobalPosition
		}

		payload, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("marshal event envelope: %w", err)
		}

		messages = append(messages, kafka.Message{
			Key:   []byte(event.StreamID),
			Value: payload,
		})
	}

	if err := r.writer.WriteMessages(ctx, messages...); err != nil {
		return fmt.Errorf("publish events: %w", err)
	}

	return r.checkpoint.Store(ctx, maxPosition)
}
