package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"shopcart/internal/es"
)

const defaultMaxAttempts = 3

// Service orchestrates one command against the event store: read the
// stream, reconstruct state, decide, append at the observed revision. On a
// concurrency conflict the whole loop reruns against the latest revision, up
// to a bounded number of attempts; every other rejection surfaces directly.
type Service struct {
	store       es.EventStore
	maxAttempts int
}

type ServiceOption func(*Service)

func WithMaxAttempts(n int) ServiceOption {
	return func(s *Service) {
		s.maxAttempts = n
	}
}

func NewService(store es.EventStore, options ...ServiceOption) *Service {
	s := &Service{
		store:       store,
		maxAttempts: defaultMaxAttempts,
	}

	for _, opt := range options {
		opt(s)
	}

	return s
}

func (s *Service) Handle(ctx context.Context, command Command) (ShoppingCart, int64, error) {
	streamID := StreamID(command.CartID())

	var lastErr error
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		state, revision, err := s.load(ctx, streamID)
		if err != nil {
			return ShoppingCart{}, 0, err
		}

		newEvents, err := Decide(state, command)
		if err != nil {
			commandsRejected.WithLabelValues(rejectionReason(err)).Inc()
			return ShoppingCart{}, 0, err
		}

		encoded, err := Encode(streamID, newEvents)
		if err != nil {
			return ShoppingCart{}, 0, err
		}

		newRevision, err := s.store.Append(ctx, streamID, revision, encoded)
		if err != nil {
			if errors.Is(err, es.ErrConcurrencyConflict) {
				lastErr = err
				continue
			}
			return ShoppingCart{}, 0, err
		}

		for _, event := range newEvents {
			state, err = Evolve(state, event)
			if err != nil {
				return ShoppingCart{}, 0, err
			}
		}

		commandsAccepted.WithLabelValues(string(newEvents[0].EventType())).Inc()
		return state, newRevision, nil
	}

	commandsRejected.WithLabelValues(rejectionReason(lastErr)).Inc()
	return ShoppingCart{}, 0, fmt.Errorf("command not applied after %d attempts: %w", s.maxAttempts, lastErr)
}

// GetCart reconstructs the current cart state. An empty stream is a
// not-found condition, never a defaulted pending cart.
func (s *Service) GetCart(ctx context.Context, cartID uuid.UUID) (ShoppingCart, int64, error) {
	state, revision, err := s.load(ctx, StreamID(cartID))
	if err != nil {
		return ShoppingCart{}, 0, err
	}

	if !state.Exists() {
		return ShoppingCart{}, 0, fmt.Errorf("%w: cart %s", es.ErrNotFound, cartID)
	}

	return state, revision, nil
}

func (s *Service) load(ctx context.Context, streamID string) (ShoppingCart, int64, error) {
	stored, _, err := s.store.Read(ctx, streamID)
	if err != nil {
		return ShoppingCart{}, 0, err
	}

	events, err := DecodeAll(stored)
	if err != nil {
		return ShoppingCart{}, 0, err
	}

	return Reconstruct(events)
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, es.ErrNotFound):
		return "not_found"
	case errors.Is(err, es.ErrAlreadyExists):
		return "already_exists"
	case errors.Is(err, es.ErrInvalidStateTransition):
		return "invalid_state_transition"
	case errors.Is(err, es.ErrInvalidOperation):
		return "invalid_operation"
	case errors.Is(err, es.ErrConcurrencyConflict):
		return "concurrency_conflict"
	default:
		return "internal"
	}
}
