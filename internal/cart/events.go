package cart

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"shopcart/internal/es"
)

// Closed event set of the shopping cart aggregate. Adding a tag here
// requires handling it in Evolve and Decode as well.
const (
	ShoppingCartOpenedType    es.EventType = "shopping_cart.opened"
	ProductItemAddedType      es.EventType = "shopping_cart.product_item_added"
	ProductItemRemovedType    es.EventType = "shopping_cart.product_item_removed"
	ShoppingCartConfirmedType es.EventType = "shopping_cart.confirmed"
	ShoppingCartCanceledType  es.EventType = "shopping_cart.canceled"
)

// StreamID names the event stream of one cart instance.
func StreamID(cartID uuid.UUID) string {
	return fmt.Sprintf("shopping_cart-%s", cartID)
}

// Event is one fact from the cart's closed event set. The interface is
// sealed: only the five types below implement it.
type Event interface {
	EventType() es.EventType
	OccurredAt() time.Time
	isCartEvent()
}

type ShoppingCartOpened struct {
	ShoppingCartID uuid.UUID `json:"shopping_cart_id"`
	ClientID       uuid.UUID `json:"client_id"`
	OpenedAt       time.Time `json:"opened_at"`
}

func (ShoppingCartOpened) EventType() es.EventType { return ShoppingCartOpenedType }
func (e ShoppingCartOpened) OccurredAt() time.Time { return e.OpenedAt }
func (ShoppingCartOpened) isCartEvent()            {}

type ProductItemAdded struct {
	ShoppingCartID uuid.UUID         `json:"shopping_cart_id"`
	ProductItem    PricedProductItem `json:"product_item"`
	AddedAt        time.Time         `json:"added_at"`
}

func (ProductItemAdded) EventType() es.EventType { return ProductItemAddedType }
func (e ProductItemAdded) OccurredAt() time.Time { return e.AddedAt }
func (ProductItemAdded) isCartEvent()            {}

type ProductItemRemoved struct {
	ShoppingCartID uuid.UUID         `json:"shopping_cart_id"`
	ProductItem    PricedProductItem `json:"product_item"`
	RemovedAt      time.Time         `json:"removed_at"`
}

func (ProductItemRemoved) EventType() es.EventType { return ProductItemRemovedType }
func (e ProductItemRemoved) OccurredAt() time.Time { return e.RemovedAt }
func (ProductItemRemoved) isCartEvent()            {}

type ShoppingCartConfirmed struct {
	ShoppingCartID uuid.UUID `json:"shopping_cart_id"`
	ConfirmedAt    time.Time `json:"confirmed_at"`
}

func (ShoppingCartConfirmed) EventType() es.EventType { return ShoppingCartConfirmedType }
func (e ShoppingCartConfirmed) OccurredAt() time.Time { return e.ConfirmedAt }
func (ShoppingCartConfirmed) isCartEvent()            {}

type ShoppingCartCanceled struct {
	ShoppingCartID uuid.UUID `json:"shopping_cart_id"`
	CanceledAt     time.Time `json:"canceled_at"`
}

func (ShoppingCartCanceled) EventType() es.EventType { return ShoppingCartCanceledType }
func (e ShoppingCartCanceled) OccurredAt() time.Time { return e.CanceledAt }
func (ShoppingCartCanceled) isCartEvent()            {}

// Encode wraps domain events into store envelopes for one stream. Positions
// are left to the store.
func Encode(streamID string, events []Event) ([]es.Event, error) {
	encoded := make([]es.Event, 0, len(events))

	for _, event := range events {
		data, err := json.Marshal(event)
		if err != nil {
			return nil, fmt.Errorf("marshal %s event: %w", event.EventType(), err)
		}

		encoded = append(encoded, es.Event{
			StreamID: streamID,
			Type:     event.EventType(),
			At:       event.OccurredAt(),
			Data:     data,
		})
	}

	return encoded, nil
}

// Decode unwraps a stored envelope into a domain event. A tag outside the
// closed set fails with es.ErrUnknownEventType: silently dropping it would
// corrupt the derived state.
func Decode(stored es.Event) (Event, error) {
	var (
		event Event
		err   error
	)

	switch stored.Type {
	case ShoppingCartOpenedType:
		var e ShoppingCartOpened
		err = json.Unmarshal(stored.Data, &e)
		event = e
	case ProductItemAddedType:
		var e ProductItemAdded
		err = json.Unmarshal(stored.Data, &e)
		event = e
	case ProductItemRemovedType:
		var e ProductItemRemoved
		err = json.Unmarshal(stored.Data, &e)
		event = e
	case ShoppingCartConfirmedType:
		var e ShoppingCartConfirmed
		err = json.Unmarshal(stored.Data, &e)
		event = e
	case ShoppingCartCanceledType:
		var e ShoppingCartCanceled
		err = json.Unmarshal(stored.Data, &e)
		event = e
	default:
		return nil, fmt.Errorf("%w: %q", es.ErrUnknownEventType, stored.Type)
	}

	if err != nil {
		return nil, fmt.Errorf("unmarshal %s event: %w", stored.Type, err)
	}

	return event, nil
}

func DecodeAll(stored []es.Event) ([]Event, error) {
	events := make([]Event, 0, len(stored))

	for _, envelope := range stored {
		event, err := Decode(envelope)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, nil
}
