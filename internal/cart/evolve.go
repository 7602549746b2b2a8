package cart

import (
	"fmt"

	"shopcart/internal/es"
)

// Evolve is the pure fold step: it combines prior state and one event into
// new state, without side effects. It is total over the closed event set and
// deliberately lenient: business rules (terminal carts, over-removal) are
// enforced in Decide before events are ever written, so by the time an event
// reaches the fold it is a fact to be applied as-is.
func Evolve(state ShoppingCart, event Event) (ShoppingCart, error) {
	switch e := event.(type) {
	case ShoppingCartOpened:
		// First event of a stream; any prior state is discarded.
		return ShoppingCart{
			ID:           e.ShoppingCartID,
			ClientID:     e.ClientID,
			Status:       StatusPending,
			ProductItems: []PricedProductItem{},
			OpenedAt:     e.OpenedAt,
		}, nil

	case ProductItemAdded:
		return state.withItemAdded(e.ProductItem), nil

	case ProductItemRemoved:
		return state.withItemRemoved(e.ProductItem), nil

	case ShoppingCartConfirmed:
		next := state.clone()
		next.Status = StatusConfirmed
		confirmedAt := e.ConfirmedAt
		next.ConfirmedAt = &confirmedAt
		return next, nil

	case ShoppingCartCanceled:
		next := state.clone()
		next.Status = StatusCanceled
		canceledAt := e.CanceledAt
		next.CanceledAt = &canceledAt
		return next, nil

	default:
		return ShoppingCart{}, fmt.Errorf("%w: %T", es.ErrUnknownEventType, event)
	}
}

// withItemAdded merges a priced item into the product list. Quantities of
// the same product sum up; the unit price already on the entry wins.
// Insertion order among distinct products is preserved.
func (s ShoppingCart) withItemAdded(item PricedProductItem) ShoppingCart {
	next := s.clone()

	for i, existing := range next.ProductItems {
		if existing.ProductID == item.ProductID {
			existing.Quantity += item.Quantity
			next.ProductItems[i] = existing
			return next
		}
	}

	next.ProductItems = append(next.ProductItems, item)
	return next
}

// withItemRemoved subtracts a quantity from the matching entry, deleting it
// once the net quantity reaches zero or below. Removing a product that is
// not in the list is a no-op at the fold level.
func (s ShoppingCart) withItemRemoved(item PricedProductItem) ShoppingCart {
	next := s.clone()

	for i, existing := range next.ProductItems {
		if existing.ProductID != item.ProductID {
			continue
		}

		existing.Quantity -= item.Quantity
		if existing.Quantity <= 0 {
			next.ProductItems = append(next.ProductItems[:i], next.ProductItems[i+1:]...)
		} else {
			next.ProductItems[i] = existing
		}
		return next
	}

	return next
}

// Reconstruct folds a stream's events left to right from the zero state and
// returns the derived cart together with the number of events folded, i.e.
// the revision at which the state is valid. Zero events yield the
// "does not exist" marker with revision 0.
func Reconstruct(events []Event) (ShoppingCart, int64, error) {
	state := ShoppingCart{}

	for _, event := range events {
		next, err := Evolve(state, event)
		if err != nil {
			return ShoppingCart{}, 0, err
		}
		state = next
	}

	return state, int64(len(events)), nil
}
