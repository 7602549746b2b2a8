package cart

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"shopcart/internal/es"
)

// Command is one request to change a cart. Commands carry their own
// timestamp so that Decide stays a pure function of its inputs.
type Command interface {
	CartID() uuid.UUID
	isCartCommand()
}

type OpenShoppingCart struct {
	ShoppingCartID uuid.UUID
	ClientID       uuid.UUID
	Now            time.Time
}

func (c OpenShoppingCart) CartID() uuid.UUID { return c.ShoppingCartID }
func (OpenShoppingCart) isCartCommand()      {}

type AddProductItem struct {
	ShoppingCartID uuid.UUID
	ProductItem    PricedProductItem
	Now            time.Time
}

func (c AddProductItem) CartID() uuid.UUID { return c.ShoppingCartID }
func (AddProductItem) isCartCommand()      {}

type RemoveProductItem struct {
	ShoppingCartID uuid.UUID
	ProductItem    ProductItem
	Now            time.Time
}

func (c RemoveProductItem) CartID() uuid.UUID { return c.ShoppingCartID }
func (RemoveProductItem) isCartCommand()      {}

type ConfirmShoppingCart struct {
	ShoppingCartID uuid.UUID
	Now            time.Time
}

func (c ConfirmShoppingCart) CartID() uuid.UUID { return c.ShoppingCartID }
func (ConfirmShoppingCart) isCartCommand()      {}

type CancelShoppingCart struct {
	ShoppingCartID uuid.UUID
	Now            time.Time
}

func (c CancelShoppingCart) CartID() uuid.UUID { return c.ShoppingCartID }
func (CancelShoppingCart) isCartCommand()      {}

// Decide validates a command against current state and returns the new
// events, exactly one per accepted command. It is the sole enforcement point
// for business invariants; rejections never emit events.
func Decide(state ShoppingCart, command Command) ([]Event, error) {
	switch cmd := command.(type) {
	case OpenShoppingCart:
		if state.Exists() {
			return nil, fmt.Errorf("%w: cart %s is already open", es.ErrAlreadyExists, cmd.ShoppingCartID)
		}
		return []Event{ShoppingCartOpened{
			ShoppingCartID: cmd.ShoppingCartID,
			ClientID:       cmd.ClientID,
			OpenedAt:       cmd.Now,
		}}, nil

	case AddProductItem:
		if err := requirePending(state, cmd.ShoppingCartID, "add items to"); err != nil {
			return nil, err
		}
		if err := validateItem(cmd.ProductItem.ProductItem); err != nil {
			return nil, err
		}
		if cmd.ProductItem.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: unit price must not be negative", es.ErrInvalidOperation)
		}
		return []Event{ProductItemAdded{
			ShoppingCartID: cmd.ShoppingCartID,
			ProductItem:    cmd.ProductItem,
			AddedAt:        cmd.Now,
		}}, nil

	case RemoveProductItem:
		if err := requirePending(state, cmd.ShoppingCartID, "remove items from"); err != nil {
			return nil, err
		}
		if err := validateItem(cmd.ProductItem); err != nil {
			return nil, err
		}
		held, ok := state.itemOf(cmd.ProductItem.ProductID)
		if !ok {
			return nil, fmt.Errorf("%w: product %s is not in the cart",
				es.ErrInvalidOperation, cmd.ProductItem.ProductID)
		}
		if held.Quantity < cmd.ProductItem.Quantity {
			return nil, fmt.Errorf("%w: cannot remove %d of product %s, only %d in the cart",
				es.ErrInvalidOperation, cmd.ProductItem.Quantity, cmd.ProductItem.ProductID, held.Quantity)
		}
		return []Event{ProductItemRemoved{
			ShoppingCartID: cmd.ShoppingCartID,
			ProductItem: PricedProductItem{
				ProductItem: cmd.ProductItem,
				UnitPrice:   held.UnitPrice,
			},
			RemovedAt: cmd.Now,
		}}, nil

	case ConfirmShoppingCart:
		if err := requirePending(state, cmd.ShoppingCartID, "confirm"); err != nil {
			return nil, err
		}
		if len(state.ProductItems) == 0 {
			return nil, fmt.Errorf("%w: cannot confirm an empty cart", es.ErrInvalidOperation)
		}
		return []Event{ShoppingCartConfirmed{
			ShoppingCartID: cmd.ShoppingCartID,
			ConfirmedAt:    cmd.Now,
		}}, nil

	case CancelShoppingCart:
		if err := requirePending(state, cmd.ShoppingCartID, "cancel"); err != nil {
			return nil, err
		}
		return []Event{ShoppingCartCanceled{
			ShoppingCartID: cmd.ShoppingCartID,
			CanceledAt:     cmd.Now,
		}}, nil

	default:
		return nil, fmt.Errorf("unknown command %T", command)
	}
}

func requirePending(state ShoppingCart, cartID uuid.UUID, verb string) error {
	if !state.Exists() {
		return fmt.Errorf("%w: cart %s", es.ErrNotFound, cartID)
	}
	if state.Status != StatusPending {
		return fmt.Errorf("%w: cannot %s a %s cart", es.ErrInvalidStateTransition, verb, state.Status)
	}
	return nil
}

func validateItem(item ProductItem) error {
	if item.ProductID == uuid.Nil {
		return fmt.Errorf("%w: product ID is required", es.ErrInvalidOperation)
	}
	if item.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", es.ErrInvalidOperation)
	}
	return nil
}
