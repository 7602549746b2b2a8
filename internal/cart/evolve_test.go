package cart_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopcart/internal/cart"
)

var (
	cartID   = uuid.MustParse("f8b1c1e2-3d4a-4b5c-8d6e-7f8a9b0c1d2e")
	clientID = uuid.MustParse("0a1b2c3d-4e5f-4a6b-8c7d-9e0f1a2b3c4d")
	shoesID  = uuid.MustParse("11111111-1111-4111-8111-111111111111")
	tshirtID = uuid.MustParse("22222222-2222-4222-8222-222222222222")
)

func atTimeDelta(n int) time.Time {
	return time.Date(2026, 1, 1, 0, 0, 0, n, time.UTC)
}

func pricedItem(productID uuid.UUID, quantity int32, unitPrice int64) cart.PricedProductItem {
	return cart.PricedProductItem{
		ProductItem: cart.ProductItem{
			ProductID: productID,
			Quantity:  quantity,
		},
		UnitPrice: decimal.NewFromInt(unitPrice),
	}
}

func opened(t *testing.T) cart.ShoppingCart {
	t.Helper()

	state, _, err := cart.Reconstruct([]cart.Event{
		cart.ShoppingCartOpened{ShoppingCartID: cartID, ClientID: clientID, OpenedAt: atTimeDelta(0)},
	})
	require.NoError(t, err)
	return state
}

func TestEvolve(t *testing.T) {
	t.Run("opened yields a fresh pending cart", func(t *testing.T) {
		state := opened(t)

		assert.Equal(t, cart.ShoppingCart{
			ID:           cartID,
			ClientID:     clientID,
			Status:       cart.StatusPending,
			ProductItems: []cart.PricedProductItem{},
			OpenedAt:     atTimeDelta(0),
		}, state)
		assert.True(t, state.Exists())
		assert.False(t, state.IsClosed())
	})

	t.Run("adding the same product twice sums quantities", func(t *testing.T) {
		state := opened(t)

		state, err := cart.Evolve(state, cart.ProductItemAdded{
			ShoppingCartID: cartID, ProductItem: pricedItem(shoesID, 2, 100), AddedAt: atTimeDelta(1),
		})
		require.NoError(t, err)
		state, err = cart.Evolve(state, cart.ProductItemAdded{
			ShoppingCartID: cartID, ProductItem: pricedItem(shoesID, 3, 100), AddedAt: atTimeDelta(2),
		})
		require.NoError(t, err)

		assert.Equal(t, []cart.PricedProductItem{pricedItem(shoesID, 5, 100)}, state.ProductItems)
	})

	t.Run("merging keeps the existing unit price", func(t *testing.T) {
		state := opened(t)

		state, err := cart.Evolve(state, cart.ProductItemAdded{
			ShoppingCartID: cartID, ProductItem: pricedItem(shoesID, 1, 100), AddedAt: atTimeDelta(1),
		})
		require.NoError(t, err)
		state, err = cart.Evolve(state, cart.ProductItemAdded{
			ShoppingCartID: cartID, ProductItem: pricedItem(shoesID, 1, 250), AddedAt: atTimeDelta(2),
		})
		require.NoError(t, err)

		assert.Equal(t, []cart.PricedProductItem{pricedItem(shoesID, 2, 100)}, state.ProductItems)
	})

	t.Run("distinct products keep insertion order", func(t *testing.T) {
		state := opened(t)

		state, err := cart.Evolve(state, cart.ProductItemAdded{
			ShoppingCartID: cartID, ProductItem: pricedItem(shoesID, 1, 100), AddedAt: atTimeDelta(1),
		})
		require.NoError(t, err)
		state, err = cart.Evolve(state, cart.ProductItemAdded{
			ShoppingCartID: cartID, ProductItem: pricedItem(tshirtID, 1, 5), AddedAt: atTimeDelta(2),
		})
		require.NoError(t, err)

		assert.Equal(t, []cart.PricedProductItem{
			pricedItem(shoesID, 1, 100),
			pricedItem(tshirtID, 1, 5),
		}, state.ProductItems)
	})

	t.Run("removal subtracts quantity in place", func(t *testing.T) {
		state := opened(t)

		state, err := cart.Evolve(state, cart.ProductItemAdded{
			ShoppingCartID: cartID, ProductItem: pricedItem(shoesID, 3, 100), AddedAt: atTimeDelta(1),
		})
		require.NoError(t, err)
		state, err = cart.Evolve(state, cart.ProductItemRemoved{
			ShoppingCartID: cartID, ProductItem: pricedItem(shoesID, 1, 100), RemovedAt: atTimeDelta(2),
		})
		require.NoError(t, err)

		assert.Equal(t, []cart.PricedProductItem{pricedItem(shoesID, 2, 100)}, state.ProductItems)
	})

	t.Run("removal to net zero deletes the entry", func(t *testing.T) {
		state := opened(t)

		state, err := cart.Evolve(state, cart.ProductItemAdded{
			ShoppingCartID: cartID, ProductItem: pricedItem(shoesID, 2, 100), AddedAt: atTimeDelta(1),
		})
		require.NoError(t, err)
		state, err = cart.Evolve(state, cart.ProductItemRemoved{
			ShoppingCartID: cartID, ProductItem: pricedItem(shoesID, 2, 100), RemovedAt: atTimeDelta(2),
		})
		require.NoError(t, err)

		assert.Equal(t, []cart.PricedProductItem{}, state.ProductItems)
	})

	t.Run("removing an absent product is a no-op at the fold level", func(t *testing.T) {
		state := opened(t)

		next, err := cart.Evolve(state, cart.ProductItemRemoved{
			ShoppingCartID: cartID, ProductItem: pricedItem(shoesID, 1, 100), RemovedAt: atTimeDelta(1),
		})
		require.NoError(t, err)

		assert.Equal(t, state, next)
	})

	t.Run("confirm and cancel leave the product list untouched", func(t *testing.T) {
		state := opened(t)

		state, err := cart.Evolve(state, cart.ProductItemAdded{
			ShoppingCartID: cartID, ProductItem: pricedItem(shoesID, 1, 100), AddedAt: atTimeDelta(1),
		})
		require.NoError(t, err)

		confirmed, err := cart.Evolve(state, cart.ShoppingCartConfirmed{
			ShoppingCartID: cartID, ConfirmedAt: atTimeDelta(2),
		})
		require.NoError(t, err)
		assert.Equal(t, cart.StatusConfirmed, confirmed.Status)
		assert.Equal(t, state.ProductItems, confirmed.ProductItems)
		require.NotNil(t, confirmed.ConfirmedAt)
		assert.Equal(t, atTimeDelta(2), *confirmed.ConfirmedAt)

		canceled, err := cart.Evolve(state, cart.ShoppingCartCanceled{
			ShoppingCartID: cartID, CanceledAt: atTimeDelta(3),
		})
		require.NoError(t, err)
		assert.Equal(t, cart.StatusCanceled, canceled.Status)
		assert.Equal(t, state.ProductItems, canceled.ProductItems)
	})

	t.Run("fold steps never mutate the prior state", func(t *testing.T) {
		state := opened(t)

		state, err := cart.Evolve(state, cart.ProductItemAdded{
			ShoppingCartID: cartID, ProductItem: pricedItem(shoesID, 2, 100), AddedAt: atTimeDelta(1),
		})
		require.NoError(t, err)

		before := state.ProductItems[0].Quantity

		_, err = cart.Evolve(state, cart.ProductItemAdded{
			ShoppingCartID: cartID, ProductItem: pricedItem(shoesID, 5, 100), AddedAt: atTimeDelta(2),
		})
		require.NoError(t, err)

		assert.Equal(t, before, state.ProductItems[0].Quantity)
	})
}

func TestReconstruct(t *testing.T) {
	exampleStream := []cart.Event{
		cart.ShoppingCartOpened{ShoppingCartID: cartID, ClientID: clientID, OpenedAt: atTimeDelta(0)},
		cart.ProductItemAdded{ShoppingCartID: cartID, ProductItem: pricedItem(shoesID, 2, 100), AddedAt: atTimeDelta(1)},
		cart.ProductItemAdded{ShoppingCartID: cartID, ProductItem: pricedItem(tshirtID, 1, 5), AddedAt: atTimeDelta(2)},
		cart.ProductItemRemoved{ShoppingCartID: cartID, ProductItem: pricedItem(shoesID, 1, 100), RemovedAt: atTimeDelta(3)},
		cart.ShoppingCartConfirmed{ShoppingCartID: cartID, ConfirmedAt: atTimeDelta(4)},
		cart.ShoppingCartCanceled{ShoppingCartID: cartID, CanceledAt: atTimeDelta(5)},
	}

	t.Run("folds a full stream in order", func(t *testing.T) {
		state, revision, err := cart.Reconstruct(exampleStream)
		require.NoError(t, err)

		assert.Equal(t, int64(6), revision)
		assert.Equal(t, cart.StatusCanceled, state.Status)
		assert.Equal(t, []cart.PricedProductItem{
			pricedItem(shoesID, 1, 100),
			pricedItem(tshirtID, 1, 5),
		}, state.ProductItems)
	})

	t.Run("is deterministic and idempotent", func(t *testing.T) {
		first, firstRevision, err := cart.Reconstruct(exampleStream)
		require.NoError(t, err)

		second, secondRevision, err := cart.Reconstruct(exampleStream)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, firstRevision, secondRevision)
	})

	t.Run("zero events yield the does-not-exist marker", func(t *testing.T) {
		state, revision, err := cart.Reconstruct(nil)
		require.NoError(t, err)

		assert.Equal(t, int64(0), revision)
		assert.False(t, state.Exists())
		assert.Equal(t, uuid.Nil, state.ID)
	})

	t.Run("conserves quantity across adds and removes", func(t *testing.T) {
		state, _, err := cart.Reconstruct([]cart.Event{
			cart.ShoppingCartOpened{ShoppingCartID: cartID, ClientID: clientID, OpenedAt: atTimeDelta(0)},
			cart.ProductItemAdded{ShoppingCartID: cartID, ProductItem: pricedItem(shoesID, 4, 100), AddedAt: atTimeDelta(1)},
			cart.ProductItemRemoved{ShoppingCartID: cartID, ProductItem: pricedItem(shoesID, 1, 100), RemovedAt: atTimeDelta(2)},
			cart.ProductItemAdded{ShoppingCartID: cartID, ProductItem: pricedItem(shoesID, 2, 100), AddedAt: atTimeDelta(3)},
			cart.ProductItemRemoved{ShoppingCartID: cartID, ProductItem: pricedItem(shoesID, 5, 100), RemovedAt: atTimeDelta(4)},
		})
		require.NoError(t, err)

		assert.Equal(t, []cart.PricedProductItem{}, state.ProductItems)
	})

	t.Run("computes the cart total", func(t *testing.T) {
		state, _, err := cart.Reconstruct(exampleStream)
		require.NoError(t, err)

		assert.True(t, state.TotalPrice().Equal(decimal.NewFromInt(105)),
			"expected 105, got %s", state.TotalPrice())
	})
}
