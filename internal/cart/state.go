package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int32     `json:"quantity"`
}

type PricedProductItem struct {
	ProductItem
	UnitPrice decimal.Decimal `json:"unit_price"`
}

func (i PricedProductItem) TotalPrice() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCanceled  Status = "canceled"
)

// ShoppingCart is the state derived by folding a cart's stream. The zero
// value is the "does not exist" marker returned for empty streams; it is
// distinguishable from any opened cart by its empty status.
type ShoppingCart struct {
	ID           uuid.UUID           `json:"id"`
	ClientID     uuid.UUID           `json:"client_id"`
	Status       Status              `json:"status"`
	ProductItems []PricedProductItem `json:"product_items"`
	OpenedAt     time.Time           `json:"opened_at"`
	ConfirmedAt  *time.Time          `json:"confirmed_at,omitempty"`
	CanceledAt   *time.Time          `json:"canceled_at,omitempty"`
}

func (s ShoppingCart) Exists() bool {
	return s.Status != ""
}

// IsClosed reports whether the cart reached a terminal status.
func (s ShoppingCart) IsClosed() bool {
	return s.Status == StatusConfirmed || s.Status == StatusCanceled
}

func (s ShoppingCart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.ProductItems {
		total = total.Add(item.TotalPrice())
	}
	return total
}

func (s ShoppingCart) itemOf(productID uuid.UUID) (PricedProductItem, bool) {
	for _, item := range s.ProductItems {
		if item.ProductID == productID {
			return item, true
		}
	}
	return PricedProductItem{}, false
}

// clone returns a copy that owns its own product slice, so fold steps never
// mutate state shared with a previous step's result.
func (s ShoppingCart) clone() ShoppingCart {
	items := make([]PricedProductItem, len(s.ProductItems))
	copy(items, s.ProductItems)
	s.ProductItems = items
	return s
}
