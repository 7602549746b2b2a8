package summary

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"shopcart/internal/cart"
)

type CartSummary struct {
	CartID     uuid.UUID       `json:"cart_id"`
	ClientID   uuid.UUID       `json:"client_id"`
	Status     cart.Status     `json:"status"`
	TotalItems int32           `json:"total_items"`
	TotalPrice decimal.Decimal `json:"total_price"`
	OpenedAt   time.Time       `json:"opened_at"`
}

// SummaryRepository defines the read side of the summary projection.
type SummaryRepository interface {
	List(ctx context.Context, status cart.Status) ([]CartSummary, error)
}

type PGSummaryRepository struct {
	pool *pgxpool.Pool
}

func NewPGSummaryRepository(pool *pgxpool.Pool) *PGSummaryRepository {
	return &PGSummaryRepository{
		pool: pool,
	}
}

// List returns cart summaries, optionally filtered by status.
func (r *PGSummaryRepository) List(ctx context.Context, status cart.Status) ([]CartSummary, error) {
	query := `
		SELECT cart_id, client_id, status, total_items, total_price::text, opened_at
		FROM cart_summary.carts
		WHERE $1 = '' OR status = $1
		ORDER BY opened_at DESC`

	rows, err := r.pool.Query(ctx, query, string(status))
	if err != nil {
		return nil, fmt.Errorf("query cart summaries: %w", err)
	}
	defer rows.Close()

	summaries := make([]CartSummary, 0)

	for rows.Next() {
		var (
			s          CartSummary
			totalPrice string
		)

		if err := rows.Scan(&s.CartID, &s.ClientID, &s.Status, &s.TotalItems, &totalPrice, &s.OpenedAt); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		s.TotalPrice, err = decimal.NewFromString(totalPrice)
		if err != nil {
			return nil, fmt.Errorf("parse total price: %w", err)
		}

		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return summaries, nil
}
