package summary

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shopcart/internal/cart"
	"shopcart/internal/es"
)

// Projection maintains a per-cart summary table (status, item count, total
// price) from the cart event feed.
type Projection struct {
	pool *pgxpool.Pool
}

func NewProjection(pool *pgxpool.Pool) *Projection {
	return &Projection{pool: pool}
}

func (p *Projection) Name() string {
	return "cart_summary"
}

func (p *Projection) SubscribedEvents() []es.EventType {
	return []es.EventType{
		cart.ShoppingCartOpenedType,
		cart.ProductItemAddedType,
		cart.ProductItemRemovedType,
		cart.ShoppingCartConfirmedType,
		cart.ShoppingCartCanceledType,
	}
}

func (p *Projection) ApplyMigration(ctx context.Context) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func(ctx context.Context) {
		_ = tx.Rollback(ctx)
	}(ctx)

	if _, err := tx.Exec(ctx, `CREATE SCHEMA IF NOT EXISTS cart_summary;`); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS cart_summary.carts (
			cart_id UUID PRIMARY KEY,
			client_id UUID NOT NULL,
			status TEXT NOT NULL,
			total_items INTEGER NOT NULL DEFAULT 0,
			total_price NUMERIC NOT NULL DEFAULT 0,
			opened_at TIMESTAMPTZ NOT NULL
		);
	`); err != nil {
		return fmt.Errorf("create carts table: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS cart_summary.last_processed_position (
			position BIGINT NOT NULL,
			CONSTRAINT single_row CHECK (position >= 0)
		);

		INSERT INTO cart_summary.last_processed_position (position)
		SELECT 0
		WHERE NOT EXISTS (
			SELECT 1 FROM cart_summary.last_processed_position
		);
	`); err != nil {
		return fmt.Errorf("create last_processed_position table: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

func (p *Projection) LatestPosition(ctx context.Context) (int64, error) {
	var position int64
	err := p.pool.QueryRow(ctx, `
		SELECT position
		FROM cart_summary.last_processed_position
		LIMIT 1
	`).Scan(&position)
	if err != nil {
		return 0, fmt.Errorf("read latest position: %w", err)
	}
	return position, nil
}

func (p *Projection) Apply(ctx context.Context, events ...es.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func(ctx context.Context) {
		_ = tx.Rollback(ctx)
	}(ctx)

	maxPosition := int64(0)

	for _, envelope := range events {
		if envelope.GlobalPosition > maxPosition {
			maxPosition = envelope.GlobalPosition
		}

		event, err := cart.Decode(envelope)
		if err != nil {
			return err
		}

		if err := p.apply(ctx, tx, event); err != nil {
			return fmt.Errorf("apply %s: %w", envelope.Type, err)
		}
	}

	if _, err := tx.Exec(ctx, `
		UPDATE cart_summary.last_processed_position
		SET position = $1
	`, maxPosition); err != nil {
		return fmt.Errorf("update last_processed_position: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

func (p *Projection) apply(ctx context.Context, tx pgx.Tx, event cart.Event) error {
	switch e := event.(type) {
	case cart.ShoppingCartOpened:
		_, err := tx.Exec(ctx, `
			INSERT INTO cart_summary.carts (cart_id, client_id, status, opened_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT DO NOTHING
		`, e.ShoppingCartID, e.ClientID, cart.StatusPending, e.OpenedAt)
		return err

	case cart.ProductItemAdded:
		_, err := tx.Exec(ctx, `
			UPDATE cart_summary.carts
			SET total_items = total_items + $2,
				total_price = total_price + $3::numeric
			WHERE cart_id = $1
		`, e.ShoppingCartID, e.ProductItem.Quantity, e.ProductItem.TotalPrice().String())
		return err

	case cart.ProductItemRemoved:
		_, err := tx.Exec(ctx, `
			UPDATE cart_summary.carts
			SET total_items = total_items - $2,
				total_price = total_price - $3::numeric
			WHERE cart_id = $1
		`, e.ShoppingCartID, e.ProductItem.Quantity, e.ProductItem.TotalPrice().String())
		return err

	case cart.ShoppingCartConfirmed:
		_, err := tx.Exec(ctx, `
			UPDATE cart_summary.carts
			SET status = $2
			WHERE cart_id = $1
		`, e.ShoppingCartID, cart.StatusConfirmed)
		return err

	case cart.ShoppingCartCanceled:
		_, err := tx.Exec(ctx, `
			UPDATE cart_summary.carts
			SET status = $2
			WHERE cart_id = $1
		`, e.ShoppingCartID, cart.StatusCanceled)
		return err

	default:
		return fmt.Errorf("%w: %T", es.ErrUnknownEventType, event)
	}
}
