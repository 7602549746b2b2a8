package internal

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shopcart/internal/util"
)

func MustDBConn(ctx context.Context) *pgx.Conn {
	DBConnString := os.Getenv("PG_CONNSTRING")
	return util.Must(pgx.Connect(ctx, DBConnString))
}

func MustDBPool(ctx context.Context) *pgxpool.Pool {
	DBConnString := os.Getenv("PG_CONNSTRING")
	return util.Must(DBPool(ctx, DBConnString))
}

func DBPool(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return pool, nil
}
