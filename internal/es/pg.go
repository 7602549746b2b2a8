package es

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

// PGEventStore persists streams in an append-only events table. The
// (stream_id, stream_position) unique constraint is the backstop for the
// compare-and-append check: two writers racing past the revision query
// collide on the same position and one of them gets a unique violation.
type PGEventStore struct {
	pool *pgxpool.Pool
}

func NewPGEventStore(pool *pgxpool.Pool) *PGEventStore {
	return &PGEventStore{
		pool: pool,
	}
}

func (s *PGEventStore) Read(ctx context.Context, streamID string) ([]Event, int64, error) {
	sql := `
		SELECT global_position, stream_position, event_type, at, data
		FROM events
		WHERE stream_id = $1
		ORDER BY stream_position ASC`

	rows, err := s.pool.Query(ctx, sql, streamID)
	if err != nil {
		return nil, 0, fmt.Errorf("read stream %s: %w", streamID, err)
	}
	defer rows.Close()

	events := []Event{}
	for rows.Next() {
		e := Event{StreamID: streamID}

		if err := rows.Scan(
			&e.GlobalPosition,
			&e.StreamPosition,
			&e.Type,
			&e.At,
			&e.Data,
		); err != nil {
			return nil, 0, fmt.Errorf("scan event: %w", err)
		}

		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("read stream %s: %w", streamID, err)
	}

	return events, int64(len(events)), nil
}

func (s *PGEventStore) Append(ctx context.Context, streamID string, expectedRevision int64, events []Event) (int64, error) {
	if len(events) == 0 {
		return 0, fmt.Errorf("must append at least 1 event to stream %s", streamID)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}

	defer func(ctx context.Context) {
		_ = tx.Rollback(ctx)
	}(ctx)

	var currentRevision int64
	err = tx.QueryRow(ctx, `
		SELECT COALESCE(MAX(stream_position), 0)
		FROM events
		WHERE stream_id = $1`, streamID).Scan(&currentRevision)
	if err != nil {
		return 0, fmt.Errorf("read stream revision: %w", err)
	}

	if currentRevision != expectedRevision {
		conflictsTotal.Inc()
		return 0, fmt.Errorf("%w: stream %s is at revision %d, expected %d",
			ErrConcurrencyConflict, streamID, currentRevision, expectedRevision)
	}

	for i, event := range events {
		event.StreamID = streamID
		event.StreamPosition = expectedRevision + int64(i) + 1

		if err := event.Validate(); err != nil {
			return 0, err
		}

		sql := `
			INSERT INTO events (stream_id, stream_position, event_type, at, data)
			VALUES ($1, $2, $3, $4, $5)`

		if _, err := tx.Exec(ctx, sql,
			event.StreamID, event.StreamPosition, event.Type, event.At, event.Data,
		); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
				conflictsTotal.Inc()
				return 0, fmt.Errorf("%w: stream %s position %d taken by a concurrent writer",
					ErrConcurrencyConflict, streamID, event.StreamPosition)
			}
			return 0, fmt.Errorf("append to stream %s: %w", streamID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}

	appendsTotal.Inc()
	return expectedRevision + int64(len(events)), nil
}

func (s *PGEventStore) ReadAll(ctx context.Context, afterPosition int64, limit int) ([]Event, error) {
	sql := `
		SELECT global_position, stream_id, stream_position, event_type, at, data
		FROM events
		WHERE global_position > $1
		ORDER BY global_position ASC
		LIMIT $2`

	rows, err := s.pool.Query(ctx, sql, afterPosition, limit)
	if err != nil {
		return nil, fmt.Errorf("read event feed: %w", err)
	}
	defer rows.Close()

	events := []Event{}
	for rows.Next() {
		var e Event

		if err := rows.Scan(
			&e.GlobalPosition,
			&e.StreamID,
			&e.StreamPosition,
			&e.Type,
			&e.At,
			&e.Data,
		); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}

		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read event feed: %w", err)
	}

	return events, nil
}
