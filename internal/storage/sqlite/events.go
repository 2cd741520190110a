package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AppendEvent adds an entry to the append-only event log.
func (s *SQLiteStore) AppendEvent(ctx context.Context, kind string, payload []byte) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO events (id, kind, payload, created_at) VALUES (?, ?, ?, ?)",
		uuid.New().String(), kind, string(payload), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

// CountEvents returns how many events of the given kind have been logged.
// Pass an empty kind to count all events.
func (s *SQLiteStore) CountEvents(ctx context.Context, kind string) (int, error) {
	query := "SELECT COUNT(*) FROM events"
	args := []any{}
	if kind != "" {
		query += " WHERE kind = ?"
		args = append(args, kind)
	}

	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return n, nil
}
