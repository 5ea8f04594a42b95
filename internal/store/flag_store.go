package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// FlagStore persists session flags in sqlite. A row exists only while the
// flag is set.
type FlagStore struct {
	db *sql.DB
}

func NewFlagStore(db *sql.DB) *FlagStore {
	return &FlagStore{db: db}
}

func (s *FlagStore) Get(ctx context.Context, scope, key string) (bool, error) {
	var value bool
	err := s.db.QueryRowContext(ctx, `
		SELECT value FROM session_flags WHERE scope = ? AND key = ?
	`, scope, key).Scan(&value)

	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get flag: %w", err)
	}
	return value, nil
}

func (s *FlagStore) Set(ctx context.Context, scope, key string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session_flags (scope, key, value) VALUES (?, ?, 1)
		ON CONFLICT(scope, key) DO UPDATE SET value = 1, updated_at = datetime('now')
	`, scope, key)
	if err != nil {
		return fmt.Errorf("failed to set flag: %w", err)
	}
	return nil
}

func (s *FlagStore) Clear(ctx context.Context, scope, key string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM session_flags WHERE scope = ? AND key = ?
	`, scope, key)
	if err != nil {
		return fmt.Errorf("failed to clear flag: %w", err)
	}
	return nil
}
