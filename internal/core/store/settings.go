package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// GetLocalSetting returns a persisted setting value, or "" when unset.
func (s *Store) GetLocalSetting(ctx context.Context, key string) (string, error) {
	if s == nil || s.DB == nil {
		return "", errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return "", errors.New("setting key is required")
	}

	var value string
	row := s.DB.QueryRowContext(ctx, `SELECT value FROM local_settings WHERE key = ?`, key)
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("fetch local setting: %w", err)
	}

	return value, nil
}

// SetLocalSetting upserts a persisted setting value.
func (s *Store) SetLocalSetting(ctx context.Context, key, value string) error {
	if s == nil || s.DB == nil {
		return errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("setting key is required")
	}

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO local_settings (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, key, value, time.Now().UTC().Unix())
	if err != nil {
		return fmt.Errorf("store local setting: %w", err)
	}

	return nil
}
