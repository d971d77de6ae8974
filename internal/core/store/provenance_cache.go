package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// GetCachedProvenance returns cached registration metadata for a source
// domain if it is still valid. A nil map means the domain is not cached.
func (s *Store) GetCachedProvenance(ctx context.Context, domain string) (map[string]any, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	domain = normalizeDomain(domain)
	if domain == "" {
		return nil, errors.New("provenance domain is required")
	}

	var dataJSON string
	row := s.DB.QueryRowContext(ctx, `
		SELECT data
		FROM provenance_cache
		WHERE domain = ? AND expires_at > ?
	`, domain, time.Now().UTC().Unix())

	if err := row.Scan(&dataJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch cached provenance: %w", err)
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(dataJSON), &data); err != nil {
		return nil, fmt.Errorf("decode cached provenance: %w", err)
	}

	return data, nil
}

// SetCachedProvenance stores registration metadata for a source domain with a TTL.
func (s *Store) SetCachedProvenance(ctx context.Context, domain string, data map[string]any, ttl time.Duration) error {
	if s == nil || s.DB == nil {
		return errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	if ttl <= 0 || data == nil {
		return nil
	}

	domain = normalizeDomain(domain)
	if domain == "" {
		return errors.New("provenance domain is required")
	}

	dataJSON, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode cached provenance: %w", err)
	}

	now := time.Now().UTC()
	expires := now.Add(ttl)

	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO provenance_cache (domain, data, fetched_at, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(domain) DO UPDATE SET
			data = excluded.data,
			fetched_at = excluded.fetched_at,
			expires_at = excluded.expires_at
	`, domain, string(dataJSON), now.Unix(), expires.Unix())
	if err != nil {
		return fmt.Errorf("store cached provenance: %w", err)
	}

	return nil
}

// PruneProvenanceCache drops expired cache rows.
func (s *Store) PruneProvenanceCache(ctx context.Context) (int64, error) {
	if s == nil || s.DB == nil {
		return 0, errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM provenance_cache WHERE expires_at <= ?`, time.Now().UTC().Unix())
	if err != nil {
		return 0, fmt.Errorf("prune provenance cache: %w", err)
	}

	removed, err := res.RowsAffected()
	if err != nil {
		return 0, nil //nolint:nilerr // row count is informational only
	}

	return removed, nil
}

func normalizeDomain(domain string) string {
	return strings.ToLower(strings.TrimSpace(domain))
}
