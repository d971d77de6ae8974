package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/factlens/factlens/internal/core"
)

// CreateRequest records a newly accepted submission in the pending state.
func (s *Store) CreateRequest(ctx context.Context, req *core.Request) error {
	if s == nil || s.DB == nil {
		return errors.New("store is not initialized")
	}
	if req == nil {
		return errors.New("request is required")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	id := strings.TrimSpace(req.ID)
	if id == "" {
		return errors.New("request id is required")
	}

	state := req.State
	if state == "" {
		state = core.StatePending
	}

	submittedAt := req.SubmittedAt
	if submittedAt.IsZero() {
		submittedAt = time.Now().UTC()
	}

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO verification_requests (id, state, content_type, content, submitted_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			state = excluded.state,
			content_type = excluded.content_type,
			content = excluded.content,
			submitted_at = excluded.submitted_at
	`, id, string(state), string(req.ContentType), req.Content, submittedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("store verification request: %w", err)
	}

	return nil
}

// GetRequest returns a submission by ID, or nil when it is unknown.
func (s *Store) GetRequest(ctx context.Context, id string) (*core.Request, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("request id is required")
	}

	var (
		state       string
		contentType string
		content     string
		submittedAt int64
	)

	row := s.DB.QueryRowContext(ctx, `
		SELECT state, content_type, content, submitted_at
		FROM verification_requests
		WHERE id = ?
	`, id)

	if err := row.Scan(&state, &contentType, &content, &submittedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch verification request: %w", err)
	}

	return &core.Request{
		ID:          id,
		State:       core.RequestState(state),
		ContentType: core.ContentType(contentType),
		Content:     content,
		SubmittedAt: time.Unix(0, submittedAt).UTC(),
	}, nil
}

// MarkReady transitions a pending request to the ready state.
func (s *Store) MarkReady(ctx context.Context, id string) error {
	if s == nil || s.DB == nil {
		return errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return errors.New("request id is required")
	}

	_, err := s.DB.ExecContext(ctx, `
		UPDATE verification_requests SET state = ? WHERE id = ?
	`, string(core.StateReady), id)
	if err != nil {
		return fmt.Errorf("mark verification request ready: %w", err)
	}

	return nil
}
