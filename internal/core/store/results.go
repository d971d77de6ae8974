package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/factlens/factlens/internal/core"
)

// SaveResult persists a completed verification and marks its request ready.
func (s *Store) SaveResult(ctx context.Context, result *core.VerificationResult) error {
	if s == nil || s.DB == nil {
		return errors.New("store is not initialized")
	}
	if result == nil {
		return errors.New("result is required")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	id := strings.TrimSpace(result.ID)
	if id == "" {
		return errors.New("result id is required")
	}

	sourcesJSON, err := json.Marshal(result.Sources)
	if err != nil {
		return fmt.Errorf("encode result sources: %w", err)
	}

	issuesJSON, err := json.Marshal(result.DetectedIssues)
	if err != nil {
		return fmt.Errorf("encode detected issues: %w", err)
	}

	createdAt := result.Timestamp
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO verification_results
			(id, content, content_type, status, credibility_score, sources, explanation, additional_context, detected_issues, language, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			content = excluded.content,
			content_type = excluded.content_type,
			status = excluded.status,
			credibility_score = excluded.credibility_score,
			sources = excluded.sources,
			explanation = excluded.explanation,
			additional_context = excluded.additional_context,
			detected_issues = excluded.detected_issues,
			language = excluded.language,
			created_at = excluded.created_at
	`, id, result.Content, string(result.ContentType), string(result.Status),
		core.ClampScore(result.CredibilityScore), string(sourcesJSON), result.Explanation,
		result.AdditionalContext, string(issuesJSON), result.Language, createdAt.UnixNano())
	if err != nil {
		return fmt.Errorf("store verification result: %w", err)
	}

	if err := s.MarkReady(ctx, id); err != nil {
		return err
	}

	return nil
}

// GetResult returns a verification result by ID together with the request
// state: StateReady with a result, StatePending while processing is still in
// flight, or StateNotFound when the ID is unknown.
func (s *Store) GetResult(ctx context.Context, id string) (*core.VerificationResult, core.RequestState, error) {
	if s == nil || s.DB == nil {
		return nil, core.StateNotFound, errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, core.StateNotFound, errors.New("result id is required")
	}

	result, err := s.scanResult(s.DB.QueryRowContext(ctx, `
		SELECT id, content, content_type, status, credibility_score, sources, explanation, additional_context, detected_issues, language, created_at
		FROM verification_results
		WHERE id = ?
	`, id))
	if err != nil {
		return nil, core.StateNotFound, err
	}
	if result != nil {
		return result, core.StateReady, nil
	}

	req, err := s.GetRequest(ctx, id)
	if err != nil {
		return nil, core.StateNotFound, err
	}
	if req != nil && req.State == core.StatePending {
		return nil, core.StatePending, nil
	}

	return nil, core.StateNotFound, nil
}

// ListHistory returns stored results most recent first. A non-empty filter
// performs a case-insensitive substring match on the submitted content.
func (s *Store) ListHistory(ctx context.Context, filter string) ([]core.VerificationResult, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	query := `
		SELECT id, content, content_type, status, credibility_score, sources, explanation, additional_context, detected_issues, language, created_at
		FROM verification_results
	`
	args := []any{}

	filter = strings.TrimSpace(filter)
	if filter != "" {
		query += ` WHERE LOWER(content) LIKE '%' || ? || '%' ESCAPE '\'`
		args = append(args, escapeLike(strings.ToLower(filter)))
	}

	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list verification history: %w", err)
	}
	defer rows.Close() // nolint:errcheck // best-effort cleanup on SQL rows

	var results []core.VerificationResult
	for rows.Next() {
		result, err := s.scanResultRow(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list verification history: %w", err)
	}

	return results, nil
}

// DeleteResult removes a single result and its request. Deleting an unknown
// ID is a no-op.
func (s *Store) DeleteResult(ctx context.Context, id string) error {
	if s == nil || s.DB == nil {
		return errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return errors.New("result id is required")
	}

	if _, err := s.DB.ExecContext(ctx, `DELETE FROM verification_results WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete verification result: %w", err)
	}
	if _, err := s.DB.ExecContext(ctx, `DELETE FROM verification_requests WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete verification request: %w", err)
	}

	return nil
}

// ClearHistory removes all stored results and requests, returning how many
// results were deleted.
func (s *Store) ClearHistory(ctx context.Context) (int64, error) {
	if s == nil || s.DB == nil {
		return 0, errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM verification_results`)
	if err != nil {
		return 0, fmt.Errorf("clear verification history: %w", err)
	}
	if _, err := s.DB.ExecContext(ctx, `DELETE FROM verification_requests`); err != nil {
		return 0, fmt.Errorf("clear verification requests: %w", err)
	}

	removed, err := res.RowsAffected()
	if err != nil {
		return 0, nil //nolint:nilerr // row count is informational only
	}

	return removed, nil
}

// escapeLike escapes LIKE wildcards so filter text matches literally.
func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanResult scans a single-row query, mapping sql.ErrNoRows to nil.
func (s *Store) scanResult(row *sql.Row) (*core.VerificationResult, error) {
	result, err := scanResultFrom(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return result, nil
}

func (s *Store) scanResultRow(rows *sql.Rows) (*core.VerificationResult, error) {
	return scanResultFrom(rows)
}

func scanResultFrom(scanner rowScanner) (*core.VerificationResult, error) {
	var (
		id                string
		content           string
		contentType       string
		status            string
		credibilityScore  int
		sourcesJSON       sql.NullString
		explanation       sql.NullString
		additionalContext sql.NullString
		issuesJSON        sql.NullString
		language          sql.NullString
		createdAt         int64
	)

	if err := scanner.Scan(&id, &content, &contentType, &status, &credibilityScore,
		&sourcesJSON, &explanation, &additionalContext, &issuesJSON, &language, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan verification result: %w", err)
	}

	var sources []core.Source
	if sourcesJSON.Valid && sourcesJSON.String != "" {
		if err := json.Unmarshal([]byte(sourcesJSON.String), &sources); err != nil {
			return nil, fmt.Errorf("decode result sources: %w", err)
		}
	}

	var issues []string
	if issuesJSON.Valid && issuesJSON.String != "" {
		if err := json.Unmarshal([]byte(issuesJSON.String), &issues); err != nil {
			return nil, fmt.Errorf("decode detected issues: %w", err)
		}
	}

	return &core.VerificationResult{
		ID:                id,
		Content:           content,
		ContentType:       core.ContentType(contentType),
		Status:            core.VerificationStatus(status),
		CredibilityScore:  core.ClampScore(credibilityScore),
		Sources:           sources,
		Explanation:       explanation.String,
		AdditionalContext: additionalContext.String,
		DetectedIssues:    issues,
		Language:          language.String,
		Timestamp:         time.Unix(0, createdAt).UTC(),
	}, nil
}
