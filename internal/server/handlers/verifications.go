package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/factlens/factlens/internal/core"
	"github.com/factlens/factlens/internal/core/submit"
	apperrors "github.com/factlens/factlens/internal/errors"
	"github.com/factlens/factlens/internal/metrics"
)

// multipartMemoryLimit bounds how much of an upload is buffered in memory
// before spilling to disk.
const multipartMemoryLimit = 8 << 20

// Submitter accepts content submissions.
type Submitter interface {
	Submit(ctx context.Context, sub submit.Submission) (*core.Request, error)
}

// ResultReader serves stored verification results and history.
type ResultReader interface {
	GetResult(ctx context.Context, id string) (*core.VerificationResult, core.RequestState, error)
	ListHistory(ctx context.Context, filter string) ([]core.VerificationResult, error)
	DeleteResult(ctx context.Context, id string) error
	ClearHistory(ctx context.Context) (int64, error)
}

// Awaiter blocks until a pending verification resolves or the wait expires.
type Awaiter interface {
	Await(ctx context.Context, id string, timeout time.Duration) (*core.VerificationResult, error)
}

// VerificationAPI wires the submission client, the pipeline, and the result
// store into HTTP handlers.
type VerificationAPI struct {
	submitter Submitter
	results   ResultReader
	awaiter   Awaiter
}

// NewVerificationAPI creates the handler set for the /v1/verifications routes.
func NewVerificationAPI(submitter Submitter, results ResultReader, awaiter Awaiter) *VerificationAPI {
	return &VerificationAPI{
		submitter: submitter,
		results:   results,
		awaiter:   awaiter,
	}
}

// SubmitResponse acknowledges an accepted submission.
type SubmitResponse struct {
	RequestID   string `json:"request_id"`
	State       string `json:"state"`
	ContentType string `json:"content_type"`
}

// ResultResponse wraps a result lookup with its request state.
type ResultResponse struct {
	Status string                   `json:"status"`
	Result *core.VerificationResult `json:"result,omitempty"`
}

// HistoryResponse lists stored results, most recent first.
type HistoryResponse struct {
	Results []core.VerificationResult `json:"results"`
	Count   int                       `json:"count"`
}

// ClearResponse reports how many results a clear removed.
type ClearResponse struct {
	Removed int64 `json:"removed"`
}

type submitRequestBody struct {
	ContentType string `json:"content_type"`
	Text        string `json:"text"`
}

// SubmitHandler accepts a text or media submission and responds 202 with the
// request ID callers poll for the result.
func (api *VerificationAPI) SubmitHandler(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.submitter == nil {
		respondWithError(w, r, apperrors.NewInternalError("submission client not initialized"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, submit.MaxVideoBytes+multipartMemoryLimit)

	sub, err := decodeSubmission(r)
	if err != nil {
		metrics.RecordSubmissionRejected("unknown", "malformed_request")
		respondWithError(w, r, err)
		return
	}

	req, err := api.submitter.Submit(r.Context(), sub)
	if err != nil {
		metrics.RecordSubmissionRejected(string(sub.ContentType), strings.ToLower(apperrors.CodeOf(err)))
		respondWithError(w, r, err)
		return
	}

	metrics.RecordSubmission(string(req.ContentType))

	writeJSON(w, http.StatusAccepted, SubmitResponse{
		RequestID:   req.ID,
		State:       string(req.State),
		ContentType: string(req.ContentType),
	})
}

func decodeSubmission(r *http.Request) (submit.Submission, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		mediaType = ""
	}

	if mediaType == "multipart/form-data" {
		return decodeMultipartSubmission(r)
	}

	var body submitRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return submit.Submission{}, apperrors.WrapInvalidInput(r.Context(), err, "request body must be JSON or multipart form data")
	}

	return submit.Submission{
		ContentType: core.ContentType(strings.TrimSpace(body.ContentType)),
		Text:        body.Text,
	}, nil
}

func decodeMultipartSubmission(r *http.Request) (submit.Submission, error) {
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return submit.Submission{}, apperrors.NewValidationError("uploaded file exceeds the maximum allowed size")
		}
		return submit.Submission{}, apperrors.WrapInvalidInput(r.Context(), err, "malformed multipart form")
	}

	sub := submit.Submission{
		ContentType: core.ContentType(strings.TrimSpace(r.FormValue("content_type"))),
		Text:        r.FormValue("text"),
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return sub, nil
		}
		return submit.Submission{}, apperrors.WrapInvalidInput(r.Context(), err, "unable to read uploaded file")
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return submit.Submission{}, apperrors.WrapInvalidInput(r.Context(), err, "unable to read uploaded file")
	}

	sub.File = &submit.FileUpload{Name: header.Filename, Data: data}
	return sub, nil
}

// ResultHandler returns the result for a request ID, reporting pending state
// while processing is still underway. The optional wait parameter blocks
// until the result is ready or the bounded wait expires.
func (api *VerificationAPI) ResultHandler(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		respondWithError(w, r, apperrors.NewInvalidInputError("verification id is required"))
		return
	}

	if wait, timeout := waitParam(r); wait && api.awaiter != nil {
		result, err := api.awaiter.Await(r.Context(), id, timeout)
		if err != nil {
			// An expired wait is not a failure: the request is still
			// pending, and the caller can poll again.
			if apperrors.CodeOf(err) == "TIMEOUT" {
				writeJSON(w, http.StatusOK, ResultResponse{Status: string(core.StatePending)})
				return
			}
			respondWithError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, ResultResponse{Status: string(core.StateReady), Result: result})
		return
	}

	result, state, err := api.results.GetResult(r.Context(), id)
	if err != nil {
		respondWithError(w, r, apperrors.WrapDatabaseError(r.Context(), err, "failed to load verification result"))
		return
	}

	switch state {
	case core.StateReady:
		writeJSON(w, http.StatusOK, ResultResponse{Status: string(core.StateReady), Result: result})
	case core.StatePending:
		writeJSON(w, http.StatusOK, ResultResponse{Status: string(core.StatePending)})
	default:
		respondWithError(w, r, apperrors.NewNotFoundError("no verification exists for the given id"))
	}
}

// waitParam interprets ?wait=true or ?wait=10s. A bare true uses the
// pipeline's default timeout.
func waitParam(r *http.Request) (bool, time.Duration) {
	raw := strings.TrimSpace(r.URL.Query().Get("wait"))
	if raw == "" {
		return false, 0
	}

	if parsed, err := strconv.ParseBool(raw); err == nil {
		return parsed, 0
	}

	if timeout, err := time.ParseDuration(raw); err == nil && timeout > 0 {
		return true, timeout
	}

	return false, 0
}

// HistoryHandler lists stored results, optionally filtered by a
// case-insensitive content substring.
func (api *VerificationAPI) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("filter")

	results, err := api.results.ListHistory(r.Context(), filter)
	if err != nil {
		respondWithError(w, r, apperrors.WrapDatabaseError(r.Context(), err, "failed to list verification history"))
		return
	}

	if results == nil {
		results = []core.VerificationResult{}
	}

	writeJSON(w, http.StatusOK, HistoryResponse{Results: results, Count: len(results)})
}

// DeleteHandler removes a single result. Deleting an absent ID succeeds.
func (api *VerificationAPI) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		respondWithError(w, r, apperrors.NewInvalidInputError("verification id is required"))
		return
	}

	if err := api.results.DeleteResult(r.Context(), id); err != nil {
		respondWithError(w, r, apperrors.WrapDatabaseError(r.Context(), err, "failed to delete verification result"))
		return
	}

	metrics.RecordHistoryDelete()
	w.WriteHeader(http.StatusNoContent)
}

// ClearHandler removes all history. The destructive action requires an
// explicit confirm=true query parameter.
func (api *VerificationAPI) ClearHandler(w http.ResponseWriter, r *http.Request) {
	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	if !confirmed {
		respondWithError(w, r, apperrors.NewValidationError("clearing history requires confirm=true"))
		return
	}

	removed, err := api.results.ClearHistory(r.Context())
	if err != nil {
		respondWithError(w, r, apperrors.WrapDatabaseError(r.Context(), err, "failed to clear verification history"))
		return
	}

	metrics.RecordHistoryClear(removed)
	writeJSON(w, http.StatusOK, ClearResponse{Removed: removed})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
