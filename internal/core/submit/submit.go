// Package submit implements the content submission client: validation of
// text and media payloads, pending-request creation, and handoff to the
// verification pipeline.
package submit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/factlens/factlens/internal/core"
	apperrors "github.com/factlens/factlens/internal/errors"
)

// Payload size ceilings.
const (
	MaxImageBytes = 10 << 20 // 10 MB
	MaxAudioBytes = 10 << 20 // 10 MB
	MaxVideoBytes = 50 << 20 // 50 MB
)

// allowedMIMETypes maps each media content type to its accepted MIME types.
// Detection is sniff-based, so client-supplied extensions cannot lie their
// way past the allow-list.
var allowedMIMETypes = map[core.ContentType]map[string]struct{}{
	core.ContentTypeImage: {
		"image/jpeg": {},
		"image/png":  {},
		"image/gif":  {},
		"image/webp": {},
	},
	core.ContentTypeVideo: {
		"video/mp4":       {},
		"video/webm":      {},
		"video/ogg":       {},
		"video/quicktime": {},
	},
	core.ContentTypeAudio: {
		"audio/mpeg":  {},
		"audio/wav":   {},
		"audio/x-wav": {},
		"audio/ogg":   {},
		"audio/mp4":   {},
		"audio/x-m4a": {},
	},
}

// FileUpload is a media payload attached to a submission.
type FileUpload struct {
	Name string
	Data []byte
}

// Submission carries exactly one of Text or File. ContentType is the type
// the caller declared for the payload; when set, the payload must match it.
// Left empty, text submissions are accepted as text and file submissions
// take their type from the sniffed MIME.
type Submission struct {
	ContentType core.ContentType
	Text        string
	File        *FileUpload
}

// RequestStore persists accepted submissions as pending requests.
type RequestStore interface {
	CreateRequest(ctx context.Context, req *core.Request) error
}

// Queue hands accepted requests to the verification pipeline.
type Queue interface {
	Enqueue(ctx context.Context, req *core.Request) error
}

// Client validates submissions and feeds the verification pipeline.
type Client struct {
	store     RequestStore
	queue     Queue
	sanitizer *bluemonday.Policy
}

// NewClient constructs a submission client backed by the given store and queue.
func NewClient(requests RequestStore, queue Queue) *Client {
	return &Client{
		store:     requests,
		queue:     queue,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// Submit validates the submission, records it as a pending request, and
// enqueues it for verification. The returned request carries the ID callers
// use to poll for the result.
func (c *Client) Submit(ctx context.Context, sub Submission) (*core.Request, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	content, contentType, err := c.validate(sub)
	if err != nil {
		return nil, err
	}

	req := &core.Request{
		ID:          uuid.New().String(),
		State:       core.StatePending,
		ContentType: contentType,
		Content:     content,
		SubmittedAt: time.Now().UTC(),
	}

	if c.store != nil {
		if err := c.store.CreateRequest(ctx, req); err != nil {
			return nil, apperrors.WrapSubmissionError(ctx, err, "failed to record submission")
		}
	}

	if c.queue != nil {
		if err := c.queue.Enqueue(ctx, req); err != nil {
			return nil, apperrors.WrapSubmissionError(ctx, err, "failed to queue submission for verification")
		}
	}

	return req, nil
}

// validate enforces the exactly-one-of rule, the declared-type match, and
// the per-type constraints, returning the normalized content and its
// content type.
func (c *Client) validate(sub Submission) (string, core.ContentType, error) {
	declared := sub.ContentType
	if declared != "" && !core.ValidContentType(declared) {
		return "", "", apperrors.NewValidationError(fmt.Sprintf("unknown content type %q", declared))
	}

	hasText := strings.TrimSpace(sub.Text) != ""
	hasFile := sub.File != nil

	switch {
	case hasText && hasFile:
		return "", "", apperrors.NewValidationError("provide either text or a file, not both")
	case !hasText && !hasFile:
		return "", "", apperrors.NewValidationError("no content to verify")
	case hasText:
		if declared != "" && declared != core.ContentTypeText {
			return "", "", apperrors.NewValidationError(fmt.Sprintf(
				"declared content type %s does not match a text submission", declared))
		}
		return c.sanitizer.Sanitize(strings.TrimSpace(sub.Text)), core.ContentTypeText, nil
	default:
		if declared == core.ContentTypeText {
			return "", "", apperrors.NewValidationError("declared content type text does not match a file submission")
		}
		return c.validateFile(sub.File, declared)
	}
}

func (c *Client) validateFile(file *FileUpload, declared core.ContentType) (string, core.ContentType, error) {
	if len(file.Data) == 0 {
		return "", "", apperrors.NewValidationError("uploaded file is empty")
	}

	detected := mimetype.Detect(file.Data)
	mime := baseMIME(detected.String())

	var contentType core.ContentType
	if declared != "" {
		if _, ok := allowedMIMETypes[declared][mime]; !ok {
			return "", "", apperrors.NewValidationError(fmt.Sprintf(
				"file content %s does not match declared type %s", mime, declared))
		}
		contentType = declared
	} else {
		var ok bool
		contentType, ok = contentTypeForMIME(mime)
		if !ok {
			return "", "", apperrors.NewValidationError(fmt.Sprintf("unsupported file type %s", mime))
		}
	}

	limit := SizeLimit(contentType)
	if int64(len(file.Data)) > limit {
		return "", "", apperrors.NewValidationError(fmt.Sprintf(
			"%s file is too large: %s exceeds the %s limit",
			contentType, humanize.Bytes(uint64(len(file.Data))), humanize.Bytes(uint64(limit)),
		))
	}

	name := strings.TrimSpace(file.Name)
	if name == "" {
		name = "upload" + detected.Extension()
	}

	return name, contentType, nil
}

// SizeLimit returns the payload ceiling for a media content type.
func SizeLimit(contentType core.ContentType) int64 {
	switch contentType {
	case core.ContentTypeVideo:
		return MaxVideoBytes
	case core.ContentTypeAudio:
		return MaxAudioBytes
	default:
		return MaxImageBytes
	}
}

// contentTypeForMIME resolves a sniffed MIME type against the allow-lists.
func contentTypeForMIME(mime string) (core.ContentType, bool) {
	for contentType, allowed := range allowedMIMETypes {
		if _, ok := allowed[mime]; ok {
			return contentType, true
		}
	}
	return "", false
}

// baseMIME strips MIME parameters such as codecs or charset.
func baseMIME(mime string) string {
	if idx := strings.IndexByte(mime, ';'); idx >= 0 {
		mime = mime[:idx]
	}
	return strings.ToLower(strings.TrimSpace(mime))
}
