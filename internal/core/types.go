package core

import "time"

// ContentType identifies the declared medium of submitted content.
type ContentType string

const (
	ContentTypeText  ContentType = "text"
	ContentTypeImage ContentType = "image"
	ContentTypeVideo ContentType = "video"
	ContentTypeAudio ContentType = "audio"
)

// ValidContentType reports whether the value is a recognized content type.
func ValidContentType(value ContentType) bool {
	switch value {
	case ContentTypeText, ContentTypeImage, ContentTypeVideo, ContentTypeAudio:
		return true
	default:
		return false
	}
}

// VerificationStatus is the categorical verdict for a verified claim.
type VerificationStatus string

const (
	StatusTrue          VerificationStatus = "true"
	StatusFalse         VerificationStatus = "false"
	StatusPartiallyTrue VerificationStatus = "partially_true"
	StatusUnverified    VerificationStatus = "unverified"
)

// ValidVerificationStatus reports whether the value is a recognized verdict.
func ValidVerificationStatus(value VerificationStatus) bool {
	switch value {
	case StatusTrue, StatusFalse, StatusPartiallyTrue, StatusUnverified:
		return true
	default:
		return false
	}
}

// RequestState describes where a verification request is in its lifecycle.
type RequestState string

const (
	StatePending  RequestState = "pending"
	StateReady    RequestState = "ready"
	StateNotFound RequestState = "not_found"
)

// Source is an external reference used to corroborate or refute a claim.
type Source struct {
	Name       string         `json:"name"`
	URL        string         `json:"url"`
	TrustScore int            `json:"trust_score"`
	Provenance map[string]any `json:"provenance,omitempty"`
}

// VerificationResult is the outcome of a single fact check.
//
// A result is written exactly once when processing completes and is
// immutable afterwards; it is removed only by explicit history deletion.
type VerificationResult struct {
	ID                string             `json:"id"`
	Content           string             `json:"content"`
	ContentType       ContentType        `json:"content_type"`
	Status            VerificationStatus `json:"verification_status"`
	CredibilityScore  int                `json:"credibility_score"`
	Sources           []Source           `json:"sources"`
	Explanation       string             `json:"explanation"`
	AdditionalContext string             `json:"additional_context,omitempty"`
	DetectedIssues    []string           `json:"detected_issues,omitempty"`
	Timestamp         time.Time          `json:"timestamp"`
	Language          string             `json:"language"`
}

// Request tracks a submission from acceptance until its result resolves.
type Request struct {
	ID          string       `json:"id"`
	State       RequestState `json:"state"`
	ContentType ContentType  `json:"content_type"`
	Content     string       `json:"content"`
	SubmittedAt time.Time    `json:"submitted_at"`
}
