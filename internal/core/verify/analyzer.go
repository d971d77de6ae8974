// Package verify implements the verification pipeline: a deterministic
// heuristic analyzer over an embedded claim corpus, optional source
// provenance annotation, and the asynchronous worker pool that resolves
// pending requests into stored results.
package verify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abadojack/whatlanggo"

	"github.com/factlens/factlens/internal/core"
)

// Analyzer produces a verification result for an accepted request.
type Analyzer interface {
	Analyze(ctx context.Context, req *core.Request) (*core.VerificationResult, error)
}

// sensationalMarkers are phrases that correlate with low-credibility content.
// Each hit costs score points and records a detected issue.
var sensationalMarkers = []struct {
	phrase string
	issue  string
}{
	{"miracle cure", "Sensationalist language"},
	{"doctors hate", "Sensationalist language"},
	{"they don't want you to know", "Conspiratorial framing"},
	{"secret the government", "Conspiratorial framing"},
	{"100% proven", "Overstated certainty"},
	{"wake up", "Emotive rhetoric"},
	{"share before it's deleted", "Urgency manipulation"},
}

const (
	baselineScore        = 50
	markerScorePenalty   = 10
	mediaUnverifiedScore = 40

	// Minimum whatlanggo confidence before a language tag is trusted.
	languageConfidenceFloor = 0.1
)

// HeuristicAnalyzer scores submissions against the embedded claim corpus.
// Unknown text claims fall back to marker-based scoring; media content is
// never auto-verified.
type HeuristicAnalyzer struct {
	corpus *Corpus
}

// NewHeuristicAnalyzer builds an analyzer over the embedded corpus.
func NewHeuristicAnalyzer() (*HeuristicAnalyzer, error) {
	corpus, err := LoadEmbeddedCorpus()
	if err != nil {
		return nil, err
	}
	return &HeuristicAnalyzer{corpus: corpus}, nil
}

// NewHeuristicAnalyzerWithCorpus builds an analyzer over a custom corpus.
func NewHeuristicAnalyzerWithCorpus(corpus *Corpus) *HeuristicAnalyzer {
	return &HeuristicAnalyzer{corpus: corpus}
}

// Analyze produces a verification result for the request. It never returns
// a nil result without an error.
func (a *HeuristicAnalyzer) Analyze(ctx context.Context, req *core.Request) (*core.VerificationResult, error) {
	if a == nil {
		return nil, errors.New("analyzer is not configured")
	}
	if req == nil {
		return nil, errors.New("request is required")
	}
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	result := &core.VerificationResult{
		ID:          req.ID,
		Content:     req.Content,
		ContentType: req.ContentType,
		Timestamp:   time.Now().UTC(),
	}

	if req.ContentType != core.ContentTypeText {
		a.analyzeMedia(req, result)
		return result, nil
	}

	a.analyzeText(req.Content, result)
	return result, nil
}

func (a *HeuristicAnalyzer) analyzeText(text string, result *core.VerificationResult) {
	result.Language = detectLanguage(text)

	if claim := a.corpus.match(text); claim != nil {
		result.Status = core.VerificationStatus(claim.Status)
		result.CredibilityScore = core.ClampScore(claim.CredibilityScore)
		result.Explanation = strings.TrimSpace(claim.Explanation)
		result.AdditionalContext = strings.TrimSpace(claim.AdditionalContext)
		result.DetectedIssues = append([]string(nil), claim.DetectedIssues...)
		result.Sources = a.corpus.resolveSources(claim.Sources)
		return
	}

	// Unknown claim: start from a neutral score and dock points for
	// sensational markers.
	score := baselineScore
	lower := strings.ToLower(text)
	seen := map[string]struct{}{}
	for _, marker := range sensationalMarkers {
		if strings.Contains(lower, marker.phrase) {
			score -= markerScorePenalty
			if _, dup := seen[marker.issue]; !dup {
				seen[marker.issue] = struct{}{}
				result.DetectedIssues = append(result.DetectedIssues, marker.issue)
			}
		}
	}

	result.Status = core.StatusUnverified
	result.CredibilityScore = core.ClampScore(score)
	result.Explanation = "This claim is not in the verified corpus and could not be confirmed or refuted automatically."
	if len(result.DetectedIssues) > 0 {
		result.AdditionalContext = "The text contains language patterns commonly associated with misinformation."
	}
}

func (a *HeuristicAnalyzer) analyzeMedia(req *core.Request, result *core.VerificationResult) {
	result.Status = core.StatusUnverified
	result.CredibilityScore = mediaUnverifiedScore
	result.Explanation = fmt.Sprintf("Automated analysis cannot verify %s content; manual review is required.", req.ContentType)
	result.DetectedIssues = []string{"Media content requires manual review"}
}

// detectLanguage returns the ISO 639-3 code of the dominant language, or ""
// when detection is unreliable.
func detectLanguage(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	// IsReliable demands near-certain confidence and rejects ordinary short
	// sentences, so gate on a confidence floor instead.
	info := whatlanggo.Detect(text)
	if info.Lang == -1 || info.Confidence < languageConfidenceFloor {
		return ""
	}

	return whatlanggo.LangToString(info.Lang)
}
