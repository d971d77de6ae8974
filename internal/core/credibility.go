package core

// Display policy constants. The score tiers (70/30) and the qualitative
// bands (80/60/40/20) are independent systems, and the status-keyed tier
// can disagree with the score-keyed tier for the same result. Both are
// kept as-is; callers pick the system their surface renders.
const (
	ScoreMin = 0
	ScoreMax = 100

	// Tier thresholds keyed on the numeric score.
	TierSuccessThreshold = 70
	TierWarningThreshold = 30

	// Qualitative band thresholds.
	BandHighThreshold      = 80
	BandMostlyThreshold    = 60
	BandPartialThreshold   = 40
	BandMostlyNotThreshold = 20
)

// Tier is a display color class.
type Tier string

const (
	TierSuccess Tier = "success"
	TierWarning Tier = "warning"
	TierError   Tier = "error"
	TierNeutral Tier = "neutral"
)

// StatusIcon names the glyph rendered next to a verdict.
type StatusIcon string

const (
	IconThumbsUp   StatusIcon = "thumbs-up"
	IconThumbsDown StatusIcon = "thumbs-down"
	IconWarning    StatusIcon = "warning"
)

// ClampScore forces a credibility score into [ScoreMin, ScoreMax].
// Clamping is idempotent.
func ClampScore(score int) int {
	if score < ScoreMin {
		return ScoreMin
	}
	if score > ScoreMax {
		return ScoreMax
	}
	return score
}

// StatusTier maps a verdict to its display tier.
func StatusTier(status VerificationStatus) Tier {
	switch status {
	case StatusTrue:
		return TierSuccess
	case StatusFalse:
		return TierError
	case StatusPartiallyTrue:
		return TierWarning
	default:
		return TierNeutral
	}
}

// StatusIconFor maps a verdict to its icon.
func StatusIconFor(status VerificationStatus) StatusIcon {
	switch status {
	case StatusTrue:
		return IconThumbsUp
	case StatusFalse:
		return IconThumbsDown
	default:
		return IconWarning
	}
}

// StatusLabel maps a verdict to its display label.
func StatusLabel(status VerificationStatus) string {
	switch status {
	case StatusTrue:
		return "True"
	case StatusFalse:
		return "False"
	case StatusPartiallyTrue:
		return "Partially True"
	default:
		return "Unverified"
	}
}

// ScoreTier maps a clamped score to a display tier using the 70/30
// thresholds.
func ScoreTier(score int) Tier {
	score = ClampScore(score)
	switch {
	case score >= TierSuccessThreshold:
		return TierSuccess
	case score >= TierWarningThreshold:
		return TierWarning
	default:
		return TierError
	}
}

// ScoreBand maps a clamped score to one of five qualitative descriptions
// using the 80/60/40/20 thresholds.
func ScoreBand(score int) string {
	score = ClampScore(score)
	switch {
	case score >= BandHighThreshold:
		return "Highly credible content"
	case score >= BandMostlyThreshold:
		return "Mostly credible with minor issues"
	case score >= BandPartialThreshold:
		return "Mixed credibility"
	case score >= BandMostlyNotThreshold:
		return "Low credibility"
	default:
		return "Not credible"
	}
}
