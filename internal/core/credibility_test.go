package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClampScore(t *testing.T) {
	require.Equal(t, 0, ClampScore(-5))
	require.Equal(t, 100, ClampScore(250))
	require.Equal(t, 42, ClampScore(42))

	// Clamping twice yields the same value as clamping once.
	for _, score := range []int{-100, -1, 0, 8, 50, 99, 100, 101, 1000} {
		once := ClampScore(score)
		require.Equal(t, once, ClampScore(once))
		require.GreaterOrEqual(t, once, ScoreMin)
		require.LessOrEqual(t, once, ScoreMax)
	}
}

func TestStatusPresentation(t *testing.T) {
	cases := []struct {
		status VerificationStatus
		icon   StatusIcon
		label  string
		tier   Tier
	}{
		{StatusTrue, IconThumbsUp, "True", TierSuccess},
		{StatusFalse, IconThumbsDown, "False", TierError},
		{StatusPartiallyTrue, IconWarning, "Partially True", TierWarning},
		{StatusUnverified, IconWarning, "Unverified", TierNeutral},
	}

	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			require.Equal(t, tc.icon, StatusIconFor(tc.status))
			require.Equal(t, tc.label, StatusLabel(tc.status))
			require.Equal(t, tc.tier, StatusTier(tc.status))
		})
	}
}

func TestScoreTierThresholds(t *testing.T) {
	require.Equal(t, TierSuccess, ScoreTier(100))
	require.Equal(t, TierSuccess, ScoreTier(70))
	require.Equal(t, TierWarning, ScoreTier(69))
	require.Equal(t, TierWarning, ScoreTier(30))
	require.Equal(t, TierError, ScoreTier(29))
	require.Equal(t, TierError, ScoreTier(0))
}

func TestScoreBandThresholds(t *testing.T) {
	require.Equal(t, "Highly credible content", ScoreBand(80))
	require.Equal(t, "Mostly credible with minor issues", ScoreBand(79))
	require.Equal(t, "Mostly credible with minor issues", ScoreBand(60))
	require.Equal(t, "Mixed credibility", ScoreBand(59))
	require.Equal(t, "Mixed credibility", ScoreBand(40))
	require.Equal(t, "Low credibility", ScoreBand(39))
	require.Equal(t, "Low credibility", ScoreBand(20))
	require.Equal(t, "Not credible", ScoreBand(19))
	require.Equal(t, "Not credible", ScoreBand(0))
}

// A "false" verdict with a mid-range score renders the error tier by
// status but the warning tier by score. The two systems are independent
// and deliberately allowed to disagree.
func TestStatusAndScoreTiersCanDisagree(t *testing.T) {
	require.Equal(t, TierError, StatusTier(StatusFalse))
	require.Equal(t, TierWarning, ScoreTier(45))
}

func TestLowScoreFalseResultRendersErrorTier(t *testing.T) {
	require.Equal(t, TierError, ScoreTier(8))
	require.Equal(t, TierError, StatusTier(StatusFalse))
	require.Equal(t, "Not credible", ScoreBand(8))
}
