//go:build cgo

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/factlens/factlens/internal/config"
	"github.com/factlens/factlens/internal/core"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	ctx := context.Background()
	cfg := config.StoreConfig{
		Driver: "libsql",
		Path:   ":memory:",
	}

	s, err := Open(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, s.Migrate(ctx))
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func sampleResult(id, content string, score int, createdAt time.Time) *core.VerificationResult {
	return &core.VerificationResult{
		ID:               id,
		Content:          content,
		ContentType:      core.ContentTypeText,
		Status:           core.StatusFalse,
		CredibilityScore: score,
		Sources: []core.Source{
			{Name: "World Health Organization", URL: "https://www.who.int", TrustScore: 98},
		},
		Explanation:    "Contradicts established medical consensus.",
		DetectedIssues: []string{"Unverified health claim"},
		Language:       "eng",
		Timestamp:      createdAt,
	}
}

func TestOpenMemoryStore(t *testing.T) {
	ctx := context.Background()
	cfg := config.StoreConfig{
		Driver: "libsql",
		Path:   ":memory:",
	}

	s, err := Open(ctx, cfg)
	require.NoError(t, err)
	require.NotNil(t, s)
	require.Equal(t, "libsql", s.Driver())
	require.NoError(t, s.Close())
}

func TestOpenLocalStore_ConfiguresSQLite(t *testing.T) {
	ctx := context.Background()

	cfg := config.StoreConfig{
		Driver: "libsql",
		Path:   "file:" + t.TempDir() + "/factlens.db",
	}

	s, err := Open(ctx, cfg)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	require.Equal(t, 1, s.DB.Stats().MaxOpenConnections)

	var journalMode string
	require.NoError(t, s.DB.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&journalMode))
	require.Contains(t, journalMode, "wal")

	var busyTimeout int
	require.NoError(t, s.DB.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&busyTimeout))
	require.GreaterOrEqual(t, busyTimeout, 1000)
}

func TestResultLifecycle(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	req := &core.Request{
		ID:          "req-1",
		State:       core.StatePending,
		ContentType: core.ContentTypeText,
		Content:     "Lemon water cures everything.",
		SubmittedAt: time.Now().UTC(),
	}
	require.NoError(t, s.CreateRequest(ctx, req))

	// Pending while no result has been stored.
	result, state, err := s.GetResult(ctx, "req-1")
	require.NoError(t, err)
	require.Nil(t, result)
	require.Equal(t, core.StatePending, state)

	// Unknown IDs are not found.
	result, state, err = s.GetResult(ctx, "req-unknown")
	require.NoError(t, err)
	require.Nil(t, result)
	require.Equal(t, core.StateNotFound, state)

	stored := sampleResult("req-1", req.Content, 8, time.Now().UTC())
	require.NoError(t, s.SaveResult(ctx, stored))

	result, state, err = s.GetResult(ctx, "req-1")
	require.NoError(t, err)
	require.Equal(t, core.StateReady, state)
	require.NotNil(t, result)
	require.Equal(t, core.StatusFalse, result.Status)
	require.Equal(t, 8, result.CredibilityScore)
	require.Len(t, result.Sources, 1)
	require.Equal(t, 98, result.Sources[0].TrustScore)
	require.Equal(t, []string{"Unverified health claim"}, result.DetectedIssues)

	// The backing request is marked ready too.
	got, err := s.GetRequest(ctx, "req-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, core.StateReady, got.State)
}

func TestSaveResult_ClampsScore(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	stored := sampleResult("req-clamp", "claim", 150, time.Now().UTC())
	require.NoError(t, s.SaveResult(ctx, stored))

	result, _, err := s.GetResult(ctx, "req-clamp")
	require.NoError(t, err)
	require.Equal(t, 100, result.CredibilityScore)
}

func TestListHistory(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	base := time.Now().UTC().Add(-time.Hour)
	require.NoError(t, s.SaveResult(ctx, sampleResult("req-1", "Vaccines cause autism", 5, base)))
	require.NoError(t, s.SaveResult(ctx, sampleResult("req-2", "The Earth is round", 95, base.Add(time.Minute))))
	require.NoError(t, s.SaveResult(ctx, sampleResult("req-3", "VACCINE trial results published", 70, base.Add(2*time.Minute))))

	t.Run("MostRecentFirst", func(t *testing.T) {
		results, err := s.ListHistory(ctx, "")
		require.NoError(t, err)
		require.Len(t, results, 3)
		require.Equal(t, "req-3", results[0].ID)
		require.Equal(t, "req-2", results[1].ID)
		require.Equal(t, "req-1", results[2].ID)
	})

	t.Run("FilterIsCaseInsensitive", func(t *testing.T) {
		results, err := s.ListHistory(ctx, "vaccine")
		require.NoError(t, err)
		require.Len(t, results, 2)
		require.Equal(t, "req-3", results[0].ID)
		require.Equal(t, "req-1", results[1].ID)
	})

	t.Run("FilterWildcardsMatchLiterally", func(t *testing.T) {
		results, err := s.ListHistory(ctx, "100%")
		require.NoError(t, err)
		require.Empty(t, results)
	})

	t.Run("NoMatches", func(t *testing.T) {
		results, err := s.ListHistory(ctx, "flat earth society")
		require.NoError(t, err)
		require.Empty(t, results)
	})
}

func TestListHistory_SubSecondOrdering(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	// Two results inside the same wall-clock second: recency must win over
	// any id-based tie-break.
	base := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, s.SaveResult(ctx, sampleResult("zzz-older", "first claim", 50, base)))
	require.NoError(t, s.SaveResult(ctx, sampleResult("aaa-newer", "second claim", 50, base.Add(500*time.Millisecond))))

	results, err := s.ListHistory(ctx, "")
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, "aaa-newer", results[0].ID)
	require.Equal(t, "zzz-older", results[1].ID)
}

func TestListHistory_FilterNarrowsMonotonically(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	base := time.Now().UTC().Add(-time.Hour)
	require.NoError(t, s.SaveResult(ctx, sampleResult("req-1", "Vaccines cause autism", 5, base)))
	require.NoError(t, s.SaveResult(ctx, sampleResult("req-2", "Vaccine trial results published", 70, base.Add(time.Minute))))
	require.NoError(t, s.SaveResult(ctx, sampleResult("req-3", "The Earth is round", 95, base.Add(2*time.Minute))))

	// Extending a filter character by character can only shrink the result
	// set, never grow it.
	filter := "vaccines cause"
	prev := 3
	for i := 1; i <= len(filter); i++ {
		results, err := s.ListHistory(ctx, filter[:i])
		require.NoError(t, err)
		require.LessOrEqual(t, len(results), prev, "filter %q returned more results than %q", filter[:i], filter[:i-1])
		prev = len(results)
	}
	require.Equal(t, 1, prev)
}

func TestDeleteResult_Idempotent(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.SaveResult(ctx, sampleResult("req-1", "claim", 50, time.Now().UTC())))

	require.NoError(t, s.DeleteResult(ctx, "req-1"))

	_, state, err := s.GetResult(ctx, "req-1")
	require.NoError(t, err)
	require.Equal(t, core.StateNotFound, state)

	// Deleting again is a no-op.
	require.NoError(t, s.DeleteResult(ctx, "req-1"))
	require.NoError(t, s.DeleteResult(ctx, "never-existed"))
}

func TestClearHistory(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	now := time.Now().UTC()
	require.NoError(t, s.SaveResult(ctx, sampleResult("req-1", "claim one", 10, now)))
	require.NoError(t, s.SaveResult(ctx, sampleResult("req-2", "claim two", 20, now)))

	removed, err := s.ClearHistory(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), removed)

	results, err := s.ListHistory(ctx, "")
	require.NoError(t, err)
	require.Empty(t, results)

	// Clearing an empty store succeeds.
	removed, err = s.ClearHistory(ctx)
	require.NoError(t, err)
	require.Zero(t, removed)
}

func TestLocalSettings(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	value, err := s.GetLocalSetting(ctx, "theme")
	require.NoError(t, err)
	require.Empty(t, value)

	require.NoError(t, s.SetLocalSetting(ctx, "theme", "dark"))

	value, err = s.GetLocalSetting(ctx, "theme")
	require.NoError(t, err)
	require.Equal(t, "dark", value)

	require.NoError(t, s.SetLocalSetting(ctx, "theme", "light"))

	value, err = s.GetLocalSetting(ctx, "theme")
	require.NoError(t, err)
	require.Equal(t, "light", value)
}
