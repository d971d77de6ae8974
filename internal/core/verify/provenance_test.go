package verify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/factlens/factlens/internal/config"
	"github.com/factlens/factlens/internal/core"
)

type fakeProvenanceCache struct {
	data map[string]map[string]any
	sets int
}

func (f *fakeProvenanceCache) GetCachedProvenance(_ context.Context, domain string) (map[string]any, error) {
	return f.data[domain], nil
}

func (f *fakeProvenanceCache) SetCachedProvenance(_ context.Context, domain string, data map[string]any, _ time.Duration) error {
	if f.data == nil {
		f.data = make(map[string]map[string]any)
	}
	f.data[domain] = data
	f.sets++
	return nil
}

func TestSourceDomain(t *testing.T) {
	cases := []struct {
		url      string
		expected string
	}{
		{"https://www.who.int", "who.int"},
		{"https://www.mayoclinic.org/some/path", "mayoclinic.org"},
		{"http://cancer.gov", "cancer.gov"},
		{"https://WWW.CDC.GOV/flu", "cdc.gov"},
		{"", ""},
		{"not a url at all", ""},
		{"https://localhost", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expected, sourceDomain(tc.url), "url %q", tc.url)
	}
}

func TestAnnotateDisabled(t *testing.T) {
	annotator := NewAnnotator(config.ProvenanceConfig{Enabled: false}, nil)

	result := &core.VerificationResult{
		Sources: []core.Source{{Name: "WHO", URL: "https://www.who.int"}},
	}
	annotator.Annotate(context.Background(), result)

	assert.Nil(t, result.Sources[0].Provenance)
}

func TestAnnotateUsesCache(t *testing.T) {
	cache := &fakeProvenanceCache{
		data: map[string]map[string]any{
			"who.int": {"registrar": "Example Registrar"},
		},
	}
	annotator := NewAnnotator(config.ProvenanceConfig{
		Enabled:  true,
		Timeout:  time.Second,
		CacheTTL: time.Hour,
	}, cache)

	result := &core.VerificationResult{
		Sources: []core.Source{{Name: "WHO", URL: "https://www.who.int"}},
	}
	annotator.Annotate(context.Background(), result)

	require.NotNil(t, result.Sources[0].Provenance)
	assert.Equal(t, "Example Registrar", result.Sources[0].Provenance["registrar"])
	assert.Zero(t, cache.sets, "cache hit must not trigger a write-back")
}

func TestAnnotateNilResult(t *testing.T) {
	annotator := NewAnnotator(config.ProvenanceConfig{Enabled: true}, nil)
	annotator.Annotate(context.Background(), nil)
}
