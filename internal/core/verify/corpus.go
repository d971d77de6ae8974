package verify

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/factlens/factlens/internal/core"
)

//go:embed corpus.yaml
var corpusYAML []byte

// corpusSource is a trusted reference source as declared in the corpus file.
type corpusSource struct {
	Name       string `yaml:"name"`
	URL        string `yaml:"url"`
	TrustScore int    `yaml:"trust_score"`
}

// corpusClaim is a known claim with a vetted verdict. A claim matches when
// every keyword appears in the submitted text, case-insensitively.
type corpusClaim struct {
	Keywords          []string `yaml:"keywords"`
	Status            string   `yaml:"status"`
	CredibilityScore  int      `yaml:"credibility_score"`
	Explanation       string   `yaml:"explanation"`
	AdditionalContext string   `yaml:"additional_context"`
	DetectedIssues    []string `yaml:"detected_issues"`
	Sources           []string `yaml:"sources"`
}

// Corpus is the parsed seed corpus used by the heuristic analyzer.
type Corpus struct {
	Sources map[string]corpusSource `yaml:"sources"`
	Claims  []corpusClaim           `yaml:"claims"`
}

// LoadEmbeddedCorpus parses the corpus compiled into the binary.
func LoadEmbeddedCorpus() (*Corpus, error) {
	return parseCorpus(corpusYAML)
}

func parseCorpus(data []byte) (*Corpus, error) {
	var corpus Corpus
	if err := yaml.Unmarshal(data, &corpus); err != nil {
		return nil, fmt.Errorf("parse claim corpus: %w", err)
	}

	for i, claim := range corpus.Claims {
		if len(claim.Keywords) == 0 {
			return nil, fmt.Errorf("claim corpus entry %d has no keywords", i)
		}
		if !core.ValidVerificationStatus(core.VerificationStatus(claim.Status)) {
			return nil, fmt.Errorf("claim corpus entry %d has invalid status %q", i, claim.Status)
		}
		for _, ref := range claim.Sources {
			if _, ok := corpus.Sources[ref]; !ok {
				return nil, fmt.Errorf("claim corpus entry %d references unknown source %q", i, ref)
			}
		}
	}

	return &corpus, nil
}

// match returns the first claim whose keywords all appear in the text.
func (c *Corpus) match(text string) *corpusClaim {
	if c == nil {
		return nil
	}

	lower := strings.ToLower(text)
	for i := range c.Claims {
		claim := &c.Claims[i]
		matched := true
		for _, keyword := range claim.Keywords {
			if !strings.Contains(lower, strings.ToLower(keyword)) {
				matched = false
				break
			}
		}
		if matched {
			return claim
		}
	}

	return nil
}

// resolveSources maps corpus source references to result sources.
func (c *Corpus) resolveSources(refs []string) []core.Source {
	if c == nil || len(refs) == 0 {
		return nil
	}

	sources := make([]core.Source, 0, len(refs))
	for _, ref := range refs {
		src, ok := c.Sources[ref]
		if !ok {
			continue
		}
		sources = append(sources, core.Source{
			Name:       src.Name,
			URL:        src.URL,
			TrustScore: src.TrustScore,
		})
	}

	return sources
}
