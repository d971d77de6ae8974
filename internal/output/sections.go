package output

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/factlens/factlens/internal/core"
)

const historyContentWidth = 60

type resultSection struct {
	Title string
	Lines []string
}

func resultSections(result *core.VerificationResult) []resultSection {
	if result == nil {
		return nil
	}

	sections := make([]resultSection, 0, 4)
	if explanation := strings.TrimSpace(result.Explanation); explanation != "" {
		sections = append(sections, resultSection{
			Title: "Explanation",
			Lines: []string{explanation},
		})
	}

	if lines := sourceLines(result.Sources); len(lines) > 0 {
		sections = append(sections, resultSection{Title: "Sources", Lines: lines})
	}

	if len(result.DetectedIssues) > 0 {
		lines := make([]string, 0, len(result.DetectedIssues))
		for _, issue := range result.DetectedIssues {
			if issue = strings.TrimSpace(issue); issue != "" {
				lines = append(lines, issue)
			}
		}
		if len(lines) > 0 {
			sections = append(sections, resultSection{Title: "Detected Issues", Lines: lines})
		}
	}

	if context := strings.TrimSpace(result.AdditionalContext); context != "" {
		sections = append(sections, resultSection{
			Title: "Additional Context",
			Lines: []string{context},
		})
	}

	return sections
}

func sourceLines(sources []core.Source) []string {
	lines := make([]string, 0, len(sources))
	for _, source := range sources {
		name := strings.TrimSpace(source.Name)
		if name == "" {
			name = "unnamed source"
		}

		line := fmt.Sprintf("%s (trust %d)", name, source.TrustScore)
		if url := strings.TrimSpace(source.URL); url != "" {
			line += ": " + url
		}
		if provenance := provenanceSummary(source.Provenance); provenance != "" {
			line += " [" + provenance + "]"
		}
		lines = append(lines, line)
	}
	return lines
}

func provenanceSummary(data map[string]any) string {
	if len(data) == 0 {
		return ""
	}

	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s: %v", key, data[key]))
	}
	return strings.Join(parts, ", ")
}

func renderResultSections(sections []resultSection, markdown bool) string {
	if len(sections) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, section := range sections {
		if i > 0 {
			sb.WriteString("\n")
		}
		if markdown {
			sb.WriteString(fmt.Sprintf("\n\n### %s\n", section.Title))
			for _, line := range section.Lines {
				sb.WriteString(fmt.Sprintf("- %s\n", escapeMarkdownCell(line)))
			}
		} else {
			sb.WriteString(fmt.Sprintf("\n\n%s:\n", section.Title))
			for _, line := range section.Lines {
				sb.WriteString(fmt.Sprintf("  %s\n", line))
			}
		}
	}
	return sb.String()
}

// scoreSummary pairs the numeric score with its qualitative band.
func scoreSummary(score int) string {
	score = core.ClampScore(score)
	return fmt.Sprintf("%d/100 (%s)", score, core.ScoreBand(score))
}

func submittedAgo(timestamp time.Time) string {
	if timestamp.IsZero() {
		return ""
	}
	return humanize.Time(timestamp)
}

func truncateContent(content string, limit int) string {
	content = strings.Join(strings.Fields(content), " ")
	runes := []rune(content)
	if limit <= 0 || len(runes) <= limit {
		return content
	}
	return strings.TrimSpace(string(runes[:limit-3])) + "..."
}
