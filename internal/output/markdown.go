package output

import (
	"fmt"
	"strings"

	"github.com/factlens/factlens/internal/core"
)

// MarkdownFormatter renders results as markdown.
type MarkdownFormatter struct{}

// FormatResult renders a verification result as Markdown.
func (f *MarkdownFormatter) FormatResult(result *core.VerificationResult) (string, error) {
	if result == nil {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Verification: %s\n\n", escapeMarkdownCell(core.StatusLabel(result.Status))))
	sb.WriteString("| Verdict | Score | Type | Language | Submitted |\n")
	sb.WriteString("|---------|-------|------|----------|-----------|\n")
	sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s |\n",
		escapeMarkdownCell(core.StatusLabel(result.Status)),
		escapeMarkdownCell(scoreSummary(result.CredibilityScore)),
		escapeMarkdownCell(string(result.ContentType)),
		escapeMarkdownCell(result.Language),
		escapeMarkdownCell(submittedAgo(result.Timestamp)),
	))

	sb.WriteString(renderResultSections(resultSections(result), true))
	return sb.String(), nil
}

// FormatHistory renders a result list as a markdown table.
func (f *MarkdownFormatter) FormatHistory(results []core.VerificationResult) (string, error) {
	var sb strings.Builder
	sb.WriteString("## Verification history\n\n")
	sb.WriteString("| ID | Submitted | Content | Verdict | Score |\n")
	sb.WriteString("|----|-----------|---------|---------|-------|\n")

	for _, result := range results {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %d |\n",
			escapeMarkdownCell(result.ID),
			escapeMarkdownCell(submittedAgo(result.Timestamp)),
			escapeMarkdownCell(truncateContent(result.Content, historyContentWidth)),
			escapeMarkdownCell(core.StatusLabel(result.Status)),
			core.ClampScore(result.CredibilityScore),
		))
	}

	sb.WriteString(fmt.Sprintf("\n**Total**: %d results\n", len(results)))
	return sb.String(), nil
}

func escapeMarkdownCell(value string) string {
	return strings.ReplaceAll(value, "|", "\\|")
}
