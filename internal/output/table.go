package output

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/factlens/factlens/internal/core"
)

// TableFormatter renders results as an ASCII table.
type TableFormatter struct{}

// FormatResult renders a single verification result as a table followed by
// its detail sections.
func (f *TableFormatter) FormatResult(result *core.VerificationResult) (string, error) {
	if result == nil {
		return "", nil
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Verdict", "Score", "Type", "Language", "Submitted"})
	t.AppendRow(table.Row{
		core.StatusLabel(result.Status),
		scoreSummary(result.CredibilityScore),
		string(result.ContentType),
		result.Language,
		submittedAgo(result.Timestamp),
	})

	rendered := t.Render()
	rendered += renderResultSections(resultSections(result), false)
	return rendered, nil
}

// FormatHistory renders a result list as a table, one row per result.
func (f *TableFormatter) FormatHistory(results []core.VerificationResult) (string, error) {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"ID", "Submitted", "Content", "Verdict", "Score"})

	for _, result := range results {
		t.AppendRow(table.Row{
			result.ID,
			submittedAgo(result.Timestamp),
			truncateContent(result.Content, historyContentWidth),
			core.StatusLabel(result.Status),
			core.ClampScore(result.CredibilityScore),
		})
	}

	if len(results) > 0 {
		// Footers are uppercased by default; keep the count as written.
		t.Style().Format.Footer = text.FormatDefault
		t.AppendFooter(table.Row{"", "", fmt.Sprintf("%d results", len(results)), "", ""})
	}

	return t.Render(), nil
}
