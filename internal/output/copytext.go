package output

import (
	"fmt"
	"strings"

	"github.com/factlens/factlens/internal/core"
)

// CopyText renders a result as plain shareable text, suitable for pasting
// into a chat or document.
func CopyText(result *core.VerificationResult) string {
	if result == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Verification Result\n")
	if content := strings.TrimSpace(result.Content); content != "" {
		sb.WriteString(fmt.Sprintf("Content: %s\n", content))
	}
	sb.WriteString(fmt.Sprintf("Verdict: %s\n", core.StatusLabel(result.Status)))
	sb.WriteString(fmt.Sprintf("Credibility Score: %s\n", scoreSummary(result.CredibilityScore)))

	if explanation := strings.TrimSpace(result.Explanation); explanation != "" {
		sb.WriteString(fmt.Sprintf("Explanation: %s\n", explanation))
	}

	if len(result.Sources) > 0 {
		sb.WriteString("Sources:\n")
		for _, line := range sourceLines(result.Sources) {
			sb.WriteString(fmt.Sprintf("- %s\n", line))
		}
	}

	if len(result.DetectedIssues) > 0 {
		sb.WriteString("Detected Issues:\n")
		for _, issue := range result.DetectedIssues {
			if issue = strings.TrimSpace(issue); issue != "" {
				sb.WriteString(fmt.Sprintf("- %s\n", issue))
			}
		}
	}

	return sb.String()
}
