package pipeline

import (
	"regexp"
	"strings"
)

// InsightsHeader starts every insights block, even an empty one.
const InsightsHeader = "**Key Insights & Action Items:**\n\n"

// maxInsights caps the bullet list.
const maxInsights = 5

var reBulletMarker = regexp.MustCompile(`^[-•*]\s*`)

// ExtractInsights derives a short action-item list from summary text.
// Markup lines (bold or heading markers) and short fragments are skipped,
// a single leading bullet marker is stripped, and at most maxInsights
// lines survive in their original order. It never fails; the worst case
// is the bare header.
func ExtractInsights(summary string) string {
	var insights []string

	for _, line := range strings.Split(summary, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "**") || strings.HasPrefix(line, "#") {
			continue
		}
		clean := reBulletMarker.ReplaceAllString(line, "")
		// Length is measured in characters, matching the chunker.
		if len([]rune(clean)) > 10 {
			insights = append(insights, clean)
		}
	}

	var b strings.Builder
	b.WriteString(InsightsHeader)
	for i, insight := range insights {
		if i == maxInsights {
			break
		}
		b.WriteString("• ")
		b.WriteString(insight)
		b.WriteString("\n")
	}
	return b.String()
}
