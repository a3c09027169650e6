package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/codelens/internal/report"
	"github.com/five82/codelens/internal/workflow"
)

// renderResults draws the analysis pane: a loading placeholder while a
// request is out, an empty placeholder without a result, otherwise the
// readability and bug sections.
func renderResults(snap workflow.Snapshot, styles Styles, width int) string {
	width = max(width, 10)

	if snap.Analyzing {
		bar := styles.FaintText.Render(strings.Repeat("▒", width))
		return strings.Join([]string{
			styles.MutedText.Render(report.LoadingText),
			"",
			bar,
			bar,
			"",
			bar,
			bar,
		}, "\n")
	}

	if snap.Result == nil {
		return lipgloss.NewStyle().Width(width).Render(styles.MutedText.Render("? " + report.EmptyText))
	}

	v := report.Explain(*snap.Result)
	wrap := lipgloss.NewStyle().Width(width)

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Code Readability"))
	b.WriteString(" ")
	b.WriteString(verdictIcon(v.Readable, styles))
	b.WriteString("\n")
	b.WriteString(wrap.Render(styles.Text.Render(v.Readability)))
	b.WriteString("\n\n")

	b.WriteString(styles.Text.Bold(true).Render("Potential Bug Type"))
	b.WriteString(" ")
	b.WriteString(verdictIcon(!v.HasBug, styles))
	b.WriteString("\n")
	headline := styles.Text.Bold(true)
	if v.HasBug {
		headline = styles.WarningText.Bold(true)
	}
	b.WriteString(wrap.Render(headline.Render(v.BugHeadline)))
	if v.Guidance != "" {
		b.WriteString("\n")
		b.WriteString(wrap.Render(styles.MutedText.Render(v.Guidance)))
	}
	return b.String()
}

func verdictIcon(ok bool, styles Styles) string {
	if ok {
		return styles.SuccessText.Render("✓")
	}
	return styles.WarningText.Render("⚠")
}
