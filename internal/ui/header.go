package ui

import (
	"strings"

	"github.com/five82/codelens/internal/health"
)

// serverHint tells the user how to bring the service up.
const serverHint = "start it with: python server.py"

// renderHeader renders the status bar: service availability, workflow state,
// and the error slot.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth
	snap := m.flow.Snapshot()

	parts := []string{bg.Render("codelens", styles.Logo)}

	switch m.health.Status {
	case health.Checking:
		parts = append(parts, bg.Render("● CHECKING", styles.WarningText.Bold(true)))
	case health.Available:
		parts = append(parts, bg.Render("● ONLINE", styles.SuccessText))
	default:
		offline := bg.Render("● OFFLINE", styles.DangerText)
		if !compact {
			offline += bg.Space() + bg.Render("r: check again, "+serverHint, styles.WarningText)
		}
		parts = append(parts, offline)
	}

	parts = append(parts, styles.StatusStyle(snap.State.String()).Render(snap.State.String()))

	if snap.Image != nil {
		limit := 40
		if compact {
			limit = 20
		}
		parts = append(parts, bg.Render(truncateMiddle(snap.Image.Name, limit), styles.Text))
	}

	if snap.Extracting || snap.Analyzing {
		label := "Extracting..."
		if snap.Analyzing {
			label = "Analyzing..."
		}
		parts = append(parts, bg.Render(m.spinner.View(), styles.AccentText)+bg.Space()+bg.Render(label, styles.AccentText))
	}

	// Error slot
	if snap.LastError != nil {
		maxErr := 70
		if compact {
			maxErr = 30
		}
		parts = append(parts,
			bg.Render("ERROR", styles.DangerText.Bold(true))+bg.Space()+
				bg.Render(truncate(describeError(snap.LastError), maxErr), styles.DangerText))
	}

	if m.notice != "" {
		style := styles.InfoText
		if m.noticeBad {
			style = styles.WarningText
		}
		parts = append(parts, bg.Render("!", style.Bold(true))+bg.Space()+bg.Render(truncate(m.notice, 70), style))
	}

	return styles.Header.Width(m.width).MaxHeight(1).Render(bg.Join(parts, "  "))
}

// renderCommandBar renders the context-dependent key hints.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	snap := m.flow.Snapshot()

	type cmd struct {
		key, desc string
		enabled   bool
	}
	var commands []cmd

	if m.editing {
		commands = []cmd{
			{"esc", "Done", true},
			{"tab", "Insert tab", true},
			{"ctrl+y", "Copy", snap.Code != ""},
			{"ctrl+c", "Quit", true},
		}
	} else {
		commands = []cmd{
			{"o", "Browse", true},
			{"x", "Extract", snap.CanExtract()},
			{"enter", "Edit", true},
			{"a", analyzeLabel(snap.Analyzing, snap.Analyzed), snap.CanAnalyze()},
			{"c", copyLabel(m.copied), snap.Code != ""},
			{"n", "Clear", snap.Image != nil || snap.Code != ""},
			{"w", "Report", snap.Code != "" || snap.Result != nil},
			{"r", "Recheck", true},
			{"?", "More", true},
		}
	}

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		keyStyle, descStyle := styles.AccentText, styles.MutedText
		if !c.enabled {
			keyStyle, descStyle = styles.FaintText, styles.FaintText
		}
		segments = append(segments, bg.Render(c.key, keyStyle)+colon+bg.Render(c.desc, descStyle))
	}

	// Theme indicator
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).MaxHeight(1).Render(strings.Join(segments, bg.Spaces(2)))
}

// analyzeLabel mirrors the analyze action's state.
func analyzeLabel(analyzing, analyzed bool) string {
	switch {
	case analyzing:
		return "Analyzing..."
	case analyzed:
		return "Analyzed"
	default:
		return "Analyze Code"
	}
}

func copyLabel(copied bool) string {
	if copied {
		return "Copied!"
	}
	return "Copy"
}
