package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/five82/codelens/internal/imagefile"
	"github.com/five82/codelens/internal/workflow"
)

// paneRects holds the outer size of every pane.
type paneRects struct {
	stacked          bool
	imageW, imageH   int
	editorW, editorH int
	resultW, resultH int
}

// Panel frame: one border cell per side plus one padding column per side.
const (
	frameW = 4
	frameH = 2
)

func (m Model) panes() paneRects {
	body := max(m.height-2, LayoutMinHeight) // header + command bar
	resultH := min(max(body/3, 6), 12)

	if m.width < LayoutCompactWidth {
		imageH := min(7, body/4+2)
		return paneRects{
			stacked: true,
			imageW:  m.width, imageH: imageH,
			editorW: m.width, editorH: max(body-imageH-resultH, 4),
			resultW: m.width, resultH: resultH,
		}
	}

	imageW := min(imagefile.DefaultPreviewCols+frameW, m.width/2)
	rightW := m.width - imageW
	return paneRects{
		imageW: imageW, imageH: body,
		editorW: rightW, editorH: max(body-resultH, 4),
		resultW: rightW, resultH: resultH,
	}
}

// layout sizes the editor and viewports after a resize.
func (m *Model) layout() {
	r := m.panes()
	m.editor.SetSize(r.editorW-frameW, r.editorH-frameH-1)
	m.resultVP.Width = r.resultW - frameW
	m.resultVP.Height = max(r.resultH-frameH-1, 1)
	m.logVP.Width = max(m.width-frameW, 10)
	m.logVP.Height = max(m.height-frameH-2, 3)
	m.refreshResults()
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderBody())
	return b.String()
}

func (m Model) renderBody() string {
	r := m.panes()
	snap := m.flow.Snapshot()

	image := m.renderPanel("Image", m.renderImagePane(snap, r), r.imageW, r.imageH, m.focused == paneImage)
	code := m.renderPanel(m.editorTitle(), m.renderEditorPane(snap), r.editorW, r.editorH, m.focused == paneEditor)
	results := m.renderPanel("Analysis", m.resultVP.View(), r.resultW, r.resultH, m.focused == paneResults)

	if r.stacked {
		return lipgloss.JoinVertical(lipgloss.Left, image, code, results)
	}
	right := lipgloss.JoinVertical(lipgloss.Left, code, results)
	return lipgloss.JoinHorizontal(lipgloss.Top, image, right)
}

// renderPanel frames content with a title line, clipped to w x h.
func (m Model) renderPanel(title, content string, w, h int, focused bool) string {
	styles := m.theme.Styles()
	frame := styles.Panel
	titleStyle := styles.MutedText.Bold(true)
	if focused {
		frame = styles.PanelFocused
		titleStyle = styles.AccentText.Bold(true)
	}

	innerH := max(h-frameH, 1)
	body := titleStyle.Render(title) + "\n" + content
	lines := strings.Split(body, "\n")
	if len(lines) > innerH {
		lines = lines[:innerH]
	}
	return frame.
		Width(max(w-2, 1)).
		Height(innerH).
		MaxHeight(h).
		Render(strings.Join(lines, "\n"))
}

func (m Model) editorTitle() string {
	title := "Code"
	if m.editing {
		title += " (editing)"
	}
	if m.copied {
		title += "  Copied!"
	}
	return title
}

func (m Model) renderImagePane(snap workflow.Snapshot, r paneRects) string {
	styles := m.theme.Styles()
	innerW := max(r.imageW-frameW, 1)

	if snap.Image == nil {
		lines := []string{
			styles.Text.Render("No image selected."),
			"",
			styles.MutedText.Render("o      browse for an image"),
			styles.MutedText.Render("drop   drag a file onto the terminal"),
			"",
			styles.FaintText.Render("Accepted: " + strings.Join(imagefile.Extensions(), " ")),
		}
		return lipgloss.NewStyle().Width(innerW).Render(strings.Join(lines, "\n"))
	}

	var parts []string
	if !r.stacked {
		if cols, rows := snap.Preview.ThumbSize(); cols > 0 && cols <= innerW && rows <= r.imageH-frameH-8 {
			parts = append(parts, snap.Preview.Render(), "")
		}
	}

	parts = append(parts, styles.Text.Bold(true).Render(truncateMiddle(snap.Image.Name, innerW)))
	info := humanize.Bytes(uint64(snap.Image.Size()))
	if snap.Preview != nil {
		if dims := snap.Preview.Dimensions(); dims != "" {
			info += "  " + dims
		}
		if snap.Preview.Format != "" {
			info += "  " + snap.Preview.Format
		}
	}
	parts = append(parts, styles.MutedText.Render(info))

	if snap.Preview != nil {
		if snap.Preview.Err != nil {
			parts = append(parts, styles.WarningText.Render(truncate("No preview: "+snap.Preview.Err.Error(), innerW)))
		}
		if !r.stacked {
			for _, tag := range snap.Preview.Metadata {
				parts = append(parts, styles.FaintText.Render(truncate(fmt.Sprintf("%s: %s", tag.Name, tag.Value), innerW)))
			}
		}
	}

	switch {
	case snap.Extracting:
		parts = append(parts, "", styles.AccentText.Render(m.spinner.View()+" Extracting code..."))
	case snap.Code == "":
		parts = append(parts, "", styles.MutedText.Render("x  extract code from this image"))
	}
	return strings.Join(parts, "\n")
}

func (m Model) renderEditorPane(snap workflow.Snapshot) string {
	styles := m.theme.Styles()
	if snap.Code == "" && !m.editing {
		if snap.Extracting {
			return styles.MutedText.Render("Extracting code...")
		}
		return styles.FaintText.Render("Extracted code appears here. Press enter to type or paste code.")
	}
	return m.editor.View(styles, m.editing)
}

// renderLogs renders the log overlay.
func (m Model) renderLogs() string {
	styles := m.theme.Styles()
	title := styles.AccentText.Bold(true).Render("Log") + "  " +
		styles.MutedText.Render(truncateMiddle(m.config.LogFile, max(m.width-20, 10)))
	hint := styles.FaintText.Render("j/k scroll  esc close")

	frame := styles.PanelFocused.Width(max(m.width-2, 1))
	return frame.Render(title + "\n" + m.logVP.View() + "\n" + hint)
}
