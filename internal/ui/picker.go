package ui

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/codelens/internal/imagefile"
)

// pickedMsg reports the file chosen in the picker.
type pickedMsg struct {
	path string
}

// pickerModal browses the filesystem for a supported image.
type pickerModal struct {
	fp  filepicker.Model
	err string
}

func newPickerModal(dir string, theme Theme, width, height int) *pickerModal {
	fp := filepicker.New()
	fp.AllowedTypes = allowedTypes()
	fp.CurrentDirectory = pickerStartDir(dir)
	fp.AutoHeight = true
	fp.ShowPermissions = false
	fp.ShowSize = true
	fp.Styles.Cursor = fp.Styles.Cursor.Foreground(lipgloss.Color(theme.Accent))
	fp.Styles.Selected = fp.Styles.Selected.Foreground(lipgloss.Color(theme.Accent)).Bold(true)
	fp.Styles.Directory = fp.Styles.Directory.Foreground(lipgloss.Color(theme.Info))
	fp.Styles.File = fp.Styles.File.Foreground(lipgloss.Color(theme.Text))
	fp.Styles.DisabledFile = fp.Styles.DisabledFile.Foreground(lipgloss.Color(theme.Faint))

	// The picker sizes itself from window messages.
	fp, _ = fp.Update(tea.WindowSizeMsg{Width: width, Height: pickerHeight(height)})
	return &pickerModal{fp: fp}
}

// allowedTypes lists the image extensions in both cases; the picker matches
// suffixes exactly.
func allowedTypes() []string {
	var out []string
	for _, ext := range imagefile.Extensions() {
		out = append(out, ext, strings.ToUpper(ext))
	}
	return out
}

func pickerStartDir(dir string) string {
	if dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// pickerHeight leaves room for the modal frame and title.
func pickerHeight(height int) int {
	return max(height-6, 4)
}

func (p *pickerModal) Init() tea.Cmd {
	return p.fp.Init()
}

func (p *pickerModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q", "ctrl+c":
			return p, nil, true
		}
	case tea.WindowSizeMsg:
		msg.Height = pickerHeight(msg.Height)
		var cmd tea.Cmd
		p.fp, cmd = p.fp.Update(msg)
		return p, cmd, false
	}

	var cmd tea.Cmd
	p.fp, cmd = p.fp.Update(msg)

	if ok, path := p.fp.DidSelectFile(msg); ok {
		return p, func() tea.Msg { return pickedMsg{path: path} }, true
	}
	if ok, path := p.fp.DidSelectDisabledFile(msg); ok {
		p.err = filepath.Base(path) + " is not a supported image (" + strings.Join(imagefile.Extensions(), " ") + ")"
		return p, cmd, false
	}
	if _, isKey := msg.(tea.KeyMsg); isKey {
		p.err = ""
	}
	return p, cmd, false
}

func (p *pickerModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Select an image"))
	b.WriteString("  ")
	b.WriteString(styles.MutedText.Render(truncateMiddle(p.fp.CurrentDirectory, max(width-30, 10))))
	b.WriteString("\n")
	b.WriteString(p.fp.View())
	b.WriteString("\n")
	if p.err != "" {
		b.WriteString(styles.DangerText.Render(p.err))
	} else {
		b.WriteString(styles.FaintText.Render("enter: select  h/←: up  esc: cancel"))
	}

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Accent)).
		Padding(0, 1).
		Width(max(width-4, 20))

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}
