package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// editor is a plain-text code surface. Text is kept as runes so the cursor
// is a rune offset, the same unit the workflow uses for tab insertion.
type editor struct {
	buf    []rune
	cursor int

	// goal column kept while moving vertically
	goal int

	top    int // first visible line
	left   int // first visible display column
	width  int
	height int
}

func newEditor() editor {
	return editor{goal: -1}
}

// SetText replaces the content and moves the cursor to the start.
func (e *editor) SetText(text string) {
	e.buf = []rune(text)
	e.cursor = 0
	e.top, e.left, e.goal = 0, 0, -1
}

// Text returns the content.
func (e *editor) Text() string {
	return string(e.buf)
}

// Cursor returns the cursor rune offset.
func (e *editor) Cursor() int {
	return e.cursor
}

// SetCursor moves the cursor, clamped to the content.
func (e *editor) SetCursor(pos int) {
	e.cursor = min(max(pos, 0), len(e.buf))
	e.goal = -1
	e.scrollToCursor()
}

// SetSize sets the visible area in cells.
func (e *editor) SetSize(width, height int) {
	e.width = max(width, 1)
	e.height = max(height, 1)
	e.scrollToCursor()
}

// HandleKey applies an editing key and reports whether the text changed.
// Tab is not handled here; the caller routes it through the workflow.
func (e *editor) HandleKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyRunes:
		return e.Insert(string(msg.Runes))
	case tea.KeySpace:
		return e.Insert(" ")
	case tea.KeyEnter:
		return e.Insert("\n")
	case tea.KeyBackspace:
		return e.backspace()
	case tea.KeyDelete, tea.KeyCtrlD:
		return e.deleteForward()
	case tea.KeyLeft:
		e.SetCursor(e.cursor - 1)
	case tea.KeyRight:
		e.SetCursor(e.cursor + 1)
	case tea.KeyUp:
		e.moveLines(-1)
	case tea.KeyDown:
		e.moveLines(1)
	case tea.KeyPgUp:
		e.moveLines(-e.height)
	case tea.KeyPgDown:
		e.moveLines(e.height)
	case tea.KeyHome, tea.KeyCtrlA:
		line, _ := e.lineCol()
		e.SetCursor(e.offsetAt(line, 0))
	case tea.KeyEnd, tea.KeyCtrlE:
		line, _ := e.lineCol()
		e.SetCursor(e.offsetAt(line, len(e.lines()[line])))
	case tea.KeyCtrlHome:
		e.SetCursor(0)
	case tea.KeyCtrlEnd:
		e.SetCursor(len(e.buf))
	}
	return false
}

// Insert types text at the cursor. Carriage returns are normalized and
// other control characters dropped.
func (e *editor) Insert(text string) bool {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	runes := make([]rune, 0, len(text))
	for _, r := range text {
		if r == '\n' || r == '\t' || (r >= 0x20 && r != 0x7f) {
			runes = append(runes, r)
		}
	}
	if len(runes) == 0 {
		return false
	}
	out := make([]rune, 0, len(e.buf)+len(runes))
	out = append(out, e.buf[:e.cursor]...)
	out = append(out, runes...)
	out = append(out, e.buf[e.cursor:]...)
	e.buf = out
	e.SetCursor(e.cursor + len(runes))
	return true
}

func (e *editor) backspace() bool {
	if e.cursor == 0 {
		return false
	}
	e.buf = append(e.buf[:e.cursor-1], e.buf[e.cursor:]...)
	e.SetCursor(e.cursor - 1)
	return true
}

func (e *editor) deleteForward() bool {
	if e.cursor >= len(e.buf) {
		return false
	}
	e.buf = append(e.buf[:e.cursor], e.buf[e.cursor+1:]...)
	e.scrollToCursor()
	return true
}

func (e *editor) moveLines(delta int) {
	line, col := e.lineCol()
	if e.goal < 0 {
		e.goal = col
	}
	lines := e.lines()
	target := min(max(line+delta, 0), len(lines)-1)
	goal := e.goal
	e.cursor = e.offsetAt(target, min(goal, len(lines[target])))
	e.goal = goal
	e.scrollToCursor()
}

func (e *editor) lines() [][]rune {
	out := [][]rune{{}}
	for _, r := range e.buf {
		if r == '\n' {
			out = append(out, []rune{})
			continue
		}
		out[len(out)-1] = append(out[len(out)-1], r)
	}
	return out
}

// lineCol returns the cursor line and rune column.
func (e *editor) lineCol() (int, int) {
	line, col := 0, 0
	for _, r := range e.buf[:e.cursor] {
		if r == '\n' {
			line++
			col = 0
			continue
		}
		col++
	}
	return line, col
}

func (e *editor) offsetAt(line, col int) int {
	offset := 0
	for i, l := range e.lines() {
		if i == line {
			return offset + min(col, len(l))
		}
		offset += len(l) + 1
	}
	return len(e.buf)
}

func (e *editor) scrollToCursor() {
	if e.height <= 0 {
		return
	}
	line, col := e.lineCol()
	if line < e.top {
		e.top = line
	}
	if line >= e.top+e.height {
		e.top = line - e.height + 1
	}

	x := displayWidth(e.lines()[line][:col])
	if x < e.left {
		e.left = x
	}
	if x >= e.left+e.width {
		e.left = x - e.width + 1
	}
}

// View renders the visible window. The cursor is drawn only when editing.
func (e *editor) View(styles Styles, editing bool) string {
	lines := e.lines()
	curLine, curCol := e.lineCol()

	rows := make([]string, 0, e.height)
	for i := e.top; i < len(lines) && i < e.top+e.height; i++ {
		if editing && i == curLine {
			rows = append(rows, e.renderCursorLine(lines[i], curCol, styles))
			continue
		}
		rows = append(rows, styles.Text.Render(clipColumns(expandTabs(string(lines[i]), TabWidth), e.left, e.width)))
	}
	return strings.Join(rows, "\n")
}

func (e *editor) renderCursorLine(line []rune, col int, styles Styles) string {
	before := expandTabs(string(line[:col]), TabWidth)
	under := " "
	rest := ""
	if col < len(line) {
		if line[col] == '\t' {
			// Expand relative to the text before it.
			under = strings.Repeat(" ", TabWidth-len([]rune(before))%TabWidth)
		} else {
			under = string(line[col])
		}
		full := expandTabs(string(line), TabWidth)
		rest = string([]rune(full)[len([]rune(before))+len([]rune(under)):])
	}

	beforeVis := clipColumns(before, e.left, e.width)
	remaining := e.width - len([]rune(beforeVis))
	if remaining <= 0 {
		return styles.Text.Render(beforeVis)
	}
	cursor := styles.Cursor.Render(string([]rune(under)[:1])) + strings.Repeat(" ", max(len([]rune(under))-1, 0))
	tail := clipColumns(rest, 0, remaining-len([]rune(under)))
	return styles.Text.Render(beforeVis) + cursor + styles.Text.Render(tail)
}

// clipColumns returns the part of s visible from column left with the given
// width. s must already have tabs expanded.
func clipColumns(s string, left, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if left >= len(runes) {
		return ""
	}
	runes = runes[left:]
	if len(runes) > width {
		runes = runes[:width]
	}
	return string(runes)
}

// displayWidth counts columns with tabs expanded. Every other rune is one
// column wide.
func displayWidth(runes []rune) int {
	return len([]rune(expandTabs(string(runes), TabWidth)))
}
