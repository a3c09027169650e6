package ui

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/codelens/internal/analyzer"
	"github.com/five82/codelens/internal/config"
	"github.com/five82/codelens/internal/health"
	"github.com/five82/codelens/internal/imagefile"
	"github.com/five82/codelens/internal/prefs"
	"github.com/five82/codelens/internal/report"
	"github.com/five82/codelens/internal/workflow"
)

// pane identifies a focusable region.
type pane int

const (
	paneImage pane = iota
	paneEditor
	paneResults
	paneCount
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Service   analyzer.Service
	Workflow  *workflow.Workflow
	Config    *config.Config
	ThemeName string
	PrefsPath string
	// LastDir is where the file browser opens; Config.StartDir otherwise.
	LastDir string
	// InitialImage is selected on startup when set.
	InitialImage string
	// Clipboard replaces the system clipboard writer.
	Clipboard func(string) error
	// SkipProbe disables the startup availability probe.
	SkipProbe bool
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	svc       analyzer.Service
	flow      *workflow.Workflow
	config    config.Config
	prefsPath string
	clipboard func(string) error
	keys      keyMap
	lastDir   string
	initImage string
	skipProbe bool

	// UI state
	theme   Theme
	width   int
	height  int
	ready   bool
	focused pane
	editing bool

	// Panes
	editor   editor
	spinner  spinner.Model
	resultVP viewport.Model

	// Service availability
	health  health.Report
	probeID int

	// Transient messages
	notice     string
	noticeBad  bool
	noticeID   int
	copied     bool
	toastID    int
	lastReport string

	// Overlays
	showHelp bool
	showLogs bool
	logVP    viewport.Model
	modal    Modal
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	cfg := config.Defaults()
	if opts.Config != nil {
		cfg = *opts.Config
	}

	flow := opts.Workflow
	if flow == nil {
		flow = workflow.New()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Nightfox"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	write := opts.Clipboard
	if write == nil {
		write = clipboard.WriteAll
	}

	lastDir := opts.LastDir
	if lastDir == "" {
		lastDir = cfg.StartDir
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:       ctx,
		svc:       opts.Service,
		flow:      flow,
		config:    cfg,
		prefsPath: prefsPath,
		clipboard: write,
		keys:      DefaultKeyMap(),
		lastDir:   lastDir,
		initImage: opts.InitialImage,
		skipProbe: opts.SkipProbe,
		theme:     GetTheme(themeName),
		focused:   paneImage,
		editor:    newEditor(),
		spinner:   sp,
		resultVP:  viewport.New(0, 0),
		logVP:     viewport.New(0, 0),
		health:    health.Report{Status: health.Checking},
		probeID:   1,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if !m.skipProbe {
		cmds = append(cmds, probeCmd(m.ctx, m.svc, m.config.ProbeTimeout, m.probeID))
	}
	if m.initImage != "" {
		cmds = append(cmds, selectImageCmd(m.flow, m.initImage))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// An open modal sees every message first.
	if m.modal != nil {
		if _, isKey := msg.(tea.KeyMsg); isKey || !isAppMsg(msg) {
			return m.updateModal(msg)
		}
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case probeMsg:
		// Only the latest probe may set the status.
		if msg.id == m.probeID {
			m.health = msg.report
		}
		return m, nil

	case pickedMsg:
		m.lastDir = dirOf(msg.path)
		return m, tea.Batch(
			selectImageCmd(m.flow, msg.path),
			rememberDirCmd(m.prefsPath, msg.path),
		)

	case imageSelectedMsg:
		if msg.err != nil {
			return m.withNotice(describeError(msg.err), true)
		}
		m.editing = false
		m.focused = paneImage
		m.editor.SetText(m.flow.Code())
		m.refreshResults()
		return m.withNotice("Selected "+baseName(msg.path)+". Press x to extract code.", false)

	case extractDoneMsg:
		applied := m.flow.CompleteExtract(msg.req, msg.text, msg.err)
		if applied && msg.err == nil {
			m.editor.SetText(m.flow.Code())
			m.focused = paneEditor
		}
		m.refreshResults()
		return m, nil

	case analyzeDoneMsg:
		m.flow.CompleteAnalyze(msg.req, msg.result, msg.err)
		m.refreshResults()
		if m.flow.Snapshot().HasResult() {
			m.focused = paneResults
		}
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			return m.withNotice("Copy failed: "+msg.err.Error(), true)
		}
		m.copied = true
		m.toastID++
		return m, toastExpireCmd(m.toastID, CopiedToastDuration)

	case toastExpiredMsg:
		if msg.id == m.toastID {
			m.copied = false
		}
		return m, nil

	case noticeExpiredMsg:
		if msg.id == m.noticeID {
			m.notice = ""
		}
		return m, nil

	case reportSavedMsg:
		if msg.err != nil {
			return m.withNotice(describeError(msg.err), true)
		}
		m.lastReport = msg.path
		return m.withNotice("Report written to "+truncateMiddle(msg.path, 60), false)

	case logLoadedMsg:
		if msg.err != nil {
			m.logVP.SetContent(m.theme.Styles().DangerText.Render(msg.err.Error()))
			return m, nil
		}
		if len(msg.lines) == 0 {
			m.logVP.SetContent(m.theme.Styles().MutedText.Render("Log is empty: " + msg.path))
			return m, nil
		}
		m.logVP.SetContent(strings.Join(msg.lines, "\n"))
		m.logVP.GotoBottom()
		return m, nil

	case prefsSavedMsg:
		return m, nil
	}

	return m, nil
}

// isAppMsg reports whether msg belongs to the main model rather than a modal.
func isAppMsg(msg tea.Msg) bool {
	switch msg.(type) {
	case probeMsg, imageSelectedMsg, extractDoneMsg, analyzeDoneMsg,
		copiedMsg, toastExpiredMsg, noticeExpiredMsg, reportSavedMsg,
		logLoadedMsg, prefsSavedMsg, pickedMsg, spinner.TickMsg:
		return true
	}
	return false
}

func (m Model) updateModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.height = size.Height
		m.layout()
	}
	modal, cmd, closed := m.modal.Update(msg, m.keys)
	if closed {
		m.modal = nil
	} else {
		m.modal = modal
	}
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.showLogs {
		return m.renderLogs()
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}
	if m.showLogs {
		return m.handleLogsKey(msg)
	}
	if m.editing {
		return m.handleEditorKey(msg)
	}

	// A terminal delivers a dropped file as a bracketed paste of its path.
	if msg.Paste {
		return m.handleDrop(string(msg.Runes))
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		name := m.theme.Name
		return m, savePrefsCmd(m.prefsPath, func(p *prefs.Prefs) { p.Theme = name })

	case key.Matches(msg, m.keys.FocusNext):
		m.focused = (m.focused + 1) % paneCount
		return m, nil

	case key.Matches(msg, m.keys.FocusPrev):
		m.focused = (m.focused + paneCount - 1) % paneCount
		return m, nil

	case key.Matches(msg, m.keys.Logs):
		m.showLogs = true
		m.logVP.SetContent(m.theme.Styles().MutedText.Render("Loading log..."))
		return m, loadLogCmd(m.config.LogFile)

	case key.Matches(msg, m.keys.Browse):
		m.modal = newPickerModal(m.lastDir, m.theme, m.width, m.height)
		return m, m.modal.Init()

	case key.Matches(msg, m.keys.Extract):
		return m.startExtract()

	case key.Matches(msg, m.keys.Edit):
		if code := m.flow.Code(); code != m.editor.Text() {
			m.editor.SetText(code)
		}
		m.editing = true
		m.focused = paneEditor
		return m, nil

	case key.Matches(msg, m.keys.Analyze):
		return m.startAnalyze()

	case key.Matches(msg, m.keys.Copy):
		return m.copyCode()

	case key.Matches(msg, m.keys.ClearImage):
		m.flow.SelectImage(nil)
		m.editor.SetText("")
		m.focused = paneImage
		m.refreshResults()
		return m, nil

	case key.Matches(msg, m.keys.Probe):
		m.probeID++
		m.health = health.Report{Status: health.Checking}
		return m, probeCmd(m.ctx, m.svc, m.config.ProbeTimeout, m.probeID)

	case key.Matches(msg, m.keys.Report):
		return m.writeReport()
	}

	return m.handleScrollKey(msg)
}

// handleEditorKey handles keys while the editor has input focus.
func (m Model) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit

	case key.Matches(msg, m.keys.LeaveEditor):
		m.editing = false
		return m, nil

	case key.Matches(msg, m.keys.InsertTab):
		cursor := m.flow.InsertTab(m.editor.Cursor())
		m.editor.SetText(m.flow.Code())
		m.editor.SetCursor(cursor)
		m.refreshResults()
		return m, nil

	case msg.Type == tea.KeyCtrlY:
		return m.copyCode()
	}

	if m.editor.HandleKey(msg) {
		m.flow.EditCode(m.editor.Text())
		m.refreshResults()
	}
	return m, nil
}

// handleScrollKey scrolls the focused pane.
func (m Model) handleScrollKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.focused {
	case paneResults:
		var cmd tea.Cmd
		m.resultVP, cmd = m.resultVP.Update(msg)
		return m, cmd
	case paneEditor:
		switch {
		case key.Matches(msg, m.keys.Up):
			m.editor.HandleKey(tea.KeyMsg{Type: tea.KeyUp})
		case key.Matches(msg, m.keys.Down):
			m.editor.HandleKey(tea.KeyMsg{Type: tea.KeyDown})
		case key.Matches(msg, m.keys.PageUp):
			m.editor.HandleKey(tea.KeyMsg{Type: tea.KeyPgUp})
		case key.Matches(msg, m.keys.PageDown):
			m.editor.HandleKey(tea.KeyMsg{Type: tea.KeyPgDown})
		case key.Matches(msg, m.keys.Top):
			m.editor.SetCursor(0)
		case key.Matches(msg, m.keys.Bottom):
			m.editor.SetCursor(len([]rune(m.editor.Text())))
		}
	}
	return m, nil
}

func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "L":
		m.showLogs = false
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.logVP, cmd = m.logVP.Update(msg)
	return m, cmd
}

// handleDrop treats pasted text as a dropped file.
func (m Model) handleDrop(text string) (tea.Model, tea.Cmd) {
	path, ok := imagefile.PathFromDrop(text)
	if !ok {
		return m.withNotice("Dropped text is not a file path. Press enter to edit code.", true)
	}
	if !imagefile.Supported(path) {
		return m.withNotice(baseName(path)+" is not a supported image ("+strings.Join(imagefile.Extensions(), " ")+")", true)
	}
	m.lastDir = dirOf(path)
	return m, selectImageCmd(m.flow, path)
}

func (m Model) startExtract() (tea.Model, tea.Cmd) {
	req, err := m.flow.BeginExtract()
	if err != nil {
		return m.withNotice(describeError(err), true)
	}
	m.refreshResults()
	return m, tea.Batch(extractCmd(m.ctx, m.svc, req), m.spinner.Tick)
}

func (m Model) startAnalyze() (tea.Model, tea.Cmd) {
	req, err := m.flow.BeginAnalyze()
	if err != nil {
		return m.withNotice(describeError(err), true)
	}
	m.focused = paneResults
	m.refreshResults()
	return m, tea.Batch(analyzeCmd(m.ctx, m.svc, req), m.spinner.Tick)
}

func (m Model) copyCode() (tea.Model, tea.Cmd) {
	code := m.flow.Code()
	if code == "" {
		return m.withNotice("Nothing to copy", true)
	}
	return m, copyCmd(m.clipboard, code)
}

func (m Model) writeReport() (tea.Model, tea.Cmd) {
	snap := m.flow.Snapshot()
	if snap.Code == "" && snap.Result == nil {
		return m.withNotice("Nothing to report yet", true)
	}
	return m, saveReportCmd(m.config.ReportDir, report.FromSnapshot(snap, time.Now()))
}

// withNotice shows a transient message in the header.
func (m Model) withNotice(text string, bad bool) (tea.Model, tea.Cmd) {
	cmd := m.setNotice(text, bad)
	return m, cmd
}

// setNotice sets the header message and schedules its expiry.
func (m *Model) setNotice(text string, bad bool) tea.Cmd {
	m.notice = text
	m.noticeBad = bad
	m.noticeID++
	return noticeExpireCmd(m.noticeID, NoticeDuration)
}

func (m Model) busy() bool {
	snap := m.flow.Snapshot()
	return snap.Extracting || snap.Analyzing
}

// refreshResults re-renders the results pane content.
func (m *Model) refreshResults() {
	snap := m.flow.Snapshot()
	m.resultVP.SetContent(renderResults(snap, m.theme.Styles(), m.resultVP.Width))
}

// describeError turns a failure into a short header message.
func describeError(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, workflow.ErrNoImage):
		return "Select an image first (o to browse, or drop a file)"
	case errors.Is(err, workflow.ErrExtracting):
		return "Extraction in progress"
	case errors.Is(err, workflow.ErrAnalyzing):
		return "Analysis in progress"
	case errors.Is(err, workflow.ErrNoCode):
		return "Nothing to analyze: extract or type some code first"
	case errors.Is(err, workflow.ErrAlreadyAnalyzed):
		return "Already analyzed: edit the code to analyze again"
	case errors.Is(err, imagefile.ErrUnsupported):
		return "Unsupported file: choose a " + strings.Join(imagefile.Extensions(), ", ") + " image"
	}

	var apiErr *analyzer.Error
	if errors.As(err, &apiErr) {
		action := "Request"
		switch apiErr.Op {
		case "extract":
			action = "Extraction"
		case "analyze":
			action = "Analysis"
		case "health":
			action = "Health check"
		}
		switch apiErr.Kind {
		case analyzer.KindNetwork:
			return action + " failed: service unreachable"
		case analyzer.KindHTTP:
			msg := action + " failed: HTTP " + strconv.Itoa(apiErr.Status)
			if apiErr.Detail != "" {
				msg += " (" + apiErr.Detail + ")"
			}
			return msg
		case analyzer.KindMalformed:
			return action + " failed: unexpected response from service"
		}
	}
	return err.Error()
}

func baseName(path string) string {
	return filepath.Base(path)
}

func dirOf(path string) string {
	return filepath.Dir(path)
}
