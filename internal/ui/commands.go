package ui

import (
	"context"
	"errors"
	"log"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/codelens/internal/analyzer"
	"github.com/five82/codelens/internal/health"
	"github.com/five82/codelens/internal/imagefile"
	"github.com/five82/codelens/internal/logtail"
	"github.com/five82/codelens/internal/prefs"
	"github.com/five82/codelens/internal/report"
	"github.com/five82/codelens/internal/workflow"
)

// Messages

type probeMsg struct {
	id     int
	report health.Report
}

type imageSelectedMsg struct {
	path string
	err  error
}

type extractDoneMsg struct {
	req  workflow.Request
	text string
	err  error
}

type analyzeDoneMsg struct {
	req    workflow.Request
	result analyzer.Analysis
	err    error
}

type copiedMsg struct {
	err error
}

type toastExpiredMsg struct {
	id int
}

type noticeExpiredMsg struct {
	id int
}

type reportSavedMsg struct {
	path string
	err  error
}

type logLoadedMsg struct {
	path  string
	lines []string
	err   error
}

type prefsSavedMsg struct {
	err error
}

// Commands

func probeCmd(ctx context.Context, p health.Pinger, timeout time.Duration, id int) tea.Cmd {
	return func() tea.Msg {
		r := health.Check(ctx, p, timeout)
		if !r.Available() {
			log.Printf("service probe failed: %v", r.Err)
		}
		return probeMsg{id: id, report: r}
	}
}

// selectImageCmd loads path and starts a new workflow for it. Decoding the
// preview can take a moment, so it runs off the event loop.
func selectImageCmd(flow *workflow.Workflow, path string) tea.Cmd {
	return func() tea.Msg {
		img, err := imagefile.Load(path)
		if err != nil {
			log.Printf("select image %s failed: %v", path, err)
			return imageSelectedMsg{path: path, err: err}
		}
		flow.SelectImage(img)
		return imageSelectedMsg{path: img.Path}
	}
}

func extractCmd(ctx context.Context, svc workflow.Service, req workflow.Request) tea.Cmd {
	return func() tea.Msg {
		text, err := workflow.RunExtract(ctx, svc, req)
		return extractDoneMsg{req: req, text: text, err: err}
	}
}

func analyzeCmd(ctx context.Context, svc workflow.Service, req workflow.Request) tea.Cmd {
	return func() tea.Msg {
		result, err := workflow.RunAnalyze(ctx, svc, req)
		return analyzeDoneMsg{req: req, result: result, err: err}
	}
}

func copyCmd(write func(string) error, text string) tea.Cmd {
	return func() tea.Msg {
		err := write(text)
		if err != nil {
			log.Printf("copy to clipboard failed: %v", err)
		}
		return copiedMsg{err: err}
	}
}

func toastExpireCmd(id int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

func noticeExpireCmd(id int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return noticeExpiredMsg{id: id}
	})
}

func saveReportCmd(dir string, r report.Report) tea.Cmd {
	return func() tea.Msg {
		path, err := report.Save(dir, r)
		if err != nil {
			log.Printf("write report failed: %v", err)
		}
		return reportSavedMsg{path: path, err: err}
	}
}

func loadLogCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			return logLoadedMsg{err: errors.New("logging to file is disabled")}
		}
		lines, err := logtail.Read(path, LogOverlayLines)
		return logLoadedMsg{path: path, lines: lines, err: err}
	}
}

func savePrefsCmd(path string, fn func(*prefs.Prefs)) tea.Cmd {
	return func() tea.Msg {
		err := prefs.Update(path, fn)
		if err != nil {
			log.Printf("save prefs failed: %v", err)
		}
		return prefsSavedMsg{err: err}
	}
}

func rememberDirCmd(path, picked string) tea.Cmd {
	dir := filepath.Dir(picked)
	return savePrefsCmd(path, func(p *prefs.Prefs) { p.LastDir = dir })
}
