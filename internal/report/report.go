package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/five82/codelens/internal/analyzer"
	"github.com/five82/codelens/internal/workflow"
)

// Format selects a report rendering.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// ParseFormat accepts text, json, markdown and md.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown format %q (want text, json or markdown)", s)
	}
}

// Report is a finished (or failed) workflow run.
type Report struct {
	Image       string
	ImagePath   string
	ImageSize   int64
	Dimensions  string
	Code        string
	Result      *analyzer.Analysis
	Error       string
	GeneratedAt time.Time
}

// FromSnapshot captures the workflow state at now.
func FromSnapshot(snap workflow.Snapshot, now time.Time) Report {
	r := Report{
		Code:        snap.Code,
		GeneratedAt: now,
	}
	if snap.Image != nil {
		r.Image = snap.Image.Name
		r.ImagePath = snap.Image.Path
		r.ImageSize = snap.Image.Size()
	}
	if snap.Preview != nil {
		r.Dimensions = snap.Preview.Dimensions()
	}
	if snap.Result != nil {
		res := *snap.Result
		r.Result = &res
	}
	if snap.LastError != nil {
		r.Error = snap.LastError.Error()
	}
	return r
}

// Writer renders reports in one format.
type Writer interface {
	Write(r Report) error
}

// NewWriter returns the writer for format.
func NewWriter(out io.Writer, format Format) (Writer, error) {
	switch format {
	case FormatText:
		return NewTextWriter(out), nil
	case FormatJSON:
		return NewJSONWriter(out), nil
	case FormatMarkdown:
		return NewMarkdownWriter(out), nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

// Save writes r as Markdown into dir and returns the file path.
func Save(dir string, r Report) (string, error) {
	if strings.TrimSpace(dir) == "" {
		return "", fmt.Errorf("report dir is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	path := filepath.Join(dir, FileName(r))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report: %w", err)
	}
	if err := NewMarkdownWriter(file).Write(r); err != nil {
		_ = file.Close()
		return "", fmt.Errorf("write report: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close report: %w", err)
	}
	return path, nil
}

// FileName builds "<image>-<timestamp>.md"; "code" stands in when no image
// was used.
func FileName(r Report) string {
	base := "code"
	if r.Image != "" {
		base = strings.TrimSuffix(r.Image, filepath.Ext(r.Image))
	}
	base = strings.Map(func(r rune) rune {
		switch {
		case r == ' ', r == '/', r == '\\', r == ':':
			return '_'
		default:
			return r
		}
	}, base)
	stamp := r.GeneratedAt
	if stamp.IsZero() {
		stamp = time.Now()
	}
	return fmt.Sprintf("%s-%s.md", base, stamp.Format("20060102-150405"))
}
