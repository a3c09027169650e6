package workflow

import (
	"errors"
	"log"
	"sync"

	"github.com/five82/codelens/internal/analyzer"
	"github.com/five82/codelens/internal/imagefile"
)

// State is the workflow position derived from the owned fields.
type State int

const (
	StateIdle State = iota
	StateImageSelected
	StateExtracting
	StateCodeReady
	StateAnalyzing
	StateAnalyzed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateImageSelected:
		return "ImageSelected"
	case StateExtracting:
		return "Extracting"
	case StateCodeReady:
		return "CodeReady"
	case StateAnalyzing:
		return "Analyzing"
	case StateAnalyzed:
		return "Analyzed"
	default:
		return "Unknown"
	}
}

// Guard failures returned by BeginExtract and BeginAnalyze. No request is
// issued when one of these is returned.
var (
	ErrNoImage         = errors.New("no image selected")
	ErrExtracting      = errors.New("extraction already in progress")
	ErrAnalyzing       = errors.New("analysis already in progress")
	ErrNoCode          = errors.New("no code to analyze")
	ErrAlreadyAnalyzed = errors.New("code already analyzed")
)

// Request is the token for one in-flight call. Responses are applied only
// while the token still matches the workflow.
type Request struct {
	// Generation changes every time an image is selected.
	Generation uint64
	// Revision changes every time the code text changes.
	Revision uint64
	Image    *imagefile.Image
	Code     string
}

// Snapshot is a copy of the workflow for rendering.
type Snapshot struct {
	State      State
	Image      *imagefile.Image
	Preview    *imagefile.Preview
	Code       string
	Result     *analyzer.Analysis
	Extracting bool
	Analyzing  bool
	Analyzed   bool
	LastError  error
	Generation uint64
}

// HasResult reports whether an analysis result is stored.
func (s Snapshot) HasResult() bool {
	return s.Result != nil
}

// CanExtract mirrors the BeginExtract guard.
func (s Snapshot) CanExtract() bool {
	return s.Image != nil && !s.Extracting && !s.Analyzing
}

// CanAnalyze mirrors the BeginAnalyze guard.
func (s Snapshot) CanAnalyze() bool {
	return s.Code != "" && !s.Analyzing && !s.Analyzed && !s.Extracting
}

// Previewer builds the preview for a newly selected image.
type Previewer func(*imagefile.Image) *imagefile.Preview

// Option configures a Workflow.
type Option func(*Workflow)

// WithPreviewer replaces the default thumbnail builder.
func WithPreviewer(p Previewer) Option {
	return func(w *Workflow) {
		if p != nil {
			w.previewer = p
		}
	}
}

// WithLogf routes workflow logging. Defaults to log.Printf.
func WithLogf(logf func(format string, args ...any)) Option {
	return func(w *Workflow) {
		if logf != nil {
			w.logf = logf
		}
	}
}

// Workflow owns the upload, extract, edit, analyze state. All mutation goes
// through its methods.
type Workflow struct {
	mu sync.Mutex

	image   *imagefile.Image
	preview *imagefile.Preview
	code    string
	result  *analyzer.Analysis

	extracting bool
	analyzing  bool
	analyzed   bool

	generation uint64
	revision   uint64
	lastErr    error

	previewer Previewer
	logf      func(format string, args ...any)
}

// New returns an idle workflow.
func New(opts ...Option) *Workflow {
	w := &Workflow{
		previewer: func(img *imagefile.Image) *imagefile.Preview {
			return imagefile.NewPreview(img, imagefile.DefaultPreviewCols, imagefile.DefaultPreviewRows)
		},
		logf: log.Printf,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// SelectImage starts a new workflow for img, discarding all downstream state.
// A nil img returns to Idle. The preview is built before the lock is taken so
// readers are not held up by decoding.
func (w *Workflow) SelectImage(img *imagefile.Image) {
	var preview *imagefile.Preview
	if img != nil {
		preview = w.previewer(img)
		if preview == nil {
			preview = &imagefile.Preview{}
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.preview != nil {
		w.preview.Release()
	}
	w.generation++
	w.revision++
	w.image = img
	w.preview = preview
	w.code = ""
	w.result = nil
	w.analyzed = false
	w.extracting = false
	w.analyzing = false
	w.lastErr = nil
}

// BeginExtract marks an extraction as started and returns its token.
func (w *Workflow) BeginExtract() (Request, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch {
	case w.image == nil:
		return Request{}, ErrNoImage
	case w.extracting:
		return Request{}, ErrExtracting
	case w.analyzing:
		return Request{}, ErrAnalyzing
	}
	w.extracting = true
	w.lastErr = nil
	return Request{Generation: w.generation, Revision: w.revision, Image: w.image}, nil
}

// CompleteExtract applies an extraction response. It reports whether the
// response was applied; responses for a superseded image are dropped.
func (w *Workflow) CompleteExtract(req Request, text string, err error) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if req.Generation != w.generation {
		w.logf("discarding stale extraction response (generation %d, current %d)", req.Generation, w.generation)
		return false
	}
	w.extracting = false
	if err != nil {
		w.lastErr = err
		w.logf("extract code from %s failed: %v", imageName(req.Image), err)
		return true
	}
	w.setCodeLocked(text)
	return true
}

// EditCode stores text verbatim. A stored result no longer describes the
// text, so it is cleared.
func (w *Workflow) EditCode(text string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.setCodeLocked(text)
}

// InsertTab inserts a tab character at rune offset pos and returns the new
// cursor offset, pos+1. pos is clamped to the text.
func (w *Workflow) InsertTab(pos int) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	text, cursor := InsertTab(w.code, pos)
	w.setCodeLocked(text)
	return cursor
}

// InsertTab returns text with a tab at rune offset pos and the cursor after it.
func InsertTab(text string, pos int) (string, int) {
	runes := []rune(text)
	if pos < 0 {
		pos = 0
	}
	if pos > len(runes) {
		pos = len(runes)
	}
	out := make([]rune, 0, len(runes)+1)
	out = append(out, runes[:pos]...)
	out = append(out, '\t')
	out = append(out, runes[pos:]...)
	return string(out), pos + 1
}

func (w *Workflow) setCodeLocked(text string) {
	w.code = text
	w.revision++
	w.result = nil
	w.analyzed = false
}

// BeginAnalyze marks an analysis as started and returns its token. It is a
// no-op when there is no code, an analysis is running, or the current text
// was already analyzed.
func (w *Workflow) BeginAnalyze() (Request, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch {
	case w.code == "":
		return Request{}, ErrNoCode
	case w.analyzing:
		return Request{}, ErrAnalyzing
	case w.analyzed:
		return Request{}, ErrAlreadyAnalyzed
	case w.extracting:
		return Request{}, ErrExtracting
	}
	w.analyzing = true
	w.lastErr = nil
	return Request{Generation: w.generation, Revision: w.revision, Image: w.image, Code: w.code}, nil
}

// CompleteAnalyze applies an analysis response. The result is stored only when
// the call succeeded and the code has not changed since BeginAnalyze.
func (w *Workflow) CompleteAnalyze(req Request, result analyzer.Analysis, err error) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if req.Generation != w.generation {
		w.logf("discarding stale analysis response (generation %d, current %d)", req.Generation, w.generation)
		return false
	}
	w.analyzing = false
	if err != nil {
		w.lastErr = err
		w.logf("analyze code failed: %v", err)
		return true
	}
	if req.Revision != w.revision {
		w.logf("discarding analysis of edited code (revision %d, current %d)", req.Revision, w.revision)
		return false
	}
	res := result
	w.result = &res
	w.analyzed = true
	return true
}

// Snapshot returns a copy of the current state.
func (w *Workflow) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	snap := Snapshot{
		State:      w.stateLocked(),
		Image:      w.image,
		Preview:    w.preview,
		Code:       w.code,
		Extracting: w.extracting,
		Analyzing:  w.analyzing,
		Analyzed:   w.analyzed,
		LastError:  w.lastErr,
		Generation: w.generation,
	}
	if w.result != nil {
		res := *w.result
		snap.Result = &res
	}
	return snap
}

// State returns the current state.
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stateLocked()
}

// Code returns the current code text.
func (w *Workflow) Code() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.code
}

// ClearError forgets the last surfaced failure.
func (w *Workflow) ClearError() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastErr = nil
}

// Close releases the preview. The workflow stays usable.
func (w *Workflow) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.preview != nil {
		w.preview.Release()
	}
}

func (w *Workflow) stateLocked() State {
	switch {
	case w.extracting:
		return StateExtracting
	case w.analyzing:
		return StateAnalyzing
	case w.analyzed:
		return StateAnalyzed
	case w.code != "":
		return StateCodeReady
	case w.image != nil:
		return StateImageSelected
	default:
		return StateIdle
	}
}

func imageName(img *imagefile.Image) string {
	if img == nil {
		return "image"
	}
	return img.Name
}
