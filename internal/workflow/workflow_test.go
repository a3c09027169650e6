package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/five82/codelens/internal/analyzer"
	"github.com/five82/codelens/internal/imagefile"
)

type fakeService struct {
	text        string
	extractErr  error
	result      analyzer.Analysis
	analyzeErr  error
	extractCall int
	analyzeCall int
	lastCode    string
}

func (f *fakeService) Extract(_ context.Context, _ string, _ []byte) (string, error) {
	f.extractCall++
	return f.text, f.extractErr
}

func (f *fakeService) Analyze(_ context.Context, code string) (analyzer.Analysis, error) {
	f.analyzeCall++
	f.lastCode = code
	return f.result, f.analyzeErr
}

type logRecorder struct {
	lines []string
}

func (l *logRecorder) logf(format string, args ...any) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func newTestWorkflow(t *testing.T) (*Workflow, *logRecorder) {
	t.Helper()
	rec := &logRecorder{}
	w := New(
		WithPreviewer(func(img *imagefile.Image) *imagefile.Preview {
			return &imagefile.Preview{Format: "png"}
		}),
		WithLogf(rec.logf),
	)
	return w, rec
}

func shot(name string) *imagefile.Image {
	return &imagefile.Image{Name: name, Path: "/tmp/" + name, Data: []byte("png-bytes")}
}

func TestSelectImage_ResetsDownstreamState(t *testing.T) {
	w, _ := newTestWorkflow(t)
	svc := &fakeService{text: "x = 1", result: analyzer.Analysis{Readability: 1, Bugs: analyzer.NoBugFound}}
	r := NewRunner(w, svc)

	names := []string{"a.png", "b.png", "c.jpg"}
	for _, name := range names {
		w.SelectImage(shot(name))
		snap := w.Snapshot()
		if snap.Code != "" || snap.Result != nil || snap.Analyzed {
			t.Fatalf("after SelectImage(%s): code=%q result=%v analyzed=%v, want empty", name, snap.Code, snap.Result, snap.Analyzed)
		}
		if snap.State != StateImageSelected {
			t.Fatalf("after SelectImage(%s): state = %s, want ImageSelected", name, snap.State)
		}
		if snap.Preview == nil {
			t.Fatalf("preview is nil with an image selected")
		}
		if _, err := r.Extract(context.Background()); err != nil {
			t.Fatalf("Extract: %v", err)
		}
		if _, err := r.Analyze(context.Background()); err != nil {
			t.Fatalf("Analyze: %v", err)
		}
	}
}

func TestSelectImage_ReleasesPreviousPreview(t *testing.T) {
	w, _ := newTestWorkflow(t)
	w.SelectImage(shot("a.png"))
	first := w.Snapshot().Preview

	w.SelectImage(shot("b.png"))
	if !first.Released() {
		t.Fatalf("previous preview was not released on replacement")
	}
	second := w.Snapshot().Preview
	if second.Released() {
		t.Fatalf("current preview should not be released")
	}

	w.SelectImage(nil)
	snap := w.Snapshot()
	if !second.Released() {
		t.Fatalf("preview was not released when the image was cleared")
	}
	if snap.State != StateIdle || snap.Image != nil || snap.Preview != nil {
		t.Fatalf("after SelectImage(nil): state=%s image=%v preview=%v, want Idle with nothing", snap.State, snap.Image, snap.Preview)
	}
}

func TestSelectImage_SnapshotNotBlockedByPreview(t *testing.T) {
	started := make(chan struct{})
	unblock := make(chan struct{})
	w := New(WithPreviewer(func(img *imagefile.Image) *imagefile.Preview {
		close(started)
		<-unblock
		return &imagefile.Preview{Format: "png"}
	}))

	selected := make(chan struct{})
	go func() {
		w.SelectImage(shot("slow.png"))
		close(selected)
	}()
	<-started

	snapped := make(chan Snapshot, 1)
	go func() { snapped <- w.Snapshot() }()
	select {
	case snap := <-snapped:
		if snap.State != StateIdle || snap.Image != nil {
			t.Fatalf("snapshot during decode = %s %v, want Idle with no image", snap.State, snap.Image)
		}
	case <-time.After(time.Second):
		close(unblock)
		t.Fatalf("Snapshot blocked while the preview was being built")
	}

	close(unblock)
	<-selected
	snap := w.Snapshot()
	if snap.Image == nil || snap.Image.Name != "slow.png" || snap.Preview == nil {
		t.Fatalf("after decode: image=%v preview=%v, want slow.png with a preview", snap.Image, snap.Preview)
	}
}

func TestClose_ReleasesPreview(t *testing.T) {
	w, _ := newTestWorkflow(t)
	w.SelectImage(shot("a.png"))
	p := w.Snapshot().Preview
	w.Close()
	if !p.Released() {
		t.Fatalf("Close did not release the preview")
	}
}

func TestExtractScenario(t *testing.T) {
	w, _ := newTestWorkflow(t)
	svc := &fakeService{text: "def f():\n  pass"}
	r := NewRunner(w, svc)

	w.SelectImage(shot("shot.png"))
	text, err := r.Extract(context.Background())
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if text != "def f():\n  pass" || w.Code() != text {
		t.Fatalf("code = %q, want extracted text", w.Code())
	}
	if w.State() != StateCodeReady {
		t.Fatalf("state = %s, want CodeReady", w.State())
	}
}

func TestExtractFailure_StaysImageSelected(t *testing.T) {
	w, rec := newTestWorkflow(t)
	svc := &fakeService{extractErr: &analyzer.Error{Kind: analyzer.KindNetwork, Op: "extract", Err: errors.New("refused")}}
	r := NewRunner(w, svc)

	w.SelectImage(shot("shot.png"))
	if _, err := r.Extract(context.Background()); err == nil {
		t.Fatalf("Extract returned nil error")
	}
	snap := w.Snapshot()
	if snap.State != StateImageSelected || snap.Extracting {
		t.Fatalf("state = %s extracting=%v, want ImageSelected, not extracting", snap.State, snap.Extracting)
	}
	if snap.LastError == nil {
		t.Fatalf("LastError = nil, want surfaced failure")
	}
	if len(rec.lines) == 0 || !strings.Contains(rec.lines[0], "extract code from shot.png failed") {
		t.Fatalf("log = %v, want extraction failure logged", rec.lines)
	}
	if svc.extractCall != 1 {
		t.Fatalf("extract calls = %d, want 1 (no retry)", svc.extractCall)
	}
}

func TestBeginExtract_Guards(t *testing.T) {
	w, _ := newTestWorkflow(t)
	if _, err := w.BeginExtract(); !errors.Is(err, ErrNoImage) {
		t.Fatalf("BeginExtract without image = %v, want ErrNoImage", err)
	}

	w.SelectImage(shot("a.png"))
	if _, err := w.BeginExtract(); err != nil {
		t.Fatalf("BeginExtract returned error: %v", err)
	}
	if w.State() != StateExtracting {
		t.Fatalf("state = %s, want Extracting", w.State())
	}
	if _, err := w.BeginExtract(); !errors.Is(err, ErrExtracting) {
		t.Fatalf("second BeginExtract = %v, want ErrExtracting", err)
	}
	if _, err := w.BeginAnalyze(); err == nil {
		t.Fatalf("BeginAnalyze during extraction should fail")
	}
}

func TestEditAfterResult_InvalidatesResult(t *testing.T) {
	w, _ := newTestWorkflow(t)
	svc := &fakeService{text: "x = 1", result: analyzer.Analysis{Readability: 0, Bugs: "NameError"}}
	r := NewRunner(w, svc)

	edits := []string{"x = 2", "x = 2", "", "y\t= 3"}
	for _, edit := range edits {
		w.EditCode("x = 1")
		if _, err := r.Analyze(context.Background()); err != nil {
			t.Fatalf("Analyze: %v", err)
		}
		if !w.Snapshot().HasResult() {
			t.Fatalf("expected a stored result before editing")
		}

		w.EditCode(edit)
		snap := w.Snapshot()
		if snap.Result != nil || snap.Analyzed {
			t.Fatalf("after EditCode(%q): result=%v analyzed=%v, want cleared", edit, snap.Result, snap.Analyzed)
		}
		if snap.Code != edit {
			t.Fatalf("code = %q, want %q stored verbatim", snap.Code, edit)
		}
	}
}

func TestAnalyzeScenario(t *testing.T) {
	w, _ := newTestWorkflow(t)
	svc := &fakeService{
		text:   "def f():\n  pass",
		result: analyzer.Analysis{Readability: 1, Bugs: "No bug found"},
	}
	r := NewRunner(w, svc)

	w.SelectImage(shot("shot.png"))
	if _, err := r.Extract(context.Background()); err != nil {
		t.Fatalf("Extract: %v", err)
	}
	w.EditCode("def f(): return 1")
	if _, err := r.Analyze(context.Background()); err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	snap := w.Snapshot()
	if svc.lastCode != "def f(): return 1" {
		t.Fatalf("analyzed code = %q, want edited text", svc.lastCode)
	}
	if snap.Result == nil || snap.Result.Readability != 1 || snap.Result.Bugs != "No bug found" {
		t.Fatalf("result = %+v, want readability=1 bugs=No bug found", snap.Result)
	}
	if !snap.Analyzed || snap.State != StateAnalyzed {
		t.Fatalf("analyzed=%v state=%s, want true Analyzed", snap.Analyzed, snap.State)
	}
}

func TestAnalyzeHTTP500_StaysCodeReady(t *testing.T) {
	w, rec := newTestWorkflow(t)
	svc := &fakeService{analyzeErr: &analyzer.Error{Kind: analyzer.KindHTTP, Op: "analyze", Status: 500}}
	r := NewRunner(w, svc)

	w.EditCode("def f(): return 1")
	_, err := r.Analyze(context.Background())
	if analyzer.StatusCode(err) != 500 {
		t.Fatalf("Analyze error = %v, want status 500", err)
	}
	snap := w.Snapshot()
	if snap.State != StateCodeReady || snap.Result != nil || snap.Analyzed || snap.Analyzing {
		t.Fatalf("snapshot = %+v, want CodeReady with no result", snap)
	}
	if len(rec.lines) != 1 || !strings.Contains(rec.lines[0], "analyze code failed") {
		t.Fatalf("log = %v, want one analysis failure line", rec.lines)
	}

	// The user may re-trigger manually.
	svc.analyzeErr = nil
	svc.result = analyzer.Analysis{Readability: 1, Bugs: analyzer.NoBugFound}
	if _, err := r.Analyze(context.Background()); err != nil {
		t.Fatalf("retry Analyze returned error: %v", err)
	}
	if svc.analyzeCall != 2 {
		t.Fatalf("analyze calls = %d, want 2", svc.analyzeCall)
	}
}

func TestAnalyze_NoOpGuards(t *testing.T) {
	w, _ := newTestWorkflow(t)
	svc := &fakeService{result: analyzer.Analysis{Readability: 1, Bugs: analyzer.NoBugFound}}
	r := NewRunner(w, svc)

	if _, err := r.Analyze(context.Background()); !errors.Is(err, ErrNoCode) {
		t.Fatalf("Analyze with empty code = %v, want ErrNoCode", err)
	}

	w.EditCode("print(1)")
	req, err := w.BeginAnalyze()
	if err != nil {
		t.Fatalf("BeginAnalyze: %v", err)
	}
	if _, err := r.Analyze(context.Background()); !errors.Is(err, ErrAnalyzing) {
		t.Fatalf("Analyze while analyzing = %v, want ErrAnalyzing", err)
	}
	w.CompleteAnalyze(req, svc.result, nil)

	if _, err := r.Analyze(context.Background()); !errors.Is(err, ErrAlreadyAnalyzed) {
		t.Fatalf("Analyze after analyzed = %v, want ErrAlreadyAnalyzed", err)
	}
	if svc.analyzeCall != 0 {
		t.Fatalf("analyze calls = %d, want 0 (every attempt was a no-op)", svc.analyzeCall)
	}
}

func TestStaleExtraction_Discarded(t *testing.T) {
	w, rec := newTestWorkflow(t)
	w.SelectImage(shot("old.png"))
	req, err := w.BeginExtract()
	if err != nil {
		t.Fatalf("BeginExtract: %v", err)
	}

	w.SelectImage(shot("new.png"))
	if applied := w.CompleteExtract(req, "old text", nil); applied {
		t.Fatalf("stale extraction was applied")
	}
	snap := w.Snapshot()
	if snap.Code != "" || snap.State != StateImageSelected || snap.Image.Name != "new.png" {
		t.Fatalf("snapshot = %+v, want new image untouched by stale response", snap)
	}
	if len(rec.lines) != 1 || !strings.Contains(rec.lines[0], "stale extraction") {
		t.Fatalf("log = %v, want stale response logged", rec.lines)
	}
}

func TestStaleAnalysis_Discarded(t *testing.T) {
	w, _ := newTestWorkflow(t)
	result := analyzer.Analysis{Readability: 1, Bugs: analyzer.NoBugFound}

	w.SelectImage(shot("a.png"))
	w.EditCode("a = 1")
	req, err := w.BeginAnalyze()
	if err != nil {
		t.Fatalf("BeginAnalyze: %v", err)
	}
	w.SelectImage(shot("b.png"))
	if w.CompleteAnalyze(req, result, nil) {
		t.Fatalf("analysis for a superseded image was applied")
	}
	if w.Snapshot().Result != nil {
		t.Fatalf("stale result stored")
	}
}

func TestEditDuringAnalysis_DropsResult(t *testing.T) {
	w, _ := newTestWorkflow(t)
	result := analyzer.Analysis{Readability: 1, Bugs: analyzer.NoBugFound}

	w.EditCode("a = 1")
	req, err := w.BeginAnalyze()
	if err != nil {
		t.Fatalf("BeginAnalyze: %v", err)
	}
	w.EditCode("a = 2")
	if w.CompleteAnalyze(req, result, nil) {
		t.Fatalf("result for edited code was applied")
	}
	snap := w.Snapshot()
	if snap.Analyzing || snap.Analyzed || snap.Result != nil {
		t.Fatalf("snapshot = %+v, want analysis cleared without result", snap)
	}
	if snap.State != StateCodeReady {
		t.Fatalf("state = %s, want CodeReady", snap.State)
	}
}

func TestInsertTab(t *testing.T) {
	cases := []struct {
		text       string
		pos        int
		want       string
		wantCursor int
	}{
		{"", 0, "\t", 1},
		{"abc", 0, "\tabc", 1},
		{"abc", 1, "a\tbc", 2},
		{"abc", 3, "abc\t", 4},
		{"abc", 99, "abc\t", 4},
		{"abc", -4, "\tabc", 1},
		{"héllo", 2, "hé\tllo", 3},
	}
	for _, tc := range cases {
		got, cursor := InsertTab(tc.text, tc.pos)
		if got != tc.want || cursor != tc.wantCursor {
			t.Fatalf("InsertTab(%q, %d) = %q, %d; want %q, %d", tc.text, tc.pos, got, cursor, tc.want, tc.wantCursor)
		}
	}

	// Length grows by exactly one and the tab lands at p for every p.
	text := "def f():\n  pass"
	n := len([]rune(text))
	for p := 0; p <= n; p++ {
		got, cursor := InsertTab(text, p)
		runes := []rune(got)
		if len(runes) != n+1 || runes[p] != '\t' || cursor != p+1 {
			t.Fatalf("InsertTab at %d: len=%d tab=%q cursor=%d", p, len(runes), runes[p], cursor)
		}
	}
}

func TestWorkflowInsertTab_InvalidatesResult(t *testing.T) {
	w, _ := newTestWorkflow(t)
	w.EditCode("if x:\nreturn")
	req, _ := w.BeginAnalyze()
	w.CompleteAnalyze(req, analyzer.Analysis{Readability: 0, Bugs: "IndentationError"}, nil)

	cursor := w.InsertTab(6)
	if cursor != 7 {
		t.Fatalf("cursor = %d, want 7", cursor)
	}
	snap := w.Snapshot()
	if snap.Code != "if x:\n\treturn" {
		t.Fatalf("code = %q, want tab inserted", snap.Code)
	}
	if snap.Result != nil || snap.Analyzed {
		t.Fatalf("tab insertion did not clear the result")
	}
}

func TestSnapshot_ResultIsCopy(t *testing.T) {
	w, _ := newTestWorkflow(t)
	w.EditCode("x")
	req, _ := w.BeginAnalyze()
	w.CompleteAnalyze(req, analyzer.Analysis{Readability: 1, Bugs: "none"}, nil)

	snap := w.Snapshot()
	snap.Result.Bugs = "mutated"
	if w.Snapshot().Result.Bugs != "none" {
		t.Fatalf("Snapshot should copy the result")
	}
}

func TestSnapshotGuards(t *testing.T) {
	var snap Snapshot
	if snap.CanExtract() || snap.CanAnalyze() {
		t.Fatalf("empty snapshot should allow nothing")
	}
	snap = Snapshot{Image: shot("a.png"), Code: "x"}
	if !snap.CanExtract() || !snap.CanAnalyze() {
		t.Fatalf("snapshot with image and code should allow both")
	}
	snap.Analyzed = true
	if snap.CanAnalyze() {
		t.Fatalf("analyzed snapshot should not allow analysis")
	}
}

func TestStateString(t *testing.T) {
	want := []string{"Idle", "ImageSelected", "Extracting", "CodeReady", "Analyzing", "Analyzed"}
	for i, name := range want {
		if got := State(i).String(); got != name {
			t.Fatalf("State(%d) = %q, want %q", i, got, name)
		}
	}
	if State(42).String() != "Unknown" {
		t.Fatalf("State(42) should be Unknown")
	}
}
