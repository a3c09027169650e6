package workflow

import (
	"context"

	"github.com/five82/codelens/internal/analyzer"
)

// Service is the part of the analysis service the workflow drives.
type Service interface {
	Extract(ctx context.Context, name string, data []byte) (string, error)
	Analyze(ctx context.Context, code string) (analyzer.Analysis, error)
}

// Ensure the HTTP client satisfies Service at compile time.
var _ Service = (*analyzer.Client)(nil)

// Runner drives a Workflow synchronously against a Service. The TUI issues
// the same calls asynchronously; the CLI and tests use Runner.
type Runner struct {
	flow *Workflow
	svc  Service
}

// NewRunner binds flow to svc.
func NewRunner(flow *Workflow, svc Service) *Runner {
	return &Runner{flow: flow, svc: svc}
}

// Workflow returns the driven workflow.
func (r *Runner) Workflow() *Workflow {
	return r.flow
}

// Extract runs one extraction for the selected image.
func (r *Runner) Extract(ctx context.Context) (string, error) {
	req, err := r.flow.BeginExtract()
	if err != nil {
		return "", err
	}
	text, err := RunExtract(ctx, r.svc, req)
	r.flow.CompleteExtract(req, text, err)
	if err != nil {
		return "", err
	}
	return text, nil
}

// Analyze runs one analysis of the current code.
func (r *Runner) Analyze(ctx context.Context) (analyzer.Analysis, error) {
	req, err := r.flow.BeginAnalyze()
	if err != nil {
		return analyzer.Analysis{}, err
	}
	result, err := RunAnalyze(ctx, r.svc, req)
	r.flow.CompleteAnalyze(req, result, err)
	if err != nil {
		return analyzer.Analysis{}, err
	}
	return result, nil
}

// RunExtract performs the network call for an extraction token.
func RunExtract(ctx context.Context, svc Service, req Request) (string, error) {
	if req.Image == nil {
		return "", ErrNoImage
	}
	return svc.Extract(ctx, req.Image.Name, req.Image.Data)
}

// RunAnalyze performs the network call for an analysis token.
func RunAnalyze(ctx context.Context, svc Service, req Request) (analyzer.Analysis, error) {
	return svc.Analyze(ctx, req.Code)
}
