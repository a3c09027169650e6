package report

import (
	"strings"

	"github.com/five82/codelens/internal/analyzer"
)

// User-facing wording for an analysis result. The TUI and every report
// format share it.
const (
	ReadableText    = "Your code is readable and follows good practices."
	NotReadableText = "Your code could be improved for better readability."
	NoBugsText      = "No Identified Bugs"
	ReviewGuidance  = "The model has identified this potential issue in your code. Please review your code."

	EmptyText   = `No analysis results yet. Press "a" to analyze the code.`
	LoadingText = "Analyzing code..."
)

// Verdict is the rendered meaning of one Analysis.
type Verdict struct {
	Readable    bool
	Readability string
	HasBug      bool
	BugHeadline string
	// Guidance is empty when there is nothing to review.
	Guidance string
}

// Explain turns an analysis into display text.
func Explain(a analyzer.Analysis) Verdict {
	v := Verdict{
		Readable:    a.IsReadable(),
		Readability: NotReadableText,
		HasBug:      a.HasBug(),
		BugHeadline: NoBugsText,
	}
	if v.Readable {
		v.Readability = ReadableText
	}
	if v.HasBug {
		label := strings.TrimSpace(a.Bugs)
		v.BugHeadline = "Identified Issue: " + label
		if label != "0" && label != "" {
			v.Guidance = ReviewGuidance
		}
	}
	return v
}
