package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
)

// TextWriter writes a plain summary for terminals and pipes.
type TextWriter struct {
	out io.Writer
}

// NewTextWriter writes to out.
func NewTextWriter(out io.Writer) *TextWriter {
	return &TextWriter{out: out}
}

// Write renders r.
func (w *TextWriter) Write(r Report) error {
	var b strings.Builder
	if r.Image != "" {
		fmt.Fprintf(&b, "Image:       %s (%s", r.Image, humanize.Bytes(uint64(r.ImageSize)))
		if r.Dimensions != "" {
			fmt.Fprintf(&b, ", %s", r.Dimensions)
		}
		b.WriteString(")\n")
	}
	if r.Error != "" {
		fmt.Fprintf(&b, "Error:       %s\n", r.Error)
	}
	if r.Result != nil {
		v := Explain(*r.Result)
		fmt.Fprintf(&b, "Readability: %s\n", v.Readability)
		fmt.Fprintf(&b, "Bugs:        %s\n", v.BugHeadline)
		if v.Guidance != "" {
			fmt.Fprintf(&b, "             %s\n", v.Guidance)
		}
	} else if r.Error == "" {
		b.WriteString("No analysis results.\n")
	}
	_, err := io.WriteString(w.out, b.String())
	return err
}

func lineCount(code string) int {
	if code == "" {
		return 0
	}
	return strings.Count(strings.TrimRight(code, "\n"), "\n") + 1
}
