package report

import (
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/nao1215/markdown"
)

// MarkdownWriter writes GitHub-flavored Markdown reports.
type MarkdownWriter struct {
	out io.Writer
}

// NewMarkdownWriter writes to out.
func NewMarkdownWriter(out io.Writer) *MarkdownWriter {
	return &MarkdownWriter{out: out}
}

// Write renders r.
func (w *MarkdownWriter) Write(r Report) error {
	md := markdown.NewMarkdown(w.out)

	md.H1("codelens report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   w.propertyRows(r),
	})
	md.PlainText("")

	md.H2("Code")
	md.PlainText("")
	if r.Code == "" {
		md.PlainText("No code.")
	} else {
		md.CodeBlocks(markdown.SyntaxHighlight(""), r.Code)
	}
	md.PlainText("")

	md.H2("Analysis")
	md.PlainText("")
	w.writeAnalysis(md, r)

	return md.Build()
}

func (w *MarkdownWriter) propertyRows(r Report) [][]string {
	rows := [][]string{}
	if r.Image != "" {
		rows = append(rows, []string{"Image", "`" + r.Image + "`"})
		rows = append(rows, []string{"Size", humanize.Bytes(uint64(r.ImageSize))})
	}
	if r.Dimensions != "" {
		rows = append(rows, []string{"Dimensions", r.Dimensions})
	}
	rows = append(rows, []string{"Lines", strconv.Itoa(lineCount(r.Code))})
	if !r.GeneratedAt.IsZero() {
		rows = append(rows, []string{"Generated", r.GeneratedAt.Format("2006-01-02 15:04:05 MST")})
	}
	return rows
}

func (w *MarkdownWriter) writeAnalysis(md *markdown.Markdown, r Report) {
	if r.Error != "" {
		md.Cautionf("Request failed: %s", r.Error)
		md.PlainText("")
	}
	if r.Result == nil {
		md.PlainText("No analysis results.")
		return
	}

	v := Explain(*r.Result)
	md.H3("Code Readability")
	md.PlainText("")
	if v.Readable {
		md.Tip(v.Readability)
	} else {
		md.Warning(v.Readability)
	}
	md.PlainText("")

	md.H3("Potential Bug Type")
	md.PlainText("")
	if v.HasBug {
		md.Important(v.BugHeadline)
		if v.Guidance != "" {
			md.PlainText("")
			md.PlainText(v.Guidance)
		}
	} else {
		md.Tip(v.BugHeadline)
	}
	md.PlainText("")
}
