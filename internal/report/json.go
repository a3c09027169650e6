package report

import (
	"encoding/json"
	"io"
	"time"
)

// JSONWriter writes one indented JSON object per report.
type JSONWriter struct {
	out io.Writer
}

// NewJSONWriter writes to out.
func NewJSONWriter(out io.Writer) *JSONWriter {
	return &JSONWriter{out: out}
}

type jsonReport struct {
	Image       string     `json:"image,omitempty"`
	ImagePath   string     `json:"image_path,omitempty"`
	ImageSize   int64      `json:"image_size,omitempty"`
	Dimensions  string     `json:"dimensions,omitempty"`
	Code        string     `json:"code"`
	Readability *int       `json:"readability"`
	Bugs        *string    `json:"bugs"`
	Readable    *bool      `json:"readable,omitempty"`
	Error       string     `json:"error,omitempty"`
	GeneratedAt *time.Time `json:"generated_at,omitempty"`
}

// Write renders r.
func (w *JSONWriter) Write(r Report) error {
	out := jsonReport{
		Image:      r.Image,
		ImagePath:  r.ImagePath,
		ImageSize:  r.ImageSize,
		Dimensions: r.Dimensions,
		Code:       r.Code,
		Error:      r.Error,
	}
	if r.Result != nil {
		readability := r.Result.Readability
		bugs := r.Result.Bugs
		readable := r.Result.IsReadable()
		out.Readability = &readability
		out.Bugs = &bugs
		out.Readable = &readable
	}
	if !r.GeneratedAt.IsZero() {
		at := r.GeneratedAt
		out.GeneratedAt = &at
	}

	enc := json.NewEncoder(w.out)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
