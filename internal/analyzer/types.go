package analyzer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// NoBugFound is the bug label the service uses when it found no issue.
const NoBugFound = "No bug found"

// Readability flag values.
const (
	NotReadable = 0
	Readable    = 1
)

// Analysis is the service's judgment of a piece of code.
type Analysis struct {
	Readability int    `json:"readability"`
	Bugs        string `json:"bugs"`
}

// IsReadable reports whether the readability flag is set.
func (a Analysis) IsReadable() bool {
	return a.Readability == Readable
}

// HasBug reports whether the bug label names an issue. Only the exact
// NoBugFound label means no issue.
func (a Analysis) HasBug() bool {
	return a.Bugs != NoBugFound
}

// Extraction mirrors the payload returned for an image upload.
type Extraction struct {
	Text string `json:"extracted_text"`
}

// decodeExtraction validates {extracted_text: string}.
func decodeExtraction(op string, body []byte) (Extraction, error) {
	fields, err := decodeObject(op, body)
	if err != nil {
		return Extraction{}, err
	}
	text, err := requireString(op, fields, "extracted_text")
	if err != nil {
		return Extraction{}, err
	}
	return Extraction{Text: text}, nil
}

// decodeAnalysis validates {readability: 0|1, bugs: string}.
func decodeAnalysis(op string, body []byte) (Analysis, error) {
	fields, err := decodeObject(op, body)
	if err != nil {
		return Analysis{}, err
	}
	flag, err := requireFlag(op, fields, "readability")
	if err != nil {
		return Analysis{}, err
	}
	bugs, err := requireString(op, fields, "bugs")
	if err != nil {
		return Analysis{}, err
	}
	return Analysis{Readability: flag, Bugs: bugs}, nil
}

func decodeObject(op string, body []byte) (map[string]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, malformed(op, "empty body")
	}
	if trimmed[0] != '{' {
		return nil, malformed(op, "expected JSON object")
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, malformed(op, "decode response: %w", err)
	}
	return fields, nil
}

func requireString(op string, fields map[string]json.RawMessage, name string) (string, error) {
	raw, ok := fields[name]
	if !ok || isNull(raw) {
		return "", malformed(op, "missing field %q", name)
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", malformed(op, "field %q is not a string", name)
	}
	return value, nil
}

func requireFlag(op string, fields map[string]json.RawMessage, name string) (int, error) {
	raw, ok := fields[name]
	if !ok || isNull(raw) {
		return 0, malformed(op, "missing field %q", name)
	}
	trimmed := bytes.TrimSpace(raw)
	if trimmed[0] == '"' {
		return 0, malformed(op, "field %q is not a number", name)
	}
	var num json.Number
	if err := json.Unmarshal(trimmed, &num); err != nil {
		return 0, malformed(op, "field %q is not a number", name)
	}
	value, err := num.Int64()
	if err != nil {
		return 0, malformed(op, "field %q is not an integer", name)
	}
	if value != NotReadable && value != Readable {
		return 0, malformed(op, "field %q = %d, want 0 or 1", name, value)
	}
	return int(value), nil
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

// serviceMessage pulls {"error": "..."} out of an error body, if present.
func serviceMessage(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.Error)
}

// String renders the analysis the way the CLI prints it.
func (a Analysis) String() string {
	readable := "not readable"
	if a.IsReadable() {
		readable = "readable"
	}
	return fmt.Sprintf("readability=%d (%s) bugs=%q", a.Readability, readable, a.Bugs)
}
