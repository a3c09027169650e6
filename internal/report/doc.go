// Package report renders a workflow run as text, JSON or Markdown.
//
// The wording for readability and bug labels lives in Explain so the TUI
// and every output format say the same thing.
package report
