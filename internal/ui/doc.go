// Package ui is the codelens terminal interface, built on Bubble Tea.
//
// # Layout
//
// The screen is a status header, a command bar, and three panes:
//
//   - Image: the selected screenshot as a half-block thumbnail with its size,
//     dimensions and EXIF highlights
//   - Code: the extracted code, editable in place
//   - Analysis: readability and bug verdicts, or a placeholder
//
// Below LayoutCompactWidth columns the panes stack vertically and the
// thumbnail is hidden.
//
// # State
//
// Model never holds workflow data of its own. Every change goes through a
// workflow.Workflow and the panes render from its Snapshot. Network calls run
// as tea.Cmds that carry the workflow.Request token they were started with;
// the workflow drops a response whose token is no longer current.
//
// Images arrive three ways: the file browser (o), a path given on the
// command line, or a file dropped onto the terminal, which terminals deliver
// as a bracketed paste of its path.
//
// # Files
//
//   - app.go: Model, Update and key dispatch
//   - commands.go: tea.Cmds and their result messages
//   - view.go: pane layout and rendering
//   - editor.go: the code editor
//   - results.go: the analysis pane
//   - header.go, help.go: status bar, command bar and help overlay
//   - picker.go, modal.go: the file browser modal
//   - theme.go, style_helpers.go: colors and lipgloss styles
package ui
