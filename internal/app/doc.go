// Package app wires configuration, preferences, the analyzer client and the
// workflow together for the codelens commands.
//
// Run is the composition root for the TUI: it loads config.toml and
// prefs.toml, builds an analyzer.Client, routes the standard logger to the
// configured log file, and hands everything to ui.Run.
//
// Watch backs the watch subcommand. It reports images created in a
// directory once they stop changing, so a screenshot tool that writes a file
// in several steps produces one callback.
package app
