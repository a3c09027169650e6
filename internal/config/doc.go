// Package config loads codelens configuration.
//
// # Discovery
//
// Load resolves the file in this order:
//
//  1. An explicit path (the --config flag)
//  2. $XDG_CONFIG_HOME/codelens/config.toml
//
// A missing file is not an error; defaults are used. Empty values fall back
// to defaults too. Files ending in .yaml or .yml are read as YAML, anything
// else as TOML.
//
// # Keys
//
//	api_url = "http://localhost:5000"
//	extract_path = "/upload"
//	analyze_path = "/upload"
//	probe_timeout = "3s"
//	request_timeout = "60s"
//	log_file = "~/.local/state/codelens/codelens.log"
//	start_dir = "~/Pictures"
//	report_dir = "~/.local/share/codelens/reports"
//
// CODELENS_API_URL overrides api_url after the file is read. Paths accept a
// leading tilde and are made absolute.
package config
