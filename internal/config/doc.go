// Package config loads lineup's TOML configuration.
//
// # Overview
//
// The configuration names the spreadsheet feed to load and tunes the image
// preloader and chart. Every field is optional; a missing file, or a field
// left empty or zero, falls back to a default so lineup runs without any
// setup.
//
// # Configuration Discovery
//
//  1. If a path is explicitly provided (the -config flag), use it
//  2. Otherwise, use ~/.config/lineup/config.toml
//  3. If the file doesn't exist, use defaults
//
// # TOML Format
//
//	feed_url = "https://docs.google.com/spreadsheets/d/e/.../pub?output=csv"
//	feed_timeout = 15          # seconds
//	image_timeout = 10         # seconds, per image
//	preload_concurrency = 6
//	max_image_bytes = 5242880
//	chart_height = 16          # terminal rows, minimum 4
//	log_file = "~/.local/state/lineup/lineup.log"
//
// # Error Handling
//
// Load returns errors for path expansion failures, read errors other than
// os.ErrNotExist, and TOML parse errors. Missing files are not an error.
package config
