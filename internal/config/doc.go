// Package config handles configuration loading and merging for morphd.
//
// # Configuration Precedence
//
// Configuration values are resolved in the following order (highest to lowest priority):
//
//  1. CLI flags that were explicitly set (--format, --color, --lexicon, etc.)
//  2. Environment variables (MORPHD_FORMAT, MORPHD_LOG_LEVEL, NO_COLOR)
//  3. YAML config file (--config, .morphd.yaml in the working directory or
//     ~/.config/morphd/.morphd.yaml)
//  4. Hardcoded defaults
//
// # Keys
//
//   - lexicon: path to a YAML or SQLite lexicon; empty uses the built-in one
//   - format: json (one record per line) or text (aligned, optionally colored)
//   - color: auto, always or never; only affects the text format
//   - theme: default or mono
//   - interactive: read words from a line editor instead of stdin
//   - history_file: where the line editor keeps its history
//   - max_word_length: words longer than this many bytes are rejected
//   - log.level, log.format: diagnostics written to stderr
//
// # Environment Variables
//
// Every key can be set with a MORPHD_ prefix, upper-cased, with the dot
// replaced by an underscore: MORPHD_LOG_LEVEL=debug sets log.level.
// NO_COLOR, when set to any non-empty value, defaults color to never.
package config
