// Package config loads, normalizes, and validates chapterize configuration.
//
// Values are resolved in order: repository defaults, then the TOML file, then
// CHAPTERIZE_-prefixed environment variables. Path fields are tilde-expanded
// and made absolute during normalization so downstream code never handles
// relative paths.
package config
