// Package logging assembles structured slog loggers shared across chapterize
// commands.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and standardizes the attribute keys used to tag log lines with run
// identifiers, input paths, and chapter positions. The package also provides a
// no-op logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits data with the same shape and routing.
package logging
