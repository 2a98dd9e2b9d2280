// Package logging assembles structured slog loggers and formatting helpers
// used across serieslink.
//
// It owns the console and JSON handlers, the level and output plumbing, and
// context helpers that tag log lines with the run identifier and command of
// the current invocation. A no-op logger is provided for tests and wiring
// code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits records with the same keys.
package logging
