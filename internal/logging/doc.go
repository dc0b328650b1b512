// Package logging assembles structured slog loggers and formatting helpers
// used across the Rationale CLI.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes helpers so workflow code can tag log lines with job
// IDs, tools, and stages. The package also provides a no-op logger for tests
// and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits data with the same shape.
package logging
