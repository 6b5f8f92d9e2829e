// Package logging constructs the slog loggers used across imgeda.
//
// Two output formats are supported: a human console format with
// terminal-aware coloring, and machine JSON. Components receive a
// *slog.Logger from their caller and never construct their own.
package logging
