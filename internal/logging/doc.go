// Package logging assembles structured slog loggers and formatting helpers used
// across Plexorcist.
//
// It owns the console and JSON handlers, routes output to the terminal and a
// size-bounded rotating log file, and exposes context-aware helpers so
// workflow code can tag log lines with run IDs and library sections. The
// package also provides a no-op logger for tests and wiring code that cannot
// fail.
package logging
