// Package textutil provides small text helpers shared by the cleanup run:
// positional message templates for localized log and notification lines,
// Unicode case folding for case-insensitive title comparisons, and parsing
// of "1d 2h" style spans used by the retention window.
package textutil
