package logging

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/dustin/go-humanize"
)

// Keys shared by every package so history, console and JSON output agree.
const (
	FieldComponent     = "component"
	FieldRunID         = "run_id"
	FieldLibraryID     = "library_id"
	FieldCorrelationID = "correlation_id"
	FieldEventType     = "event_type"
	FieldErrorHint     = "error_hint"
	FieldImpact        = "impact"
	FieldDecisionType  = "decision_type"
	FieldTitle         = "title"
	FieldItemKey       = "key"
	FieldSize          = "size"
	FieldReclaimedGB   = "reclaimed_gb"
)

// Attr aliases slog.Attr so callers only import this package.
type Attr = slog.Attr

func Any(key string, value any) Attr                { return slog.Any(key, value) }
func Bool(key string, value bool) Attr              { return slog.Bool(key, value) }
func Duration(key string, value time.Duration) Attr { return slog.Duration(key, value) }
func Float64(key string, value float64) Attr        { return slog.Float64(key, value) }
func Int(key string, value int) Attr                { return slog.Int(key, value) }
func String(key string, value string) Attr          { return slog.String(key, value) }

// Error attaches err under "error"; a nil error is written as "<nil>".
func Error(err error) Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}

// Title is the display title of a library item.
func Title(title string) Attr { return slog.String(FieldTitle, title) }

// ItemKey is the server path used to delete an item.
func ItemKey(key string) Attr { return slog.String(FieldItemKey, key) }

// Size renders a byte count as IEC units ("1.5 GiB"). Negative sizes log as 0 B.
func Size(bytes int64) Attr {
	return slog.String(FieldSize, humanize.IBytes(uint64(max(bytes, 0))))
}

// ReclaimedGB logs a gigabyte total rounded to two decimals.
func ReclaimedGB(gb float64) Attr {
	return slog.Float64(FieldReclaimedGB, math.Round(gb*100)/100)
}

// LibraryID is the section being processed.
func LibraryID(id int) Attr { return slog.Int(FieldLibraryID, id) }

// Impact states what the operator loses because of a warning.
func Impact(text string) Attr { return slog.String(FieldImpact, text) }

// Hint suggests the operator's next step.
func Hint(text string) Attr { return slog.String(FieldErrorHint, text) }

// Args converts attrs into the variadic form slog methods accept.
func Args(attrs ...Attr) []any {
	args := make([]any, 0, len(attrs))
	for _, attr := range attrs {
		args = append(args, attr)
	}
	return args
}

func NewNop() *slog.Logger {
	return slog.New(NoopHandler{})
}

// NewComponentLogger tags logger with a component name. A nil logger is
// replaced by a no-op one.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(String(FieldComponent, component))
}

func hasKey(attrs []Attr, key string) bool {
	for _, a := range attrs {
		if a.Key == key {
			return true
		}
	}
	return false
}

// withDefaults fills event_type and error_hint, and impact when requested,
// unless the caller already supplied them.
func withDefaults(attrs []Attr, eventType string, impact bool) []Attr {
	if !hasKey(attrs, FieldEventType) {
		attrs = append(attrs, String(FieldEventType, eventType))
	}
	if !hasKey(attrs, FieldErrorHint) {
		attrs = append(attrs, Hint("see the log file for details"))
	}
	if impact && !hasKey(attrs, FieldImpact) {
		attrs = append(attrs, Impact("run continues"))
	}
	return attrs
}

// WarnWithContext logs a warning that always carries event_type, error_hint
// and impact.
func WarnWithContext(logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	if logger == nil {
		return
	}
	logger.Warn(msg, Args(withDefaults(attrs, eventType, true)...)...)
}

// ErrorWithContext logs an error that always carries event_type and error_hint.
func ErrorWithContext(logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	if logger == nil {
		return
	}
	logger.Error(msg, Args(withDefaults(attrs, eventType, false)...)...)
}

// DecisionAttrs describes a keep-or-delete decision, e.g. a whitelist skip.
func DecisionAttrs(decisionType, result, reason string) []Attr {
	return []Attr{
		String(FieldDecisionType, decisionType),
		String("decision_result", result),
		String("decision_reason", reason),
	}
}

// NoopHandler discards all log output.
type NoopHandler struct{}

func (NoopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (NoopHandler) Handle(context.Context, slog.Record) error { return nil }
func (NoopHandler) WithAttrs([]slog.Attr) slog.Handler        { return NoopHandler{} }
func (NoopHandler) WithGroup(string) slog.Handler             { return NoopHandler{} }
