package services

import "context"

type contextKey string

const (
	runIDKey     contextKey = "run_id"
	libraryKey   contextKey = "library_id"
	requestIDKey contextKey = "request_id"
)

// WithRunID annotates context with the cleanup run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithLibrary annotates context with the library section being processed.
func WithLibrary(ctx context.Context, id int) context.Context {
	return context.WithValue(ctx, libraryKey, id)
}

// LibraryFromContext returns the library section identifier if present.
func LibraryFromContext(ctx context.Context) (int, bool) {
	v := ctx.Value(libraryKey)
	if v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	default:
		return 0, false
	}
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
