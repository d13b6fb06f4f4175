package logging

import (
	"context"

	"github.com/oklog/ulid/v2"
)

type traceIDKey struct{}

// TraceIDField is the log field carrying the trace ID.
const TraceIDField = "trace_id"

// NewTraceID returns a new sortable trace identifier.
func NewTraceID() string {
	return ulid.Make().String()
}

// ContextWithTraceID stores id in ctx.
func ContextWithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, id)
}

// TraceIDFromContext returns the trace ID stored in ctx, or "".
func TraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(traceIDKey{}).(string)
	return id
}

// GetOrGenerateTraceID returns the trace ID in ctx, generating one when absent.
func GetOrGenerateTraceID(ctx context.Context) string {
	if id := TraceIDFromContext(ctx); id != "" {
		return id
	}
	return NewTraceID()
}
