package logging

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// Context keys for common log fields.
type contextKey string

const (
	// SweepIDKey is the context key for retention sweep IDs.
	SweepIDKey contextKey = "sweep_id"

	// TriggerKey is the context key for what started a sweep.
	TriggerKey contextKey = "trigger"

	// FileKey is the context key for the log file being retained.
	FileKey contextKey = "file"
)

// WithSweepID adds a sweep ID to the context.
func WithSweepID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, SweepIDKey, id)
}

// GetSweepID retrieves the sweep ID from the context.
func GetSweepID(ctx context.Context) string {
	if id, ok := ctx.Value(SweepIDKey).(string); ok {
		return id
	}
	return ""
}

// WithTrigger adds a sweep trigger to the context.
func WithTrigger(ctx context.Context, trigger string) context.Context {
	return context.WithValue(ctx, TriggerKey, trigger)
}

// GetTrigger retrieves the sweep trigger from the context.
func GetTrigger(ctx context.Context) string {
	if trigger, ok := ctx.Value(TriggerKey).(string); ok {
		return trigger
	}
	return ""
}

// WithFile adds a log file path to the context.
func WithFile(ctx context.Context, file string) context.Context {
	return context.WithValue(ctx, FileKey, file)
}

// GetFile retrieves the log file path from the context.
func GetFile(ctx context.Context) string {
	if file, ok := ctx.Value(FileKey).(string); ok {
		return file
	}
	return ""
}

// extractContextFields extracts common fields from context for logging.
// The trace and span IDs come from the active OpenTelemetry span.
func extractContextFields(ctx context.Context) []slog.Attr {
	var fields []slog.Attr

	if id := GetSweepID(ctx); id != "" {
		fields = append(fields, slog.String("sweep_id", id))
	}
	if trigger := GetTrigger(ctx); trigger != "" {
		fields = append(fields, slog.String("trigger", trigger))
	}
	if file := GetFile(ctx); file != "" {
		fields = append(fields, slog.String("file", file))
	}

	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		fields = append(fields,
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}

	return fields
}

// ContextHandler is a slog.Handler that adds context fields to every record
// logged through a *Context method.
type ContextHandler struct {
	next slog.Handler
}

// NewContextHandler wraps next.
func NewContextHandler(next slog.Handler) *ContextHandler {
	return &ContextHandler{next: next}
}

// Enabled implements slog.Handler.
func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if ctx != nil {
		if fields := extractContextFields(ctx); len(fields) > 0 {
			r = r.Clone()
			r.AddAttrs(fields...)
		}
	}
	return h.next.Handle(ctx, r)
}

// WithAttrs implements slog.Handler.
func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{next: h.next.WithAttrs(attrs)}
}

// WithGroup implements slog.Handler.
func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{next: h.next.WithGroup(name)}
}
