package logging

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

var defaultLogger = slog.Default()

// FromContext extracts the logger from context.
// Returns the default logger if no logger is found or ctx is nil.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return defaultLogger
	}

	if logger, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return logger
	}

	return defaultLogger
}

// WithContext stores a logger in the context.
func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

func withAttr(ctx context.Context, key, value string) context.Context {
	logger := FromContext(ctx).With(slog.String(key, value))
	return WithContext(ctx, logger)
}

// WithRequestID returns a context whose logger carries the request ID
// on every record.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return withAttr(ctx, "request_id", requestID)
}

// WithTraceID returns a context whose logger carries the trace ID on
// every record.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return withAttr(ctx, "trace_id", traceID)
}

// WithCorrelationID returns a context whose logger carries the
// correlation ID on every record.
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return withAttr(ctx, "correlation_id", correlationID)
}

// SetDefault sets the default logger used when no logger is in context.
func SetDefault(logger *slog.Logger) {
	defaultLogger = logger
	slog.SetDefault(logger)
}
