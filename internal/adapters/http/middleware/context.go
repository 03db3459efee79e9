// Package middleware provides HTTP middleware for the Gin framework.
package middleware

import "context"

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	ctxKeyRequestID     contextKey = "request_id"
	ctxKeyCorrelationID contextKey = "correlation_id"
)

func idFromContext(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}

	if id, ok := ctx.Value(key).(string); ok {
		return id
	}

	return ""
}

// RequestIDFromContext extracts the request ID from context.Context.
// Returns empty string if not set or if ctx is nil. The feed client
// uses this to propagate the request ID on outgoing calls.
func RequestIDFromContext(ctx context.Context) string {
	return idFromContext(ctx, ctxKeyRequestID)
}

// CorrelationIDFromContext extracts the correlation ID from
// context.Context. Returns empty string if not set or if ctx is nil.
func CorrelationIDFromContext(ctx context.Context) string {
	return idFromContext(ctx, ctxKeyCorrelationID)
}

// ContextWithRequestID stores a request ID in the context.
// This is typically called by the request ID middleware.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, id)
}

// ContextWithCorrelationID stores a correlation ID in the context.
// This is typically called by the correlation ID middleware.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyCorrelationID, id)
}
