package logging

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey string

const (
	// TraceIDKey is the context key for the request trace id.
	TraceIDKey ctxKey = "trace_id"
)

// WithContext returns logger annotated with the trace id carried by ctx.
func WithContext(logger Logger, ctx context.Context) Logger {
	if traceID := GetTraceID(ctx); traceID != "" {
		return logger.With(zap.String("trace_id", traceID))
	}
	return logger
}

// GetTraceID extracts the trace id from context.
func GetTraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	s, _ := ctx.Value(TraceIDKey).(string)
	return s
}

// SetTraceID adds the trace id to context.
func SetTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

type loggerKey struct{}

// FromContext returns the Logger stored in the context, or the global logger if none.
func FromContext(ctx context.Context) Logger {
	if ctx == nil {
		return Global()
	}
	if l, ok := ctx.Value(loggerKey{}).(Logger); ok {
		return l
	}
	return Global()
}

// ToContext stores the Logger in the context.
func ToContext(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}
