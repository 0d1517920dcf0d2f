package middleware

import (
	"context"
	"net/http"
	"regexp"

	"github.com/google/uuid"
	"github.com/leeforge/genico/logging"
)

// TraceIDHeader is the HTTP header name for trace ID
const TraceIDHeader = "X-Trace-ID"

// Incoming ids are echoed into logs and headers, so only short tokens are
// accepted.
var validTraceID = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// TraceIDMiddleware adds a trace ID to each request. A well formed
// X-Trace-ID from the client is reused, otherwise a UUID is generated.
// The id lands in the context under logging.TraceIDKey.
func TraceIDMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := r.Header.Get(TraceIDHeader)
			if !validTraceID.MatchString(traceID) {
				traceID = uuid.New().String()
			}

			w.Header().Set(TraceIDHeader, traceID)
			ctx := logging.SetTraceID(r.Context(), traceID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetTraceID retrieves the trace ID from context
func GetTraceID(ctx context.Context) string {
	return logging.GetTraceID(ctx)
}

// GetTraceIDFromRequest retrieves the trace ID from request context
func GetTraceIDFromRequest(r *http.Request) string {
	return GetTraceID(r.Context())
}
