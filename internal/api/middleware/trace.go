package middleware

import (
	"log/slog"
	"net/http"

	"github.com/lkemp/userbase/internal/api/shared"
	"github.com/lkemp/userbase/internal/platform/logger"
)

// TraceMiddleware adds a trace ID to the request context and installs a
// trace-scoped logger. It should be applied early in the middleware chain so
// that all subsequent handlers have access to the trace ID.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Add a trace ID to the context
		ctx := shared.SetTraceID(r.Context())
		traceID := shared.GetTraceID(ctx)

		// Request-scoped logger carrying the trace ID
		log := slog.With(slog.String("trace_id", traceID))
		ctx = logger.NewContext(ctx, log)

		log.Debug("request started",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr))

		// Continue with the updated context
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
