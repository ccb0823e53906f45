package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/lkemp/userbase/internal/api/shared"
	"github.com/lkemp/userbase/internal/redact"
)

// Recoverer is the terminal catch-all for errors no earlier stage classified.
// Any panic escaping a handler is logged server-side with its stack trace and
// answered with a generic 500 body; the original error text never reaches
// the client. It never re-panics (except for http.ErrAbortHandler, which the
// net/http server uses as a control signal).
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}

			slog.LogAttrs(r.Context(), slog.LevelError, "unhandled error in request handler",
				slog.String("trace_id", shared.GetTraceID(r.Context())),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("panic", redact.String(panicMessage(rvr))),
				slog.String("stack", string(debug.Stack())))

			shared.RespondWithError(w, r, http.StatusInternalServerError, "Internal Server Error")
		}()

		next.ServeHTTP(w, r)
	})
}

// panicMessage renders a recovered value for logging.
func panicMessage(rvr interface{}) string {
	switch v := rvr.(type) {
	case error:
		return v.Error()
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}
