package api

import (
	"log/slog"
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"
	"github.com/lkemp/userbase/internal/api/shared"
)

// Route describes one HTTP operation exposed by a RouteProvider.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

// RouteProvider is the capability contract for pluggable controllers: a
// component that can enumerate its routes for mounting. The composer never
// inspects a provider beyond this.
type RouteProvider interface {
	Routes() []Route
}

// Composer mounts RouteProviders under a base path, in the order supplied.
// It performs no validation of the routes themselves; overlap between
// providers is resolved first-registered-wins.
type Composer struct {
	base   string
	logger *slog.Logger
}

// NewComposer creates a Composer mounting routes under the given base path.
// An empty base defaults to "/".
func NewComposer(base string, logger *slog.Logger) *Composer {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for Composer")
	}
	if base == "" {
		base = "/"
	}

	return &Composer{
		base:   base,
		logger: logger.With(slog.String("component", "router_composer")),
	}
}

// Mount registers the liveness endpoint and then every provider's routes on
// the given router. When two providers expose the same method and pattern,
// the first registration wins and the duplicate is logged and skipped (the
// underlying mux treats re-registration as a programming error, so the
// composer resolves conflicts itself).
func (c *Composer) Mount(r chi.Router, providers ...RouteProvider) {
	registered := make(map[string]struct{})

	register := func(rt Route) {
		pattern := path.Join(c.base, rt.Pattern)
		key := rt.Method + " " + pattern
		if _, dup := registered[key]; dup {
			c.logger.Warn("route already registered, keeping first registration",
				"method", rt.Method,
				"pattern", pattern)
			return
		}
		registered[key] = struct{}{}
		r.Method(rt.Method, pattern, rt.Handler)
	}

	// The liveness endpoint is always present, mounted before any provider,
	// and absent from the API contract so it bypasses contract validation.
	register(Route{Method: http.MethodGet, Pattern: "/health", Handler: healthHandler})

	for _, provider := range providers {
		for _, rt := range provider.Routes() {
			register(rt)
		}
	}
}

// healthHandler reports process liveness. It carries no dependency on the
// persistence layer: the server is alive even when the store is down.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "OK"})
}
