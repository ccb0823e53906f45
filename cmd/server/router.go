package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/lkemp/userbase/internal/api"
	apimiddleware "github.com/lkemp/userbase/internal/api/middleware"
)

// maxRequestBodyBytes caps inbound bodies. User payloads are a few hundred
// bytes; 1 MiB leaves generous headroom while bounding memory per request.
const maxRequestBodyBytes = 1 << 20

// setupRouter creates and configures the application router with all routes
// and middleware. Middleware order matters: tracing before recovery so
// panics log with a trace ID, recovery before contract validation so a
// panicking validator still yields a normalized 500, contract validation
// last before the handlers it guards.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.RequestSize(maxRequestBodyBytes))
	r.Use(apimiddleware.SecurityHeaders)
	r.Use(apimiddleware.TraceMiddleware)
	r.Use(apimiddleware.Recoverer)
	r.Use(app.contract.Middleware)

	// Mount the user endpoints (and the liveness endpoint) through the
	// composer so route conflicts resolve deterministically.
	userHandler := api.NewUserHandler(app.userService, app.logger)
	api.NewComposer("/", app.logger).Mount(r, userHandler)

	return r
}
