// Package contract validates HTTP traffic against the service's OpenAPI
// document. The document is loaded and checked once at startup; at run time
// every request whose route the document declares is validated before it
// reaches business logic, and every response is checked against the declared
// response schema before it is sent.
package contract

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/lkemp/userbase/internal/api/shared"
	"github.com/lkemp/userbase/internal/redact"
)

// Validator checks requests and responses against a loaded API contract.
type Validator struct {
	doc    *openapi3.T
	router routers.Router
	logger *slog.Logger
}

// Load reads and validates the contract document at specPath and builds the
// route matcher for it. A missing or structurally invalid document is a
// fatal configuration error: the server must not start without a usable
// contract.
func Load(specPath string, logger *slog.Logger) (*Validator, error) {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for contract.Load")
	}

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile(specPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load API contract %q: %w", specPath, err)
	}

	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid API contract %q: %w", specPath, err)
	}

	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to build contract router: %w", err)
	}

	return &Validator{
		doc:    doc,
		router: router,
		logger: logger.With(slog.String("component", "contract_validator")),
	}, nil
}

// Middleware validates traffic for every route the contract declares.
// Routes absent from the document (the health endpoint, unknown paths) pass
// through untouched. A request that fails validation is answered with 400
// before business logic runs; a response that fails validation is a defect
// in the service and is replaced with a 500.
func (v *Validator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route, pathParams, err := v.router.FindRoute(r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		input := &openapi3filter.RequestValidationInput{
			Request:    r,
			PathParams: pathParams,
			Route:      route,
			Options:    &openapi3filter.Options{MultiError: true},
		}

		if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
			v.respondValidationError(w, r, err)
			return
		}

		// Buffer the response so it can be checked before anything reaches
		// the wire.
		rec := newResponseRecorder(w)
		next.ServeHTTP(rec, r)

		responseInput := &openapi3filter.ResponseValidationInput{
			RequestValidationInput: input,
			Status:                 rec.status,
			Header:                 rec.Header(),
		}
		responseInput.SetBodyBytes(rec.body.Bytes())

		if err := openapi3filter.ValidateResponse(r.Context(), responseInput); err != nil {
			v.logger.Error("response does not conform to API contract",
				"error", redact.Error(err),
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"trace_id", shared.GetTraceID(r.Context()))
			shared.RespondWithError(w, r, http.StatusInternalServerError, "Internal Server Error")
			return
		}

		if err := rec.flush(); err != nil {
			v.logger.Error("failed to write response", "error", err)
		}
	})
}

// respondValidationError translates a request-validation failure into the
// structured 400 body.
func (v *Validator) respondValidationError(w http.ResponseWriter, r *http.Request, err error) {
	fieldErrs := collectFieldErrors(err)

	v.logger.Debug("request failed contract validation",
		"method", r.Method,
		"path", r.URL.Path,
		"violations", len(fieldErrs),
		"trace_id", shared.GetTraceID(r.Context()))

	shared.RespondWithValidationError(w, r, "Request validation failed", fieldErrs)
}

// collectFieldErrors flattens the validation error tree produced by
// kin-openapi into per-field entries.
func collectFieldErrors(err error) []shared.FieldError {
	switch e := err.(type) {
	case nil:
		return nil

	case openapi3.MultiError:
		var out []shared.FieldError
		for _, sub := range e {
			out = append(out, collectFieldErrors(sub)...)
		}
		return out

	case *openapi3filter.RequestError:
		if e.Parameter != nil {
			msg := e.Reason
			if msg == "" && e.Err != nil {
				msg = e.Err.Error()
			}
			return []shared.FieldError{{Field: e.Parameter.Name, Message: msg}}
		}
		if e.Err != nil {
			if nested := collectFieldErrors(e.Err); len(nested) > 0 {
				return nested
			}
		}
		msg := e.Reason
		if msg == "" {
			msg = "request does not match the API contract"
		}
		return []shared.FieldError{{Field: "body", Message: msg}}

	case *openapi3.SchemaError:
		field := strings.Join(e.JSONPointer(), ".")
		if field == "" {
			field = "body"
		}
		return []shared.FieldError{{Field: field, Message: e.Reason, Value: e.Value}}

	default:
		return []shared.FieldError{{Field: "body", Message: err.Error()}}
	}
}

// responseRecorder buffers status and body while letting headers pass
// through to the underlying writer.
type responseRecorder struct {
	http.ResponseWriter
	status      int
	body        bytes.Buffer
	wroteHeader bool
}

func newResponseRecorder(w http.ResponseWriter) *responseRecorder {
	return &responseRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (rec *responseRecorder) WriteHeader(status int) {
	if rec.wroteHeader {
		return
	}
	rec.status = status
	rec.wroteHeader = true
}

func (rec *responseRecorder) Write(b []byte) (int, error) {
	return rec.body.Write(b)
}

// flush forwards the buffered response to the underlying writer.
func (rec *responseRecorder) flush() error {
	rec.ResponseWriter.WriteHeader(rec.status)
	if rec.body.Len() == 0 {
		return nil
	}
	_, err := rec.ResponseWriter.Write(rec.body.Bytes())
	return err
}
