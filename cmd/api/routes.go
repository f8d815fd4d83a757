package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/justinas/alice"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// The routes function initializes and returns an http.Handler with all the
// route definitions for the application.
//
// The defined routes are as follows:
//
//   - GET    /health   Liveness signal for the orchestrator.
//
//   - GET    /         Show application information.
//
// Unmatched paths and methods fall through to httprouter's default 404 and
// 405 responses.
//
// The router sits at the end of the request pipeline returned by
// app.middleware.
func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.HandlerFunc(http.MethodGet, "/health", app.healthcheck)
	router.HandlerFunc(http.MethodGet, "/", app.index)

	return app.middleware().Then(router)
}

// middleware returns the ordered stages every request passes through before
// reaching the router. The first stage is the outermost.
//
//  1. tracing        - spans per request, no-op unless tracing is configured
//  2. logRequest     - one log line per request, including the final status
//  3. recoverPanic   - 500 response for panics further down
//  4. secureHeaders  - defensive response headers
//  5. rateLimit      - per-client token bucket, when enabled
func (app *application) middleware() alice.Chain {
	return alice.New(
		app.tracing,
		app.logRequest,
		app.recoverPanic,
		secureHeaders,
		app.rateLimit,
	)
}

// tracing wraps next with an OpenTelemetry server handler using the global
// tracer provider.
func (app *application) tracing(next http.Handler) http.Handler {
	return otelhttp.NewHandler(next, serviceName)
}
