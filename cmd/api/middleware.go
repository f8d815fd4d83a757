package main

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/tomasen/realip"
	"golang.org/x/time/rate"
)

// logRequest is a middleware that logs one line per request once the
// response has been written. The fields mirror the Apache combined log
// format: client address, method, URI, protocol, status, bytes written,
// referer and user agent, plus the time taken.
func (app *application) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)

		app.logger.Info(
			"request",
			"remote_addr", realip.FromRequest(r),
			"method", r.Method,
			"uri", r.URL.RequestURI(),
			"proto", r.Proto,
			"status", m.Code,
			"bytes", m.Written,
			"duration", m.Duration,
			"referer", r.Referer(),
			"user_agent", r.UserAgent(),
		)
	})
}

// recoverPanic is a middleware that catches all panics in a handler chain.
// When a panic is caught, it is handled by
//  1. Setting the "Connection: close" header, to instruct go to close the
//     connection after sending the response.
//  2. Sending a 500 Internal Server Error response.
func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				// err has type any so must be converted to error
				app.serverErrorResponse(w, r, fmt.Errorf("%s", err))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// securityHeaders is the default policy applied to every response.
var securityHeaders = map[string]string{
	"Content-Security-Policy":           "default-src 'self';base-uri 'self';font-src 'self' https: data:;form-action 'self';frame-ancestors 'self';img-src 'self' data:;object-src 'none';script-src 'self';script-src-attr 'none';style-src 'self' https: 'unsafe-inline';upgrade-insecure-requests",
	"Cross-Origin-Opener-Policy":        "same-origin",
	"Cross-Origin-Resource-Policy":      "same-origin",
	"Origin-Agent-Cluster":              "?1",
	"Referrer-Policy":                   "no-referrer",
	"Strict-Transport-Security":         "max-age=31536000; includeSubDomains",
	"X-Content-Type-Options":            "nosniff",
	"X-DNS-Prefetch-Control":            "off",
	"X-Download-Options":                "noopen",
	"X-Frame-Options":                   "SAMEORIGIN",
	"X-Permitted-Cross-Domain-Policies": "none",
	"X-XSS-Protection":                  "0",
}

// secureHeaders sets securityHeaders on the response before calling next, so
// they are present on error and not-found responses too.
func secureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		for k, v := range securityHeaders {
			h.Set(k, v)
		}
		h.Del("X-Powered-By")

		next.ServeHTTP(w, r)
	})
}

// rateLimit is a middleware that limits each client IP to an average of
// config.Limiter.RPS requests per second, with bursts of up to
// config.Limiter.Burst. It is a pass-through when the limiter is disabled.
//
// If the limit is exceeded, a 429 Too Many Requests response is sent to the
// client.
func (app *application) rateLimit(next http.Handler) http.Handler {
	if !app.config.Limiter.Enabled {
		return next
	}

	// Struct client contains data corresponding to a client IP. The lastSeen
	// property is used to remove unused clients from the clients map.
	type client struct {
		limiter  *rate.Limiter
		lastSeen time.Time
	}

	var (
		mu      sync.Mutex
		clients = make(map[string]*client)
	)

	// Start background goroutine to remove old entries from the clients map.
	go func() {
		for {
			time.Sleep(time.Minute)

			mu.Lock()
			for ip, c := range clients {
				if time.Since(c.lastSeen) > 3*time.Minute {
					delete(clients, ip)
				}
			}
			mu.Unlock()
		}
	}()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := realip.FromRequest(r)

		mu.Lock()

		if _, ok := clients[ip]; !ok {
			clients[ip] = &client{
				limiter: rate.NewLimiter(rate.Limit(app.config.Limiter.RPS), app.config.Limiter.Burst),
			}
		}

		clients[ip].lastSeen = time.Now()

		if !clients[ip].limiter.Allow() {
			mu.Unlock()
			app.rateLimitExceededResponse(w, r)
			return
		}

		// Unlocking can't be deferred, it would hold the mutex until all
		// downstream handlers have returned.
		mu.Unlock()

		next.ServeHTTP(w, r)
	})
}
