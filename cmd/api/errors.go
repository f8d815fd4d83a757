package main

import (
	"net/http"
)

// logError logs an error message, as well as the request method and URL.
func (app *application) logError(r *http.Request, err error) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI() // returns /path?query from the request URL
	)

	app.logger.Error(err.Error(), "method", method, "uri", uri)
}

// errorResponse sends arbitrary, JSON formatted errors to the client.
// It wraps the message in a JSON object with key "error".
//
// If app.writeJSON encounters an error, the function logs the error and sends
// a blank response with a 500 status code.
func (app *application) errorResponse(w http.ResponseWriter, r *http.Request, status int, message any) {
	env := envelope{"error": message}

	err := app.writeJSON(w, status, env, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// serverErrorResponse logs the detailed error and sends a 500 Internal Server
// Error with a generic message.
func (app *application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)

	msg := "the server encountered a problem and couldn't process your request"
	app.errorResponse(w, r, http.StatusInternalServerError, msg)
}

// rateLimitExceededResponse sends a JSON response with a 429 status code.
func (app *application) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request) {
	msg := "rate limit exceeded"
	app.errorResponse(w, r, http.StatusTooManyRequests, msg)
}
