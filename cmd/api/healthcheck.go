package main

import (
	"net/http"
	"time"
)

// timestampFormat is ISO-8601 in UTC with millisecond precision, e.g.
// 2024-05-01T10:00:00.123Z.
const timestampFormat = "2006-01-02T15:04:05.000Z07:00"

// healthcheck handles GET requests to the /health endpoint. It signals
// liveness only and never touches downstream resources.
//
// Responds with a JSON object in the following format:
//
//	{
//	  "status":    "UP",
//	  "timestamp": <time of request arrival>
//	}
func (app *application) healthcheck(w http.ResponseWriter, r *http.Request) {
	env := envelope{
		"status":    "UP",
		"timestamp": time.Now().UTC().Format(timestampFormat),
	}

	err := app.writeJSON(w, http.StatusOK, env, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// index handles GET requests to /. The response is static apart from the
// environment name and host, both fixed at startup.
//
//	{
//	  "message":     <greeting>,
//	  "version":     "1.0.0",
//	  "environment": <APP_ENV or NODE_ENV, default "development">,
//	  "host":        <host name>
//	}
func (app *application) index(w http.ResponseWriter, r *http.Request) {
	env := envelope{
		"message":     message,
		"version":     version,
		"environment": app.config.Env,
		"host":        app.host,
	}

	err := app.writeJSON(w, http.StatusOK, env, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
