package main

import (
	"encoding/json"
	"net/http"
)

// envelope is a type used for wrapping JSON responses to ensure a consistent
// response structure. Error responses are wrapped like this:
//
//	envelope{"error": "detailed error message"}
type envelope map[string]any

// writeJSON marshals the data into JSON, then prepares and sends the response.
// The response is sent with
//
//  1. The "Content-Type: application/json; charset=utf-8" header.
//  2. The status code that was supplied as an argument.
//
// Errors are simply returned to the caller.
func (app *application) writeJSON(w http.ResponseWriter, status int, data envelope, headers http.Header) error {
	js, err := json.Marshal(data)
	if err != nil {
		return err
	}

	// If headers is nil, this loop will simply be skipped.
	for k, v := range headers {
		w.Header()[k] = v
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(append(js, '\n'))

	return nil
}
