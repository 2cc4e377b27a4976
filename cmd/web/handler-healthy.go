package main

import "net/http"

// healthy responds with a JSON object indicating that the server is healthy.
func (app *application) healthy(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, r, http.StatusOK, map[string]string{
		"status": "ok",
		"engine": string(app.engine.Mode()),
	})
}
