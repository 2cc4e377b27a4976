package main

import (
	"net/http"
	"strings"
	"time"
)

const (
	timeoutPage = `<!doctype html>
<html lang="en">
<head><title>Dossier unavailable</title></head>
<body>
<h1>The dossier took too long to respond</h1>
<p>The engine may be busy. <a href="/">Reload the dossier</a>.</p>
</body>
</html>
`
	timeoutJSON = `{"detail": "request timed out"}`
)

// timeoutHandler responds with 503 Service Unavailable when h does not finish within the deadline. API
// requests get a JSON detail, everything else an HTML page.
func timeoutHandler(h http.Handler, serverTimeout time.Duration) http.Handler {
	// A little shorter than the server's write timeout so that the response still reaches the client.
	deadline := serverTimeout - 500*time.Millisecond //nolint:mnd // 500ms
	page := http.TimeoutHandler(h, deadline, timeoutPage)
	api := http.TimeoutHandler(h, deadline, timeoutJSON)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			api.ServeHTTP(w, r)
			return
		}
		page.ServeHTTP(w, r)
	})
}
