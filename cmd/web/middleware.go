package main

import (
	"fmt"
	"github.com/google/uuid"
	"github.com/justinas/nosurf"
	"github.com/myrjola/dossier/internal/contexthelpers"
	"github.com/myrjola/dossier/internal/logging"
	"github.com/myrjola/dossier/internal/random"
	"log/slog"
	"net/http"
)

const nonceLength = 24

func secureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nonce, err := random.Letters(nonceLength)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		r = contexthelpers.SetCSPNonce(r, nonce)

		w.Header().Set("Content-Security-Policy",
			fmt.Sprintf(`script-src 'nonce-%s' 'strict-dynamic' https: http:; object-src 'none'; base-uri 'none';`,
				nonce))

		w.Header().Set("Referrer-Policy", "origin-when-cross-origin")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "deny")
		w.Header().Set("X-XSS-Protection", "0")

		next.ServeHTTP(w, r)
	})
}

func jsonHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")

		next.ServeHTTP(w, r)
	})
}

// logRequest assigns a request id and attaches it together with the method and URI to every log record
// written with the request context.
func (app *application) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var (
			proto     = r.Proto
			method    = r.Method
			uri       = r.URL.RequestURI()
			requestID = uuid.NewString()
		)

		ctx := logging.WithAttrs(r.Context(),
			slog.String("request_id", requestID),
			slog.String("method", method),
			slog.String("uri", uri))
		r = contexthelpers.SetRequestID(r.WithContext(ctx), requestID)
		w.Header().Set("X-Request-Id", requestID)

		app.logger.LogAttrs(ctx, slog.LevelDebug, "received request", slog.String("proto", proto))

		next.ServeHTTP(w, r)
	})
}

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				app.serverError(w, r, fmt.Errorf("%s", err))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func commonContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r = contexthelpers.SetCurrentPath(r, r.URL.Path)
		r = contexthelpers.SetCSRFToken(r, nosurf.Token(r))
		next.ServeHTTP(w, r)
	})
}

// noSurf implements CSRF protection using https://github.com/justinas/nosurf
func (app *application) noSurf(next http.Handler) http.Handler {
	csrfHandler := nosurf.New(next)
	csrfHandler.SetBaseCookie(http.Cookie{ //nolint:exhaustruct // defaults are fine for the rest.
		HttpOnly: true,
		Path:     "/",
		Secure:   true,
	})
	csrfHandler.SetFailureHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.logger.LogAttrs(r.Context(), slog.LevelWarn, "csrf check failed",
			slog.String("reason", fmt.Sprint(nosurf.Reason(r))))
		app.clientError(w, r, http.StatusBadRequest)
	}))

	return csrfHandler
}
