package main

import (
	"encoding/json"
	"github.com/myrjola/dossier/internal/engine"
	"github.com/myrjola/dossier/internal/errors"
	"log/slog"
	"net/http"
)

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error",
		slog.String("method", method), slog.String("uri", uri), errors.SlogError(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (app *application) clientError(w http.ResponseWriter, r *http.Request, status int) {
	app.logger.LogAttrs(r.Context(), slog.LevelDebug, http.StatusText(status), slog.Any("formdata", r.PostForm))
	http.Error(w, http.StatusText(status), status)
}

// engineStatus maps the kind of an engine error to the HTTP status reported to clients.
func engineStatus(err error) int {
	switch engine.KindOf(err) {
	case engine.KindTimeout:
		return http.StatusGatewayTimeout
	case engine.KindTransport:
		return http.StatusBadGateway
	case engine.KindUnknownSlot:
		return http.StatusNotFound
	case engine.KindInvalidSlot:
		return http.StatusBadRequest
	case engine.KindUnsupported:
		return http.StatusConflict
	case engine.KindUnknown:
	}
	return http.StatusInternalServerError
}

// engineMessage returns the message of the engine error in err's chain, which is safe to show to the operator.
func engineMessage(err error) string {
	var engineErr *engine.Error
	if errors.As(err, &engineErr) {
		return engineErr.Message
	}
	return http.StatusText(http.StatusInternalServerError)
}

// engineError reports a failed engine call on the dossier pages.
func (app *application) engineError(w http.ResponseWriter, r *http.Request, err error) {
	status := engineStatus(err)
	if status == http.StatusInternalServerError {
		app.serverError(w, r, err)
		return
	}
	app.logger.LogAttrs(r.Context(), slog.LevelWarn, "engine call failed",
		slog.Int("status", status), errors.SlogError(err))
	http.Error(w, engineMessage(err), status)
}

// apiError reports a failed call on the JSON API as {"detail": message}.
func (app *application) apiError(w http.ResponseWriter, r *http.Request, status int, err error) {
	level := slog.LevelDebug
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	app.logger.LogAttrs(r.Context(), level, "api error", slog.Int("status", status), errors.SlogError(err))
	detail := engineMessage(err)
	var engineErr *engine.Error
	if !errors.As(err, &engineErr) && status < http.StatusInternalServerError {
		detail = err.Error()
	}
	app.writeJSON(w, r, status, map[string]string{"detail": detail})
}

func (app *application) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "marshal response"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}
