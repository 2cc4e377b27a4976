package main

import (
	"bytes"
	"fmt"
	"github.com/myrjola/dossier/internal/contexthelpers"
	"github.com/myrjola/dossier/internal/errors"
	"github.com/myrjola/dossier/internal/models"
	"github.com/myrjola/dossier/ui"
	"html/template"
	"log/slog"
	"net/http"
	"slices"
	"time"
)

type BaseTemplateData struct {
	CurrentPath string
	RequestID   string
}

func newBaseTemplateData(r *http.Request) BaseTemplateData {
	ctx := r.Context()
	return BaseTemplateData{
		CurrentPath: contexthelpers.CurrentPath(ctx),
		RequestID:   contexthelpers.RequestID(ctx),
	}
}

// parseTemplates parses the embedded templates once. The request specific nonce and csrf functions are
// placeholders that render overrides on a clone.
func parseTemplates() (*template.Template, error) {
	t, err := template.New("dossier").Funcs(template.FuncMap{
		"nonce": func() template.HTMLAttr {
			panic("not implemented")
		},
		"csrf": func() template.HTML {
			panic("not implemented")
		},
		"humanize": models.Humanize,
		"isoTime": func(t time.Time) string {
			return t.UTC().Format("2006-01-02T15:04:05.000Z")
		},
		"clock": func(t time.Time) string {
			return t.UTC().Format("Jan 2 15:04")
		},
		"pressureLevel": func(p models.Pressure) int {
			// Off-scale labels have no level.
			return slices.Index(models.PressureScale, p) + 1
		},
	}).ParseFS(ui.Files, "templates/*.gohtml")
	if err != nil {
		return nil, errors.Wrap(err, "parse embedded templates")
	}
	return t, nil
}

// render executes the template named name. Use "base" for full pages and a fragment name for htmx partials.
func (app *application) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var (
		err error
		t   *template.Template
	)

	if t, err = app.templates.Clone(); err != nil {
		app.serverError(w, r, errors.Wrap(err, "clone templates", slog.String("template", name)))
		return
	}

	buf := new(bytes.Buffer)
	ctx := r.Context()
	nonce := fmt.Sprintf("nonce=\"%s\"", contexthelpers.CSPNonce(ctx))
	csrf := fmt.Sprintf("<input type=\"hidden\" name=\"csrf_token\" value=\"%s\"/>", contexthelpers.CSRFToken(ctx))
	t.Funcs(template.FuncMap{
		"nonce": func() template.HTMLAttr {
			return template.HTMLAttr(nonce) //nolint:gosec // we trust the nonce since it's not provided by user.
		},
		"csrf": func() template.HTML {
			return template.HTML(csrf) //nolint:gosec // we trust the csrf since it's not provided by user.
		},
	})
	if err = t.ExecuteTemplate(buf, name, data); err != nil {
		app.serverError(w, r, errors.Wrap(err, "execute template", slog.String("template", name)))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	_, _ = buf.WriteTo(w)
}
