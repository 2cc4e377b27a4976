package main

import (
	"fmt"
	"github.com/myrjola/dossier/internal/engine"
	"github.com/myrjola/dossier/internal/errors"
	"github.com/myrjola/dossier/internal/models"
	"github.com/myrjola/dossier/internal/scenario"
	"log/slog"
	"net/http"
	"strings"
)

// scenarioForm holds the scenario form fields as the operator typed them.
type scenarioForm struct {
	ID                   string
	Name                 string
	CrimeType            string
	PublicPressure       models.Pressure
	AllowedEvidenceTypes string
	// Evidence holds one template per line as "label | category | summary".
	Evidence string
}

type scenariosTemplateData struct {
	BaseTemplateData
	Flash     string
	Error     string
	Mode      engine.Mode
	Seed      int
	Scenarios []scenario.Scenario
	Pressures []models.Pressure
	Form      scenarioForm
	Editing   bool
}

type scenariosResponse struct {
	Scenarios []scenario.Scenario `json:"scenarios"`
}

func formFromScenario(sc scenario.Scenario) scenarioForm {
	lines := make([]string, 0, len(sc.EvidenceTemplates))
	for _, t := range sc.EvidenceTemplates {
		line := t.Label + " | " + t.Category
		if t.Summary != "" {
			line += " | " + t.Summary
		}
		lines = append(lines, line)
	}
	return scenarioForm{
		ID:                   sc.ID,
		Name:                 sc.Name,
		CrimeType:            sc.CrimeType,
		PublicPressure:       sc.DefaultPublicPressure,
		AllowedEvidenceTypes: strings.Join(sc.AllowedEvidenceTypes, ", "),
		Evidence:             strings.Join(lines, "\n"),
	}
}

func (f scenarioForm) toScenario() scenario.Scenario {
	var allowed []string
	for _, category := range strings.Split(f.AllowedEvidenceTypes, ",") {
		if category = strings.TrimSpace(category); category != "" {
			allowed = append(allowed, category)
		}
	}
	var templates []scenario.EvidenceTemplate
	for _, line := range strings.Split(f.Evidence, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.SplitN(line, "|", 3) //nolint:mnd // label, category and summary.
		for len(parts) < 3 {                 //nolint:mnd // see above.
			parts = append(parts, "")
		}
		templates = append(templates, scenario.EvidenceTemplate{
			ID:       "",
			Label:    strings.TrimSpace(parts[0]),
			Category: strings.TrimSpace(parts[1]),
			Summary:  strings.TrimSpace(parts[2]),
		})
	}
	return scenario.Scenario{
		ID:                    strings.TrimSpace(f.ID),
		Name:                  f.Name,
		CrimeType:             f.CrimeType,
		DefaultPublicPressure: f.PublicPressure,
		AllowedEvidenceTypes:  allowed,
		EvidenceTemplates:     templates,
	}
}

// scenarioStatus maps a scenario store error to the HTTP status reported to clients.
func scenarioStatus(err error) int {
	switch {
	case errors.Is(err, scenario.ErrInvalidID):
		return http.StatusBadRequest
	case errors.Is(err, scenario.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, scenario.ErrInvalid):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (app *application) renderScenarios(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	form scenarioForm,
	editing bool,
	problem string,
) {
	seed := app.engine.Seed()
	if seed == 0 {
		seed = 1
	}
	app.render(w, r, status, "scenarios", scenariosTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		Flash:            app.sessionManager.PopString(r.Context(), flashSessionKey),
		Error:            problem,
		Mode:             app.engine.Mode(),
		Seed:             seed,
		Scenarios:        app.scenarios.List(),
		Pressures:        models.PressureScale,
		Form:             form,
		Editing:          editing,
	})
}

// scenarioIndex lists the configured scenarios next to an empty scenario form.
func (app *application) scenarioIndex(w http.ResponseWriter, r *http.Request) {
	form := scenarioForm{ //nolint:exhaustruct // the remaining fields start empty.
		PublicPressure: models.PressureModerate,
	}
	app.renderScenarios(w, r, http.StatusOK, form, false, "")
}

// editScenario lists the configured scenarios with the form filled in from the scenario named by id.
func (app *application) editScenario(w http.ResponseWriter, r *http.Request) {
	sc, err := app.scenarios.Load(r.PathValue("id"))
	if err != nil {
		app.clientError(w, r, scenarioStatus(err))
		return
	}
	app.renderScenarios(w, r, http.StatusOK, formFromScenario(sc), true, "")
}

// saveScenario creates or replaces the scenario posted by the scenario form. Invalid input re-renders the
// form with the submitted values.
func (app *application) saveScenario(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}
	form := scenarioForm{
		ID:                   r.PostForm.Get("id"),
		Name:                 r.PostForm.Get("name"),
		CrimeType:            r.PostForm.Get("crime_type"),
		PublicPressure:       models.Pressure(r.PostForm.Get("default_public_pressure")),
		AllowedEvidenceTypes: r.PostForm.Get("allowed_evidence_types"),
		Evidence:             r.PostForm.Get("evidence"),
	}
	sc, err := app.scenarios.Save(form.toScenario())
	if err != nil {
		status := scenarioStatus(err)
		if status == http.StatusInternalServerError {
			app.serverError(w, r, err)
			return
		}
		app.logger.LogAttrs(r.Context(), slog.LevelDebug, "scenario rejected",
			slog.String("scenario", form.ID), errors.SlogError(err))
		app.renderScenarios(w, r, http.StatusUnprocessableEntity, form, false, err.Error())
		return
	}
	app.logger.LogAttrs(r.Context(), slog.LevelInfo, "scenario saved", slog.String("scenario", sc.ID))
	app.sessionManager.Put(r.Context(), flashSessionKey, fmt.Sprintf("Saved scenario %s.", sc.Name))
	http.Redirect(w, r, "/scenarios", http.StatusSeeOther)
}

func (app *application) deleteScenario(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := app.scenarios.Delete(id); err != nil {
		app.clientError(w, r, scenarioStatus(err))
		return
	}
	app.logger.LogAttrs(r.Context(), slog.LevelInfo, "scenario deleted", slog.String("scenario", id))
	app.sessionManager.Put(r.Context(), flashSessionKey, fmt.Sprintf("Deleted scenario %s.", id))
	http.Redirect(w, r, "/scenarios", http.StatusSeeOther)
}

// playScenario regenerates the mock case from the scenario named by id and the posted seed.
func (app *application) playScenario(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sc, err := app.scenarios.Load(r.PathValue("id"))
	if err != nil {
		app.clientError(w, r, scenarioStatus(err))
		return
	}
	if err = r.ParseForm(); err != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}
	seed := engine.ParseSeed(r.PostForm.Get("seed"))
	if _, err = app.engine.Reseed(ctx, seed, sc.Overrides()); err != nil {
		if engine.KindOf(err) != engine.KindUnsupported {
			app.engineError(w, r, err)
			return
		}
		app.sessionManager.Put(ctx, flashSessionKey, "Scenarios require the mock engine.")
		http.Redirect(w, r, "/scenarios", http.StatusSeeOther)
		return
	}
	app.sessionManager.Remove(ctx, slotSessionKey)
	app.sessionManager.Put(ctx, flashSessionKey,
		fmt.Sprintf("New %s case generated from seed %d.", sc.Name, app.engine.Seed()))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (app *application) apiScenarios(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, r, http.StatusOK, scenariosResponse{Scenarios: app.scenarios.List()})
}

func (app *application) apiScenario(w http.ResponseWriter, r *http.Request) {
	sc, err := app.scenarios.Load(r.PathValue("id"))
	if err != nil {
		app.apiError(w, r, scenarioStatus(err), err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, sc)
}

// apiPutScenario creates or replaces a scenario. The id in the path wins over any id in the body.
func (app *application) apiPutScenario(w http.ResponseWriter, r *http.Request) {
	var (
		err error
		sc  scenario.Scenario
	)
	if err = decodeJSON(w, r, &sc); err != nil {
		app.apiError(w, r, http.StatusBadRequest, err)
		return
	}
	sc.ID = r.PathValue("id")
	if sc, err = app.scenarios.Save(sc); err != nil {
		app.apiError(w, r, scenarioStatus(err), err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, sc)
}

func (app *application) apiDeleteScenario(w http.ResponseWriter, r *http.Request) {
	if err := app.scenarios.Delete(r.PathValue("id")); err != nil {
		app.apiError(w, r, scenarioStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
