package main

import (
	"fmt"
	"github.com/myrjola/dossier/internal/engine"
	"github.com/myrjola/dossier/internal/errors"
	"github.com/myrjola/dossier/internal/models"
	"github.com/myrjola/dossier/internal/sanitize"
	"github.com/myrjola/dossier/internal/scenario"
	"golang.org/x/sync/errgroup"
	"log/slog"
	"net/http"
	"slices"
	"strings"
)

const maxIntentLength = 240

type slotData struct {
	Name    string
	Saved   bool
	Current bool
}

type dossierTemplateData struct {
	BaseTemplateData
	Flash   string
	Mode    engine.Mode
	Seed    int
	State   models.VisibleState
	Actions []models.ActionOption
	Slots   []slotData
}

// dossier renders the case page. The optional seed query parameter regenerates the mock case.
func (app *application) dossier(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	flash := app.sessionManager.PopString(ctx, flashSessionKey)

	if raw := r.URL.Query().Get("seed"); raw != "" {
		var generated engine.CaseOverrides
		seed := engine.ParseSeed(raw)
		if _, err := app.engine.Reseed(ctx, seed, generated); err != nil {
			if engine.KindOf(err) != engine.KindUnsupported {
				app.engineError(w, r, err)
				return
			}
			flash = "Seed ignored: live engine in use."
		} else {
			app.sessionManager.Remove(ctx, slotSessionKey)
			flash = fmt.Sprintf("New case generated from seed %d.", seed)
		}
	}

	app.renderDossier(w, r, flash)
}

// renderDossier fetches the current state and actions and renders either the full page or, for htmx
// requests, the panels fragment.
func (app *application) renderDossier(w http.ResponseWriter, r *http.Request, flash string) {
	app.renderState(w, r, flash, nil)
}

// renderState renders the dossier around shown. A nil shown is fetched from the engine together with the
// actions.
func (app *application) renderState(w http.ResponseWriter, r *http.Request, flash string, shown *models.VisibleState) {
	var (
		state   models.VisibleState
		actions []models.ActionOption
	)

	g, ctx := errgroup.WithContext(r.Context())
	if shown == nil {
		g.Go(func() error {
			var err error
			state, err = app.engine.VisibleState(ctx)
			return err
		})
	} else {
		state = *shown
	}
	g.Go(func() error {
		var err error
		actions, err = app.engine.Actions(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		app.engineError(w, r, err)
		return
	}

	current := app.sessionManager.GetString(r.Context(), slotSessionKey)
	names := app.engine.Snapshots()
	slots := make([]slotData, 0, len(names))
	for _, name := range names {
		slots = append(slots, slotData{
			Name:    name,
			Saved:   app.engine.Saved(name),
			Current: name == current,
		})
	}

	data := dossierTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		Flash:            flash,
		Mode:             app.engine.Mode(),
		Seed:             app.engine.Seed(),
		State:            state,
		Actions:          actions,
		Slots:            slots,
	}

	name := "base"
	if app.htmx.NewHandler(w, r).IsHxRequest() {
		name = "panels"
	}
	app.render(w, r, http.StatusOK, name, data)
}

// respond finishes a form submission. Plain form posts redirect back to the dossier with the message as a
// flash. htmx requests get the refreshed panels directly, rendered around shown when the engine already
// returned the new state.
func (app *application) respond(w http.ResponseWriter, r *http.Request, flash string, shown *models.VisibleState) {
	if app.htmx.NewHandler(w, r).IsHxRequest() {
		app.renderState(w, r, flash, shown)
		return
	}
	app.sessionManager.Put(r.Context(), flashSessionKey, flash)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (app *application) applyAction(w http.ResponseWriter, r *http.Request) {
	actionID := r.PathValue("actionID")
	state, result, err := app.engine.ApplyAction(r.Context(), actionID, nil)
	if err != nil {
		app.engineError(w, r, err)
		return
	}
	app.respond(w, r, result.Summary, &state)
}

// resolveIntent maps the free-text instruction in the intent form field to an action and applies it.
func (app *application) resolveIntent(w http.ResponseWriter, r *http.Request) {
	var (
		err     error
		actions []models.ActionOption
		state   models.VisibleState
		result  models.ActionResult
	)
	ctx := r.Context()

	if err = r.ParseForm(); err != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}
	text := strings.TrimSpace(r.PostForm.Get("intent"))
	if len([]rune(text)) > maxIntentLength {
		text = string([]rune(text)[:maxIntentLength])
	}

	if actions, err = app.engine.Actions(ctx); err != nil {
		app.engineError(w, r, err)
		return
	}
	resolution := app.resolver.Resolve(ctx, text, actions)
	if !resolution.Resolved() {
		app.respond(w, r, "No matching action.", nil)
		return
	}
	app.logger.LogAttrs(ctx, slog.LevelInfo, "intent resolved",
		slog.String("action_id", resolution.ActionID), slog.String("method", string(resolution.Method)))

	if state, result, err = app.engine.ApplyAction(ctx, resolution.ActionID, nil); err != nil {
		app.engineError(w, r, err)
		return
	}
	app.respond(w, r, result.Summary, &state)
}

func (app *application) saveSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slot := r.PathValue("slot")
	if err := app.engine.SaveSnapshot(ctx, slot); err != nil {
		app.engineError(w, r, err)
		return
	}
	app.sessionManager.Put(ctx, slotSessionKey, slot)
	app.respond(w, r, fmt.Sprintf("Saved %s.", slot), nil)
}

// loadSnapshot renders the loaded state directly instead of redirecting. A live engine is not informed of
// the load, so fetching the state again would show the remote state instead.
func (app *application) loadSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slot := r.PathValue("slot")
	state, err := app.engine.LoadSnapshot(ctx, slot)
	if err != nil {
		app.engineError(w, r, err)
		return
	}
	app.sessionManager.Put(ctx, slotSessionKey, slot)
	if h := app.htmx.NewHandler(w, r); h.IsHxRequest() {
		h.PushURL("/#" + slot)
	}
	app.renderState(w, r, fmt.Sprintf("Loaded %s.", slot), &state)
}

func (app *application) apiVisibleState(w http.ResponseWriter, r *http.Request) {
	state, err := app.engine.VisibleState(r.Context())
	if err != nil {
		app.apiError(w, r, engineStatus(err), err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, state)
}

func (app *application) apiActions(w http.ResponseWriter, r *http.Request) {
	actions, err := app.engine.Actions(r.Context())
	if err != nil {
		app.apiError(w, r, engineStatus(err), err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, models.ActionsResponse{Actions: actions})
}

func (app *application) apiApplyAction(w http.ResponseWriter, r *http.Request) {
	var (
		err    error
		req    models.ApplyActionRequest
		state  models.VisibleState
		result models.ActionResult
	)
	if err = decodeJSON(w, r, &req); err != nil {
		app.apiError(w, r, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.ActionID) == "" {
		app.apiError(w, r, http.StatusUnprocessableEntity, errors.New("action_id is required"))
		return
	}
	if state, result, err = app.engine.ApplyAction(r.Context(), req.ActionID, req.Params); err != nil {
		app.apiError(w, r, engineStatus(err), err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, models.ApplyActionResponse{VisibleState: state, ActionResult: result})
}

// apiReset regenerates the mock case, optionally from a stored scenario and with another crime type.
// An empty body resets to the default seed.
func (app *application) apiReset(w http.ResponseWriter, r *http.Request) {
	var (
		err       error
		req       models.ResetRequest
		state     models.VisibleState
		sc        scenario.Scenario
		overrides engine.CaseOverrides
	)
	if r.ContentLength != 0 {
		if err = decodeJSON(w, r, &req); err != nil {
			app.apiError(w, r, http.StatusBadRequest, err)
			return
		}
	}
	if req.Scenario != "" {
		if sc, err = app.scenarios.Load(req.Scenario); err != nil {
			app.apiError(w, r, scenarioStatus(err), err)
			return
		}
		overrides = sc.Overrides()
	}
	if req.CrimeType != "" {
		crimeType := sanitize.Descriptor(req.CrimeType, "")
		if !slices.Contains(engine.CrimeTypes(), crimeType) {
			app.apiError(w, r, http.StatusUnprocessableEntity, errors.New(fmt.Sprintf(
				"crime_type must be one of %s", strings.Join(engine.CrimeTypes(), ", "))))
			return
		}
		overrides.CrimeType = crimeType
	}
	if state, err = app.engine.Reseed(r.Context(), engine.NormalizeSeed(req.Seed), overrides); err != nil {
		app.apiError(w, r, engineStatus(err), err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, state)
}
