package main

import (
	"github.com/justinas/alice"
	"net/http"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	session := alice.New(app.sessionManager.LoadAndSave, app.noSurf, commonContext)

	mux.Handle("GET /{$}", session.ThenFunc(app.dossier))
	mux.Handle("POST /actions/{actionID}", session.ThenFunc(app.applyAction))
	mux.Handle("POST /intent", session.ThenFunc(app.resolveIntent))
	mux.Handle("POST /snapshots/{slot}/save", session.ThenFunc(app.saveSnapshot))
	mux.Handle("POST /snapshots/{slot}/load", session.ThenFunc(app.loadSnapshot))
	mux.Handle("GET /scenarios", session.ThenFunc(app.scenarioIndex))
	mux.Handle("POST /scenarios", session.ThenFunc(app.saveScenario))
	mux.Handle("GET /scenarios/{id}", session.ThenFunc(app.editScenario))
	mux.Handle("POST /scenarios/{id}/delete", session.ThenFunc(app.deleteScenario))
	mux.Handle("POST /scenarios/{id}/play", session.ThenFunc(app.playScenario))

	// The JSON API is the engine wire contract, so a dossier running the mock can serve as the remote
	// engine of another dossier.
	api := alice.New(jsonHeaders)

	mux.Handle("GET /api/healthy", api.ThenFunc(app.healthy))
	mux.Handle("GET /api/visible_state", api.ThenFunc(app.apiVisibleState))
	mux.Handle("GET /api/actions", api.ThenFunc(app.apiActions))
	mux.Handle("POST /api/apply_action", api.ThenFunc(app.apiApplyAction))
	mux.Handle("POST /api/reset", api.ThenFunc(app.apiReset))
	mux.Handle("GET /api/scenarios", api.ThenFunc(app.apiScenarios))
	mux.Handle("GET /api/scenarios/{id}", api.ThenFunc(app.apiScenario))
	mux.Handle("PUT /api/scenarios/{id}", api.ThenFunc(app.apiPutScenario))
	mux.Handle("DELETE /api/scenarios/{id}", api.ThenFunc(app.apiDeleteScenario))

	common := alice.New(app.recoverPanic, app.logRequest, secureHeaders)

	return common.Then(timeoutHandler(mux, serverTimeout))
}
