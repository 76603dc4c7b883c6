package main

import (
	"net/http"

	"github.com/gorilla/mux"

	"catalogadmin/models"
)

func (app *App) listOperationsHandler(w http.ResponseWriter, r *http.Request) {
	kind := models.OperationKind(r.URL.Query().Get("kind"))
	limit := queryInt(r, "limit", 50, 500)

	events, err := app.operations.Recent(kind, limit)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	if events == nil {
		events = []models.OperationEvent{}
	}
	app.writeJSON(w, http.StatusOK, events)
}

func (app *App) operationStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := app.operations.Stats()
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, stats)
}

func (app *App) getOperationHandler(w http.ResponseWriter, r *http.Request) {
	event, err := app.operations.GetByOperationID(mux.Vars(r)["id"])
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, event)
}

func (app *App) listSnapshotsHandler(w http.ResponseWriter, r *http.Request) {
	snapshots, err := app.snapshots.History(queryInt(r, "limit", 48, 1000))
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	if snapshots == nil {
		snapshots = []models.CatalogSnapshot{}
	}
	app.writeJSON(w, http.StatusOK, snapshots)
}

// triggerSnapshotHandler starts a snapshot in the background
func (app *App) triggerSnapshotHandler(w http.ResponseWriter, _ *http.Request) {
	if app.jobManager == nil || !app.jobManager.IsRunning() {
		app.errorResponse(w, http.StatusServiceUnavailable, "background jobs are not running")
		return
	}
	app.jobManager.TriggerSnapshot()
	app.writeJSON(w, http.StatusAccepted, envelope{"message": "snapshot triggered"})
}
