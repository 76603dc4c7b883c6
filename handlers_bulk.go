package main

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"catalogadmin/bulk"
	"catalogadmin/models"
	"catalogadmin/validate"
	"catalogadmin/workspace"
)

func (app *App) createWorkspaceHandler(w http.ResponseWriter, _ *http.Request) {
	ws := app.workspaces.Create()
	app.writeJSON(w, http.StatusCreated, ws.State())
}

func (app *App) getWorkspaceHandler(w http.ResponseWriter, r *http.Request) {
	ws, ok := app.workspace(w, r)
	if !ok {
		return
	}
	app.writeJSON(w, http.StatusOK, ws.State())
}

func (app *App) deleteWorkspaceHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.workspaces.Delete(mux.Vars(r)["id"]); err != nil {
		app.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// workspaceQueryHandler feeds a keystroke of the search box. The search
// itself runs after the debounce delay; poll the workspace for results.
func (app *App) workspaceQueryHandler(w http.ResponseWriter, r *http.Request) {
	ws, ok := app.workspace(w, r)
	if !ok {
		return
	}

	var input struct {
		Query string `json:"query"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.badRequest(w, err)
		return
	}

	ws.Search.Type(r.Context(), input.Query)
	app.writeJSON(w, http.StatusAccepted, ws.State())
}

// toggleSelectionHandler flips a movie in the selection. The item is taken
// from the current search results, then the selection, then the body.
func (app *App) toggleSelectionHandler(w http.ResponseWriter, r *http.Request) {
	ws, ok := app.workspace(w, r)
	if !ok {
		return
	}
	slug := mux.Vars(r)["slug"]

	item, found := findItem(ws.Search.Results(), slug)
	if !found {
		item, found = findItem(ws.Selection.Items(), slug)
	}
	if !found {
		if r.ContentLength != 0 {
			if err := app.readJSON(w, r, &item); err != nil {
				app.badRequest(w, err)
				return
			}
		}
		item.Slug = slug
	}

	selected := ws.Toggle(item)
	app.writeJSON(w, http.StatusOK, envelope{"selected": selected, "workspace": ws.State()})
}

func (app *App) clearSelectionHandler(w http.ResponseWriter, r *http.Request) {
	ws, ok := app.workspace(w, r)
	if !ok {
		return
	}
	ws.Selection.Clear()
	app.writeJSON(w, http.StatusOK, ws.State())
}

func (app *App) workspaceAddTopicHandler(w http.ResponseWriter, r *http.Request) {
	ws, ok := app.workspace(w, r)
	if !ok {
		return
	}
	result, err := app.bulk.AddTopic(r.Context(), app.catalog, mux.Vars(r)["topic"], ws.Selection.Items())
	app.finishWorkspaceRun(w, r, ws, result, err)
}

func (app *App) workspaceRemoveTopicHandler(w http.ResponseWriter, r *http.Request) {
	ws, ok := app.workspace(w, r)
	if !ok {
		return
	}
	result, err := app.bulk.RemoveTopic(r.Context(), app.catalog, mux.Vars(r)["topic"], ws.Selection.Items())
	app.finishWorkspaceRun(w, r, ws, result, err)
}

func (app *App) workspaceScheduleHandler(w http.ResponseWriter, r *http.Request) {
	ws, ok := app.workspace(w, r)
	if !ok {
		return
	}

	var entry models.ScheduleEntry
	if err := app.readJSON(w, r, &entry); err != nil {
		app.badRequest(w, err)
		return
	}

	result, err := app.bulk.AddSchedule(r.Context(), app.catalog, entry, ws.Selection.Items())
	app.finishWorkspaceRun(w, r, ws, result, err)
}

// finishWorkspaceRun answers a bulk run started from a workspace. A finished
// run empties the selection whatever its outcome.
func (app *App) finishWorkspaceRun(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace, result *bulk.Result, err error) {
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	ws.Selection.Clear()
	app.writeJSON(w, http.StatusOK, envelope{
		"result":    result,
		"message":   result.Message(),
		"workspace": ws.State(),
	})
}

type bulkInput struct {
	Slugs   []string `json:"slugs"`
	Topic   string   `json:"topic"`
	Action  string   `json:"action"`
	Weekday int      `json:"thu_trong_tuan"`
	Time    string   `json:"gio_chieu"`
}

// items turns the posted slugs into a deduplicated selection
func (in bulkInput) items() []models.MovieSummary {
	sel := bulk.NewSelection()
	for _, slug := range in.Slugs {
		if slug = strings.TrimSpace(slug); slug != "" {
			sel.Add(models.MovieSummary{Slug: slug})
		}
	}
	return sel.Items()
}

func (app *App) bulkTopicsHandler(w http.ResponseWriter, r *http.Request) {
	var input bulkInput
	if err := app.readJSON(w, r, &input); err != nil {
		app.badRequest(w, err)
		return
	}
	if input.Action == "" {
		input.Action = "add"
	}
	if err := validate.OneOf("action", input.Action, "add", "remove"); err != nil {
		app.handleError(w, r, err)
		return
	}

	var (
		result *bulk.Result
		err    error
	)
	if input.Action == "remove" {
		result, err = app.bulk.RemoveTopic(r.Context(), app.catalog, input.Topic, input.items())
	} else {
		result, err = app.bulk.AddTopic(r.Context(), app.catalog, input.Topic, input.items())
	}
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, envelope{"result": result, "message": result.Message()})
}

func (app *App) bulkScheduleHandler(w http.ResponseWriter, r *http.Request) {
	var input bulkInput
	if err := app.readJSON(w, r, &input); err != nil {
		app.badRequest(w, err)
		return
	}

	entry := models.ScheduleEntry{Weekday: input.Weekday, Time: input.Time}
	result, err := app.bulk.AddSchedule(r.Context(), app.catalog, entry, input.items())
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, envelope{"result": result, "message": result.Message()})
}

func (app *App) workspace(w http.ResponseWriter, r *http.Request) (*workspace.Workspace, bool) {
	ws, err := app.workspaces.Get(mux.Vars(r)["id"])
	if err != nil {
		app.handleError(w, r, err)
		return nil, false
	}
	return ws, true
}

func findItem(items []models.MovieSummary, slug string) (models.MovieSummary, bool) {
	for _, item := range items {
		if item.Slug == slug {
			return item, true
		}
	}
	return models.MovieSummary{}, false
}
