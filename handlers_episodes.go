package main

import (
	"net/http"

	"github.com/gorilla/mux"

	"catalogadmin/models"
	"catalogadmin/validate"
)

// listEpisodesHandler answers every link of a movie grouped by language and server
func (app *App) listEpisodesHandler(w http.ResponseWriter, r *http.Request) {
	episodes, err := app.catalog.AllEpisodeLinks(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, episodes)
}

func (app *App) getEpisodeHandler(w http.ResponseWriter, r *http.Request) {
	number, err := pathInt(r, "number")
	if err != nil {
		app.badRequest(w, err)
		return
	}

	links, err := app.catalog.EpisodeLinksForNumber(r.Context(), mux.Vars(r)["slug"], number)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	if links == nil {
		links = []models.EpisodeLink{}
	}
	app.writeJSON(w, http.StatusOK, links)
}

func (app *App) updateEpisodeHandler(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	number, err := pathInt(r, "number")
	if err != nil {
		app.badRequest(w, err)
		return
	}

	var update models.EpisodeUpdate
	if err := app.readJSON(w, r, &update); err != nil {
		app.badRequest(w, err)
		return
	}
	if err := validateEpisodeUpdate(&update); err != nil {
		app.handleError(w, r, err)
		return
	}

	if err := app.catalog.UpdateEpisode(r.Context(), slug, number, &update); err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, envelope{"message": "Cập nhật tập phim thành công!"})
}

func (app *App) deleteEpisodeHandler(w http.ResponseWriter, r *http.Request) {
	number, err := pathInt(r, "number")
	if err != nil {
		app.badRequest(w, err)
		return
	}
	server := r.URL.Query().Get("server")
	lang := r.URL.Query().Get("ngon_ngu")

	var errs validate.MultiError
	errs.Add(validate.OneOf("server", server, models.Servers...))
	errs.Add(validate.OneOf("ngon_ngu", lang, languageNames()...))
	if err := errs.Err(); err != nil {
		app.handleError(w, r, err)
		return
	}

	if err := app.catalog.DeleteEpisode(r.Context(), mux.Vars(r)["slug"], number, server, models.Language(lang)); err != nil {
		app.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (app *App) updateAllSkipIntroHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		SkipIntroTime int `json:"skip_intro_time"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.badRequest(w, err)
		return
	}
	if err := validate.IntRange("skip_intro_time", input.SkipIntroTime, 0, 600); err != nil {
		app.handleError(w, r, err)
		return
	}

	if err := app.catalog.UpdateAllSkipIntro(r.Context(), mux.Vars(r)["slug"], input.SkipIntroTime); err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, envelope{"message": "Đã cập nhật thời gian bỏ qua intro cho tất cả các tập."})
}

func validateEpisodeUpdate(u *models.EpisodeUpdate) error {
	var errs validate.MultiError
	for lang, servers := range u.Links {
		errs.Add(validate.OneOf("links", string(lang), languageNames()...))
		for server := range servers {
			errs.Add(validate.OneOf("links."+string(lang), server, models.Servers...))
		}
	}
	if u.SkipIntroTime != nil {
		errs.Add(validate.IntRange("skip_intro_time", *u.SkipIntroTime, 0, 600))
	}
	return errs.Err()
}

func languageNames() []string {
	names := make([]string, len(models.Languages))
	for i, l := range models.Languages {
		names[i] = string(l)
	}
	return names
}
