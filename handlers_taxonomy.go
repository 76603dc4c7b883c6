package main

import (
	"net/http"

	"github.com/gorilla/mux"

	"catalogadmin/models"
	"catalogadmin/services"
	"catalogadmin/validate"
)

func (app *App) listTopicsHandler(w http.ResponseWriter, r *http.Request) {
	topics, err := app.catalog.ListTopics(r.Context())
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	if topics == nil {
		topics = []models.Topic{}
	}
	app.writeJSON(w, http.StatusOK, topics)
}

func (app *App) createTopicHandler(w http.ResponseWriter, r *http.Request) {
	var topic models.Topic
	if err := app.readJSON(w, r, &topic); err != nil {
		app.badRequest(w, err)
		return
	}
	if topic.Slug == "" {
		topic.Slug = validate.Slugify(topic.Name)
	}
	if err := validate.Topic(&topic); err != nil {
		app.handleError(w, r, err)
		return
	}

	created, err := app.catalog.CreateTopic(r.Context(), &topic)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusCreated, created)
}

func (app *App) updateTopicHandler(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	var topic models.Topic
	if err := app.readJSON(w, r, &topic); err != nil {
		app.badRequest(w, err)
		return
	}
	if topic.Slug == "" {
		topic.Slug = slug
	}
	if err := validate.Topic(&topic); err != nil {
		app.handleError(w, r, err)
		return
	}

	updated, err := app.catalog.UpdateTopic(r.Context(), slug, &topic)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, updated)
}

func (app *App) deleteTopicHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.catalog.DeleteTopic(r.Context(), mux.Vars(r)["slug"]); err != nil {
		app.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (app *App) topicMoviesHandler(w http.ResponseWriter, r *http.Request) {
	movies, err := app.catalog.TopicMovies(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	if movies == nil {
		movies = []models.MovieSummary{}
	}
	app.writeJSON(w, http.StatusOK, movies)
}

func (app *App) removeTopicMovieHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := app.catalog.RemoveMovieFromTopic(r.Context(), vars["movie"], vars["slug"]); err != nil {
		app.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (app *App) listGenresHandler(w http.ResponseWriter, r *http.Request) {
	genres, err := app.catalog.ListGenres(r.Context())
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	if genres == nil {
		genres = []models.Genre{}
	}
	app.writeJSON(w, http.StatusOK, genres)
}

func (app *App) createGenreHandler(w http.ResponseWriter, r *http.Request) {
	var genre models.Genre
	if err := app.readJSON(w, r, &genre); err != nil {
		app.badRequest(w, err)
		return
	}
	if genre.Slug == "" {
		genre.Slug = validate.Slugify(genre.Name)
	}
	if err := validate.Genre(&genre); err != nil {
		app.handleError(w, r, err)
		return
	}

	created, err := app.catalog.CreateGenre(r.Context(), &genre)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusCreated, created)
}

func (app *App) updateGenreHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		app.badRequest(w, err)
		return
	}

	var genre models.Genre
	if err := app.readJSON(w, r, &genre); err != nil {
		app.badRequest(w, err)
		return
	}
	if genre.Slug == "" {
		genre.Slug = validate.Slugify(genre.Name)
	}
	if err := validate.Genre(&genre); err != nil {
		app.handleError(w, r, err)
		return
	}

	updated, err := app.catalog.UpdateGenre(r.Context(), id, &genre)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, updated)
}

func (app *App) deleteGenreHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		app.badRequest(w, err)
		return
	}
	if err := app.catalog.DeleteGenre(r.Context(), id); err != nil {
		app.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (app *App) listCountriesHandler(w http.ResponseWriter, r *http.Request) {
	countries, err := app.catalog.ListCountries(r.Context())
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	if countries == nil {
		countries = []models.Country{}
	}
	app.writeJSON(w, http.StatusOK, countries)
}

func (app *App) createCountryHandler(w http.ResponseWriter, r *http.Request) {
	var country models.Country
	if err := app.readJSON(w, r, &country); err != nil {
		app.badRequest(w, err)
		return
	}
	if err := validate.Country(&country); err != nil {
		app.handleError(w, r, err)
		return
	}

	created, err := app.catalog.CreateCountry(r.Context(), &country)
	if services.IsStatus(err, http.StatusConflict) {
		app.errorResponse(w, http.StatusConflict, "Mã quốc gia đã tồn tại.")
		return
	}
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusCreated, created)
}

func (app *App) updateCountryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		app.badRequest(w, err)
		return
	}

	var country models.Country
	if err := app.readJSON(w, r, &country); err != nil {
		app.badRequest(w, err)
		return
	}
	if err := validate.Country(&country); err != nil {
		app.handleError(w, r, err)
		return
	}

	updated, err := app.catalog.UpdateCountry(r.Context(), id, &country)
	if services.IsStatus(err, http.StatusConflict) {
		app.errorResponse(w, http.StatusConflict, "Mã quốc gia đã tồn tại.")
		return
	}
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, updated)
}

func (app *App) deleteCountryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		app.badRequest(w, err)
		return
	}
	if err := app.catalog.DeleteCountry(r.Context(), id); err != nil {
		app.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
