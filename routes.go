package main

import (
	"net/http"

	"github.com/gorilla/mux"

	"catalogadmin/metrics"
	"catalogadmin/session"
	"catalogadmin/telemetry"
)

func (app *App) routes() http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(app.notFoundHandler)
	r.MethodNotAllowedHandler = http.HandlerFunc(app.methodNotAllowedHandler)

	r.Use(telemetry.RecoverMiddleware(app.log))
	r.Use(app.requestID)
	r.Use(app.logRequests)
	r.Use(metrics.Middleware)
	if app.cfg.RateLimitEnabled {
		r.Use(app.rateLimit())
	}
	r.Use(session.Middleware(session.Options{
		Prefix: "/api/v1",
		Open:   []string{"/api/v1/auth/login"},
		Public: []string{"/api/v1/countries", "/api/v1/genres"},
		Log:    app.log,
	}))

	// Health check endpoint
	r.HandleFunc("/health", healthHandler).Methods("GET")
	r.Handle("/metrics", metrics.Handler()).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()

	// Auth
	api.HandleFunc("/auth/login", app.loginHandler).Methods("POST")
	api.HandleFunc("/auth/logout", app.logoutHandler).Methods("POST")
	api.HandleFunc("/auth/change-password", app.changePasswordHandler).Methods("POST")

	// Dashboard and movies
	api.HandleFunc("/overview", app.overviewHandler).Methods("GET")
	api.HandleFunc("/search", app.searchHandler).Methods("GET")
	api.HandleFunc("/movies", app.createMovieHandler).Methods("POST")
	api.HandleFunc("/movies/{slug}", app.getMovieHandler).Methods("GET")
	api.HandleFunc("/movies/{slug}", app.updateMovieHandler).Methods("PUT")
	api.HandleFunc("/movies/{slug}", app.deleteMovieHandler).Methods("DELETE")
	api.HandleFunc("/movies/{slug}/notice", app.getNoticeHandler).Methods("GET")
	api.HandleFunc("/movies/{slug}/notice", app.saveNoticeHandler).Methods("POST", "PUT")
	api.HandleFunc("/movies/{slug}/schedule", app.setScheduleHandler).Methods("PUT")
	api.HandleFunc("/movies/{slug}/schedule/{weekday:[0-9]+}", app.deleteScheduleHandler).Methods("DELETE")
	api.HandleFunc("/uploads/{kind}", app.uploadImageHandler).Methods("POST")
	api.HandleFunc("/imports/episode", app.importEpisodeHandler).Methods("POST")
	api.HandleFunc("/imports/{kind}", app.importMoviesHandler).Methods("POST")

	// Episodes
	api.HandleFunc("/movies/{slug}/episodes", app.listEpisodesHandler).Methods("GET")
	api.HandleFunc("/movies/{slug}/episodes/skip-intro", app.updateAllSkipIntroHandler).Methods("PUT")
	api.HandleFunc("/movies/{slug}/episodes/{number:[0-9]+}", app.getEpisodeHandler).Methods("GET")
	api.HandleFunc("/movies/{slug}/episodes/{number:[0-9]+}", app.updateEpisodeHandler).Methods("PUT")
	api.HandleFunc("/movies/{slug}/episodes/{number:[0-9]+}", app.deleteEpisodeHandler).Methods("DELETE")

	// Topics
	api.HandleFunc("/topics", app.listTopicsHandler).Methods("GET")
	api.HandleFunc("/topics", app.createTopicHandler).Methods("POST")
	api.HandleFunc("/topics/{slug}", app.updateTopicHandler).Methods("PUT")
	api.HandleFunc("/topics/{slug}", app.deleteTopicHandler).Methods("DELETE")
	api.HandleFunc("/topics/{slug}/movies", app.topicMoviesHandler).Methods("GET")
	api.HandleFunc("/topics/{slug}/movies/{movie}", app.removeTopicMovieHandler).Methods("DELETE")

	// Schedule board
	api.HandleFunc("/schedule/{weekday:[0-9]+}", app.scheduleBoardHandler).Methods("GET")

	// Genres and countries
	api.HandleFunc("/genres", app.listGenresHandler).Methods("GET")
	api.HandleFunc("/genres", app.createGenreHandler).Methods("POST")
	api.HandleFunc("/genres/{id:[0-9]+}", app.updateGenreHandler).Methods("PUT")
	api.HandleFunc("/genres/{id:[0-9]+}", app.deleteGenreHandler).Methods("DELETE")
	api.HandleFunc("/countries", app.listCountriesHandler).Methods("GET")
	api.HandleFunc("/countries", app.createCountryHandler).Methods("POST")
	api.HandleFunc("/countries/{id:[0-9]+}", app.updateCountryHandler).Methods("PUT")
	api.HandleFunc("/countries/{id:[0-9]+}", app.deleteCountryHandler).Methods("DELETE")

	// Workspaces and bulk runs
	api.HandleFunc("/workspaces", app.createWorkspaceHandler).Methods("POST")
	api.HandleFunc("/workspaces/{id}", app.getWorkspaceHandler).Methods("GET")
	api.HandleFunc("/workspaces/{id}", app.deleteWorkspaceHandler).Methods("DELETE")
	api.HandleFunc("/workspaces/{id}/query", app.workspaceQueryHandler).Methods("PUT")
	api.HandleFunc("/workspaces/{id}/selection", app.clearSelectionHandler).Methods("DELETE")
	api.HandleFunc("/workspaces/{id}/selection/{slug}", app.toggleSelectionHandler).Methods("POST")
	api.HandleFunc("/workspaces/{id}/topics/{topic}", app.workspaceAddTopicHandler).Methods("POST")
	api.HandleFunc("/workspaces/{id}/topics/{topic}", app.workspaceRemoveTopicHandler).Methods("DELETE")
	api.HandleFunc("/workspaces/{id}/schedule", app.workspaceScheduleHandler).Methods("POST")
	api.HandleFunc("/bulk/topics", app.bulkTopicsHandler).Methods("POST")
	api.HandleFunc("/bulk/schedule", app.bulkScheduleHandler).Methods("POST")

	// Journal
	api.HandleFunc("/operations", app.listOperationsHandler).Methods("GET")
	api.HandleFunc("/operations/stats", app.operationStatsHandler).Methods("GET")
	api.HandleFunc("/operations/{id}", app.getOperationHandler).Methods("GET")
	api.HandleFunc("/snapshots", app.listSnapshotsHandler).Methods("GET")
	api.HandleFunc("/snapshots", app.triggerSnapshotHandler).Methods("POST")

	// App versions
	api.HandleFunc("/app-versions", app.listAppVersionsHandler).Methods("GET")
	api.HandleFunc("/app-versions", app.uploadAppVersionHandler).Methods("POST")
	api.HandleFunc("/app-versions/{platform}", app.deleteAppVersionHandler).Methods("DELETE")

	// Users and points
	api.HandleFunc("/users", app.searchUsersHandler).Methods("GET")
	api.HandleFunc("/users/points", app.adjustPointsHandler).Methods("POST")

	// Mini game back office
	game := api.PathPrefix("/game").Subrouter()
	game.Use(app.requireGame)
	game.HandleFunc("/settings", app.gameSettingsHandler).Methods("GET")
	game.HandleFunc("/settings", app.updateGameSettingsHandler).Methods("PUT")
	game.HandleFunc("/stats", app.gameStatsHandler).Methods("GET")
	game.HandleFunc("/leaderboard", app.gameLeaderboardHandler).Methods("GET")
	game.HandleFunc("/test-webhook", app.gameTestWebhookHandler).Methods("POST")
	game.HandleFunc("/levels", app.gameLevelsHandler).Methods("GET")
	game.HandleFunc("/levels", app.saveGameLevelHandler).Methods("POST")
	game.HandleFunc("/levels/{id:[0-9]+}", app.saveGameLevelHandler).Methods("PUT")
	game.HandleFunc("/levels/{id:[0-9]+}", app.deleteGameLevelHandler).Methods("DELETE")
	game.HandleFunc("/images", app.gameImagesHandler).Methods("GET")
	game.HandleFunc("/images", app.addGameImageHandler).Methods("POST")
	game.HandleFunc("/images/upload", app.uploadGameImagesHandler).Methods("POST")
	game.HandleFunc("/images/{id:[0-9]+}", app.deleteGameImageHandler).Methods("DELETE")

	return r
}
