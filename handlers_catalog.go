package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"

	"catalogadmin/models"
	"catalogadmin/repository"
	"catalogadmin/schedule"
	"catalogadmin/session"
	"catalogadmin/validate"
)

const maxUploadBytes = 32 << 20

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		return
	}
}

// overviewHandler loads the dashboard counters and lists in parallel
func (app *App) overviewHandler(w http.ResponseWriter, r *http.Request) {
	var overview models.Overview

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		totals, err := app.catalog.Totals(ctx)
		if err != nil {
			return err
		}
		overview.Totals = *totals
		return nil
	})
	g.Go(func() (err error) {
		overview.Genres, err = app.catalog.ListGenres(ctx)
		return err
	})
	g.Go(func() (err error) {
		overview.Countries, err = app.catalog.ListCountries(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		app.handleError(w, r, err)
		return
	}

	snapshot, err := app.snapshots.Latest()
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		app.log.WithError(err).Warn("Failed to load latest snapshot")
	}
	overview.Snapshot = snapshot

	app.writeJSON(w, http.StatusOK, overview)
}

// searchHandler runs a one-off search. A blank query answers an empty list
// without contacting upstream.
func (app *App) searchHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if strings.TrimSpace(q) == "" {
		app.writeJSON(w, http.StatusOK, []models.MovieSummary{})
		return
	}

	results, err := app.catalog.Search(r.Context(), q)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	if results == nil {
		results = []models.MovieSummary{}
	}
	app.writeJSON(w, http.StatusOK, results)
}

func (app *App) getMovieHandler(w http.ResponseWriter, r *http.Request) {
	movie, err := app.catalog.GetMovie(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, movie)
}

func (app *App) createMovieHandler(w http.ResponseWriter, r *http.Request) {
	var movie models.Movie
	if err := app.readJSON(w, r, &movie); err != nil {
		app.badRequest(w, err)
		return
	}

	if movie.Slug == "" {
		movie.Slug = validate.Slugify(movie.Title)
	}
	if movie.Genres == nil {
		movie.Genres = []string{}
	}
	if err := validate.Movie(&movie); err != nil {
		app.handleError(w, r, err)
		return
	}

	created, err := app.catalog.CreateMovie(r.Context(), &movie)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusCreated, created)
}

// updateMovieHandler saves the movie, then reconciles its schedule against
// the copy read at the start of the request. The schedule plan is validated
// before the movie is saved.
func (app *App) updateMovieHandler(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	var movie models.Movie
	if err := app.readJSON(w, r, &movie); err != nil {
		app.badRequest(w, err)
		return
	}
	movie.Slug = slug
	if err := validate.Movie(&movie); err != nil {
		app.handleError(w, r, err)
		return
	}

	original, err := app.catalog.GetMovie(r.Context(), slug)
	if err != nil {
		app.handleError(w, r, err)
		return
	}

	plan, err := schedule.Prepare(original.Schedule, movie.Schedule)
	if err != nil {
		app.handleError(w, r, err)
		return
	}

	updated, err := app.catalog.UpdateMovie(r.Context(), slug, &movie)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.recordSingle(r, models.OperationMovieUpdate, fmt.Sprintf("Cập nhật phim %s", slug), nil)

	if !plan.Empty() {
		err = app.reconciler.Apply(r.Context(), slug, plan)
		app.recordSingle(r, models.OperationScheduleReconcile, fmt.Sprintf("Cập nhật lịch chiếu phim %s", slug), err)
	}
	if err != nil {
		app.handleError(w, r, err)
		return
	}

	app.writeJSON(w, http.StatusOK, envelope{
		"movie":    updated,
		"schedule": plan,
		"message":  fmt.Sprintf("Phim %q đã được cập nhật thành công.", updated.Title),
	})
}

func (app *App) deleteMovieHandler(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	err := app.catalog.DeleteMovie(r.Context(), slug)
	app.recordSingle(r, models.OperationMovieDelete, fmt.Sprintf("Xóa phim %s", slug), err)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (app *App) getNoticeHandler(w http.ResponseWriter, r *http.Request) {
	notice, err := app.catalog.GetNotice(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, notice)
}

// saveNoticeHandler creates the notice on POST and replaces it on PUT
func (app *App) saveNoticeHandler(w http.ResponseWriter, r *http.Request) {
	var notice models.Notice
	if err := app.readJSON(w, r, &notice); err != nil {
		app.badRequest(w, err)
		return
	}
	if err := validate.NonEmpty("noidung", notice.Content); err != nil {
		app.handleError(w, r, err)
		return
	}

	create := r.Method == http.MethodPost
	if err := app.catalog.SaveNotice(r.Context(), mux.Vars(r)["slug"], &notice, create); err != nil {
		app.handleError(w, r, err)
		return
	}

	status := http.StatusOK
	if create {
		status = http.StatusCreated
	}
	app.writeJSON(w, status, notice)
}

// setScheduleHandler creates or replaces one weekday slot
func (app *App) setScheduleHandler(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	var entry models.ScheduleEntry
	if err := app.readJSON(w, r, &entry); err != nil {
		app.badRequest(w, err)
		return
	}

	movie, err := app.catalog.GetMovie(r.Context(), slug)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	exists := false
	for _, e := range movie.Schedule {
		if e.Weekday == entry.Weekday {
			exists = true
			break
		}
	}

	if err := app.reconciler.Set(r.Context(), slug, entry, exists); err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, entry)
}

func (app *App) deleteScheduleHandler(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	weekday, err := pathInt(r, "weekday")
	if err != nil {
		app.badRequest(w, err)
		return
	}
	if err := validate.Weekday("thu_trong_tuan", weekday); err != nil {
		app.handleError(w, r, err)
		return
	}

	label := fmt.Sprintf("Đã xóa lịch chiếu của phim %s vào %s", slug, models.WeekdayName(weekday))
	err = app.reconciler.Delete(r.Context(), slug, weekday)
	app.recordSingle(r, models.OperationScheduleDelete, label, err)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, envelope{"message": label + " thành công"})
}

func (app *App) scheduleBoardHandler(w http.ResponseWriter, r *http.Request) {
	weekday, err := pathInt(r, "weekday")
	if err != nil {
		app.badRequest(w, err)
		return
	}
	if err := validate.Weekday("weekday", weekday); err != nil {
		app.handleError(w, r, err)
		return
	}

	movies, err := app.catalog.ScheduleForDay(r.Context(), weekday)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	if movies == nil {
		movies = []models.ScheduledMovie{}
	}
	app.writeJSON(w, http.StatusOK, movies)
}

var imageKinds = []string{"poster", "banner", "img"}

// uploadImageHandler forwards a multipart "file" part and answers its URL
func (app *App) uploadImageHandler(w http.ResponseWriter, r *http.Request) {
	kind := mux.Vars(r)["kind"]
	if err := validate.OneOf("kind", kind, imageKinds...); err != nil {
		app.handleError(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		app.badRequest(w, fmt.Errorf("missing file part: %w", err))
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			app.log.WithError(err).Warn("Failed to close upload")
		}
	}()

	url, err := app.catalog.UploadImage(r.Context(), kind, header.Filename, file)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusCreated, envelope{"url": url})
}

var importKinds = []string{
	string(models.MovieTypeSeries),
	string(models.MovieTypeSingle),
	string(models.MovieTypeAnimation),
	"manual-movie",
}

// importMoviesHandler asks upstream to crawl movies of one type, or to
// import a single manually described movie
func (app *App) importMoviesHandler(w http.ResponseWriter, r *http.Request) {
	kind := mux.Vars(r)["kind"]
	if err := validate.OneOf("kind", kind, importKinds...); err != nil {
		app.handleError(w, r, err)
		return
	}

	var payload map[string]interface{}
	if err := app.readJSON(w, r, &payload); err != nil {
		app.badRequest(w, err)
		return
	}

	result, err := app.catalog.ImportMovies(r.Context(), kind, payload)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, result)
}

func (app *App) importEpisodeHandler(w http.ResponseWriter, r *http.Request) {
	var imp models.EpisodeImport
	if err := app.readJSON(w, r, &imp); err != nil {
		app.badRequest(w, err)
		return
	}
	if err := validate.EpisodeImport(&imp); err != nil {
		app.handleError(w, r, err)
		return
	}

	msg, err := app.catalog.ImportEpisode(r.Context(), &imp)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	if msg == "" {
		msg = "Thêm tập phim thành công!"
	}
	app.writeJSON(w, http.StatusCreated, envelope{"message": msg})
}

// recordSingle journals a single mutation. cause is the error of the call,
// if it failed.
func (app *App) recordSingle(r *http.Request, kind models.OperationKind, label string, cause error) {
	event := &models.OperationEvent{
		OperationID: uuid.NewString(),
		Kind:        kind,
		Label:       label,
		Total:       1,
	}
	if cause != nil {
		event.Failed = 1
		event.Details = cause.Error()
	} else {
		event.Succeeded = 1
	}
	if op := session.Operator(r.Context()); op != "" {
		event.Label += " (" + op + ")"
	}
	if err := app.operations.Create(event); err != nil {
		app.log.WithError(err).WithField("kind", kind).Error("Failed to record operation")
	}
}
