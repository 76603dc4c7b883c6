package main

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"catalogadmin/models"
	"catalogadmin/services"
	"catalogadmin/session"
	"catalogadmin/validate"
)

// loginHandler accepts a form or JSON body, logs in upstream and sets the
// session cookies
func (app *App) loginHandler(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := app.readJSON(w, r, &creds); err != nil {
			app.badRequest(w, err)
			return
		}
	} else {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			app.badRequest(w, fmt.Errorf("invalid form body: %w", err))
			return
		}
		creds.Username = r.PostForm.Get("username")
		creds.Password = r.PostForm.Get("password")
	}

	var errs validate.MultiError
	errs.Add(validate.NonEmpty("username", creds.Username))
	errs.Add(validate.NonEmpty("password", creds.Password))
	if err := errs.Err(); err != nil {
		app.handleError(w, r, err)
		return
	}

	result, err := app.auth.Login(r.Context(), creds.Username, creds.Password)
	if err != nil {
		app.handleError(w, r, err)
		return
	}

	session.SetLogin(w, result, app.cfg.CookieSecure)
	app.log.WithField("username", creds.Username).Info("Operator logged in")
	app.writeJSON(w, http.StatusOK, envelope{"message": "Đăng nhập thành công!"})
}

func (app *App) logoutHandler(w http.ResponseWriter, _ *http.Request) {
	session.ClearLogin(w)
	w.WriteHeader(http.StatusNoContent)
}

func (app *App) changePasswordHandler(w http.ResponseWriter, r *http.Request) {
	var change models.PasswordChange
	if err := app.readJSON(w, r, &change); err != nil {
		app.badRequest(w, err)
		return
	}
	if err := validate.PasswordChange(&change); err != nil {
		app.handleError(w, r, err)
		return
	}

	if err := app.auth.ChangePassword(r.Context(), &change); err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, envelope{"message": "Đổi mật khẩu thành công!"})
}

func (app *App) listAppVersionsHandler(w http.ResponseWriter, r *http.Request) {
	versions, err := app.appVersions.List(r.Context())
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	if versions == nil {
		versions = []models.AppVersion{}
	}
	app.writeJSON(w, http.StatusOK, versions)
}

// uploadAppVersionHandler forwards a multipart build upload
func (app *App) uploadAppVersionHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 200<<20)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		app.badRequest(w, fmt.Errorf("invalid multipart body: %w", err))
		return
	}

	v := &models.AppVersion{
		Platform:     r.FormValue("platform"),
		Version:      strings.TrimSpace(r.FormValue("version")),
		ReleaseNotes: r.FormValue("release_notes"),
	}

	file, header, err := r.FormFile("apk_file")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		app.badRequest(w, err)
		return
	}
	if err := validate.AppVersion(v, file != nil); err != nil {
		app.handleError(w, r, err)
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			app.log.WithError(err).Warn("Failed to close upload")
		}
	}()

	created, err := app.appVersions.Upload(r.Context(), v, header.Filename, file)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusCreated, created)
}

func (app *App) deleteAppVersionHandler(w http.ResponseWriter, r *http.Request) {
	platform := mux.Vars(r)["platform"]
	if err := validate.OneOf("platform", platform, "android", "ios"); err != nil {
		app.handleError(w, r, err)
		return
	}
	if err := app.appVersions.Delete(r.Context(), platform); err != nil {
		app.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (app *App) searchUsersHandler(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		app.writeJSON(w, http.StatusOK, []models.AdminUser{})
		return
	}

	users, err := app.users.SearchUsers(r.Context(), q)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	if users == nil {
		users = []models.AdminUser{}
	}
	app.writeJSON(w, http.StatusOK, users)
}

func (app *App) adjustPointsHandler(w http.ResponseWriter, r *http.Request) {
	var adj models.PointsAdjustment
	if err := app.readJSON(w, r, &adj); err != nil {
		app.badRequest(w, err)
		return
	}
	if err := validate.PointsAdjustment(&adj); err != nil {
		app.handleError(w, r, err)
		return
	}

	result, err := app.users.AdjustPoints(r.Context(), &adj)
	label := fmt.Sprintf("Điểm %s %d cho %s: %s", adj.Action, adj.Amount, adj.UserID, adj.Reason)
	app.recordSingle(r, models.OperationPointsAdjust, label, err)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, result)
}

func (app *App) gameSettingsHandler(w http.ResponseWriter, r *http.Request) {
	settings, err := app.game.Settings(r.Context())
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, settings)
}

func (app *App) updateGameSettingsHandler(w http.ResponseWriter, r *http.Request) {
	var settings models.GameSettings
	if err := app.readJSON(w, r, &settings); err != nil {
		app.badRequest(w, err)
		return
	}
	if settings.DailyLimit < 0 {
		app.handleError(w, r, &validate.ValidationError{Field: "daily_limit", Message: "must not be negative"})
		return
	}

	if err := app.game.UpdateSettings(r.Context(), &settings); err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, settings)
}

func (app *App) gameStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := app.game.Stats(r.Context())
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, stats)
}

func (app *App) gameLeaderboardHandler(w http.ResponseWriter, r *http.Request) {
	entries, err := app.game.Leaderboard(r.Context())
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	if entries == nil {
		entries = []models.LeaderboardEntry{}
	}
	app.writeJSON(w, http.StatusOK, entries)
}

func (app *App) gameTestWebhookHandler(w http.ResponseWriter, r *http.Request) {
	result, err := app.game.TestWebhook(r.Context())
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, result)
}

func (app *App) gameLevelsHandler(w http.ResponseWriter, r *http.Request) {
	levels, err := app.game.Levels(r.Context())
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	if levels == nil {
		levels = []models.GameLevel{}
	}
	app.writeJSON(w, http.StatusOK, levels)
}

// saveGameLevelHandler creates a level on POST and replaces {id} on PUT
func (app *App) saveGameLevelHandler(w http.ResponseWriter, r *http.Request) {
	var level models.GameLevel
	if err := app.readJSON(w, r, &level); err != nil {
		app.badRequest(w, err)
		return
	}

	level.ID = 0
	if _, ok := mux.Vars(r)["id"]; ok {
		id, err := pathInt(r, "id")
		if err != nil {
			app.badRequest(w, err)
			return
		}
		level.ID = id
	}

	var errs validate.MultiError
	errs.Add(validate.NonEmpty("name", level.Name))
	errs.Add(validate.IntRange("pairs", level.Pairs, 2, 50))
	errs.Add(validate.Positive("time_limit", level.TimeLimit))
	errs.Add(validate.IntRange("points", level.Points, 0, 1000000))
	if err := errs.Err(); err != nil {
		app.handleError(w, r, err)
		return
	}

	saved, err := app.game.SaveLevel(r.Context(), &level)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	status := http.StatusOK
	if r.Method == http.MethodPost {
		status = http.StatusCreated
	}
	app.writeJSON(w, status, saved)
}

func (app *App) deleteGameLevelHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		app.badRequest(w, err)
		return
	}
	if err := app.game.DeleteLevel(r.Context(), id); err != nil {
		app.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (app *App) gameImagesHandler(w http.ResponseWriter, r *http.Request) {
	images, err := app.game.Images(r.Context())
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	if images == nil {
		images = []models.GameImage{}
	}
	app.writeJSON(w, http.StatusOK, images)
}

func (app *App) addGameImageHandler(w http.ResponseWriter, r *http.Request) {
	var image models.GameImage
	if err := app.readJSON(w, r, &image); err != nil {
		app.badRequest(w, err)
		return
	}
	var errs validate.MultiError
	errs.Add(validate.NonEmpty("name", image.Name))
	errs.Add(validate.NonEmpty("url", image.URL))
	if err := errs.Err(); err != nil {
		app.handleError(w, r, err)
		return
	}

	created, err := app.game.AddImage(r.Context(), &image)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusCreated, created)
}

// uploadGameImagesHandler forwards every "files" part of the request
func (app *App) uploadGameImagesHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		app.badRequest(w, fmt.Errorf("invalid multipart body: %w", err))
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		app.handleError(w, r, &validate.ValidationError{Field: "files", Message: "must not be empty"})
		return
	}

	parts := make([]services.FilePart, 0, len(headers))
	var closers []io.Closer
	defer func() {
		for _, c := range closers {
			if err := c.Close(); err != nil {
				app.log.WithError(err).Warn("Failed to close upload")
			}
		}
	}()
	for _, h := range headers {
		f, err := h.Open()
		if err != nil {
			app.badRequest(w, err)
			return
		}
		closers = append(closers, f)
		parts = append(parts, services.FilePart{Filename: h.Filename, Reader: f})
	}

	created, err := app.game.UploadImages(r.Context(), parts)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusCreated, created)
}

func (app *App) deleteGameImageHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		app.badRequest(w, err)
		return
	}
	if err := app.game.DeleteImage(r.Context(), id); err != nil {
		app.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
