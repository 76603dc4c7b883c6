package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"catalogadmin/bulk"
	"catalogadmin/repository"
	"catalogadmin/schedule"
	"catalogadmin/services"
	"catalogadmin/telemetry"
	"catalogadmin/validate"
	"catalogadmin/workspace"
)

const maxBodyBytes = 1 << 20

type envelope map[string]interface{}

func (app *App) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		app.log.WithError(err).Warn("Failed to encode response")
	}
}

// readJSON decodes a single JSON object from the request body
func (app *App) readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case errors.As(err, &maxErr):
			return fmt.Errorf("body must not be larger than %d bytes", maxErr.Limit)
		default:
			return fmt.Errorf("invalid JSON body: %w", err)
		}
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}
	return nil
}

func (app *App) errorResponse(w http.ResponseWriter, status int, message string) {
	app.writeJSON(w, status, envelope{"error": message})
}

func (app *App) badRequest(w http.ResponseWriter, err error) {
	app.errorResponse(w, http.StatusBadRequest, err.Error())
}

func (app *App) notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	app.errorResponse(w, http.StatusNotFound, "the requested resource could not be found")
}

func (app *App) methodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, http.StatusMethodNotAllowed, fmt.Sprintf("the %s method is not supported for this resource", r.Method))
}

// handleError maps err onto a JSON error response. Upstream 4xx answers keep
// their status and detail; upstream 5xx and transport failures become 502.
func (app *App) handleError(w http.ResponseWriter, r *http.Request, err error) {
	log := app.log.WithFields(logrus.Fields{
		"method":     r.Method,
		"path":       r.URL.Path,
		"request_id": requestIDFrom(r.Context()),
	})

	var apiErr *services.APIError
	var verr *validate.ValidationError
	var merr *validate.MultiError

	switch {
	case errors.As(err, &verr), errors.As(err, &merr):
		app.writeJSON(w, http.StatusUnprocessableEntity, envelope{
			"error":  err.Error(),
			"fields": validate.Fields(err),
		})
	case errors.Is(err, bulk.ErrEmptySelection), errors.Is(err, bulk.ErrNoTarget):
		app.errorResponse(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, workspace.ErrNotFound), errors.Is(err, repository.ErrNotFound):
		app.errorResponse(w, http.StatusNotFound, err.Error())
	case errors.Is(err, schedule.ErrScheduleUpdate):
		app.errorResponse(w, http.StatusBadGateway, err.Error())
	case errors.As(err, &apiErr):
		if apiErr.Status >= 400 && apiErr.Status < 500 {
			log.WithError(err).Info("Upstream rejected request")
			app.errorResponse(w, apiErr.Status, apiErr.Detail)
			return
		}
		log.WithError(err).Error("Upstream error")
		app.errorResponse(w, http.StatusBadGateway, apiErr.Detail)
	case errors.Is(err, services.ErrUpstream):
		log.WithError(err).Error("Upstream unreachable")
		app.errorResponse(w, http.StatusBadGateway, "upstream unavailable")
	default:
		log.WithError(err).Error("Internal error")
		telemetry.CaptureError(err, map[string]string{"path": r.URL.Path})
		app.errorResponse(w, http.StatusInternalServerError, "internal server error")
	}
}

func pathInt(r *http.Request, name string) (int, error) {
	v, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return v, nil
}

func queryInt(r *http.Request, name string, fallback, max int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || v <= 0 {
		return fallback
	}
	if v > max {
		return max
	}
	return v
}
