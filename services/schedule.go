package services

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"catalogadmin/models"
)

// ScheduleForDay lists the movies screening on a weekday (2..8)
func (s *CatalogService) ScheduleForDay(ctx context.Context, weekday int) ([]models.ScheduledMovie, error) {
	var movies []models.ScheduledMovie
	if err := s.api.doJSON(ctx, http.MethodGet, "/phim/lich-chieu/"+strconv.Itoa(weekday), nil, nil, &movies); err != nil {
		return nil, err
	}
	return movies, nil
}

// CreateSchedule adds a screening slot to a movie
func (s *CatalogService) CreateSchedule(ctx context.Context, slug string, entry models.ScheduleEntry) error {
	return s.api.doJSON(ctx, http.MethodPost, schedulePath(slug), nil, entry, nil)
}

// UpdateSchedule changes the time of the slot matching entry.Weekday
func (s *CatalogService) UpdateSchedule(ctx context.Context, slug string, entry models.ScheduleEntry) error {
	return s.api.doJSON(ctx, http.MethodPut, schedulePath(slug), nil, entry, nil)
}

// DeleteSchedule removes the slot of a movie on a weekday
func (s *CatalogService) DeleteSchedule(ctx context.Context, slug string, weekday int) error {
	params := url.Values{}
	params.Set("thu_trong_tuan", strconv.Itoa(weekday))
	return s.api.doJSON(ctx, http.MethodDelete, schedulePath(slug), params, nil, nil)
}

func schedulePath(slug string) string {
	return "/phim/" + url.PathEscape(slug) + "/lich-chieu"
}
