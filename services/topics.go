package services

import (
	"context"
	"net/http"
	"net/url"

	"catalogadmin/models"
)

// ListTopics returns every topic
func (s *CatalogService) ListTopics(ctx context.Context) ([]models.Topic, error) {
	var topics []models.Topic
	if err := s.api.doJSON(ctx, http.MethodGet, "/phim/chu-de/", nil, nil, &topics); err != nil {
		return nil, err
	}
	return topics, nil
}

// CreateTopic creates a topic
func (s *CatalogService) CreateTopic(ctx context.Context, topic *models.Topic) (*models.Topic, error) {
	var created models.Topic
	if err := s.api.doJSON(ctx, http.MethodPost, "/phim/chu-de/", nil, topic, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateTopic replaces the topic stored under slug; the body may carry a new slug
func (s *CatalogService) UpdateTopic(ctx context.Context, slug string, topic *models.Topic) (*models.Topic, error) {
	var updated models.Topic
	if err := s.api.doJSON(ctx, http.MethodPut, "/phim/chu-de/"+url.PathEscape(slug)+"/", nil, topic, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteTopic removes a topic
func (s *CatalogService) DeleteTopic(ctx context.Context, slug string) error {
	return s.api.doJSON(ctx, http.MethodDelete, "/phim/chu-de/"+url.PathEscape(slug)+"/", nil, nil, nil)
}

// TopicMovies lists the movies tagged with a topic
func (s *CatalogService) TopicMovies(ctx context.Context, slug string) ([]models.MovieSummary, error) {
	var movies []models.MovieSummary
	if err := s.api.doJSON(ctx, http.MethodGet, "/phim/chu-de/"+url.PathEscape(slug)+"/phim/", nil, nil, &movies); err != nil {
		return nil, err
	}
	return movies, nil
}

// AddMovieToTopic tags a movie with a topic
func (s *CatalogService) AddMovieToTopic(ctx context.Context, movieSlug, topicSlug string) error {
	return s.api.doJSON(ctx, http.MethodPost, topicLinkPath(movieSlug, topicSlug), nil, nil, nil)
}

// RemoveMovieFromTopic removes a topic from a movie
func (s *CatalogService) RemoveMovieFromTopic(ctx context.Context, movieSlug, topicSlug string) error {
	return s.api.doJSON(ctx, http.MethodDelete, topicLinkPath(movieSlug, topicSlug), nil, nil, nil)
}

func topicLinkPath(movieSlug, topicSlug string) string {
	return "/phim/" + url.PathEscape(movieSlug) + "/chu-de/" + url.PathEscape(topicSlug) + "/"
}
