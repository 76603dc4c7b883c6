package services

import (
	"context"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"catalogadmin/models"
)

// GameService handles the memory-card mini game back-office API
type GameService struct {
	api *apiClient
}

// NewGameService creates a new game service
func NewGameService(baseURL string, client *http.Client, log *logrus.Entry) *GameService {
	return &GameService{api: newAPIClient("game", baseURL, client, log)}
}

// Settings returns the game settings
func (s *GameService) Settings(ctx context.Context) (*models.GameSettings, error) {
	var settings models.GameSettings
	if err := s.api.doJSON(ctx, http.MethodGet, "/admin/settings", nil, nil, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpdateSettings replaces the game settings
func (s *GameService) UpdateSettings(ctx context.Context, settings *models.GameSettings) error {
	return s.api.doJSON(ctx, http.MethodPut, "/admin/settings", nil, settings, nil)
}

// Stats returns play counters
func (s *GameService) Stats(ctx context.Context) (*models.GameStats, error) {
	var stats models.GameStats
	if err := s.api.doJSON(ctx, http.MethodGet, "/admin/stats", nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Leaderboard returns the ranked players
func (s *GameService) Leaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	var entries []models.LeaderboardEntry
	if err := s.api.doJSON(ctx, http.MethodGet, "/admin/leaderboard", nil, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// TestWebhook asks the game API to fire its configured webhook
func (s *GameService) TestWebhook(ctx context.Context) (map[string]interface{}, error) {
	var result map[string]interface{}
	if err := s.api.doJSON(ctx, http.MethodPost, "/admin/test-webhook", nil, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Levels lists the configured levels
func (s *GameService) Levels(ctx context.Context) ([]models.GameLevel, error) {
	var levels []models.GameLevel
	if err := s.api.doJSON(ctx, http.MethodGet, "/admin/levels", nil, nil, &levels); err != nil {
		return nil, err
	}
	return levels, nil
}

// SaveLevel creates the level when it has no ID and replaces it otherwise
func (s *GameService) SaveLevel(ctx context.Context, level *models.GameLevel) (*models.GameLevel, error) {
	method, path := http.MethodPost, "/admin/levels"
	if level.ID != 0 {
		method, path = http.MethodPut, "/admin/levels/"+strconv.Itoa(level.ID)
	}

	var saved models.GameLevel
	if err := s.api.doJSON(ctx, method, path, nil, level, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// DeleteLevel removes a level
func (s *GameService) DeleteLevel(ctx context.Context, id int) error {
	return s.api.doJSON(ctx, http.MethodDelete, "/admin/levels/"+strconv.Itoa(id), nil, nil, nil)
}

// Images lists the card images
func (s *GameService) Images(ctx context.Context) ([]models.GameImage, error) {
	var images []models.GameImage
	if err := s.api.doJSON(ctx, http.MethodGet, "/admin/images", nil, nil, &images); err != nil {
		return nil, err
	}
	return images, nil
}

// AddImage registers an image hosted elsewhere
func (s *GameService) AddImage(ctx context.Context, image *models.GameImage) (*models.GameImage, error) {
	var created models.GameImage
	if err := s.api.doJSON(ctx, http.MethodPost, "/admin/images", nil, image, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UploadImages uploads card images as repeated "files" parts
func (s *GameService) UploadImages(ctx context.Context, files []FilePart) ([]models.GameImage, error) {
	for i := range files {
		files[i].Field = "files"
	}
	var created []models.GameImage
	if err := s.api.doMultipart(ctx, "/admin/images/upload", nil, files, &created); err != nil {
		return nil, err
	}
	return created, nil
}

// DeleteImage removes a card image
func (s *GameService) DeleteImage(ctx context.Context, id int) error {
	return s.api.doJSON(ctx, http.MethodDelete, "/admin/images/"+strconv.Itoa(id), nil, nil, nil)
}
