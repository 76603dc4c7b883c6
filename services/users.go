package services

import (
	"context"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"

	"catalogadmin/models"
)

// UserService handles the users points back-office
type UserService struct {
	api *apiClient
}

// NewUserService creates a new user service
func NewUserService(baseURL string, client *http.Client, log *logrus.Entry) *UserService {
	return &UserService{api: newAPIClient("users", baseURL, client, log)}
}

// SearchUsers finds users by name or email
func (s *UserService) SearchUsers(ctx context.Context, query string) ([]models.AdminUser, error) {
	params := url.Values{}
	params.Set("q", query)

	var users []models.AdminUser
	if err := s.api.doJSON(ctx, http.MethodGet, "/api/admin/users/search", params, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// AdjustPoints applies a ledger adjustment and returns the new balance
func (s *UserService) AdjustPoints(ctx context.Context, adj *models.PointsAdjustment) (*models.PointsResult, error) {
	var result models.PointsResult
	if err := s.api.doJSON(ctx, http.MethodPost, "/api/admin/users/points", nil, adj, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
