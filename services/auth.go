package services

import (
	"context"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"

	"catalogadmin/models"
)

// AuthService handles operator login against the catalog API
type AuthService struct {
	api *apiClient
}

// NewAuthService creates a new auth service
func NewAuthService(baseURL string, client *http.Client, log *logrus.Entry) *AuthService {
	return &AuthService{api: newAPIClient("auth", baseURL, client, log)}
}

// Login exchanges credentials for an access/refresh token pair
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.LoginResult, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var result models.LoginResult
	if err := s.api.doForm(ctx, "/auth/login/", form, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ChangePassword changes the password of the operator owning the context token
func (s *AuthService) ChangePassword(ctx context.Context, change *models.PasswordChange) error {
	return s.api.doJSON(ctx, http.MethodPost, "/auth/change-password/", nil, change, nil)
}
