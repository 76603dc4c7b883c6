package services

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"

	"catalogadmin/models"
)

// AppVersionService manages the mobile builds offered for download
type AppVersionService struct {
	api *apiClient
}

// NewAppVersionService creates a new app version service
func NewAppVersionService(baseURL string, client *http.Client, log *logrus.Entry) *AppVersionService {
	return &AppVersionService{api: newAPIClient("app-version", baseURL, client, log)}
}

// List returns the current build of every platform
func (s *AppVersionService) List(ctx context.Context) ([]models.AppVersion, error) {
	var versions []models.AppVersion
	if err := s.api.doJSON(ctx, http.MethodGet, "/app-version/all", nil, nil, &versions); err != nil {
		return nil, err
	}
	return versions, nil
}

// Upload publishes a new build. The binary is streamed as the apk_file part.
func (s *AppVersionService) Upload(ctx context.Context, v *models.AppVersion, filename string, apk io.Reader) (*models.AppVersion, error) {
	fields := map[string]string{
		"platform":      v.Platform,
		"version":       v.Version,
		"release_notes": v.ReleaseNotes,
	}
	files := []FilePart{{Field: "apk_file", Filename: filename, Reader: apk}}

	var created models.AppVersion
	if err := s.api.doMultipart(ctx, "/app-version/upload", fields, files, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Delete withdraws the build of a platform
func (s *AppVersionService) Delete(ctx context.Context, platform string) error {
	return s.api.doJSON(ctx, http.MethodDelete, "/app-version/"+url.PathEscape(platform), nil, nil, nil)
}
