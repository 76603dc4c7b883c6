package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"catalogadmin/models"
)

// CatalogService handles interactions with the catalog REST API
type CatalogService struct {
	api *apiClient
}

// NewCatalogService creates a new catalog service. client may be nil.
func NewCatalogService(baseURL string, client *http.Client, log *logrus.Entry) *CatalogService {
	return &CatalogService{api: newAPIClient("catalog", baseURL, client, log)}
}

// GetMovie fetches a movie by slug
func (s *CatalogService) GetMovie(ctx context.Context, slug string) (*models.Movie, error) {
	var movie models.Movie
	if err := s.api.doJSON(ctx, http.MethodGet, "/phim/"+url.PathEscape(slug)+"/", nil, nil, &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

// CreateMovie creates a movie
func (s *CatalogService) CreateMovie(ctx context.Context, movie *models.Movie) (*models.Movie, error) {
	var created models.Movie
	if err := s.api.doJSON(ctx, http.MethodPost, "/phim/", nil, movie, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateMovie replaces the movie stored under slug
func (s *CatalogService) UpdateMovie(ctx context.Context, slug string, movie *models.Movie) (*models.Movie, error) {
	var updated models.Movie
	if err := s.api.doJSON(ctx, http.MethodPut, "/phim/"+url.PathEscape(slug)+"/", nil, movie, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteMovie removes a movie
func (s *CatalogService) DeleteMovie(ctx context.Context, slug string) error {
	return s.api.doJSON(ctx, http.MethodDelete, "/phim/"+url.PathEscape(slug)+"/", nil, nil, nil)
}

// Search runs a free-text movie search
func (s *CatalogService) Search(ctx context.Context, query string) ([]models.MovieSummary, error) {
	params := url.Values{}
	params.Set("q", query)

	var results []models.MovieSummary
	if err := s.api.doJSON(ctx, http.MethodGet, "/search/", params, nil, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// Totals loads the total and updated-today counters in parallel
func (s *CatalogService) Totals(ctx context.Context) (*models.CatalogTotals, error) {
	var totals models.CatalogTotals
	var total struct {
		Total int `json:"total_phim"`
	}
	var today struct {
		Today int `json:"phim_hom_nay"`
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.api.doJSON(gctx, http.MethodGet, "/phim/total", nil, nil, &total)
	})
	g.Go(func() error {
		return s.api.doJSON(gctx, http.MethodGet, "/phim/updated-today", nil, nil, &today)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	totals.TotalMovies = total.Total
	totals.UpdatedToday = today.Today
	return &totals, nil
}

// UploadImage uploads an image of the given kind (poster, banner, img) and
// returns its public URL
func (s *CatalogService) UploadImage(ctx context.Context, kind, filename string, r io.Reader) (string, error) {
	var resp struct {
		URL string `json:"url"`
	}
	files := []FilePart{{Field: "file", Filename: filename, Reader: r}}
	if err := s.api.doMultipart(ctx, "/upload/"+url.PathEscape(kind)+"/", nil, files, &resp); err != nil {
		return "", err
	}
	if resp.URL == "" {
		return "", fmt.Errorf("catalog upload of %s returned no url", kind)
	}
	return resp.URL, nil
}

// ImportMovies asks the catalog to crawl movies from a source (kind is the
// importer name, payload its parameters)
func (s *CatalogService) ImportMovies(ctx context.Context, kind string, payload map[string]interface{}) (map[string]interface{}, error) {
	var result map[string]interface{}
	if err := s.api.doJSON(ctx, http.MethodPost, "/import/"+url.PathEscape(kind)+"/", nil, payload, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// ImportEpisode adds an episode with its server links
func (s *CatalogService) ImportEpisode(ctx context.Context, imp *models.EpisodeImport) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	if err := s.api.doJSON(ctx, http.MethodPost, "/import/manual-episode-import", nil, imp, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// GetNotice fetches the announcement of a movie
func (s *CatalogService) GetNotice(ctx context.Context, slug string) (*models.Notice, error) {
	var notice models.Notice
	if err := s.api.doJSON(ctx, http.MethodGet, "/phim/"+url.PathEscape(slug)+"/thong-bao", nil, nil, &notice); err != nil {
		return nil, err
	}
	return &notice, nil
}

// SaveNotice creates (POST) or replaces (PUT) the announcement of a movie
func (s *CatalogService) SaveNotice(ctx context.Context, slug string, notice *models.Notice, create bool) error {
	method := http.MethodPut
	if create {
		method = http.MethodPost
	}
	return s.api.doJSON(ctx, method, "/phim/"+url.PathEscape(slug)+"/thong-bao", nil, notice, nil)
}
