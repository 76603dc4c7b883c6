package services

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"catalogadmin/models"
)

// ListGenres returns every genre
func (s *CatalogService) ListGenres(ctx context.Context) ([]models.Genre, error) {
	var genres []models.Genre
	if err := s.api.doJSON(ctx, http.MethodGet, "/theloai/", nil, nil, &genres); err != nil {
		return nil, err
	}
	return genres, nil
}

// CreateGenre creates a genre
func (s *CatalogService) CreateGenre(ctx context.Context, genre *models.Genre) (*models.Genre, error) {
	var created models.Genre
	if err := s.api.doJSON(ctx, http.MethodPost, "/theloai/", nil, genre, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateGenre replaces a genre
func (s *CatalogService) UpdateGenre(ctx context.Context, id int, genre *models.Genre) (*models.Genre, error) {
	var updated models.Genre
	if err := s.api.doJSON(ctx, http.MethodPut, "/theloai/"+strconv.Itoa(id), nil, genre, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteGenre removes a genre
func (s *CatalogService) DeleteGenre(ctx context.Context, id int) error {
	return s.api.doJSON(ctx, http.MethodDelete, "/theloai/"+strconv.Itoa(id), nil, nil, nil)
}

// ListCountries returns every country
func (s *CatalogService) ListCountries(ctx context.Context) ([]models.Country, error) {
	var countries []models.Country
	if err := s.api.doJSON(ctx, http.MethodGet, "/quocgia/", nil, nil, &countries); err != nil {
		return nil, err
	}
	return countries, nil
}

// CreateCountry creates a country; the code is stored upper-cased
func (s *CatalogService) CreateCountry(ctx context.Context, country *models.Country) (*models.Country, error) {
	body := *country
	body.Code = strings.ToUpper(body.Code)

	var created models.Country
	if err := s.api.doJSON(ctx, http.MethodPost, "/quocgia/", nil, &body, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateCountry replaces a country
func (s *CatalogService) UpdateCountry(ctx context.Context, id int, country *models.Country) (*models.Country, error) {
	body := *country
	body.Code = strings.ToUpper(body.Code)

	var updated models.Country
	if err := s.api.doJSON(ctx, http.MethodPut, "/quocgia/"+strconv.Itoa(id), nil, &body, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteCountry removes a country
func (s *CatalogService) DeleteCountry(ctx context.Context, id int) error {
	return s.api.doJSON(ctx, http.MethodDelete, "/quocgia/"+strconv.Itoa(id), nil, nil, nil)
}
