package services

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	"catalogadmin/models"
)

// EpisodeLinks lists the episode links of a movie for one language and server
func (s *CatalogService) EpisodeLinks(ctx context.Context, slug string, lang models.Language, server string) ([]models.EpisodeLink, error) {
	params := url.Values{}
	params.Set("server", server)

	var links []models.EpisodeLink
	path := "/phim/" + url.PathEscape(slug) + "/" + url.PathEscape(string(lang)) + "/"
	if err := s.api.doJSON(ctx, http.MethodGet, path, params, nil, &links); err != nil {
		return nil, err
	}
	return links, nil
}

// AllEpisodeLinks loads every language/server combination in parallel. Any
// failed load fails the whole listing.
func (s *CatalogService) AllEpisodeLinks(ctx context.Context, slug string) (*models.MovieEpisodes, error) {
	result := &models.MovieEpisodes{Slug: slug, Links: models.EpisodeLinkSet{}}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, lang := range models.Languages {
		lang := lang
		result.Links[lang] = map[string][]models.EpisodeLink{}
		for _, server := range models.Servers {
			server := server
			g.Go(func() error {
				links, err := s.EpisodeLinks(gctx, slug, lang, server)
				if err != nil {
					return err
				}
				mu.Lock()
				result.Links[lang][server] = links
				mu.Unlock()
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// EpisodeLinksForNumber returns every link of a single episode
func (s *CatalogService) EpisodeLinksForNumber(ctx context.Context, slug string, number int) ([]models.EpisodeLink, error) {
	var links []models.EpisodeLink
	if err := s.api.doJSON(ctx, http.MethodGet, episodePath(slug, number)+"all-links/", nil, nil, &links); err != nil {
		return nil, err
	}
	return links, nil
}

// EditEpisodeLink sets the video link of an episode on a server/language
func (s *CatalogService) EditEpisodeLink(ctx context.Context, slug string, number int, lang models.Language, server, link string) error {
	params := url.Values{}
	params.Set("server", server)
	path := episodePath(slug, number) + url.PathEscape(string(lang)) + "/edit-link/"
	return s.api.doJSON(ctx, http.MethodPatch, path, params, map[string]string{"link_video": link}, nil)
}

// DeleteEpisode removes one server/language variant of an episode
func (s *CatalogService) DeleteEpisode(ctx context.Context, slug string, number int, server string, lang models.Language) error {
	params := url.Values{}
	params.Set("server", server)
	params.Set("ngon_ngu", string(lang))
	return s.api.doJSON(ctx, http.MethodDelete, episodePath(slug, number)+"delete/", params, nil, nil)
}

// UpdateEpisodeImage sets the thumbnail of an episode
func (s *CatalogService) UpdateEpisodeImage(ctx context.Context, slug string, number int, image string) error {
	return s.api.doJSON(ctx, http.MethodPatch, episodePath(slug, number)+"update-image/",
		nil, map[string]string{"tap_image": image}, nil)
}

// UpdateSkipIntro sets the skip-intro offset (seconds) of one episode
func (s *CatalogService) UpdateSkipIntro(ctx context.Context, slug string, number, seconds int) error {
	return s.api.doJSON(ctx, http.MethodPatch, episodePath(slug, number)+"update-skip-intro/",
		nil, map[string]int{"skip_intro_time": seconds}, nil)
}

// UpdateAllSkipIntro sets the skip-intro offset of every episode of a movie
func (s *CatalogService) UpdateAllSkipIntro(ctx context.Context, slug string, seconds int) error {
	return s.api.doJSON(ctx, http.MethodPatch, "/phim/"+url.PathEscape(slug)+"/update-all-episodes-skip-intro/",
		nil, map[string]int{"skip_intro_time": seconds}, nil)
}

// UpdateEpisode applies an episode edit as one parallel batch: every link,
// plus the image and skip-intro changes when present. Every call runs to
// completion; the first failure is returned and calls already made are not
// undone.
func (s *CatalogService) UpdateEpisode(ctx context.Context, slug string, number int, update *models.EpisodeUpdate) error {
	var g errgroup.Group

	if update.Image != nil {
		image := *update.Image
		g.Go(func() error { return s.UpdateEpisodeImage(ctx, slug, number, image) })
	}
	if update.SkipIntroTime != nil {
		seconds := *update.SkipIntroTime
		if update.ApplyToAll {
			g.Go(func() error { return s.UpdateAllSkipIntro(ctx, slug, seconds) })
		} else {
			g.Go(func() error { return s.UpdateSkipIntro(ctx, slug, number, seconds) })
		}
	}
	for lang, servers := range update.Links {
		for server, link := range servers {
			lang, server, link := lang, server, link
			g.Go(func() error { return s.EditEpisodeLink(ctx, slug, number, lang, server, link) })
		}
	}

	return g.Wait()
}

func episodePath(slug string, number int) string {
	return "/phim/" + url.PathEscape(slug) + "/tap/" + strconv.Itoa(number) + "/"
}
