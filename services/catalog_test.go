package services

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogadmin/logging"
	"catalogadmin/models"
)

func newTestCatalog(t *testing.T, handler http.HandlerFunc) (*CatalogService, *upstream) {
	up := newUpstream(t, handler)
	return NewCatalogService(up.URL, nil, logging.Discard()), up
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestCatalogService_Search(t *testing.T) {
	svc, up := newTestCatalog(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, []models.MovieSummary{{ID: 1, Slug: "phim-a", Title: "Phim A"}})
	})

	results, err := svc.Search(context.Background(), "phim a&b")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "phim-a", results[0].Slug)

	calls := up.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/search/", calls[0].Path)
	assert.Equal(t, "q=phim+a%26b", calls[0].Query)
}

func TestCatalogService_TopicLinks(t *testing.T) {
	svc, up := newTestCatalog(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	require.NoError(t, svc.AddMovieToTopic(context.Background(), "phim-a", "hanh-dong"))
	require.NoError(t, svc.RemoveMovieFromTopic(context.Background(), "phim-a", "hanh-dong"))

	calls := up.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "POST", calls[0].Method)
	assert.Equal(t, "/phim/phim-a/chu-de/hanh-dong/", calls[0].Path)
	assert.Equal(t, "DELETE", calls[1].Method)
	assert.Equal(t, "/phim/phim-a/chu-de/hanh-dong/", calls[1].Path)
}

func TestCatalogService_ScheduleCalls(t *testing.T) {
	svc, up := newTestCatalog(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	ctx := context.Background()

	require.NoError(t, svc.CreateSchedule(ctx, "phim-a", models.ScheduleEntry{Weekday: 3, Time: "21:00"}))
	require.NoError(t, svc.UpdateSchedule(ctx, "phim-a", models.ScheduleEntry{Weekday: 2, Time: "20:00"}))
	require.NoError(t, svc.DeleteSchedule(ctx, "phim-a", 8))

	calls := up.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, "POST", calls[0].Method)
	assert.JSONEq(t, `{"thu_trong_tuan":3,"gio_chieu":"21:00"}`, calls[0].Body)
	assert.Equal(t, "PUT", calls[1].Method)
	assert.Equal(t, "/phim/phim-a/lich-chieu", calls[1].Path)
	assert.Equal(t, "DELETE", calls[2].Method)
	assert.Equal(t, "thu_trong_tuan=8", calls[2].Query)
}

func TestCatalogService_Totals(t *testing.T) {
	svc, _ := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/phim/total":
			writeJSON(w, map[string]int{"total_phim": 1200})
		case "/phim/updated-today":
			writeJSON(w, map[string]int{"phim_hom_nay": 14})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	totals, err := svc.Totals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1200, totals.TotalMovies)
	assert.Equal(t, 14, totals.UpdatedToday)
}

func TestCatalogService_CreateCountryUppercasesCode(t *testing.T) {
	svc, up := newTestCatalog(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, models.Country{ID: 3, Name: "Việt Nam", Code: "VN"})
	})

	country := &models.Country{Name: "Việt Nam", Code: "vn"}
	created, err := svc.CreateCountry(context.Background(), country)
	require.NoError(t, err)
	assert.Equal(t, 3, created.ID)
	assert.Equal(t, "vn", country.Code, "input must not be mutated")
	assert.Contains(t, up.Calls()[0].Body, `"code":"VN"`)
}

func TestCatalogService_AllEpisodeLinks(t *testing.T) {
	svc, up := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		lang := strings.Trim(strings.TrimPrefix(r.URL.Path, "/phim/phim-a/"), "/")
		writeJSON(w, []models.EpisodeLink{{
			Language: models.Language(lang),
			Server:   models.ServerRef{Slug: r.URL.Query().Get("server")},
			Link:     "https://cdn/" + lang,
		}})
	})

	episodes, err := svc.AllEpisodeLinks(context.Background(), "phim-a")
	require.NoError(t, err)

	calls := up.Calls()
	assert.Len(t, calls, 6)
	for _, lang := range models.Languages {
		for _, server := range models.Servers {
			links := episodes.Links[lang][server]
			require.Len(t, links, 1)
			assert.Equal(t, server, links[0].Server.Slug)
		}
	}
}

func TestCatalogService_AllEpisodeLinksFailsOnAnyError(t *testing.T) {
	svc, _ := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("server") == "sv3" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		writeJSON(w, []models.EpisodeLink{})
	})

	_, err := svc.AllEpisodeLinks(context.Background(), "phim-a")
	assert.Error(t, err)
}

func TestCatalogService_UpdateEpisodeBatch(t *testing.T) {
	svc, up := newTestCatalog(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	skip := 85
	update := &models.EpisodeUpdate{
		Links: map[models.Language]map[string]string{
			models.LanguageSubtitled: {"sv1": "https://a", "sv2": "https://b"},
			models.LanguageDubbed:    {"sv1": "https://c"},
		},
		SkipIntroTime: &skip,
		ApplyToAll:    true,
	}
	require.NoError(t, svc.UpdateEpisode(context.Background(), "phim-a", 4, update))

	var paths []string
	for _, c := range up.Calls() {
		assert.Equal(t, "PATCH", c.Method)
		paths = append(paths, c.Path+"?"+c.Query)
	}
	sort.Strings(paths)
	assert.Equal(t, []string{
		"/phim/phim-a/tap/4/thuyetminh/edit-link/?server=sv1",
		"/phim/phim-a/tap/4/vietsub/edit-link/?server=sv1",
		"/phim/phim-a/tap/4/vietsub/edit-link/?server=sv2",
		"/phim/phim-a/update-all-episodes-skip-intro/?",
	}, paths)
}

func TestCatalogService_UpdateEpisodeFailureLetsOtherCallsFinish(t *testing.T) {
	var linksDone atomic.Int32
	svc, up := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/update-image/") {
			w.WriteHeader(http.StatusBadRequest)
			writeJSON(w, map[string]string{"detail": "bad image"})
			return
		}
		time.Sleep(100 * time.Millisecond)
		linksDone.Add(1)
		w.WriteHeader(http.StatusOK)
	})

	image := "https://cdn/tap-4.jpg"
	update := &models.EpisodeUpdate{
		Links: map[models.Language]map[string]string{
			models.LanguageSubtitled: {"sv1": "https://a", "sv2": "https://b"},
		},
		Image: &image,
	}
	err := svc.UpdateEpisode(context.Background(), "phim-a", 4, update)

	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusBadRequest))
	assert.Equal(t, int32(2), linksDone.Load())
	assert.Len(t, up.Calls(), 3)
}

func TestCatalogService_UploadImage(t *testing.T) {
	svc, up := newTestCatalog(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]string{"url": "https://cdn/poster.jpg"})
	})

	u, err := svc.UploadImage(context.Background(), "poster", "p.jpg", strings.NewReader("img"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/poster.jpg", u)
	assert.Equal(t, "/upload/poster/", up.Calls()[0].Path)
}
