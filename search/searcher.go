// Package search implements the debounced "search as you type" used to pick
// movies for bulk operations.
package search

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"catalogadmin/models"
)

// Func runs one upstream search
type Func func(ctx context.Context, query string) ([]models.MovieSummary, error)

// Searcher holds the state of one search box: the current query, the last
// results and the last error.
//
// Requests already sent are never cancelled and responses are not ordered:
// whichever arrives last is kept.
type Searcher struct {
	search   Func
	selected func(slug string) bool
	debounce *Debouncer
	log      *logrus.Entry

	mu       sync.RWMutex
	query    string
	results  []models.MovieSummary
	lastErr  error
	requests int
}

// NewSearcher creates a searcher. selected reports whether a slug is already
// part of the selection; such movies are left out of the results.
func NewSearcher(search Func, delay time.Duration, selected func(slug string) bool, log *logrus.Entry) *Searcher {
	if selected == nil {
		selected = func(string) bool { return false }
	}
	return &Searcher{
		search:   search,
		selected: selected,
		debounce: NewDebouncer(delay),
		log:      log.WithField("component", "search"),
	}
}

// Type records a new query. A blank query cancels the pending search and
// clears the results at once without contacting upstream. Anything else is
// searched after the debounce delay. ctx supplies request-scoped values such
// as the bearer token; its cancellation is ignored.
func (s *Searcher) Type(ctx context.Context, query string) {
	s.mu.Lock()
	s.query = query
	s.mu.Unlock()

	if strings.TrimSpace(query) == "" {
		s.debounce.Stop()
		s.mu.Lock()
		s.results = nil
		s.lastErr = nil
		s.mu.Unlock()
		return
	}

	detached := context.WithoutCancel(ctx)
	s.debounce.Trigger(func() { s.run(detached, query) })
}

func (s *Searcher) run(ctx context.Context, query string) {
	s.mu.Lock()
	s.requests++
	s.mu.Unlock()

	results, err := s.search(ctx, query)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.log.WithError(err).WithField("query", query).Warn("Search failed")
		s.results = nil
		s.lastErr = err
		return
	}

	filtered := make([]models.MovieSummary, 0, len(results))
	for _, r := range results {
		if !s.selected(r.Slug) {
			filtered = append(filtered, r)
		}
	}
	s.results = filtered
	s.lastErr = nil
}

// Drop removes slug from the current results
func (s *Searcher) Drop(slug string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.results[:0]
	for _, r := range s.results {
		if r.Slug != slug {
			kept = append(kept, r)
		}
	}
	s.results = kept
}

// Clear empties the query and cancels the pending search. Current results
// are kept.
func (s *Searcher) Clear() {
	s.debounce.Stop()
	s.mu.Lock()
	s.query = ""
	s.mu.Unlock()
}

// Close cancels the pending search
func (s *Searcher) Close() {
	s.debounce.Stop()
}

// Query returns the current query
func (s *Searcher) Query() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

// Results returns a copy of the current results
func (s *Searcher) Results() []models.MovieSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.MovieSummary, len(s.results))
	copy(out, s.results)
	return out
}

// Err returns the error of the last search, if it failed
func (s *Searcher) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Requests returns how many upstream searches were started
func (s *Searcher) Requests() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.requests
}
