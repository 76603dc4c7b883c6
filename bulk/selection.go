package bulk

import (
	"sync"

	"catalogadmin/models"
)

// Selection is an ordered set of movies keyed by slug. It is safe for
// concurrent use.
type Selection struct {
	mu    sync.RWMutex
	items []models.MovieSummary
}

// NewSelection returns a selection holding items, duplicates dropped
func NewSelection(items ...models.MovieSummary) *Selection {
	s := &Selection{}
	for _, it := range items {
		s.Add(it)
	}
	return s
}

func (s *Selection) indexOf(slug string) int {
	for i, it := range s.items {
		if it.Slug == slug {
			return i
		}
	}
	return -1
}

// Add appends item unless a movie with the same slug is already selected.
// It reports whether the selection changed.
func (s *Selection) Add(item models.MovieSummary) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item.Slug == "" || s.indexOf(item.Slug) >= 0 {
		return false
	}
	s.items = append(s.items, item)
	return true
}

// Remove drops the movie with the given slug and reports whether it was
// selected.
func (s *Selection) Remove(slug string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(slug)
	if i < 0 {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return true
}

// Toggle removes item when selected and adds it otherwise. It returns true
// when item is selected afterwards.
func (s *Selection) Toggle(item models.MovieSummary) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(item.Slug); i >= 0 {
		s.items = append(s.items[:i], s.items[i+1:]...)
		return false
	}
	if item.Slug == "" {
		return false
	}
	s.items = append(s.items, item)
	return true
}

// Contains reports whether slug is selected
func (s *Selection) Contains(slug string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOf(slug) >= 0
}

// Items returns a copy of the selected movies in selection order
func (s *Selection) Items() []models.MovieSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.MovieSummary, len(s.items))
	copy(out, s.items)
	return out
}

// Slugs returns the selected slugs in selection order
func (s *Selection) Slugs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.items))
	for i, it := range s.items {
		out[i] = it.Slug
	}
	return out
}

// Len returns the number of selected movies
func (s *Selection) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Clear empties the selection
func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}
