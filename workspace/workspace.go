// Package workspace keeps the per-operator dashboard state: the movie
// selection and the search box feeding it.
package workspace

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"catalogadmin/bulk"
	"catalogadmin/models"
	"catalogadmin/search"
)

// ErrNotFound is returned for unknown workspace ids
var ErrNotFound = errors.New("workspace not found")

// Workspace is one operator's selection plus search box
type Workspace struct {
	ID        string
	CreatedAt time.Time
	Selection *bulk.Selection
	Search    *search.Searcher

	mu       sync.Mutex
	lastUsed time.Time
}

// State is the JSON view of a workspace
type State struct {
	ID          string                `json:"id"`
	Query       string                `json:"query"`
	Results     []models.MovieSummary `json:"results"`
	SearchError string                `json:"search_error,omitempty"`
	Selected    []models.MovieSummary `json:"selected"`
	CreatedAt   time.Time             `json:"created_at"`
}

// State returns a snapshot of the workspace
func (w *Workspace) State() State {
	st := State{
		ID:        w.ID,
		Query:     w.Search.Query(),
		Results:   w.Search.Results(),
		Selected:  w.Selection.Items(),
		CreatedAt: w.CreatedAt,
	}
	if err := w.Search.Err(); err != nil {
		st.SearchError = err.Error()
	}
	return st
}

// Toggle flips item in the selection, drops it from the current results and
// clears the query. It reports whether item is selected afterwards.
func (w *Workspace) Toggle(item models.MovieSummary) bool {
	selected := w.Selection.Toggle(item)
	w.Search.Drop(item.Slug)
	w.Search.Clear()
	return selected
}

func (w *Workspace) touch() {
	w.mu.Lock()
	w.lastUsed = time.Now()
	w.mu.Unlock()
}

func (w *Workspace) idleSince() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastUsed
}

// Store holds the live workspaces in memory
type Store struct {
	mu         sync.RWMutex
	workspaces map[string]*Workspace
	search     search.Func
	delay      time.Duration
	log        *logrus.Entry
}

// NewStore creates a store whose workspaces search with fn after delay
func NewStore(fn search.Func, delay time.Duration, log *logrus.Entry) *Store {
	return &Store{
		workspaces: make(map[string]*Workspace),
		search:     fn,
		delay:      delay,
		log:        log.WithField("component", "workspace"),
	}
}

// Create opens a new empty workspace
func (s *Store) Create() *Workspace {
	sel := bulk.NewSelection()
	now := time.Now()
	w := &Workspace{
		ID:        uuid.NewString(),
		CreatedAt: now,
		Selection: sel,
		Search:    search.NewSearcher(s.search, s.delay, sel.Contains, s.log),
		lastUsed:  now,
	}

	s.mu.Lock()
	s.workspaces[w.ID] = w
	s.mu.Unlock()

	s.log.WithField("workspace_id", w.ID).Debug("Workspace created")
	return w
}

// Get returns the workspace with the given id
func (s *Store) Get(id string) (*Workspace, error) {
	s.mu.RLock()
	w, ok := s.workspaces[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	w.touch()
	return w, nil
}

// Delete discards a workspace and cancels its pending search
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	w, ok := s.workspaces[id]
	delete(s.workspaces, id)
	s.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	w.Search.Close()
	return nil
}

// Len returns the number of live workspaces
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.workspaces)
}

// Sweep discards workspaces unused for longer than idle and returns how
// many were removed.
func (s *Store) Sweep(idle time.Duration) int {
	cutoff := time.Now().Add(-idle)

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, w := range s.workspaces {
		if w.idleSince().Before(cutoff) {
			w.Search.Close()
			delete(s.workspaces, id)
			removed++
		}
	}
	return removed
}
