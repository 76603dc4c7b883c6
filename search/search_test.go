package search

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogadmin/logging"
	"catalogadmin/models"
)

const testDelay = 20 * time.Millisecond

type fakeUpstream struct {
	mu      sync.Mutex
	queries []string
	results []models.MovieSummary
	err     error
}

func (f *fakeUpstream) Search(_ context.Context, query string) ([]models.MovieSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	return f.results, f.err
}

func (f *fakeUpstream) Queries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

func setupTestSearcher(selected func(string) bool) (*Searcher, *fakeUpstream) {
	up := &fakeUpstream{results: []models.MovieSummary{
		{Slug: "phim-a", Title: "Phim A"},
		{Slug: "phim-b", Title: "Phim B"},
	}}
	return NewSearcher(up.Search, testDelay, selected, logging.Discard()), up
}

func TestDebouncer_OnlyLastTriggerRuns(t *testing.T) {
	d := NewDebouncer(testDelay)
	var last atomic.Int32
	var runs atomic.Int32

	for i := 1; i <= 5; i++ {
		n := int32(i)
		d.Trigger(func() {
			runs.Add(1)
			last.Store(n)
		})
	}

	assert.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(3 * testDelay)
	assert.Equal(t, int32(1), runs.Load())
	assert.Equal(t, int32(5), last.Load())
}

func TestDebouncer_Stop(t *testing.T) {
	d := NewDebouncer(testDelay)
	assert.False(t, d.Stop())

	var runs atomic.Int32
	d.Trigger(func() { runs.Add(1) })
	assert.True(t, d.Stop())

	time.Sleep(3 * testDelay)
	assert.Equal(t, int32(0), runs.Load())
}

func TestSearcher_EmptyQueryClearsWithoutRequest(t *testing.T) {
	s, up := setupTestSearcher(nil)
	ctx := context.Background()

	s.Type(ctx, "phim")
	require.Eventually(t, func() bool { return len(s.Results()) == 2 }, time.Second, 5*time.Millisecond)

	s.Type(ctx, "   ")
	assert.Empty(t, s.Results())

	time.Sleep(3 * testDelay)
	assert.Equal(t, []string{"phim"}, up.Queries())
	assert.Equal(t, 1, s.Requests())
}

func TestSearcher_EmptyQueryCancelsPendingSearch(t *testing.T) {
	s, up := setupTestSearcher(nil)
	ctx := context.Background()

	s.Type(ctx, "ph")
	s.Type(ctx, "")

	time.Sleep(3 * testDelay)
	assert.Empty(t, up.Queries())
	assert.Empty(t, s.Results())
}

func TestSearcher_DebouncesKeystrokes(t *testing.T) {
	s, up := setupTestSearcher(nil)
	ctx := context.Background()

	for _, q := range []string{"p", "ph", "phi", "phim"} {
		s.Type(ctx, q)
	}

	require.Eventually(t, func() bool { return len(up.Queries()) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(3 * testDelay)
	assert.Equal(t, []string{"phim"}, up.Queries())
	assert.Equal(t, "phim", s.Query())
}

func TestSearcher_ExcludesSelected(t *testing.T) {
	s, _ := setupTestSearcher(func(slug string) bool { return slug == "phim-a" })

	s.Type(context.Background(), "phim")
	require.Eventually(t, func() bool { return len(s.Results()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "phim-b", s.Results()[0].Slug)
}

func TestSearcher_ErrorClearsResults(t *testing.T) {
	s, up := setupTestSearcher(nil)
	ctx := context.Background()

	s.Type(ctx, "phim")
	require.Eventually(t, func() bool { return len(s.Results()) == 2 }, time.Second, 5*time.Millisecond)

	up.mu.Lock()
	up.err = errors.New("search unavailable")
	up.mu.Unlock()

	s.Type(ctx, "phim b")
	require.Eventually(t, func() bool { return s.Err() != nil }, time.Second, 5*time.Millisecond)
	assert.Empty(t, s.Results())
}

func TestSearcher_DropAndClear(t *testing.T) {
	s, _ := setupTestSearcher(nil)

	s.Type(context.Background(), "phim")
	require.Eventually(t, func() bool { return len(s.Results()) == 2 }, time.Second, 5*time.Millisecond)

	s.Drop("phim-a")
	s.Clear()
	assert.Equal(t, "", s.Query())
	require.Len(t, s.Results(), 1)
	assert.Equal(t, "phim-b", s.Results()[0].Slug)
}
