package schedule

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogadmin/logging"
	"catalogadmin/models"
	"catalogadmin/validate"
)

type call struct {
	Method string
	Entry  models.ScheduleEntry
}

type fakeStore struct {
	mu    sync.Mutex
	calls []call
	fail  map[int]bool
}

func (f *fakeStore) add(method string, e models.ScheduleEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{Method: method, Entry: e})
	if f.fail[e.Weekday] {
		return errors.New("boom")
	}
	return nil
}

func (f *fakeStore) CreateSchedule(_ context.Context, _ string, e models.ScheduleEntry) error {
	return f.add("POST", e)
}

func (f *fakeStore) UpdateSchedule(_ context.Context, _ string, e models.ScheduleEntry) error {
	return f.add("PUT", e)
}

func (f *fakeStore) DeleteSchedule(_ context.Context, _ string, weekday int) error {
	return f.add("DELETE", models.ScheduleEntry{Weekday: weekday})
}

func (f *fakeStore) sorted() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]call(nil), f.calls...)
	sort.Slice(out, func(i, j int) bool { return out[i].Entry.Weekday < out[j].Entry.Weekday })
	return out
}

func setupTestReconciler() (*Reconciler, *fakeStore) {
	store := &fakeStore{fail: map[int]bool{}}
	return NewReconciler(store, logging.Discard()), store
}

func TestDiff(t *testing.T) {
	testCases := []struct {
		name     string
		original []models.ScheduleEntry
		edited   []models.ScheduleEntry
		want     Plan
	}{
		{
			name:     "time change and new day",
			original: []models.ScheduleEntry{{Weekday: 2, Time: "18:00"}},
			edited:   []models.ScheduleEntry{{Weekday: 2, Time: "20:00"}, {Weekday: 3, Time: "21:00"}},
			want: Plan{
				Updates: []models.ScheduleEntry{{Weekday: 2, Time: "20:00"}},
				Creates: []models.ScheduleEntry{{Weekday: 3, Time: "21:00"}},
			},
		},
		{
			name:     "unchanged",
			original: []models.ScheduleEntry{{Weekday: 5, Time: "19:30"}},
			edited:   []models.ScheduleEntry{{Weekday: 5, Time: "19:30"}},
			want:     Plan{},
		},
		{
			name:     "removed entries are not deleted",
			original: []models.ScheduleEntry{{Weekday: 2, Time: "18:00"}, {Weekday: 8, Time: "10:00"}},
			edited:   []models.ScheduleEntry{{Weekday: 2, Time: "18:00"}},
			want:     Plan{},
		},
		{
			name:     "duplicate weekday in original matches the first slot",
			original: []models.ScheduleEntry{{Weekday: 2, Time: "18:00"}, {Weekday: 2, Time: "20:00"}},
			edited:   []models.ScheduleEntry{{Weekday: 2, Time: "18:00"}},
			want:     Plan{},
		},
		{
			name:     "incomplete new entry skipped",
			original: nil,
			edited:   []models.ScheduleEntry{{Weekday: 4}, {Time: "20:00"}},
			want:     Plan{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Diff(tc.original, tc.edited))
		})
	}
}

func TestReconcile_OnePutOnePost(t *testing.T) {
	r, store := setupTestReconciler()

	plan, err := r.Reconcile(context.Background(), "phim-a",
		[]models.ScheduleEntry{{Weekday: 2, Time: "18:00"}},
		[]models.ScheduleEntry{{Weekday: 2, Time: "20:00"}, {Weekday: 3, Time: "21:00"}},
	)
	require.NoError(t, err)
	assert.Len(t, plan.Updates, 1)
	assert.Len(t, plan.Creates, 1)

	assert.Equal(t, []call{
		{Method: "PUT", Entry: models.ScheduleEntry{Weekday: 2, Time: "20:00"}},
		{Method: "POST", Entry: models.ScheduleEntry{Weekday: 3, Time: "21:00"}},
	}, store.sorted())
}

func TestReconcile_FailureIsGenericAndOtherCallsStillRun(t *testing.T) {
	r, store := setupTestReconciler()
	store.fail[3] = true

	_, err := r.Reconcile(context.Background(), "phim-a",
		[]models.ScheduleEntry{{Weekday: 2, Time: "18:00"}},
		[]models.ScheduleEntry{{Weekday: 2, Time: "20:00"}, {Weekday: 3, Time: "21:00"}, {Weekday: 4, Time: "22:00"}},
	)
	assert.ErrorIs(t, err, ErrScheduleUpdate)
	assert.Equal(t, ErrScheduleUpdate.Error(), err.Error())
	assert.Len(t, store.sorted(), 3)
}

func TestReconcile_InvalidEntryIssuesNoCalls(t *testing.T) {
	r, store := setupTestReconciler()

	_, err := r.Reconcile(context.Background(), "phim-a", nil,
		[]models.ScheduleEntry{{Weekday: 3, Time: "21:00"}, {Weekday: 3, Time: "9pm"}})
	assert.Error(t, err)
	assert.Empty(t, store.sorted())
}

func TestPrepare_ClearedTimeIsRejected(t *testing.T) {
	plan, err := Prepare(
		[]models.ScheduleEntry{{Weekday: 2, Time: "18:00"}},
		[]models.ScheduleEntry{{Weekday: 2, Time: ""}},
	)
	require.Error(t, err)
	assert.True(t, plan.Empty())

	fields := validate.Fields(err)
	require.Len(t, fields, 1)
	assert.Equal(t, "gio_chieu", fields[0].Field)
}

func TestSetAndDelete(t *testing.T) {
	r, store := setupTestReconciler()
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "phim-a", models.ScheduleEntry{Weekday: 2, Time: "18:00"}, true))
	require.NoError(t, r.Set(ctx, "phim-a", models.ScheduleEntry{Weekday: 3, Time: "18:00"}, false))
	require.NoError(t, r.Delete(ctx, "phim-a", 8))
	assert.Error(t, r.Delete(ctx, "phim-a", 1))

	calls := store.sorted()
	require.Len(t, calls, 3)
	assert.Equal(t, "PUT", calls[0].Method)
	assert.Equal(t, "POST", calls[1].Method)
	assert.Equal(t, "DELETE", calls[2].Method)
}
