package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogadmin/database"
	"catalogadmin/logging"
	"catalogadmin/models"
)

func setupTestDB(t *testing.T) (*database.DB, func()) {
	testDB, err := database.NewDB(":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	if err := testDB.InitSchema(logging.Discard()); err != nil {
		t.Fatalf("Failed to initialize test schema: %v", err)
	}

	cleanup := func() {
		if err := testDB.Close(); err != nil {
			t.Logf("Failed to close test database: %v", err)
		}
	}

	return testDB, cleanup
}

func createTestEvent(t *testing.T, repo *OperationRepository, opID string, kind models.OperationKind, age time.Duration) *models.OperationEvent {
	event := &models.OperationEvent{
		OperationID: opID,
		Kind:        kind,
		Label:       "Đã thêm Chủ đề \"hanh-dong\"",
		Total:       3,
		Succeeded:   2,
		Failed:      1,
		Details:     `[{"slug":"phim-b","error":"boom"}]`,
		CreatedAt:   time.Now().UTC().Add(-age),
	}
	require.NoError(t, repo.Create(event))
	return event
}

func TestOperationRepository_CreateAndGet(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewOperationRepository(db)

	event := createTestEvent(t, repo, "op-1", models.OperationTopicAdd, 0)
	assert.NotZero(t, event.ID)

	got, err := repo.GetByOperationID("op-1")
	require.NoError(t, err)
	assert.Equal(t, models.OperationTopicAdd, got.Kind)
	assert.Equal(t, 3, got.Total)
	assert.Equal(t, 1, got.Failed)
	assert.Contains(t, got.Details, "phim-b")
	assert.WithinDuration(t, event.CreatedAt, got.CreatedAt, time.Second)

	_, err = repo.GetByOperationID("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOperationRepository_RecentOrderAndFilter(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewOperationRepository(db)

	createTestEvent(t, repo, "old", models.OperationTopicAdd, 2*time.Hour)
	createTestEvent(t, repo, "mid", models.OperationScheduleBulk, time.Hour)
	createTestEvent(t, repo, "new", models.OperationTopicAdd, 0)

	events, err := repo.Recent("", 10)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "new", events[0].OperationID)
	assert.Equal(t, "old", events[2].OperationID)

	events, err = repo.Recent(models.OperationTopicAdd, 1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "new", events[0].OperationID)
}

func TestOperationRepository_StatsAndPrune(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewOperationRepository(db)

	stats, err := repo.Stats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalOperations)
	assert.Empty(t, stats.LastOperation)

	createTestEvent(t, repo, "ancient", models.OperationTopicRemove, 100*24*time.Hour)
	createTestEvent(t, repo, "fresh", models.OperationTopicRemove, time.Minute)

	stats, err = repo.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalOperations)
	assert.Equal(t, 6, stats.TotalItems)
	assert.Equal(t, 2, stats.TotalFailed)
	assert.NotEmpty(t, stats.LastOperation)

	n, err := repo.DeleteOlderThan(90 * 24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = repo.GetByOperationID("ancient")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.GetByOperationID("fresh")
	assert.NoError(t, err)
}

func TestSnapshotRepository(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewSnapshotRepository(db)

	_, err := repo.Latest()
	assert.ErrorIs(t, err, ErrNotFound)

	first := &models.CatalogSnapshot{TotalMovies: 100, UpdatedToday: 3, Genres: 20, Countries: 12, Topics: 5,
		CreatedAt: time.Now().UTC().Add(-time.Hour)}
	second := &models.CatalogSnapshot{TotalMovies: 101, UpdatedToday: 4, Genres: 20, Countries: 12, Topics: 6}
	require.NoError(t, repo.Create(first))
	require.NoError(t, repo.Create(second))
	assert.NotZero(t, second.ID)

	latest, err := repo.Latest()
	require.NoError(t, err)
	assert.Equal(t, 101, latest.TotalMovies)
	assert.Equal(t, 6, latest.Topics)

	history, err := repo.History(10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, second.ID, history[0].ID)
	assert.Equal(t, first.ID, history[1].ID)
}
