package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogadmin/logging"
	"catalogadmin/models"
	"catalogadmin/repository"
)

func TestSnapshotJob_RunAndPrune(t *testing.T) {
	jm, _, _, cleanup := setupTestJobManager(t)
	defer cleanup()
	job := jm.snapshotJob

	snap, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.NotZero(t, snap.ID)
	assert.Equal(t, 14, snap.UpdatedToday)

	journal := job.journal.(*repository.OperationRepository)
	require.NoError(t, journal.Create(&models.OperationEvent{
		OperationID: "old", Kind: models.OperationTopicAdd, Label: "x",
		CreatedAt: time.Now().UTC().Add(-100 * 24 * time.Hour),
	}))
	require.NoError(t, journal.Create(&models.OperationEvent{
		OperationID: "new", Kind: models.OperationTopicAdd, Label: "y",
	}))

	n, err := job.Prune()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestSnapshotJob_PruneWithoutJournal(t *testing.T) {
	job := NewSnapshotJob(&fakeCatalog{}, nil, nil, time.Hour, logging.Discard())
	n, err := job.Prune()
	assert.NoError(t, err)
	assert.Zero(t, n)
}
