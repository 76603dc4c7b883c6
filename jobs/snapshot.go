package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"catalogadmin/metrics"
	"catalogadmin/models"
)

// CatalogSource reads the counters a snapshot is made of
type CatalogSource interface {
	Totals(ctx context.Context) (*models.CatalogTotals, error)
	ListGenres(ctx context.Context) ([]models.Genre, error)
	ListCountries(ctx context.Context) ([]models.Country, error)
	ListTopics(ctx context.Context) ([]models.Topic, error)
}

// SnapshotStore persists snapshots
type SnapshotStore interface {
	Create(s *models.CatalogSnapshot) error
}

// JournalPruner drops old journal entries
type JournalPruner interface {
	DeleteOlderThan(age time.Duration) (int64, error)
}

// SnapshotJob copies the catalog counters into the local store and prunes
// the operations journal
type SnapshotJob struct {
	catalog   CatalogSource
	snapshots SnapshotStore
	journal   JournalPruner
	retention time.Duration
	log       *logrus.Entry
}

// NewSnapshotJob creates a new snapshot job. Journal entries older than
// retention are removed on every run; journal may be nil.
func NewSnapshotJob(catalog CatalogSource, snapshots SnapshotStore, journal JournalPruner, retention time.Duration, log *logrus.Entry) *SnapshotJob {
	return &SnapshotJob{
		catalog:   catalog,
		snapshots: snapshots,
		journal:   journal,
		retention: retention,
		log:       log.WithField("job", "snapshot"),
	}
}

// Run takes one snapshot. The four upstream loads run in parallel; any
// failure skips the snapshot.
func (j *SnapshotJob) Run(ctx context.Context) (*models.CatalogSnapshot, error) {
	var (
		totals    *models.CatalogTotals
		genres    []models.Genre
		countries []models.Country
		topics    []models.Topic
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		totals, err = j.catalog.Totals(gctx)
		return err
	})
	g.Go(func() (err error) {
		genres, err = j.catalog.ListGenres(gctx)
		return err
	})
	g.Go(func() (err error) {
		countries, err = j.catalog.ListCountries(gctx)
		return err
	})
	g.Go(func() (err error) {
		topics, err = j.catalog.ListTopics(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		metrics.SnapshotRuns.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("failed to load catalog counters: %w", err)
	}

	snapshot := &models.CatalogSnapshot{
		TotalMovies:  totals.TotalMovies,
		UpdatedToday: totals.UpdatedToday,
		Genres:       len(genres),
		Countries:    len(countries),
		Topics:       len(topics),
	}
	if err := j.snapshots.Create(snapshot); err != nil {
		metrics.SnapshotRuns.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("failed to save snapshot: %w", err)
	}

	metrics.SnapshotRuns.WithLabelValues("ok").Inc()
	j.log.WithFields(logrus.Fields{
		"total_movies":  snapshot.TotalMovies,
		"updated_today": snapshot.UpdatedToday,
	}).Info("Catalog snapshot saved")
	return snapshot, nil
}

// Prune removes journal entries past the retention period
func (j *SnapshotJob) Prune() (int64, error) {
	if j.journal == nil || j.retention <= 0 {
		return 0, nil
	}
	n, err := j.journal.DeleteOlderThan(j.retention)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		j.log.WithField("removed", n).Info("Pruned operations journal")
	}
	return n, nil
}
