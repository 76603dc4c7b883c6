// Package jobs provides background job processing functionality.
package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Sweeper drops idle in-memory state
type Sweeper interface {
	Sweep(idle time.Duration) int
}

// Config controls the job schedule
type Config struct {
	SnapshotInterval time.Duration
	SweepInterval    time.Duration
	WorkspaceIdle    time.Duration
}

// JobManager handles background job execution
type JobManager struct {
	snapshotJob *SnapshotJob
	sweeper     Sweeper
	cfg         Config
	log         *logrus.Entry
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	running     bool
	mu          sync.RWMutex
}

// NewJobManager creates a new job manager. Either job may be nil.
func NewJobManager(snapshotJob *SnapshotJob, sweeper Sweeper, cfg Config, log *logrus.Entry) *JobManager {
	if cfg.SnapshotInterval <= 0 {
		cfg.SnapshotInterval = 30 * time.Minute
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = 5 * time.Minute
	}
	if cfg.WorkspaceIdle <= 0 {
		cfg.WorkspaceIdle = 12 * time.Hour
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &JobManager{
		snapshotJob: snapshotJob,
		sweeper:     sweeper,
		cfg:         cfg,
		log:         log.WithField("component", "jobs"),
		ctx:         ctx,
		cancel:      cancel,
		running:     false,
	}
}

// Start begins the job manager background processing
func (jm *JobManager) Start() {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	if jm.running {
		jm.log.Info("Job manager is already running")
		return
	}

	if jm.ctx.Err() != nil {
		jm.ctx, jm.cancel = context.WithCancel(context.Background())
	}
	jm.running = true
	jm.log.Info("Starting job manager...")

	jm.wg.Add(2)
	go jm.runPeriodicSnapshot(jm.ctx)
	go jm.runPeriodicSweep(jm.ctx)
}

// Stop stops the job manager
func (jm *JobManager) Stop() {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	if !jm.running {
		return
	}

	jm.log.Info("Stopping job manager...")
	jm.cancel()
	jm.running = false

	// Wait for all jobs to finish
	jm.wg.Wait()
	jm.log.Info("Job manager stopped")
}

// IsRunning returns whether the job manager is currently running
func (jm *JobManager) IsRunning() bool {
	jm.mu.RLock()
	defer jm.mu.RUnlock()
	return jm.running
}

// TriggerSnapshot takes a snapshot out of band
func (jm *JobManager) TriggerSnapshot() {
	if jm.snapshotJob == nil {
		jm.log.Warn("Cannot trigger snapshot: no snapshot job configured")
		return
	}

	jm.mu.RLock()
	ctx := jm.ctx
	jm.mu.RUnlock()

	jm.wg.Add(1)
	go func() {
		defer jm.wg.Done()
		if _, err := jm.snapshotJob.Run(ctx); err != nil {
			jm.log.WithError(err).Error("Triggered snapshot failed")
		}
	}()
}

func (jm *JobManager) snapshotAndPrune(ctx context.Context) {
	if _, err := jm.snapshotJob.Run(ctx); err != nil {
		jm.log.WithError(err).Error("Catalog snapshot failed")
	}
	if _, err := jm.snapshotJob.Prune(); err != nil {
		jm.log.WithError(err).Error("Journal prune failed")
	}
}

// runPeriodicSnapshot snapshots the catalog on start and every interval
func (jm *JobManager) runPeriodicSnapshot(ctx context.Context) {
	defer jm.wg.Done()

	if jm.snapshotJob == nil {
		jm.log.Info("No snapshot job configured, skipping periodic snapshots")
		<-ctx.Done()
		return
	}

	// Run immediately on startup
	jm.snapshotAndPrune(ctx)

	ticker := time.NewTicker(jm.cfg.SnapshotInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			jm.log.Info("Periodic snapshot job stopped")
			return
		case <-ticker.C:
			jm.snapshotAndPrune(ctx)
		}
	}
}

// runPeriodicSweep drops idle workspaces
func (jm *JobManager) runPeriodicSweep(ctx context.Context) {
	defer jm.wg.Done()

	if jm.sweeper == nil {
		<-ctx.Done()
		return
	}

	ticker := time.NewTicker(jm.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := jm.sweeper.Sweep(jm.cfg.WorkspaceIdle); n > 0 {
				jm.log.WithField("removed", n).Info("Swept idle workspaces")
			}
		}
	}
}
