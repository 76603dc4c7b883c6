// Package schedule reconciles a movie's weekly airing slots against the
// copy held upstream.
package schedule

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"catalogadmin/models"
	"catalogadmin/validate"
)

// ErrScheduleUpdate is the only error reported when a reconciliation batch
// fails. The cause is logged.
var ErrScheduleUpdate = errors.New("failed to update schedule")

// Plan lists the upstream calls needed to move from one schedule to another
type Plan struct {
	Updates []models.ScheduleEntry `json:"updates"`
	Creates []models.ScheduleEntry `json:"creates"`
}

// Empty reports whether the plan issues no calls
func (p Plan) Empty() bool {
	return len(p.Updates) == 0 && len(p.Creates) == 0
}

// Diff compares edited against original, matching entries by weekday.
// A matched entry whose time changed becomes an update. An unmatched entry
// becomes a create when both weekday and time are set. Entries that
// disappeared from edited are left alone; deletions are explicit.
func Diff(original, edited []models.ScheduleEntry) Plan {
	existing := make(map[int]string, len(original))
	for _, e := range original {
		if _, dup := existing[e.Weekday]; !dup {
			existing[e.Weekday] = e.Time
		}
	}

	var plan Plan
	for _, e := range edited {
		if prev, ok := existing[e.Weekday]; ok {
			if prev != e.Time {
				plan.Updates = append(plan.Updates, e)
			}
			continue
		}
		if e.Weekday != 0 && e.Time != "" {
			plan.Creates = append(plan.Creates, e)
		}
	}
	return plan
}

// Store is the upstream schedule API
type Store interface {
	CreateSchedule(ctx context.Context, slug string, entry models.ScheduleEntry) error
	UpdateSchedule(ctx context.Context, slug string, entry models.ScheduleEntry) error
	DeleteSchedule(ctx context.Context, slug string, weekday int) error
}

// Reconciler applies schedule plans
type Reconciler struct {
	store Store
	log   *logrus.Entry
}

// NewReconciler creates a reconciler over store
func NewReconciler(store Store, log *logrus.Entry) *Reconciler {
	return &Reconciler{store: store, log: log.WithField("component", "schedule")}
}

// Apply issues every call of plan at once and waits for all of them. Calls
// that already succeeded are kept when another one fails.
func (r *Reconciler) Apply(ctx context.Context, slug string, plan Plan) error {
	var g errgroup.Group
	for _, e := range plan.Updates {
		e := e
		g.Go(func() error { return r.store.UpdateSchedule(ctx, slug, e) })
	}
	for _, e := range plan.Creates {
		e := e
		g.Go(func() error { return r.store.CreateSchedule(ctx, slug, e) })
	}

	if err := g.Wait(); err != nil {
		r.log.WithError(err).WithFields(logrus.Fields{
			"slug":    slug,
			"updates": len(plan.Updates),
			"creates": len(plan.Creates),
		}).Error("Schedule reconciliation failed")
		return ErrScheduleUpdate
	}
	return nil
}

// Prepare diffs edited against original and validates every planned entry.
// It issues no calls, so callers can reject an edit before saving anything.
func Prepare(original, edited []models.ScheduleEntry) (Plan, error) {
	plan := Diff(original, edited)

	var errs validate.MultiError
	for _, e := range plan.Updates {
		errs.Add(validate.ScheduleEntry(e))
	}
	for _, e := range plan.Creates {
		errs.Add(validate.ScheduleEntry(e))
	}
	if err := errs.Err(); err != nil {
		return Plan{}, err
	}
	return plan, nil
}

// Reconcile prepares the plan from original to edited and applies it
func (r *Reconciler) Reconcile(ctx context.Context, slug string, original, edited []models.ScheduleEntry) (Plan, error) {
	plan, err := Prepare(original, edited)
	if err != nil || plan.Empty() {
		return plan, err
	}
	return plan, r.Apply(ctx, slug, plan)
}

// Set creates or replaces the slot of entry's weekday
func (r *Reconciler) Set(ctx context.Context, slug string, entry models.ScheduleEntry, exists bool) error {
	if err := validate.ScheduleEntry(entry); err != nil {
		return err
	}
	if exists {
		return r.store.UpdateSchedule(ctx, slug, entry)
	}
	return r.store.CreateSchedule(ctx, slug, entry)
}

// Delete removes the slot of one weekday
func (r *Reconciler) Delete(ctx context.Context, slug string, weekday int) error {
	if err := validate.Weekday("thu_trong_tuan", weekday); err != nil {
		return err
	}
	return r.store.DeleteSchedule(ctx, slug, weekday)
}
