// Package bulk applies one catalog mutation to every movie of a selection.
//
// Runs are strictly sequential: each call is awaited before the next one
// starts. A failed item is counted and the run moves on; nothing is retried
// and successful calls are never rolled back.
package bulk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"catalogadmin/metrics"
	"catalogadmin/models"
	"catalogadmin/validate"
)

var (
	// ErrEmptySelection is returned before any call when nothing is selected
	ErrEmptySelection = errors.New("no movies selected")
	// ErrNoTarget is returned before any call when the topic or schedule
	// slot to apply is missing
	ErrNoTarget = errors.New("no target selected")
)

// Op is the mutation applied to a single movie
type Op func(ctx context.Context, item models.MovieSummary) error

// ItemFailure records why one movie failed
type ItemFailure struct {
	Slug  string `json:"slug"`
	Error string `json:"error"`
}

// Result is the outcome of a bulk run. Succeeded+Failed always equals Total.
type Result struct {
	ID        string               `json:"id"`
	Kind      models.OperationKind `json:"kind"`
	Label     string               `json:"label"`
	Total     int                  `json:"total"`
	Succeeded int                  `json:"succeeded"`
	Failed    int                  `json:"failed"`
	Failures  []ItemFailure        `json:"failures,omitempty"`
}

// Message renders the single summary shown to the operator
func (r *Result) Message() string {
	if r.Failed == 0 {
		return fmt.Sprintf("%s thành công cho %d phim.", r.Label, r.Succeeded)
	}
	return fmt.Sprintf("Hoàn thành: %d phim thành công, %d phim thất bại.", r.Succeeded, r.Failed)
}

// Journal stores finished runs
type Journal interface {
	Create(event *models.OperationEvent) error
}

// Executor runs bulk operations
type Executor struct {
	log     *logrus.Entry
	journal Journal
}

// NewExecutor creates an executor. journal may be nil.
func NewExecutor(log *logrus.Entry, journal Journal) *Executor {
	return &Executor{log: log.WithField("component", "bulk"), journal: journal}
}

// Run calls op once per item, in order, and tallies the outcome
func (e *Executor) Run(ctx context.Context, kind models.OperationKind, label string, items []models.MovieSummary, op Op) (*Result, error) {
	if len(items) == 0 {
		return nil, ErrEmptySelection
	}

	result := &Result{
		ID:    uuid.NewString(),
		Kind:  kind,
		Label: label,
		Total: len(items),
	}
	log := e.log.WithFields(logrus.Fields{"operation_id": result.ID, "kind": kind})

	for _, item := range items {
		if err := op(ctx, item); err != nil {
			result.Failed++
			result.Failures = append(result.Failures, ItemFailure{Slug: item.Slug, Error: err.Error()})
			metrics.BulkItems.WithLabelValues(string(kind), "failed").Inc()
			log.WithError(err).WithField("slug", item.Slug).Warn("Bulk item failed")
			continue
		}
		result.Succeeded++
		metrics.BulkItems.WithLabelValues(string(kind), "succeeded").Inc()
	}

	log.WithFields(logrus.Fields{
		"succeeded": result.Succeeded,
		"failed":    result.Failed,
	}).Info("Bulk run finished")

	e.record(result)
	return result, nil
}

func (e *Executor) record(r *Result) {
	if e.journal == nil {
		return
	}

	event := &models.OperationEvent{
		OperationID: r.ID,
		Kind:        r.Kind,
		Label:       r.Label,
		Total:       r.Total,
		Succeeded:   r.Succeeded,
		Failed:      r.Failed,
	}
	if len(r.Failures) > 0 {
		if details, err := json.Marshal(r.Failures); err == nil {
			event.Details = string(details)
		}
	}
	if err := e.journal.Create(event); err != nil {
		e.log.WithError(err).WithField("operation_id", r.ID).Error("Failed to record bulk run")
	}
}

// TopicStore links movies to topics upstream
type TopicStore interface {
	AddMovieToTopic(ctx context.Context, movieSlug, topicSlug string) error
	RemoveMovieFromTopic(ctx context.Context, movieSlug, topicSlug string) error
}

// AddTopic attaches topic to every item
func (e *Executor) AddTopic(ctx context.Context, store TopicStore, topic string, items []models.MovieSummary) (*Result, error) {
	if err := checkTarget(items, topic); err != nil {
		return nil, err
	}
	label := fmt.Sprintf("Đã thêm Chủ đề %q", topic)
	return e.Run(ctx, models.OperationTopicAdd, label, items, func(ctx context.Context, item models.MovieSummary) error {
		return store.AddMovieToTopic(ctx, item.Slug, topic)
	})
}

// RemoveTopic detaches topic from every item
func (e *Executor) RemoveTopic(ctx context.Context, store TopicStore, topic string, items []models.MovieSummary) (*Result, error) {
	if err := checkTarget(items, topic); err != nil {
		return nil, err
	}
	label := fmt.Sprintf("Đã xóa Chủ đề %q", topic)
	return e.Run(ctx, models.OperationTopicRemove, label, items, func(ctx context.Context, item models.MovieSummary) error {
		return store.RemoveMovieFromTopic(ctx, item.Slug, topic)
	})
}

// ScheduleStore creates schedule entries upstream
type ScheduleStore interface {
	CreateSchedule(ctx context.Context, slug string, entry models.ScheduleEntry) error
}

// AddSchedule schedules every item at the same weekday and time
func (e *Executor) AddSchedule(ctx context.Context, store ScheduleStore, entry models.ScheduleEntry, items []models.MovieSummary) (*Result, error) {
	if len(items) == 0 {
		return nil, ErrEmptySelection
	}
	if entry.Weekday == 0 || entry.Time == "" {
		return nil, ErrNoTarget
	}
	if err := validate.ScheduleEntry(entry); err != nil {
		return nil, err
	}

	label := fmt.Sprintf("Đã thêm lịch chiếu %s %s", models.WeekdayName(entry.Weekday), entry.Time)
	return e.Run(ctx, models.OperationScheduleBulk, label, items, func(ctx context.Context, item models.MovieSummary) error {
		return store.CreateSchedule(ctx, item.Slug, entry)
	})
}

func checkTarget(items []models.MovieSummary, target string) error {
	if len(items) == 0 {
		return ErrEmptySelection
	}
	if strings.TrimSpace(target) == "" {
		return ErrNoTarget
	}
	return nil
}
