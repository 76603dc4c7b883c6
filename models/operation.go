package models

import "time"

// OperationKind identifies what a journal entry records
type OperationKind string

const (
	OperationTopicAdd          OperationKind = "topic_add"
	OperationTopicRemove       OperationKind = "topic_remove"
	OperationScheduleBulk      OperationKind = "schedule_bulk"
	OperationScheduleReconcile OperationKind = "schedule_reconcile"
	OperationScheduleDelete    OperationKind = "schedule_delete"
	OperationMovieUpdate       OperationKind = "movie_update"
	OperationMovieDelete       OperationKind = "movie_delete"
	OperationPointsAdjust      OperationKind = "points_adjust"
)

// OperationEvent is one entry of the local operations journal
type OperationEvent struct {
	ID          int           `json:"id"`
	OperationID string        `json:"operation_id"`
	Kind        OperationKind `json:"kind"`
	Label       string        `json:"label"`
	Total       int           `json:"total"`
	Succeeded   int           `json:"succeeded"`
	Failed      int           `json:"failed"`
	Details     string        `json:"details,omitempty"` // JSON string for additional data
	CreatedAt   time.Time     `json:"created_at"`
}

// OperationStats summarises the journal
type OperationStats struct {
	TotalOperations int    `json:"total_operations"`
	TotalItems      int    `json:"total_items"`
	TotalFailed     int    `json:"total_failed"`
	LastOperation   string `json:"last_operation_time,omitempty"`
}

// CatalogSnapshot is a point-in-time copy of the dashboard counters
type CatalogSnapshot struct {
	ID           int       `json:"id"`
	TotalMovies  int       `json:"total_movies"`
	UpdatedToday int       `json:"updated_today"`
	Genres       int       `json:"genres"`
	Countries    int       `json:"countries"`
	Topics       int       `json:"topics"`
	CreatedAt    time.Time `json:"created_at"`
}

// Overview is the dashboard landing payload
type Overview struct {
	Totals    CatalogTotals    `json:"totals"`
	Genres    []Genre          `json:"genres"`
	Countries []Country        `json:"countries"`
	Snapshot  *CatalogSnapshot `json:"snapshot,omitempty"`
}
