// Package repository provides the data access layer for the local journal.
package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"catalogadmin/database"
	"catalogadmin/models"
)

// ErrNotFound is returned when a looked-up record does not exist
var ErrNotFound = errors.New("not found")

// OperationRepository handles the operations journal
type OperationRepository struct {
	db *database.DB
}

// NewOperationRepository creates a new operation repository
func NewOperationRepository(db *database.DB) *OperationRepository {
	return &OperationRepository{db: db}
}

// Create appends an event to the journal
func (r *OperationRepository) Create(event *models.OperationEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO operation_events (operation_id, kind, label, total, succeeded, failed, details, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.Exec(query,
		event.OperationID, string(event.Kind), event.Label,
		event.Total, event.Succeeded, event.Failed,
		nullString(event.Details), event.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to create operation event: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	event.ID = int(id)
	return nil
}

// Recent returns the newest events first. kind filters when non-empty.
func (r *OperationRepository) Recent(kind models.OperationKind, limit int) ([]models.OperationEvent, error) {
	query := `SELECT id, operation_id, kind, label, total, succeeded, failed, details, created_at
			  FROM operation_events`
	var args []interface{}
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, string(kind))
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query operation events: %w", err)
	}
	defer closeRows(rows)

	events := []models.OperationEvent{}
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating operation events: %w", err)
	}

	return events, nil
}

// GetByOperationID returns the event recorded for one operation
func (r *OperationRepository) GetByOperationID(operationID string) (*models.OperationEvent, error) {
	query := `SELECT id, operation_id, kind, label, total, succeeded, failed, details, created_at
			  FROM operation_events
			  WHERE operation_id = ?
			  ORDER BY id DESC LIMIT 1`

	event, err := scanEvent(r.db.QueryRow(query, operationID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("operation %s: %w", operationID, ErrNotFound)
		}
		return nil, err
	}
	return event, nil
}

// Stats summarises the journal
func (r *OperationRepository) Stats() (*models.OperationStats, error) {
	stats := &models.OperationStats{}

	err := r.db.QueryRow(`SELECT COUNT(*), COALESCE(SUM(total), 0), COALESCE(SUM(failed), 0) FROM operation_events`).
		Scan(&stats.TotalOperations, &stats.TotalItems, &stats.TotalFailed)
	if err != nil {
		return nil, fmt.Errorf("failed to count operation events: %w", err)
	}

	var last sql.NullTime
	err = r.db.QueryRow(`SELECT created_at FROM operation_events ORDER BY created_at DESC, id DESC LIMIT 1`).Scan(&last)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to get last operation time: %w", err)
	}
	if last.Valid {
		stats.LastOperation = last.Time.UTC().Format(time.RFC3339)
	}

	return stats, nil
}

// DeleteOlderThan removes events older than the given age and returns how
// many were removed
func (r *OperationRepository) DeleteOlderThan(age time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-age)
	result, err := r.db.Exec(`DELETE FROM operation_events WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old operation events: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted operation events: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEvent(s scanner) (*models.OperationEvent, error) {
	var event models.OperationEvent
	var details sql.NullString

	err := s.Scan(&event.ID, &event.OperationID, &event.Kind, &event.Label,
		&event.Total, &event.Succeeded, &event.Failed, &details, &event.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan operation event: %w", err)
	}

	if details.Valid {
		event.Details = details.String
	}
	return &event, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
