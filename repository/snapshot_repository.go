package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"catalogadmin/database"
	"catalogadmin/models"
)

// SnapshotRepository stores the periodic copies of the catalog counters
type SnapshotRepository struct {
	db *database.DB
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db *database.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Create inserts a snapshot
func (r *SnapshotRepository) Create(s *models.CatalogSnapshot) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO catalog_snapshots (total_movies, updated_today, genres, countries, topics, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.Exec(query,
		s.TotalMovies, s.UpdatedToday, s.Genres, s.Countries, s.Topics, s.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	s.ID = int(id)
	return nil
}

// Latest returns the newest snapshot, or ErrNotFound when none was taken yet
func (r *SnapshotRepository) Latest() (*models.CatalogSnapshot, error) {
	query := `
		SELECT id, total_movies, updated_today, genres, countries, topics, created_at
		FROM catalog_snapshots
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	var s models.CatalogSnapshot
	err := r.db.QueryRow(query).Scan(
		&s.ID, &s.TotalMovies, &s.UpdatedToday, &s.Genres, &s.Countries, &s.Topics, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("snapshot: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get latest snapshot: %w", err)
	}
	return &s, nil
}

// History returns up to limit snapshots, newest first
func (r *SnapshotRepository) History(limit int) ([]models.CatalogSnapshot, error) {
	query := `
		SELECT id, total_movies, updated_today, genres, countries, topics, created_at
		FROM catalog_snapshots
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer closeRows(rows)

	snapshots := []models.CatalogSnapshot{}
	for rows.Next() {
		var s models.CatalogSnapshot
		if err := rows.Scan(&s.ID, &s.TotalMovies, &s.UpdatedToday, &s.Genres, &s.Countries, &s.Topics, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snapshots = append(snapshots, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}

	return snapshots, nil
}

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		logrus.WithError(err).Warn("Failed to close rows")
	}
}
