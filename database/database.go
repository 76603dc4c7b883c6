// Package database provides the local sqlite store: the operations journal
// and the catalog snapshots.
package database

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // Import sqlite3 driver
	"github.com/sirupsen/logrus"
)

// DB wraps the SQL database connection
type DB struct {
	*sql.DB
}

// NewDB creates a new database connection
func NewDB(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// sqlite serialises writers; a single connection also keeps every
	// caller on the same :memory: database
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{db}, nil
}

// InitSchema initializes the database schema
func (db *DB) InitSchema(log *logrus.Entry) error {
	schema := `
	CREATE TABLE IF NOT EXISTS operation_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		operation_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		label TEXT NOT NULL,
		total INTEGER NOT NULL DEFAULT 0,
		succeeded INTEGER NOT NULL DEFAULT 0,
		failed INTEGER NOT NULL DEFAULT 0,
		details TEXT,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_operation_events_operation_id ON operation_events(operation_id);
	CREATE INDEX IF NOT EXISTS idx_operation_events_kind ON operation_events(kind);
	CREATE INDEX IF NOT EXISTS idx_operation_events_created_at ON operation_events(created_at);

	CREATE TABLE IF NOT EXISTS catalog_snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		total_movies INTEGER NOT NULL,
		updated_today INTEGER NOT NULL,
		genres INTEGER NOT NULL,
		countries INTEGER NOT NULL,
		topics INTEGER NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_catalog_snapshots_created_at ON catalog_snapshots(created_at);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	log.Info("Database schema initialized")
	return nil
}
