// Package db provides PostgreSQL storage for rendered pages and revalidation history.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Ping verifies the database is reachable
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// schema creates the tables used by the site. Statements are idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS rendered_pages (
		path               TEXT PRIMARY KEY,
		html               TEXT NOT NULL,
		content_hash       TEXT NOT NULL,
		status             INTEGER NOT NULL DEFAULT 200,
		rendered_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		expires_at         TIMESTAMPTZ NOT NULL,
		invalidated_at     TIMESTAMPTZ,
		invalidation_count INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_rendered_pages_expires_at ON rendered_pages (expires_at)`,
	`CREATE TABLE IF NOT EXISTS revalidation_runs (
		id            UUID PRIMARY KEY,
		source        TEXT NOT NULL,
		content_type  TEXT,
		scope         TEXT NOT NULL,
		paths         JSONB NOT NULL DEFAULT '[]',
		failed        JSONB NOT NULL DEFAULT '[]',
		started_at    TIMESTAMPTZ NOT NULL,
		completed_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_revalidation_runs_started_at ON revalidation_runs (started_at DESC)`,
}

// EnsureSchema creates missing tables and indexes
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
