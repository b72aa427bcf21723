package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// -----------------------------------------------------------------------------
// Rendered Page Methods
// -----------------------------------------------------------------------------

// GetRenderedPage retrieves a cached page by path, fresh or not
func (db *DB) GetRenderedPage(ctx context.Context, path string) (*RenderedPage, error) {
	var p RenderedPage
	err := db.pool.QueryRow(ctx,
		`SELECT path, html, content_hash, status, rendered_at, expires_at, invalidated_at, invalidation_count
		 FROM rendered_pages WHERE path = $1`,
		path,
	).Scan(&p.Path, &p.HTML, &p.ContentHash, &p.Status, &p.RenderedAt, &p.ExpiresAt,
		&p.InvalidatedAt, &p.InvalidationCount)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get rendered page: %w", err)
	}
	return &p, nil
}

// GetFreshRenderedPage retrieves a page only if it has not expired or been invalidated
func (db *DB) GetFreshRenderedPage(ctx context.Context, path string) (*RenderedPage, error) {
	page, err := db.GetRenderedPage(ctx, path)
	if err != nil {
		return nil, err
	}
	if page == nil || !page.IsFresh(time.Now()) {
		return nil, nil
	}
	return page, nil
}

// UpsertRenderedPage stores a rendering, clearing any previous invalidation
func (db *DB) UpsertRenderedPage(ctx context.Context, page *RenderedPage, ttl time.Duration) error {
	if page.Status == 0 {
		page.Status = 200
	}
	page.ContentHash = HashContent(page.HTML)

	err := db.pool.QueryRow(ctx,
		`INSERT INTO rendered_pages (path, html, content_hash, status, rendered_at, expires_at)
		 VALUES ($1, $2, $3, $4, NOW(), NOW() + make_interval(secs => $5))
		 ON CONFLICT (path) DO UPDATE SET
		     html = $2,
		     content_hash = $3,
		     status = $4,
		     rendered_at = NOW(),
		     expires_at = NOW() + make_interval(secs => $5),
		     invalidated_at = NULL
		 RETURNING rendered_at, expires_at, invalidation_count`,
		page.Path, page.HTML, page.ContentHash, page.Status, ttl.Seconds(),
	).Scan(&page.RenderedAt, &page.ExpiresAt, &page.InvalidationCount)
	if err != nil {
		return fmt.Errorf("failed to upsert rendered page: %w", err)
	}
	page.InvalidatedAt = nil
	return nil
}

// InvalidateRenderedPage marks a cached page stale. Invalidating a missing or already
// stale page is a no-op that still succeeds.
func (db *DB) InvalidateRenderedPage(ctx context.Context, path string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE rendered_pages
		 SET invalidated_at = COALESCE(invalidated_at, NOW()),
		     invalidation_count = invalidation_count + 1
		 WHERE path = $1`,
		path,
	)
	if err != nil {
		return fmt.Errorf("failed to invalidate rendered page %s: %w", path, err)
	}
	return nil
}

// InvalidateAllRenderedPages marks every cached page stale and returns how many were fresh
func (db *DB) InvalidateAllRenderedPages(ctx context.Context) (int64, error) {
	result, err := db.pool.Exec(ctx,
		`UPDATE rendered_pages
		 SET invalidated_at = NOW(), invalidation_count = invalidation_count + 1
		 WHERE invalidated_at IS NULL`,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to invalidate rendered pages: %w", err)
	}
	return result.RowsAffected(), nil
}

// DeleteExpiredRenderedPages removes pages past their expiry
func (db *DB) DeleteExpiredRenderedPages(ctx context.Context) (int64, error) {
	result, err := db.pool.Exec(ctx, `DELETE FROM rendered_pages WHERE expires_at < NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired pages: %w", err)
	}
	return result.RowsAffected(), nil
}

// -----------------------------------------------------------------------------
// Revalidation Run Methods
// -----------------------------------------------------------------------------

// CreateRevalidationRun stores the outcome of a revalidation
func (db *DB) CreateRevalidationRun(ctx context.Context, run *RevalidationRun) error {
	pathsJSON, err := json.Marshal(nonNil(run.Paths))
	if err != nil {
		return fmt.Errorf("failed to marshal paths: %w", err)
	}
	failedJSON, err := json.Marshal(nonNil(run.Failed))
	if err != nil {
		return fmt.Errorf("failed to marshal failed paths: %w", err)
	}

	err = db.pool.QueryRow(ctx,
		`INSERT INTO revalidation_runs (id, source, content_type, scope, paths, failed, started_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING completed_at`,
		run.ID, run.Source, run.ContentType, run.Scope, pathsJSON, failedJSON, run.StartedAt,
	).Scan(&run.CompletedAt)
	if err != nil {
		return fmt.Errorf("failed to create revalidation run: %w", err)
	}
	return nil
}

// ListRevalidationRuns returns the most recent runs, newest first
func (db *DB) ListRevalidationRuns(ctx context.Context, limit int) ([]RevalidationRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, source, COALESCE(content_type, ''), scope, paths, failed, started_at, completed_at
		 FROM revalidation_runs ORDER BY started_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list revalidation runs: %w", err)
	}
	defer rows.Close()

	var runs []RevalidationRun
	for rows.Next() {
		var r RevalidationRun
		var pathsJSON, failedJSON []byte
		if err := rows.Scan(&r.ID, &r.Source, &r.ContentType, &r.Scope, &pathsJSON, &failedJSON,
			&r.StartedAt, &r.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan revalidation run: %w", err)
		}
		if err := json.Unmarshal(pathsJSON, &r.Paths); err != nil {
			return nil, fmt.Errorf("failed to unmarshal paths: %w", err)
		}
		if err := json.Unmarshal(failedJSON, &r.Failed); err != nil {
			return nil, fmt.Errorf("failed to unmarshal failed paths: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
