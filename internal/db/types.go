package db

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// RenderedPage is a cached HTML rendering of one site path
type RenderedPage struct {
	Path              string     `json:"path"`
	HTML              string     `json:"html"`
	ContentHash       string     `json:"content_hash"`
	Status            int        `json:"status"`
	RenderedAt        time.Time  `json:"rendered_at"`
	ExpiresAt         time.Time  `json:"expires_at"`
	InvalidatedAt     *time.Time `json:"invalidated_at,omitempty"`
	InvalidationCount int        `json:"invalidation_count"`
}

// IsFresh returns true if the page has neither expired nor been invalidated
func (p *RenderedPage) IsFresh(now time.Time) bool {
	return p.InvalidatedAt == nil && now.Before(p.ExpiresAt)
}

// RevalidationRun records one revalidation of a set of paths
type RevalidationRun struct {
	ID          uuid.UUID `json:"id"`
	Source      string    `json:"source"` // webhook, admin, cli, watch
	ContentType string    `json:"content_type,omitempty"`
	Scope       string    `json:"scope"`
	Paths       []string  `json:"paths"`
	Failed      []string  `json:"failed"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
}

// HashContent returns the SHA-256 hex digest of content
func HashContent(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}
