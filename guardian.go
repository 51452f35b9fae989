// Package guardian defines the core types and interfaces of the Guardian
// content-moderation service. The decision pipeline (classification, policy
// evaluation, orchestration) lives in the classifier, policy and restapi
// subpackages, while concrete collaborator backends live in subpackages such
// as cassandra (event store), redis (cache, alert pub/sub) and aws_s3 (event
// archive). This package holds what those subpackages share.
package guardian

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Category labels assigned by the content classifier.
const (
	CategorySafe     = "safe"
	CategorySexual   = "sexual"
	CategoryViolence = "violence"
	CategoryAbuse    = "abuse"
)

// Decision values produced by the policy evaluator.
const (
	DecisionAllow = "allow"
	DecisionWarn  = "warn"
	DecisionBlock = "block"
)

// Severity values, one-to-one with decisions. High severity gates notification.
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// ClassificationResult is what the classifier reports for a piece of content.
// Score is always within [0,1]; Category reflects the last trigger term match
// in table order, or "safe" when nothing matched.
type ClassificationResult struct {
	Score    float64 `json:"score"`
	Category string  `json:"category"`
}

// PolicyDecision is the policy evaluator's verdict for one classification.
type PolicyDecision struct {
	Decision string `json:"decision"`
	Severity string `json:"severity"`
}

// ModerationEvent is the persisted record of one moderation decision.
// Events are append-only, never mutated or deleted by this system.
type ModerationEvent struct {
	ID       uuid.UUID `json:"id"`
	ChildID  string    `json:"childId"`
	ParentID string    `json:"parentId"`
	URL      string    `json:"url"`
	Decision string    `json:"decision"`
	Severity string    `json:"severity"`
	Score    float64   `json:"score"`
	Category string    `json:"category"`
	// CreatedAt gets assigned by the event store on append.
	CreatedAt time.Time `json:"createdAt"`
}

// Principal is the verified caller identity attached to a request by the
// identity verifier. Read-only for the remainder of request handling.
type Principal struct {
	UID string `json:"uid"`
}

// EventStore appends moderation events to durable storage. Append assigns
// the server-side CreatedAt timestamp (and the ID if still zero).
type EventStore interface {
	Append(ctx context.Context, event *ModerationEvent) error
	// ListByChild returns the most recent events for a monitored child,
	// newest first, up to limit entries.
	ListByChild(ctx context.Context, childID string, limit int) ([]ModerationEvent, error)
}

// Notifier delivers high-severity alerts to the monitoring parent.
// Delivery is fire and forget, no acknowledgment is required by the core.
type Notifier interface {
	Notify(ctx context.Context, parentID string, message string) error
}

// Cache is the subset of cache operations Guardian needs. The redis package
// provides the real implementation, a map-backed mock is available for tests.
type Cache interface {
	SetStruct(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	GetStruct(ctx context.Context, key string, target interface{}) error
	Delete(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
	// KeyNotFound reports whether err signifies a cache miss.
	KeyNotFound(err error) bool
}
