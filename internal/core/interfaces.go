// Package core defines the ports between the orchestration services and
// their collaborators (repositories, notification delivery, event stream).
// Services depend on these interfaces, not concrete implementations.
package core

import (
	"context"
	"time"

	"github.com/factgate/factgate/internal/domain/model"
)

// UpdateCheckResult pairs the stored record after an update with the delta
// the update produced.
type UpdateCheckResult struct {
	Check model.CheckRecord
	Delta model.StateDelta
}

// CheckRepository defines the interface for check record operations. The
// store is the single source of truth; UpdateWithChanges must perform the
// read-compute-write sequence atomically so concurrent updates serialize at
// the storage layer.
type CheckRepository interface {
	FindByID(ctx context.Context, id string) (*model.CheckRecord, error)
	UpdateWithChanges(ctx context.Context, update model.CheckUpdate) (*UpdateCheckResult, error)
}

// NewlyAssessedNotification notifies that a check became human assessed.
type NewlyAssessedNotification struct {
	CheckID          string
	Category         model.CrowdCategory
	ReplyToMessageID int64
}

// DownvoteNotification notifies that a check's community note was downvoted.
type DownvoteNotification struct {
	CheckID          string
	ReplyToMessageID int64
}

// CategoryChangeNotification notifies that a check's crowdsourced category moved.
type CategoryChangeNotification struct {
	CheckID          string
	PreviousCategory model.CrowdCategory
	CurrentCategory  model.CrowdCategory
	ReplyToMessageID int64
}

// NotificationSender delivers user-facing notifications threaded to the
// original message via the reply-to handle.
type NotificationSender interface {
	SendNewlyAssessed(ctx context.Context, n NewlyAssessedNotification) error
	SendCommunityNoteDownvote(ctx context.Context, n DownvoteNotification) error
	SendCategoryChange(ctx context.Context, n CategoryChangeNotification) error
}

// EventPublisher publishes domain events to the downstream event stream.
type EventPublisher interface {
	PublishCheckEvent(ctx context.Context, event model.CheckEvent) error
}

// ArtifactStore archives verification artifacts (e.g. scan screenshots)
// produced by background tasks.
type ArtifactStore interface {
	Put(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
}
