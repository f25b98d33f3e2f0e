package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/factgate/factgate/internal/core"
	"github.com/factgate/factgate/internal/domain/model"
)

// ErrMissingCheckID is returned when an update event carries no check id.
var ErrMissingCheckID = errors.New("update event missing check id")

// DeltaNotifierOptions groups dependencies for DeltaNotifier.
type DeltaNotifierOptions struct {
	Checks   core.CheckRepository   // Required: check record store
	Notifier core.NotificationSender // Required: user notification delivery
	Events   core.EventPublisher    // Optional: domain event stream
	Logger   *slog.Logger           // Optional: structured logger
}

// DeltaNotifier reconciles incoming update events against stored check
// records and fires at-most-once notifications when watched fields
// transition. Dispatch is idempotent under redelivery: recomputing the same
// update against an already-updated record yields an empty delta and no
// duplicate notification.
type DeltaNotifier struct {
	checks   core.CheckRepository
	notifier core.NotificationSender
	events   core.EventPublisher
	logger   *slog.Logger
}

// NewDeltaNotifier constructs a DeltaNotifier.
func NewDeltaNotifier(opts DeltaNotifierOptions) (*DeltaNotifier, error) {
	if opts.Checks == nil {
		return nil, errors.New("CheckRepository is required")
	}
	if opts.Notifier == nil {
		return nil, errors.New("NotificationSender is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &DeltaNotifier{
		checks:   opts.Checks,
		notifier: opts.Notifier,
		events:   opts.Events,
		logger:   logger.With("component", "delta_notifier"),
	}, nil
}

// BatchSummary reports the outcome of processing one batch of update events.
type BatchSummary struct {
	Processed      int
	Failed         int
	DispatchErrors int
}

// ProcessBatch drives every event in the batch through ProcessUpdate.
// Events are independent: a failure on one is logged and counted, never
// aborting the rest of the batch.
func (s *DeltaNotifier) ProcessBatch(ctx context.Context, updates []model.CheckUpdate) BatchSummary {
	var summary BatchSummary
	for _, update := range updates {
		dispatchErrs, err := s.ProcessUpdate(ctx, update)
		summary.DispatchErrors += dispatchErrs
		if err != nil {
			summary.Failed++
			s.logger.ErrorContext(ctx, "failed to process update event",
				"check_id", update.CheckID, "error", err)
			continue
		}
		summary.Processed++
	}
	return summary
}

// ProcessUpdate applies one update event to its check record and dispatches
// notifications for the resulting transitions. The returned error reflects
// repository failures only; notification dispatch errors are logged,
// counted, and never surfaced, so one unreachable sink cannot poison the
// update path.
func (s *DeltaNotifier) ProcessUpdate(ctx context.Context, update model.CheckUpdate) (int, error) {
	if update.CheckID == "" {
		return 0, ErrMissingCheckID
	}

	result, err := s.checks.UpdateWithChanges(ctx, update)
	if err != nil {
		return 0, fmt.Errorf("update check %s: %w", update.CheckID, err)
	}

	if result.Delta.Empty() {
		s.logger.DebugContext(ctx, "update produced no transitions", "check_id", update.CheckID)
		return 0, nil
	}

	return s.dispatch(ctx, result.Check, result.Delta), nil
}

// dispatch fires the notifications and domain events a delta calls for and
// returns how many dispatch attempts failed.
func (s *DeltaNotifier) dispatch(ctx context.Context, check model.CheckRecord, delta model.StateDelta) int {
	failures := 0

	if delta.BecameHumanAssessed {
		failures += s.dispatchAssessed(ctx, check)
	}

	if delta.BecameDownvoted {
		failures += s.dispatchDownvoted(ctx, check)
	}

	// Category changes bundled with the assessed notification are suppressed
	// to avoid duplicate information in one update cycle. A downvote in the
	// same cycle does not suppress them.
	if delta.CategoryChanged && !delta.BecameHumanAssessed && check.IsHumanAssessed {
		failures += s.dispatchCategoryChange(ctx, check, delta)
	}

	return failures
}

func (s *DeltaNotifier) dispatchAssessed(ctx context.Context, check model.CheckRecord) int {
	failures := s.publishEvent(ctx, check.ID, model.CheckEventAssessed)

	if check.NotificationID == nil {
		s.logger.DebugContext(ctx, "no notification handle, skipping assessed notification",
			"check_id", check.ID)
		return failures
	}

	err := s.notifier.SendNewlyAssessed(ctx, core.NewlyAssessedNotification{
		CheckID:          check.ID,
		Category:         check.CrowdsourcedCategory,
		ReplyToMessageID: *check.NotificationID,
	})
	if err != nil {
		failures++
		s.logger.ErrorContext(ctx, "failed to send newly assessed notification",
			"check_id", check.ID, "error", err)
	}
	return failures
}

func (s *DeltaNotifier) dispatchDownvoted(ctx context.Context, check model.CheckRecord) int {
	failures := s.publishEvent(ctx, check.ID, model.CheckEventDownvoted)

	if check.CommunityNoteNotificationID == nil {
		s.logger.DebugContext(ctx, "no community note handle, skipping downvote notification",
			"check_id", check.ID)
		return failures
	}

	err := s.notifier.SendCommunityNoteDownvote(ctx, core.DownvoteNotification{
		CheckID:          check.ID,
		ReplyToMessageID: *check.CommunityNoteNotificationID,
	})
	if err != nil {
		failures++
		s.logger.ErrorContext(ctx, "failed to send downvote notification",
			"check_id", check.ID, "error", err)
	}
	return failures
}

func (s *DeltaNotifier) dispatchCategoryChange(
	ctx context.Context,
	check model.CheckRecord,
	delta model.StateDelta,
) int {
	if check.NotificationID == nil {
		s.logger.DebugContext(ctx, "no notification handle, skipping category change notification",
			"check_id", check.ID)
		return 0
	}

	err := s.notifier.SendCategoryChange(ctx, core.CategoryChangeNotification{
		CheckID:          check.ID,
		PreviousCategory: delta.PreviousCategory,
		CurrentCategory:  delta.CurrentCategory,
		ReplyToMessageID: *check.NotificationID,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to send category change notification",
			"check_id", check.ID, "error", err)
		return 1
	}
	return 0
}

func (s *DeltaNotifier) publishEvent(ctx context.Context, checkID string, eventType model.CheckEventType) int {
	if s.events == nil {
		return 0
	}
	if err := s.events.PublishCheckEvent(ctx, model.CheckEvent{CheckID: checkID, Type: eventType}); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish check event",
			"check_id", checkID, "event_type", eventType, "error", err)
		return 1
	}
	return 0
}
