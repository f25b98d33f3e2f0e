package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/factgate/factgate/internal/core"
	"github.com/factgate/factgate/internal/data/pgxutil"
	"github.com/factgate/factgate/internal/domain/model"
)

// CheckRepo provides database operations for check records.
type CheckRepo struct {
	DB     *sql.DB
	logger *slog.Logger
}

// NewCheckRepo creates a CheckRepo backed by the given database connection.
func NewCheckRepo(db *sql.DB, logger *slog.Logger) *CheckRepo {
	if logger == nil {
		logger = slog.Default()
	}
	return &CheckRepo{DB: db, logger: logger}
}

const checkColumns = `
  id,
  is_human_assessed,
  crowdsourced_category,
  community_note_downvoted,
  notification_id,
  community_note_notification_id,
  created_at,
  updated_at
`

// FindByID returns the check record with the given id.
func (r *CheckRepo) FindByID(ctx context.Context, id string) (*model.CheckRecord, error) {
	if id == "" {
		return nil, ErrCheckIDRequired
	}

	row := r.DB.QueryRowContext(ctx,
		`SELECT`+checkColumns+`FROM checks WHERE id = $1`, id)
	check, err := scanCheck(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCheckNotFound
		}
		return nil, fmt.Errorf("find check %s: %w", id, err)
	}
	return check, nil
}

// UpdateWithChanges applies a partial update inside one transaction: the row
// is locked, the delta computed against the stored state, and the watched
// fields written back. Concurrent updates to the same check serialize on the
// row lock, so at-least-once redelivery recomputes an empty delta instead of
// double-firing notifications. The notification handle columns are never
// written by this path.
func (r *CheckRepo) UpdateWithChanges(
	ctx context.Context,
	update model.CheckUpdate,
) (*core.UpdateCheckResult, error) {
	if update.CheckID == "" {
		return nil, ErrCheckIDRequired
	}

	var result *core.UpdateCheckResult
	err := pgxutil.WithSQLTx(ctx, r.DB, pgxutil.SQLTxConfig{Fn: func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx,
			`SELECT`+checkColumns+`FROM checks WHERE id = $1 FOR UPDATE`, update.CheckID)
		check, err := scanCheck(row)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrCheckNotFound
			}
			return fmt.Errorf("lock check %s: %w", update.CheckID, err)
		}

		delta := check.Apply(update)
		if delta.Empty() {
			result = &core.UpdateCheckResult{Check: *check, Delta: delta}
			return nil
		}

		_, err = tx.ExecContext(ctx, `
      UPDATE checks
      SET is_human_assessed = $2,
          crowdsourced_category = $3,
          community_note_downvoted = $4,
          updated_at = now()
      WHERE id = $1`,
			check.ID,
			check.IsHumanAssessed,
			string(check.CrowdsourcedCategory),
			check.CommunityNoteDownvoted,
		)
		if err != nil {
			return fmt.Errorf("update check %s: %w", update.CheckID, err)
		}

		result = &core.UpdateCheckResult{Check: *check, Delta: delta}
		return nil
	}})
	if err != nil {
		if IsRetryableTxError(err) {
			r.logger.WarnContext(ctx, "check update hit transient conflict",
				"check_id", update.CheckID, "error", err)
		}
		return nil, err
	}

	return result, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanCheck.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCheck(row rowScanner) (*model.CheckRecord, error) {
	var (
		check    model.CheckRecord
		category string
	)
	err := row.Scan(
		&check.ID,
		&check.IsHumanAssessed,
		&category,
		&check.CommunityNoteDownvoted,
		&check.NotificationID,
		&check.CommunityNoteNotificationID,
		&check.CreatedAt,
		&check.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	check.CrowdsourcedCategory = model.CrowdCategory(category)
	return &check, nil
}

var _ core.CheckRepository = (*CheckRepo)(nil)
