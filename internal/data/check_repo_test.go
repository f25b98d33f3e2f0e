package data

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/factgate/factgate/internal/domain/model"
	"github.com/factgate/factgate/internal/testutil"
)

func insertCheck(t *testing.T, db *sql.DB, check model.CheckRecord) {
	t.Helper()
	_, err := db.ExecContext(context.Background(), `
		INSERT INTO checks (
			id, is_human_assessed, crowdsourced_category, community_note_downvoted,
			notification_id, community_note_notification_id
		) VALUES ($1, $2, $3, $4, $5, $6)`,
		check.ID,
		check.IsHumanAssessed,
		string(check.CrowdsourcedCategory),
		check.CommunityNoteDownvoted,
		check.NotificationID,
		check.CommunityNoteNotificationID,
	)
	require.NoError(t, err)
}

func TestCheckRepo_FindByID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewCheckRepo(db, nil)
		ctx := context.Background()

		stored := testutil.NewCheckRecord().
			WithID("check-find").
			WithCategory(model.CrowdCategoryAccurate).
			WithNotificationID(9001).
			Build()
		insertCheck(t, db, stored)

		t.Run("found", func(t *testing.T) {
			check, err := repo.FindByID(ctx, "check-find")
			require.NoError(t, err)
			assert.Equal(t, "check-find", check.ID)
			assert.Equal(t, model.CrowdCategoryAccurate, check.CrowdsourcedCategory)
			require.NotNil(t, check.NotificationID)
			assert.Equal(t, int64(9001), *check.NotificationID)
		})

		t.Run("not found", func(t *testing.T) {
			_, err := repo.FindByID(ctx, "missing")
			assert.ErrorIs(t, err, ErrCheckNotFound)
		})

		t.Run("empty id", func(t *testing.T) {
			_, err := repo.FindByID(ctx, "")
			assert.ErrorIs(t, err, ErrCheckIDRequired)
		})
	})
}

func TestCheckRepo_UpdateWithChanges(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewCheckRepo(db, nil)
		ctx := context.Background()

		insertCheck(t, db, testutil.NewCheckRecord().
			WithID("check-upd").
			WithCategory(model.CrowdCategoryUnsure).
			WithNotificationID(42).
			Build())

		update := testutil.NewCheckUpdate("check-upd").
			Assessed(true).
			WithCategory(model.CrowdCategoryScam).
			Build()

		result, err := repo.UpdateWithChanges(ctx, update)
		require.NoError(t, err)
		assert.True(t, result.Delta.BecameHumanAssessed)
		assert.True(t, result.Delta.CategoryChanged)
		assert.Equal(t, model.CrowdCategoryUnsure, result.Delta.PreviousCategory)
		assert.Equal(t, model.CrowdCategoryScam, result.Delta.CurrentCategory)

		// The stored row reflects the transition.
		stored, err := repo.FindByID(ctx, "check-upd")
		require.NoError(t, err)
		assert.True(t, stored.IsHumanAssessed)
		assert.Equal(t, model.CrowdCategoryScam, stored.CrowdsourcedCategory)
		// Notification handles are never written by this path.
		require.NotNil(t, stored.NotificationID)
		assert.Equal(t, int64(42), *stored.NotificationID)

		// Redelivery of the same update computes an empty delta.
		again, err := repo.UpdateWithChanges(ctx, update)
		require.NoError(t, err)
		assert.True(t, again.Delta.Empty())
	})
}

func TestCheckRepo_UpdateWithChanges_Validation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewCheckRepo(db, nil)
		ctx := context.Background()

		_, err := repo.UpdateWithChanges(ctx, model.CheckUpdate{})
		assert.ErrorIs(t, err, ErrCheckIDRequired)

		_, err = repo.UpdateWithChanges(ctx, testutil.NewCheckUpdate("missing").Assessed(true).Build())
		assert.ErrorIs(t, err, ErrCheckNotFound)
	})
}

func TestCheckRepo_ConcurrentUpdatesFireOnce(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewCheckRepo(db, nil)
		ctx := context.Background()

		insertCheck(t, db, testutil.NewCheckRecord().WithID("check-race").Build())
		update := testutil.NewCheckUpdate("check-race").Assessed(true).Build()

		const workers = 8
		results := make(chan model.StateDelta, workers)
		for range workers {
			go func() {
				result, err := repo.UpdateWithChanges(ctx, update)
				if err != nil {
					results <- model.StateDelta{}
					t.Error("concurrent update failed:", err)
					return
				}
				results <- result.Delta
			}()
		}

		transitions := 0
		for range workers {
			if delta := <-results; delta.BecameHumanAssessed {
				transitions++
			}
		}

		// The row lock serializes the read-compute-write sequence, so the
		// transition is observed exactly once across all deliveries.
		assert.Equal(t, 1, transitions)
	})
}
