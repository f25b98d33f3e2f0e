package testutil

import (
	"time"

	"github.com/factgate/factgate/internal/domain/model"
)

// CheckRecordBuilder provides a fluent interface for building CheckRecord objects for testing.
type CheckRecordBuilder struct {
	record *model.CheckRecord
}

// NewCheckRecord creates a new CheckRecordBuilder with sensible defaults.
func NewCheckRecord() *CheckRecordBuilder {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return &CheckRecordBuilder{
		record: &model.CheckRecord{
			ID:                   "check-1",
			CrowdsourcedCategory: model.CrowdCategoryUnsure,
			CreatedAt:            now,
			UpdatedAt:            now,
		},
	}
}

// WithID sets the record ID.
func (b *CheckRecordBuilder) WithID(id string) *CheckRecordBuilder {
	b.record.ID = id
	return b
}

// HumanAssessed marks the record as already human assessed.
func (b *CheckRecordBuilder) HumanAssessed() *CheckRecordBuilder {
	b.record.IsHumanAssessed = true
	return b
}

// WithCategory sets the crowdsourced category.
func (b *CheckRecordBuilder) WithCategory(c model.CrowdCategory) *CheckRecordBuilder {
	b.record.CrowdsourcedCategory = c
	return b
}

// Downvoted marks the record's community note as downvoted.
func (b *CheckRecordBuilder) Downvoted() *CheckRecordBuilder {
	b.record.CommunityNoteDownvoted = true
	return b
}

// WithNotificationID sets the reply-to handle for check notifications.
func (b *CheckRecordBuilder) WithNotificationID(id int64) *CheckRecordBuilder {
	b.record.NotificationID = &id
	return b
}

// WithCommunityNoteNotificationID sets the reply-to handle for community note notifications.
func (b *CheckRecordBuilder) WithCommunityNoteNotificationID(id int64) *CheckRecordBuilder {
	b.record.CommunityNoteNotificationID = &id
	return b
}

// Build returns the built CheckRecord.
func (b *CheckRecordBuilder) Build() model.CheckRecord {
	return *b.record
}

// CheckUpdateBuilder provides a fluent interface for building CheckUpdate objects for testing.
type CheckUpdateBuilder struct {
	update *model.CheckUpdate
}

// NewCheckUpdate creates a new CheckUpdateBuilder for the given check.
func NewCheckUpdate(checkID string) *CheckUpdateBuilder {
	return &CheckUpdateBuilder{
		update: &model.CheckUpdate{CheckID: checkID},
	}
}

// Assessed sets the human-assessed flag on the update.
func (b *CheckUpdateBuilder) Assessed(v bool) *CheckUpdateBuilder {
	b.update.IsHumanAssessed = &v
	return b
}

// Downvoted sets the community-note-downvoted flag on the update.
func (b *CheckUpdateBuilder) Downvoted(v bool) *CheckUpdateBuilder {
	b.update.IsCommunityNoteDownvoted = &v
	return b
}

// WithCategory sets the crowdsourced category on the update.
func (b *CheckUpdateBuilder) WithCategory(c model.CrowdCategory) *CheckUpdateBuilder {
	b.update.CrowdsourcedCategory = &c
	return b
}

// Build returns the built CheckUpdate.
func (b *CheckUpdateBuilder) Build() model.CheckUpdate {
	return *b.update
}
