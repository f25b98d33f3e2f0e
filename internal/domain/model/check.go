// Package model defines the core data types and structures used throughout the factgate orchestration system.
package model

import (
	"fmt"
	"strings"
	"time"
)

// CrowdCategory represents the crowdsourced classification of a check.
//
//nolint:recvcheck // UnmarshalText needs pointer receiver, Valid needs value receiver
type CrowdCategory string

const (
	// CrowdCategoryUnsure indicates the crowd has not converged on a verdict.
	CrowdCategoryUnsure CrowdCategory = "unsure"
	// CrowdCategoryAccurate indicates the crowd considers the content accurate.
	CrowdCategoryAccurate CrowdCategory = "accurate"
	// CrowdCategoryMisleading indicates the crowd considers the content misleading.
	CrowdCategoryMisleading CrowdCategory = "misleading"
	// CrowdCategoryScam indicates the crowd considers the content a scam.
	CrowdCategoryScam CrowdCategory = "scam"
	// CrowdCategorySatire indicates the crowd considers the content satire.
	CrowdCategorySatire CrowdCategory = "satire"
)

// Valid returns true if the CrowdCategory is one of the known values.
func (c CrowdCategory) Valid() bool {
	switch c {
	case CrowdCategoryUnsure, CrowdCategoryAccurate, CrowdCategoryMisleading,
		CrowdCategoryScam, CrowdCategorySatire:
		return true
	default:
		return false
	}
}

// UnmarshalText implements encoding.TextUnmarshaler for CrowdCategory.
func (c *CrowdCategory) UnmarshalText(text []byte) error {
	v := CrowdCategory(strings.ToLower(strings.TrimSpace(string(text))))
	if !v.Valid() {
		return fmt.Errorf("invalid CrowdCategory: %q", string(text))
	}
	*c = v
	return nil
}

// CheckRecord is the persisted entity monitored by the delta notifier.
//
// The NotificationID and CommunityNoteNotificationID fields are stable
// reference handles used to thread follow-up notifications to an original
// message. Once set they are never overwritten by this core.
type CheckRecord struct {
	ID                          string        `json:"id"                             db:"id"`
	IsHumanAssessed             bool          `json:"is_human_assessed"              db:"is_human_assessed"`
	CrowdsourcedCategory        CrowdCategory `json:"crowdsourced_category"          db:"crowdsourced_category"`
	CommunityNoteDownvoted      bool          `json:"community_note_downvoted"       db:"community_note_downvoted"`
	NotificationID              *int64        `json:"notification_id,omitempty"      db:"notification_id"`
	CommunityNoteNotificationID *int64        `json:"community_note_notification_id,omitempty" db:"community_note_notification_id"`
	CreatedAt                   time.Time     `json:"created_at"                     db:"created_at"`
	UpdatedAt                   time.Time     `json:"updated_at"                     db:"updated_at"`
}

// CheckUpdate is a partial, possibly-redelivered description of a desired
// state change for a check. Absent fields leave the stored value untouched.
type CheckUpdate struct {
	CheckID                  string         `json:"id"`
	IsHumanAssessed          *bool          `json:"isHumanAssessed,omitempty"`
	IsCommunityNoteDownvoted *bool          `json:"isCommunityNoteDownvoted,omitempty"`
	CrowdsourcedCategory     *CrowdCategory `json:"crowdsourcedCategory,omitempty"`
}

// StateDelta captures which watched fields transitioned when a CheckUpdate
// was applied to a CheckRecord. It is computed, never stored.
type StateDelta struct {
	BecameHumanAssessed bool          `json:"became_human_assessed"`
	BecameDownvoted     bool          `json:"became_downvoted"`
	CategoryChanged     bool          `json:"category_changed"`
	PreviousCategory    CrowdCategory `json:"previous_category,omitempty"`
	CurrentCategory     CrowdCategory `json:"current_category,omitempty"`
}

// Empty reports whether the delta contains no transitions.
func (d StateDelta) Empty() bool {
	return !d.BecameHumanAssessed && !d.BecameDownvoted && !d.CategoryChanged
}

// Apply mutates the record with the partial update and returns the resulting
// delta. IsHumanAssessed and CommunityNoteDownvoted are one-way transitions
// in this flow: an update cannot clear them once set, so reapplying the same
// update to a record already reflecting its effect yields an empty delta.
func (r *CheckRecord) Apply(u CheckUpdate) StateDelta {
	var delta StateDelta

	if u.IsHumanAssessed != nil && *u.IsHumanAssessed && !r.IsHumanAssessed {
		r.IsHumanAssessed = true
		delta.BecameHumanAssessed = true
	}

	if u.IsCommunityNoteDownvoted != nil && *u.IsCommunityNoteDownvoted && !r.CommunityNoteDownvoted {
		r.CommunityNoteDownvoted = true
		delta.BecameDownvoted = true
	}

	if u.CrowdsourcedCategory != nil && *u.CrowdsourcedCategory != r.CrowdsourcedCategory {
		delta.CategoryChanged = true
		delta.PreviousCategory = r.CrowdsourcedCategory
		delta.CurrentCategory = *u.CrowdsourcedCategory
		r.CrowdsourcedCategory = *u.CrowdsourcedCategory
	}

	return delta
}

// CheckEventType classifies domain events emitted for a check.
type CheckEventType string

const (
	// CheckEventAssessed is emitted when a check becomes human assessed.
	CheckEventAssessed CheckEventType = "assessed"
	// CheckEventDownvoted is emitted when a check's community note is downvoted.
	CheckEventDownvoted CheckEventType = "downvoted"
)

// CheckEvent is a domain event published to the downstream event stream.
type CheckEvent struct {
	CheckID string         `json:"checkId"`
	Type    CheckEventType `json:"type"`
}
