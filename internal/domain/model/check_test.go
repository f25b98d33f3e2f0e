package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool                       { return &b }
func categoryPtr(c CrowdCategory) *CrowdCategory { return &c }

func TestCrowdCategory_Valid(t *testing.T) {
	valid := []CrowdCategory{
		CrowdCategoryUnsure,
		CrowdCategoryAccurate,
		CrowdCategoryMisleading,
		CrowdCategoryScam,
		CrowdCategorySatire,
	}
	for _, c := range valid {
		assert.True(t, c.Valid(), "expected %q to be valid", c)
	}

	assert.False(t, CrowdCategory("").Valid())
	assert.False(t, CrowdCategory("bogus").Valid())
}

func TestCrowdCategory_UnmarshalText(t *testing.T) {
	var c CrowdCategory
	require.NoError(t, c.UnmarshalText([]byte("  Misleading ")))
	assert.Equal(t, CrowdCategoryMisleading, c)

	err := c.UnmarshalText([]byte("nonsense"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid CrowdCategory")
}

func TestCheckRecord_Apply_BecameHumanAssessed(t *testing.T) {
	record := CheckRecord{ID: "check-1", CrowdsourcedCategory: CrowdCategoryUnsure}

	delta := record.Apply(CheckUpdate{
		CheckID:         "check-1",
		IsHumanAssessed: boolPtr(true),
	})

	assert.True(t, delta.BecameHumanAssessed)
	assert.False(t, delta.BecameDownvoted)
	assert.False(t, delta.CategoryChanged)
	assert.True(t, record.IsHumanAssessed)
}

func TestCheckRecord_Apply_RedeliveryYieldsEmptyDelta(t *testing.T) {
	record := CheckRecord{ID: "check-1", CrowdsourcedCategory: CrowdCategoryUnsure}
	update := CheckUpdate{
		CheckID:                  "check-1",
		IsHumanAssessed:          boolPtr(true),
		IsCommunityNoteDownvoted: boolPtr(true),
		CrowdsourcedCategory:     categoryPtr(CrowdCategoryScam),
	}

	first := record.Apply(update)
	require.False(t, first.Empty())

	// Applying the same update to the already-updated record is the
	// redelivery path: nothing transitions a second time.
	second := record.Apply(update)
	assert.True(t, second.Empty())
}

func TestCheckRecord_Apply_FalseFlagsAreNoOps(t *testing.T) {
	record := CheckRecord{
		ID:                     "check-1",
		IsHumanAssessed:        true,
		CommunityNoteDownvoted: true,
		CrowdsourcedCategory:   CrowdCategoryScam,
	}

	// The watched flags are one-way: a false value cannot clear them.
	delta := record.Apply(CheckUpdate{
		CheckID:                  "check-1",
		IsHumanAssessed:          boolPtr(false),
		IsCommunityNoteDownvoted: boolPtr(false),
	})

	assert.True(t, delta.Empty())
	assert.True(t, record.IsHumanAssessed)
	assert.True(t, record.CommunityNoteDownvoted)
}

func TestCheckRecord_Apply_AbsentFieldsLeaveRecordUntouched(t *testing.T) {
	record := CheckRecord{
		ID:                   "check-1",
		IsHumanAssessed:      true,
		CrowdsourcedCategory: CrowdCategoryAccurate,
	}

	delta := record.Apply(CheckUpdate{CheckID: "check-1"})

	assert.True(t, delta.Empty())
	assert.Equal(t, CrowdCategoryAccurate, record.CrowdsourcedCategory)
}

func TestCheckRecord_Apply_CategoryChangeRecordsBothSides(t *testing.T) {
	record := CheckRecord{
		ID:                   "check-1",
		IsHumanAssessed:      true,
		CrowdsourcedCategory: CrowdCategoryAccurate,
	}

	delta := record.Apply(CheckUpdate{
		CheckID:              "check-1",
		CrowdsourcedCategory: categoryPtr(CrowdCategoryMisleading),
	})

	assert.True(t, delta.CategoryChanged)
	assert.Equal(t, CrowdCategoryAccurate, delta.PreviousCategory)
	assert.Equal(t, CrowdCategoryMisleading, delta.CurrentCategory)
	assert.Equal(t, CrowdCategoryMisleading, record.CrowdsourcedCategory)
}

func TestCheckRecord_Apply_SameCategoryIsNoChange(t *testing.T) {
	record := CheckRecord{ID: "check-1", CrowdsourcedCategory: CrowdCategoryScam}

	delta := record.Apply(CheckUpdate{
		CheckID:              "check-1",
		CrowdsourcedCategory: categoryPtr(CrowdCategoryScam),
	})

	assert.True(t, delta.Empty())
}

func TestCheckUpdate_DecodesQueuePayload(t *testing.T) {
	payload := `{"id":"check-42","isHumanAssessed":true,"crowdsourcedCategory":"scam"}`

	var update CheckUpdate
	require.NoError(t, json.Unmarshal([]byte(payload), &update))

	assert.Equal(t, "check-42", update.CheckID)
	require.NotNil(t, update.IsHumanAssessed)
	assert.True(t, *update.IsHumanAssessed)
	require.NotNil(t, update.CrowdsourcedCategory)
	assert.Equal(t, CrowdCategoryScam, *update.CrowdsourcedCategory)
	assert.Nil(t, update.IsCommunityNoteDownvoted)
}
