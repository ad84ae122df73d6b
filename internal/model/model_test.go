package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCategory_IsSPD(t *testing.T) {
	parent := int64(1)
	assert.True(t, Category{Slug: "spd"}.IsSPD())
	assert.True(t, Category{Slug: "dalam-daerah", ParentID: &parent, ParentSlug: "spd"}.IsSPD())
	assert.False(t, Category{Slug: "atk", ParentID: &parent, ParentSlug: "belanjaan"}.IsSPD())
}

func TestActionType_Label(t *testing.T) {
	assert.Equal(t, "Diunduh", ActionDownload.Label())
	assert.Equal(t, "archive", ActionType("archive").Label())
	assert.False(t, ActionType("archive").Valid())
}

func TestSPDDocument_DurationDays(t *testing.T) {
	s := SPDDocument{
		StartDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, 3, s.DurationDays())
}

func TestUser_CanWrite(t *testing.T) {
	var nilUser *User
	assert.False(t, nilUser.CanWrite())
	assert.False(t, (&User{}).CanWrite())
	assert.True(t, (&User{IsStaff: true}).CanWrite())
	assert.True(t, (&User{IsSuperuser: true}).CanWrite())
	assert.Equal(t, "budi", (&User{Username: "budi"}).DisplayName())
}
