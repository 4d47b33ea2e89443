package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

type SecurityStatus string

const (
	SecurityApproved   SecurityStatus = "approved"
	SecurityRestricted SecurityStatus = "restricted"
	SecurityProhibited SecurityStatus = "prohibited"
	SecurityReview     SecurityStatus = "review"
)

// TagList is stored as a JSON array in a single column.
type TagList []string

func (t TagList) Value() (driver.Value, error) {
	if t == nil {
		t = TagList{}
	}
	return json.Marshal(t)
}

func (t *TagList) Scan(value interface{}) error {
	if value == nil {
		*t = TagList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, t)
	case string:
		return json.Unmarshal([]byte(v), t)
	default:
		return errors.New("unsupported type for TagList")
	}
}

func (t TagList) Contains(tag string) bool {
	for _, s := range t {
		if s == tag {
			return true
		}
	}
	return false
}

type Entry struct {
	ID              string         `json:"id" gorm:"primarykey"`
	Title           string         `json:"title" gorm:"not null"`
	URL             *string        `json:"url" gorm:"uniqueIndex"`
	Description     string         `json:"description"`
	AISummary       string         `json:"ai_summary" gorm:"column:ai_summary"`
	TargetAudience  string         `json:"target_audience"`
	Tags            TagList        `json:"tags" gorm:"type:text"`
	AuthorID        string         `json:"author_id" gorm:"not null;index"`
	SecurityStatus  SecurityStatus `json:"security_status"`
	SecurityDisplay string         `json:"security_display"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// EntryWithScore carries the live vote aggregate alongside the entry row.
// Score is never persisted; it is computed from votes at query time.
type EntryWithScore struct {
	Entry
	Score     int `json:"score"`
	Upvotes   int `json:"upvotes"`
	Downvotes int `json:"downvotes"`
}

// EntryUpdate holds the optional field updates from the admin edit command.
type EntryUpdate struct {
	Title          *string
	Description    *string
	AISummary      *string
	TargetAudience *string
	Tags           []string
}

func (u EntryUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.AISummary == nil &&
		u.TargetAudience == nil && u.Tags == nil
}
