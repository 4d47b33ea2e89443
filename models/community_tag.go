package models

import "time"

// ApprovedCommunityTag is a promoted tag, created by the auto-promotion
// threshold ('auto') or by an admin. Available for filtering alongside the
// core vocabulary.
type ApprovedCommunityTag struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	Tag         string    `json:"tag" gorm:"uniqueIndex;not null"`
	Description string    `json:"description"`
	ApprovedBy  string    `json:"approved_by" gorm:"not null"`
	UsageCount  int       `json:"usage_count" gorm:"default:0"`
	CreatedAt   time.Time `json:"created_at"`
}
