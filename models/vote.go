package models

import "time"

// Vote is a single user's ballot on an entry. One row per (entry, user);
// a re-vote replaces the value in place.
type Vote struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	EntryID   string    `json:"entry_id" gorm:"not null;uniqueIndex:uk_entry_voter,priority:1"`
	UserID    string    `json:"user_id" gorm:"not null;uniqueIndex:uk_entry_voter,priority:2"`
	Value     int       `json:"value" gorm:"not null"` // +1 or -1
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
