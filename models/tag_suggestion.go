package models

import "time"

type SuggestionStatus string

const (
	SuggestionPending  SuggestionStatus = "pending"
	SuggestionApproved SuggestionStatus = "approved"
	SuggestionRejected SuggestionStatus = "rejected"
)

// TagSuggestion proposes a community tag for an entry. The (entry, tag) pair
// is unique so suggesting the same tag twice returns the existing row.
// Counters are recomputed from tag_votes after every ballot; once status
// leaves pending it never changes again.
type TagSuggestion struct {
	ID           string           `json:"id" gorm:"primarykey"`
	EntryID      string           `json:"entry_id" gorm:"not null;uniqueIndex:uk_entry_tag,priority:1"`
	SuggestedTag string           `json:"suggested_tag" gorm:"not null;uniqueIndex:uk_entry_tag,priority:2"`
	SuggestedBy  string           `json:"suggested_by" gorm:"not null"`
	Status       SuggestionStatus `json:"status" gorm:"default:'pending'"`
	Upvotes      int              `json:"upvotes" gorm:"default:0"`
	Downvotes    int              `json:"downvotes" gorm:"default:0"`
	NetVotes     int              `json:"net_votes" gorm:"default:0"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// TagVote is a single user's ballot on a tag suggestion.
type TagVote struct {
	ID           uint      `json:"id" gorm:"primarykey"`
	SuggestionID string    `json:"suggestion_id" gorm:"not null;uniqueIndex:uk_suggestion_voter,priority:1"`
	UserID       string    `json:"user_id" gorm:"not null;uniqueIndex:uk_suggestion_voter,priority:2"`
	Value        int       `json:"value" gorm:"not null"` // +1 or -1
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
