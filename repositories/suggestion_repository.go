package repositories

import (
	"time"

	"github.com/dslans/bot-aitools/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SuggestionRepository interface {
	CreateOrGet(suggestion *models.TagSuggestion) (*models.TagSuggestion, bool, error)
	GetByID(id string) (*models.TagSuggestion, error)
	GetByEntryAndTag(entryID, tag string) (*models.TagSuggestion, error)
	RecordVote(suggestionID, userID string, value int) (*models.TagSuggestion, error)
	MarkApproved(id string) (bool, error)
	MarkRejected(id string) (bool, error)
	Pending(limit int) ([]PendingSuggestion, error)
}

// PendingSuggestion carries the entry title for admin review listings.
type PendingSuggestion struct {
	models.TagSuggestion
	EntryTitle string
}

type suggestionRepository struct {
	db *gorm.DB
}

func NewSuggestionRepository(db *gorm.DB) SuggestionRepository {
	return &suggestionRepository{db: db}
}

// CreateOrGet inserts the suggestion unless one already exists for the same
// (entry, tag) pair, in which case the existing row is returned. The unique
// index closes the lookup-then-insert race window.
func (r *suggestionRepository) CreateOrGet(suggestion *models.TagSuggestion) (*models.TagSuggestion, bool, error) {
	res := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_id"}, {Name: "suggested_tag"}},
		DoNothing: true,
	}).Create(suggestion)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected > 0 {
		return suggestion, true, nil
	}
	existing, err := r.GetByEntryAndTag(suggestion.EntryID, suggestion.SuggestedTag)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *suggestionRepository) GetByID(id string) (*models.TagSuggestion, error) {
	var s models.TagSuggestion
	err := r.db.First(&s, "id = ?", id).Error
	return &s, err
}

func (r *suggestionRepository) GetByEntryAndTag(entryID, tag string) (*models.TagSuggestion, error) {
	var s models.TagSuggestion
	err := r.db.First(&s, "entry_id = ? AND suggested_tag = ?", entryID, tag).Error
	return &s, err
}

// RecordVote upserts the voter's ballot and recomputes the counters from the
// ballot rows, all inside one transaction holding a row lock on the
// suggestion. The lock serializes concurrent recounts per suggestion so no
// vote is lost to a stale read-modify-write.
func (r *suggestionRepository) RecordVote(suggestionID, userID string, value int) (*models.TagSuggestion, error) {
	var s models.TagSuggestion
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&s, "id = ?", suggestionID).Error; err != nil {
			return err
		}

		vote := &models.TagVote{SuggestionID: suggestionID, UserID: userID, Value: value}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "suggestion_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(vote).Error; err != nil {
			return err
		}

		var up, down int64
		if err := tx.Model(&models.TagVote{}).
			Where("suggestion_id = ? AND value = 1", suggestionID).
			Count(&up).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.TagVote{}).
			Where("suggestion_id = ? AND value = -1", suggestionID).
			Count(&down).Error; err != nil {
			return err
		}

		s.Upvotes = int(up)
		s.Downvotes = int(down)
		s.NetVotes = int(up) - int(down)
		s.UpdatedAt = time.Now().UTC()
		return tx.Save(&s).Error
	})
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// MarkApproved flips a pending suggestion to approved. The status guard in
// the WHERE clause makes the transition one-way and idempotent: a second
// caller finds no pending row and reports false.
func (r *suggestionRepository) MarkApproved(id string) (bool, error) {
	res := r.db.Model(&models.TagSuggestion{}).
		Where("id = ? AND status = ?", id, models.SuggestionPending).
		Updates(map[string]interface{}{
			"status":     models.SuggestionApproved,
			"updated_at": time.Now().UTC(),
		})
	return res.RowsAffected > 0, res.Error
}

func (r *suggestionRepository) MarkRejected(id string) (bool, error) {
	res := r.db.Model(&models.TagSuggestion{}).
		Where("id = ? AND status = ?", id, models.SuggestionPending).
		Updates(map[string]interface{}{
			"status":     models.SuggestionRejected,
			"updated_at": time.Now().UTC(),
		})
	return res.RowsAffected > 0, res.Error
}

func (r *suggestionRepository) Pending(limit int) ([]PendingSuggestion, error) {
	var rows []PendingSuggestion
	err := r.db.Model(&models.TagSuggestion{}).
		Select("tag_suggestions.*, entries.title AS entry_title").
		Joins("JOIN entries ON entries.id = tag_suggestions.entry_id").
		Where("tag_suggestions.status = ?", models.SuggestionPending).
		Order("tag_suggestions.net_votes DESC, tag_suggestions.created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
