package repositories

import (
	"github.com/dslans/bot-aitools/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VoteRepository interface {
	Upsert(vote *models.Vote) error
}

type voteRepository struct {
	db *gorm.DB
}

func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

// Upsert records a ballot, replacing any prior ballot by the same user on the
// same entry. The unique index on (entry_id, user_id) makes this a single
// atomic statement, so concurrent votes cannot produce duplicate rows.
func (r *voteRepository) Upsert(vote *models.Vote) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(vote).Error
}
