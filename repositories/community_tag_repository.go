package repositories

import (
	"github.com/dslans/bot-aitools/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommunityTagRepository interface {
	Ensure(tag *models.ApprovedCommunityTag) error
	Get(tag string) (*models.ApprovedCommunityTag, error)
	AllTags() ([]string, error)
}

type communityTagRepository struct {
	db *gorm.DB
}

func NewCommunityTagRepository(db *gorm.DB) CommunityTagRepository {
	return &communityTagRepository{db: db}
}

// Ensure creates the approved tag if absent. Promotion is idempotent, so an
// existing row is left untouched.
func (r *communityTagRepository) Ensure(tag *models.ApprovedCommunityTag) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tag"}},
		DoNothing: true,
	}).Create(tag).Error
}

func (r *communityTagRepository) Get(tag string) (*models.ApprovedCommunityTag, error) {
	var t models.ApprovedCommunityTag
	err := r.db.First(&t, "tag = ?", tag).Error
	return &t, err
}

func (r *communityTagRepository) AllTags() ([]string, error) {
	var tags []string
	err := r.db.Model(&models.ApprovedCommunityTag{}).
		Order("usage_count DESC, tag ASC").
		Pluck("tag", &tags).Error
	return tags, err
}
