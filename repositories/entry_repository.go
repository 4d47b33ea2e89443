package repositories

import (
	"github.com/dslans/bot-aitools/models"

	"gorm.io/gorm"
)

type EntryRepository interface {
	Create(entry *models.Entry) error
	GetByID(id string) (*models.Entry, error)
	GetByURL(url string) (*models.Entry, error)
	GetWithScore(id string) (*models.EntryWithScore, error)
	Search(keyword string, limit int) ([]models.EntryWithScore, error)
	List(tag string, limit int) ([]models.EntryWithScore, error)
	Top(limit int) ([]models.EntryWithScore, error)
	AdminList(limit int) ([]models.EntryWithScore, error)
	Update(id string, updates map[string]interface{}) error
	Delete(id string) error
	TagFrequencies() ([]TagFrequency, error)
}

type TagFrequency struct {
	Tag       string
	Frequency int
}

type entryRepository struct {
	db *gorm.DB
}

func NewEntryRepository(db *gorm.DB) EntryRepository {
	return &entryRepository{db: db}
}

const scoreSelect = `entries.*,
	COALESCE(SUM(votes.value), 0) AS score,
	COUNT(CASE WHEN votes.value = 1 THEN 1 END) AS upvotes,
	COUNT(CASE WHEN votes.value = -1 THEN 1 END) AS downvotes`

// scored builds the entries-with-live-score aggregation. Score is always the
// fresh sum over vote rows, never a stored column.
func (r *entryRepository) scored() *gorm.DB {
	return r.db.Model(&models.Entry{}).
		Select(scoreSelect).
		Joins("LEFT JOIN votes ON votes.entry_id = entries.id").
		Group("entries.id")
}

func (r *entryRepository) Create(entry *models.Entry) error {
	return r.db.Create(entry).Error
}

func (r *entryRepository) GetByID(id string) (*models.Entry, error) {
	var entry models.Entry
	err := r.db.First(&entry, "id = ?", id).Error
	return &entry, err
}

func (r *entryRepository) GetByURL(url string) (*models.Entry, error) {
	var entry models.Entry
	err := r.db.First(&entry, "url = ?", url).Error
	return &entry, err
}

func (r *entryRepository) GetWithScore(id string) (*models.EntryWithScore, error) {
	var row models.EntryWithScore
	err := r.scored().Where("entries.id = ?", id).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == "" {
		return nil, gorm.ErrRecordNotFound
	}
	return &row, nil
}

func (r *entryRepository) Search(keyword string, limit int) ([]models.EntryWithScore, error) {
	var rows []models.EntryWithScore
	pattern := "%" + keyword + "%"
	err := r.scored().
		Where("LOWER(entries.title) LIKE LOWER(?) OR LOWER(entries.ai_summary) LIKE LOWER(?) OR "+tagMembership, pattern, pattern, keyword).
		Order("score DESC, entries.created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// tagMembership matches a single tag inside the JSON-encoded tags column.
const tagMembership = `EXISTS (
	SELECT 1 FROM jsonb_array_elements_text(entries.tags::jsonb) AS tag_elem
	WHERE tag_elem = ?)`

func (r *entryRepository) List(tag string, limit int) ([]models.EntryWithScore, error) {
	var rows []models.EntryWithScore
	query := r.scored().
		Where("entries.security_status IS DISTINCT FROM ?", models.SecurityProhibited)
	if tag != "" {
		query = query.Where(tagMembership, tag)
	}
	err := query.
		Order("score DESC, entries.created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *entryRepository) Top(limit int) ([]models.EntryWithScore, error) {
	var rows []models.EntryWithScore
	err := r.scored().
		Where("entries.security_status IS DISTINCT FROM ?", models.SecurityProhibited).
		Order("score DESC, entries.created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *entryRepository) AdminList(limit int) ([]models.EntryWithScore, error) {
	var rows []models.EntryWithScore
	err := r.scored().
		Order("entries.created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *entryRepository) Update(id string, updates map[string]interface{}) error {
	return r.db.Model(&models.Entry{}).Where("id = ?", id).Updates(updates).Error
}

func (r *entryRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("entry_id = ?", id).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Entry{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *entryRepository) TagFrequencies() ([]TagFrequency, error) {
	var results []TagFrequency
	query := `
		SELECT tag_elem AS tag, COUNT(*) AS frequency
		FROM entries, jsonb_array_elements_text(entries.tags::jsonb) AS tag_elem
		WHERE tag_elem IS NOT NULL AND tag_elem != ''
		GROUP BY tag_elem
		ORDER BY frequency DESC, tag ASC
	`
	err := r.db.Raw(query).Scan(&results).Error
	return results, err
}
