package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dslans/bot-aitools/config"
	"github.com/dslans/bot-aitools/models"
	"github.com/dslans/bot-aitools/repositories"
)

var (
	ErrMissingTitle   = errors.New("title is required")
	ErrMissingContent = errors.New("url or description is required")
	ErrEntryNotFound  = errors.New("entry not found")
	ErrEmptyUpdate    = errors.New("no fields to update")
)

const fallbackSummary = "Summary generation in progress..."

// EntryService owns the tool catalog: submission with enrichment, search,
// listings, voting and the admin edit surface.
type EntryService interface {
	AddTool(ctx context.Context, title, content, userID string) (*models.Entry, bool, error)
	Get(id string) (*models.EntryWithScore, error)
	Search(keyword string) ([]models.EntryWithScore, error)
	List(tag string) ([]models.EntryWithScore, error)
	Top(limit int) ([]models.EntryWithScore, error)
	Vote(entryID, userID string, value int) (*models.EntryWithScore, error)
	AdminList(limit int) ([]models.EntryWithScore, error)
	UpdateEntry(id string, update models.EntryUpdate) (*models.Entry, error)
	Retag(ctx context.Context, id string) (*models.Entry, error)
	Delete(id string) error
}

type entryService struct {
	entries  repositories.EntryRepository
	votes    repositories.VoteRepository
	scraper  ScraperService
	ai       AIService
	security SecurityService
	cfg      *config.Config
	log      *slog.Logger
}

func NewEntryService(
	entries repositories.EntryRepository,
	votes repositories.VoteRepository,
	scraper ScraperService,
	ai AIService,
	security SecurityService,
	cfg *config.Config,
	log *slog.Logger,
) EntryService {
	return &entryService{
		entries:  entries,
		votes:    votes,
		scraper:  scraper,
		ai:       ai,
		security: security,
		cfg:      cfg,
		log:      log,
	}
}

// AddTool submits a tool. Content is either a URL or free-text description;
// URLs are deduplicated, so the second return reports whether an existing
// entry was returned untouched. Scraping and enrichment are best-effort: a
// dead page or a failed AI call still produces an entry with placeholder
// fields.
func (s *entryService) AddTool(ctx context.Context, title, content, userID string) (*models.Entry, bool, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" {
		return nil, false, ErrMissingTitle
	}
	if content == "" {
		return nil, false, ErrMissingContent
	}

	entry := &models.Entry{
		ID:       uuid.NewString(),
		Title:    title,
		AuthorID: userID,
		Tags:     models.TagList{},
	}

	aiInput := content
	isURL := s.scraper.IsValidURL(content)
	if isURL {
		existing, err := s.entries.GetByURL(content)
		if err == nil {
			return existing, true, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, err
		}
		entry.URL = &content

		meta, err := s.scraper.Scrape(ctx, content)
		if err != nil {
			s.log.Warn("scrape failed", slog.String("url", content), slog.String("error", err.Error()))
		} else {
			entry.Description = meta.Description
			if meta.Content != "" {
				aiInput = meta.Content
			}
		}
	} else {
		entry.Description = content
	}

	result, err := s.ai.GenerateSummaryAndTags(ctx, entry.Title, aiInput)
	if err != nil {
		s.log.Warn("ai enrichment failed", slog.String("title", title), slog.String("error", err.Error()))
		entry.AISummary = fallbackSummary
	} else {
		entry.AISummary = result.Summary
		entry.TargetAudience = result.TargetAudience
		entry.Tags = models.TagList(result.Tags)
	}

	status, display := s.security.Evaluate(ctx, models.SecurityInput{
		Title:   entry.Title,
		URL:     stringValue(entry.URL),
		Summary: entry.AISummary,
		Tags:    entry.Tags,
	})
	entry.SecurityStatus = status
	entry.SecurityDisplay = display

	if err := s.entries.Create(entry); err != nil {
		// A concurrent submit of the same URL wins the unique index race.
		if isURL {
			if dup, lookupErr := s.entries.GetByURL(content); lookupErr == nil {
				return dup, true, nil
			}
		}
		return nil, false, err
	}

	s.log.Info("tool added",
		slog.String("entry_id", entry.ID),
		slog.String("title", title),
		slog.String("security_status", string(status)))
	return entry, false, nil
}

func (s *entryService) Get(id string) (*models.EntryWithScore, error) {
	row, err := s.entries.GetWithScore(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEntryNotFound
	}
	return row, err
}

func (s *entryService) Search(keyword string) ([]models.EntryWithScore, error) {
	return s.entries.Search(strings.TrimSpace(keyword), s.cfg.MaxSearchResults)
}

func (s *entryService) List(tag string) ([]models.EntryWithScore, error) {
	return s.entries.List(config.NormalizeTag(tag), s.cfg.MaxListResults)
}

func (s *entryService) Top(limit int) ([]models.EntryWithScore, error) {
	if limit < 1 {
		limit = s.cfg.MaxListResults
	}
	if limit > 50 {
		limit = 50
	}
	return s.entries.Top(limit)
}

// Vote records or replaces the caller's ballot, then returns the entry with
// its fresh aggregate. Re-voting the same direction is a no-op.
func (s *entryService) Vote(entryID, userID string, value int) (*models.EntryWithScore, error) {
	if _, err := s.entries.GetByID(entryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}

	if err := s.votes.Upsert(&models.Vote{
		EntryID: entryID,
		UserID:  userID,
		Value:   value,
	}); err != nil {
		return nil, err
	}

	return s.entries.GetWithScore(entryID)
}

func (s *entryService) AdminList(limit int) ([]models.EntryWithScore, error) {
	if limit < 1 {
		limit = 20
	}
	return s.entries.AdminList(limit)
}

func (s *entryService) UpdateEntry(id string, update models.EntryUpdate) (*models.Entry, error) {
	if update.Empty() {
		return nil, ErrEmptyUpdate
	}
	if _, err := s.entries.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}

	fields := map[string]interface{}{"updated_at": time.Now().UTC()}
	if update.Title != nil {
		fields["title"] = *update.Title
	}
	if update.Description != nil {
		fields["description"] = *update.Description
	}
	if update.AISummary != nil {
		fields["ai_summary"] = *update.AISummary
	}
	if update.TargetAudience != nil {
		fields["target_audience"] = *update.TargetAudience
	}
	if update.Tags != nil {
		fields["tags"] = models.TagList(config.ValidateTags(update.Tags))
	}

	if err := s.entries.Update(id, fields); err != nil {
		return nil, err
	}
	return s.entries.GetByID(id)
}

// Retag reruns enrichment over the stored entry. Existing tags survive an AI
// failure so a flaky enrichment never strips an entry bare.
func (s *entryService) Retag(ctx context.Context, id string) (*models.Entry, error) {
	entry, err := s.entries.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}

	content := entry.AISummary
	if entry.URL != nil {
		if meta, scrapeErr := s.scraper.Scrape(ctx, *entry.URL); scrapeErr == nil && meta.Content != "" {
			content = meta.Content
		}
	}

	result, err := s.ai.GenerateSummaryAndTags(ctx, entry.Title, content)
	if err != nil {
		s.log.Warn("retag enrichment failed", slog.String("entry_id", id), slog.String("error", err.Error()))
		return entry, nil
	}

	fields := map[string]interface{}{
		"ai_summary": result.Summary,
		"tags":       models.TagList(result.Tags),
		"updated_at": time.Now().UTC(),
	}
	if result.TargetAudience != "" {
		fields["target_audience"] = result.TargetAudience
	}
	if err := s.entries.Update(id, fields); err != nil {
		return nil, err
	}
	return s.entries.GetByID(id)
}

func (s *entryService) Delete(id string) error {
	err := s.entries.Delete(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrEntryNotFound
	}
	return err
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
