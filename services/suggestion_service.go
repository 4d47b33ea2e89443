package services

import (
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dslans/bot-aitools/config"
	"github.com/dslans/bot-aitools/models"
	"github.com/dslans/bot-aitools/repositories"
)

const promotionThreshold = 3

var (
	ErrInvalidTag         = errors.New("invalid tag")
	ErrReservedTag        = errors.New("tag is part of the core vocabulary")
	ErrSuggestionNotFound = errors.New("suggestion not found")
	ErrAlreadyResolved    = errors.New("suggestion is no longer pending")
)

// SuggestionService runs the community tag lifecycle: suggest, vote,
// threshold promotion, and the admin approve/reject overrides.
type SuggestionService interface {
	Suggest(entryID, tag, userID string) (*models.TagSuggestion, bool, error)
	Vote(suggestionID, userID string, value int) (*models.TagSuggestion, bool, error)
	PromoteTag(tag, adminID string) (string, error)
	Reject(suggestionID string) (*models.TagSuggestion, error)
	Pending(limit int) ([]repositories.PendingSuggestion, error)
}

type suggestionService struct {
	suggestions   repositories.SuggestionRepository
	communityTags repositories.CommunityTagRepository
	entries       repositories.EntryRepository
	log           *slog.Logger
}

func NewSuggestionService(
	suggestions repositories.SuggestionRepository,
	communityTags repositories.CommunityTagRepository,
	entries repositories.EntryRepository,
	log *slog.Logger,
) SuggestionService {
	return &suggestionService{
		suggestions:   suggestions,
		communityTags: communityTags,
		entries:       entries,
		log:           log,
	}
}

// Suggest proposes a tag for an entry. Suggesting an already-proposed tag
// returns the existing suggestion with created=false, so the caller can
// point the user at the running vote instead of opening a duplicate.
func (s *suggestionService) Suggest(entryID, tag, userID string) (*models.TagSuggestion, bool, error) {
	normalized := config.NormalizeTag(tag)
	if normalized == "" {
		return nil, false, ErrInvalidTag
	}
	if config.IsCoreTag(normalized) {
		return nil, false, ErrReservedTag
	}

	if _, err := s.entries.GetByID(entryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrEntryNotFound
		}
		return nil, false, err
	}

	suggestion := &models.TagSuggestion{
		ID:           uuid.NewString(),
		EntryID:      entryID,
		SuggestedTag: normalized,
		SuggestedBy:  userID,
		Status:       models.SuggestionPending,
	}
	created, wasNew, err := s.suggestions.CreateOrGet(suggestion)
	if err != nil {
		return nil, false, err
	}
	if wasNew {
		s.log.Info("tag suggested",
			slog.String("entry_id", entryID),
			slog.String("tag", normalized),
			slog.String("user_id", userID))
	}
	return created, wasNew, nil
}

// Vote records a ballot on a pending suggestion and promotes it when the net
// count reaches the threshold. The second return reports whether this vote
// triggered the promotion. Votes on resolved suggestions are rejected.
func (s *suggestionService) Vote(suggestionID, userID string, value int) (*models.TagSuggestion, bool, error) {
	current, err := s.suggestions.GetByID(suggestionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrSuggestionNotFound
		}
		return nil, false, err
	}
	if current.Status != models.SuggestionPending {
		return current, false, ErrAlreadyResolved
	}

	updated, err := s.suggestions.RecordVote(suggestionID, userID, value)
	if err != nil {
		return nil, false, err
	}

	if updated.NetVotes < promotionThreshold {
		return updated, false, nil
	}

	promoted, err := s.promote(updated, "auto")
	if err != nil {
		return nil, false, err
	}
	return updated, promoted, nil
}

// PromoteTag is the admin fast path: register a community tag directly,
// bypassing any suggestion and its vote count. Returns the normalized tag.
func (s *suggestionService) PromoteTag(tag, adminID string) (string, error) {
	normalized := config.NormalizeTag(tag)
	if normalized == "" {
		return "", ErrInvalidTag
	}
	if config.IsCoreTag(normalized) {
		return "", ErrReservedTag
	}

	if err := s.communityTags.Ensure(&models.ApprovedCommunityTag{
		Tag:        normalized,
		ApprovedBy: adminID,
	}); err != nil {
		return "", err
	}

	s.log.Info("tag promoted",
		slog.String("tag", normalized),
		slog.String("approved_by", adminID))
	return normalized, nil
}

// promote flips the suggestion to approved, registers the community tag and
// applies it to the entry. MarkApproved is the gate: when a concurrent vote
// already promoted, it reports false and this call does nothing further.
func (s *suggestionService) promote(suggestion *models.TagSuggestion, approvedBy string) (bool, error) {
	flipped, err := s.suggestions.MarkApproved(suggestion.ID)
	if err != nil {
		return false, err
	}
	if !flipped {
		return false, nil
	}

	if err := s.communityTags.Ensure(&models.ApprovedCommunityTag{
		Tag:        suggestion.SuggestedTag,
		ApprovedBy: approvedBy,
		UsageCount: 1,
	}); err != nil {
		return false, err
	}

	if err := s.applyTag(suggestion.EntryID, suggestion.SuggestedTag); err != nil {
		return false, err
	}

	s.log.Info("tag promoted",
		slog.String("suggestion_id", suggestion.ID),
		slog.String("tag", suggestion.SuggestedTag),
		slog.String("approved_by", approvedBy))
	return true, nil
}

func (s *suggestionService) applyTag(entryID, tag string) error {
	entry, err := s.entries.GetByID(entryID)
	if err != nil {
		return err
	}
	if entry.Tags.Contains(tag) {
		return nil
	}
	return s.entries.Update(entryID, map[string]interface{}{
		"tags": append(entry.Tags, tag),
	})
}

func (s *suggestionService) Reject(suggestionID string) (*models.TagSuggestion, error) {
	suggestion, err := s.suggestions.GetByID(suggestionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSuggestionNotFound
		}
		return nil, err
	}

	flipped, err := s.suggestions.MarkRejected(suggestionID)
	if err != nil {
		return nil, err
	}
	if !flipped {
		return suggestion, ErrAlreadyResolved
	}
	return s.suggestions.GetByID(suggestionID)
}

func (s *suggestionService) Pending(limit int) ([]repositories.PendingSuggestion, error) {
	if limit < 1 {
		limit = 20
	}
	return s.suggestions.Pending(limit)
}
