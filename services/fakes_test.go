package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/dslans/bot-aitools/models"
	"github.com/dslans/bot-aitools/repositories"
)

// fakeStore is an in-memory stand-in for the entry and vote repositories so
// the business rules can be exercised without a database.
type fakeStore struct {
	entries map[string]*models.Entry
	votes   map[string]map[string]int // entryID -> userID -> value
	clock   time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		entries: map[string]*models.Entry{},
		votes:   map[string]map[string]int{},
		clock:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fakeStore) Create(entry *models.Entry) error {
	f.clock = f.clock.Add(time.Second)
	entry.CreatedAt = f.clock
	entry.UpdatedAt = f.clock
	f.entries[entry.ID] = entry
	return nil
}

func (f *fakeStore) GetByID(id string) (*models.Entry, error) {
	e, ok := f.entries[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *e
	return &copied, nil
}

func (f *fakeStore) GetByURL(url string) (*models.Entry, error) {
	for _, e := range f.entries {
		if e.URL != nil && *e.URL == url {
			copied := *e
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStore) score(id string) (score, up, down int) {
	for _, v := range f.votes[id] {
		score += v
		if v > 0 {
			up++
		} else {
			down++
		}
	}
	return
}

func (f *fakeStore) withScore(e *models.Entry) models.EntryWithScore {
	score, up, down := f.score(e.ID)
	return models.EntryWithScore{Entry: *e, Score: score, Upvotes: up, Downvotes: down}
}

func (f *fakeStore) GetWithScore(id string) (*models.EntryWithScore, error) {
	e, ok := f.entries[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	row := f.withScore(e)
	return &row, nil
}

func (f *fakeStore) ranked(includeProhibited bool) []models.EntryWithScore {
	rows := []models.EntryWithScore{}
	for _, e := range f.entries {
		if !includeProhibited && e.SecurityStatus == models.SecurityProhibited {
			continue
		}
		rows = append(rows, f.withScore(e))
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Score != rows[j].Score {
			return rows[i].Score > rows[j].Score
		}
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
	return rows
}

func (f *fakeStore) Search(keyword string, limit int) ([]models.EntryWithScore, error) {
	return capRows(f.ranked(true), limit), nil
}

func (f *fakeStore) List(tag string, limit int) ([]models.EntryWithScore, error) {
	rows := []models.EntryWithScore{}
	for _, r := range f.ranked(false) {
		if tag == "" || r.Tags.Contains(tag) {
			rows = append(rows, r)
		}
	}
	return capRows(rows, limit), nil
}

func (f *fakeStore) Top(limit int) ([]models.EntryWithScore, error) {
	return capRows(f.ranked(false), limit), nil
}

func (f *fakeStore) AdminList(limit int) ([]models.EntryWithScore, error) {
	return capRows(f.ranked(true), limit), nil
}

func (f *fakeStore) Update(id string, updates map[string]interface{}) error {
	e, ok := f.entries[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, v := range updates {
		switch k {
		case "title":
			e.Title = v.(string)
		case "description":
			e.Description = v.(string)
		case "ai_summary":
			e.AISummary = v.(string)
		case "target_audience":
			e.TargetAudience = v.(string)
		case "tags":
			e.Tags = v.(models.TagList)
		}
	}
	return nil
}

func (f *fakeStore) Delete(id string) error {
	if _, ok := f.entries[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.entries, id)
	delete(f.votes, id)
	return nil
}

func (f *fakeStore) TagFrequencies() ([]repositories.TagFrequency, error) {
	counts := map[string]int{}
	for _, e := range f.entries {
		for _, t := range e.Tags {
			counts[t]++
		}
	}
	freqs := []repositories.TagFrequency{}
	for tag, n := range counts {
		freqs = append(freqs, repositories.TagFrequency{Tag: tag, Frequency: n})
	}
	sort.Slice(freqs, func(i, j int) bool {
		if freqs[i].Frequency != freqs[j].Frequency {
			return freqs[i].Frequency > freqs[j].Frequency
		}
		return freqs[i].Tag < freqs[j].Tag
	})
	return freqs, nil
}

func (f *fakeStore) Upsert(vote *models.Vote) error {
	if f.votes[vote.EntryID] == nil {
		f.votes[vote.EntryID] = map[string]int{}
	}
	f.votes[vote.EntryID][vote.UserID] = vote.Value
	return nil
}

func capRows(rows []models.EntryWithScore, limit int) []models.EntryWithScore {
	if limit > 0 && len(rows) > limit {
		return rows[:limit]
	}
	return rows
}

// fakeSuggestionRepo mirrors the suggestion repository semantics, including
// the recount-from-ballots behavior and the one-way status transitions.
type fakeSuggestionRepo struct {
	byID    map[string]*models.TagSuggestion
	ballots map[string]map[string]int // suggestionID -> userID -> value
}

func newFakeSuggestionRepo() *fakeSuggestionRepo {
	return &fakeSuggestionRepo{
		byID:    map[string]*models.TagSuggestion{},
		ballots: map[string]map[string]int{},
	}
}

func (f *fakeSuggestionRepo) CreateOrGet(s *models.TagSuggestion) (*models.TagSuggestion, bool, error) {
	for _, existing := range f.byID {
		if existing.EntryID == s.EntryID && existing.SuggestedTag == s.SuggestedTag {
			copied := *existing
			return &copied, false, nil
		}
	}
	f.byID[s.ID] = s
	copied := *s
	return &copied, true, nil
}

func (f *fakeSuggestionRepo) GetByID(id string) (*models.TagSuggestion, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *fakeSuggestionRepo) GetByEntryAndTag(entryID, tag string) (*models.TagSuggestion, error) {
	for _, s := range f.byID {
		if s.EntryID == entryID && s.SuggestedTag == tag {
			copied := *s
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSuggestionRepo) RecordVote(suggestionID, userID string, value int) (*models.TagSuggestion, error) {
	s, ok := f.byID[suggestionID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if f.ballots[suggestionID] == nil {
		f.ballots[suggestionID] = map[string]int{}
	}
	f.ballots[suggestionID][userID] = value

	up, down := 0, 0
	for _, v := range f.ballots[suggestionID] {
		if v > 0 {
			up++
		} else {
			down++
		}
	}
	s.Upvotes = up
	s.Downvotes = down
	s.NetVotes = up - down
	copied := *s
	return &copied, nil
}

func (f *fakeSuggestionRepo) MarkApproved(id string) (bool, error) {
	s, ok := f.byID[id]
	if !ok || s.Status != models.SuggestionPending {
		return false, nil
	}
	s.Status = models.SuggestionApproved
	return true, nil
}

func (f *fakeSuggestionRepo) MarkRejected(id string) (bool, error) {
	s, ok := f.byID[id]
	if !ok || s.Status != models.SuggestionPending {
		return false, nil
	}
	s.Status = models.SuggestionRejected
	return true, nil
}

func (f *fakeSuggestionRepo) Pending(limit int) ([]repositories.PendingSuggestion, error) {
	rows := []repositories.PendingSuggestion{}
	for _, s := range f.byID {
		if s.Status == models.SuggestionPending {
			rows = append(rows, repositories.PendingSuggestion{TagSuggestion: *s})
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].NetVotes > rows[j].NetVotes })
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

type fakeCommunityTagRepo struct {
	byTag map[string]*models.ApprovedCommunityTag
}

func newFakeCommunityTagRepo() *fakeCommunityTagRepo {
	return &fakeCommunityTagRepo{byTag: map[string]*models.ApprovedCommunityTag{}}
}

func (f *fakeCommunityTagRepo) Ensure(tag *models.ApprovedCommunityTag) error {
	if _, ok := f.byTag[tag.Tag]; ok {
		return nil
	}
	f.byTag[tag.Tag] = tag
	return nil
}

func (f *fakeCommunityTagRepo) Get(tag string) (*models.ApprovedCommunityTag, error) {
	t, ok := f.byTag[tag]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *t
	return &copied, nil
}

func (f *fakeCommunityTagRepo) AllTags() ([]string, error) {
	tags := []string{}
	for tag := range f.byTag {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags, nil
}

// Fake collaborators for the entry service.

type fakeScraper struct {
	meta *models.PageMetadata
	err  error
}

func (f *fakeScraper) IsValidURL(raw string) bool {
	return len(raw) > 7 && (raw[:7] == "http://" || raw[:8] == "https://")
}

func (f *fakeScraper) Scrape(ctx context.Context, url string) (*models.PageMetadata, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.meta != nil {
		return f.meta, nil
	}
	return &models.PageMetadata{Title: "Scraped Title", Content: "scraped content"}, nil
}

type fakeAI struct {
	result *models.AIResult
	err    error
	calls  int
}

func (f *fakeAI) GenerateSummaryAndTags(ctx context.Context, title, content string) (*models.AIResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &models.AIResult{
		Summary:        "Generated summary",
		TargetAudience: "Developers",
		Tags:           []string{"code-assistant", "developer"},
	}, nil
}

type fakeSecurity struct {
	status  models.SecurityStatus
	display string
}

func (f *fakeSecurity) Evaluate(ctx context.Context, input models.SecurityInput) (models.SecurityStatus, string) {
	if f.status == "" {
		return models.SecurityApproved, "Approved for use"
	}
	return f.status, f.display
}

var errBoom = errors.New("boom")
