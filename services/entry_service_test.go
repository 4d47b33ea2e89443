package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dslans/bot-aitools/config"
	"github.com/dslans/bot-aitools/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	return &config.Config{
		MaxSearchResults: 5,
		MaxListResults:   10,
		AdminUserIDs:     map[string]bool{"UADMIN": true},
	}
}

func newTestEntryService(store *fakeStore, ai AIService, scraper ScraperService) EntryService {
	if ai == nil {
		ai = &fakeAI{}
	}
	if scraper == nil {
		scraper = &fakeScraper{}
	}
	return NewEntryService(store, store, scraper, ai, &fakeSecurity{}, testConfig(), testLogger())
}

func TestAddToolWithURL(t *testing.T) {
	store := newFakeStore()
	svc := newTestEntryService(store, nil, nil)

	entry, existing, err := svc.AddTool(context.Background(), "CodeHelper", "https://codehelper.dev", "U1")
	require.NoError(t, err)
	assert.False(t, existing)
	assert.Equal(t, "CodeHelper", entry.Title)
	require.NotNil(t, entry.URL)
	assert.Equal(t, "https://codehelper.dev", *entry.URL)
	assert.Equal(t, "Generated summary", entry.AISummary)
	assert.Equal(t, "Developers", entry.TargetAudience)
	assert.Equal(t, models.TagList{"code-assistant", "developer"}, entry.Tags)
	assert.Equal(t, models.SecurityApproved, entry.SecurityStatus)
}

func TestAddToolWithDescription(t *testing.T) {
	store := newFakeStore()
	svc := newTestEntryService(store, nil, nil)

	entry, existing, err := svc.AddTool(context.Background(), "Internal Tool", "a script that renames things", "U1")
	require.NoError(t, err)
	assert.False(t, existing)
	assert.Nil(t, entry.URL)
	assert.Equal(t, "a script that renames things", entry.Description)
}

func TestAddToolDuplicateURLReturnsExisting(t *testing.T) {
	store := newFakeStore()
	svc := newTestEntryService(store, nil, nil)

	first, _, err := svc.AddTool(context.Background(), "CodeHelper", "https://codehelper.dev", "U1")
	require.NoError(t, err)

	second, existing, err := svc.AddTool(context.Background(), "Other Name", "https://codehelper.dev", "U2")
	require.NoError(t, err)
	assert.True(t, existing)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "CodeHelper", second.Title)
	assert.Len(t, store.entries, 1)
}

func TestAddToolAIFailureStillCreates(t *testing.T) {
	store := newFakeStore()
	svc := newTestEntryService(store, &fakeAI{err: errBoom}, nil)

	entry, _, err := svc.AddTool(context.Background(), "Flaky", "https://flaky.dev", "U1")
	require.NoError(t, err)
	assert.Equal(t, fallbackSummary, entry.AISummary)
	assert.Empty(t, entry.Tags)
	assert.Len(t, store.entries, 1)
}

func TestAddToolScrapeFailureStillCreates(t *testing.T) {
	store := newFakeStore()
	svc := newTestEntryService(store, nil, &fakeScraper{err: errBoom})

	entry, _, err := svc.AddTool(context.Background(), "DeadPage", "https://gone.example", "U1")
	require.NoError(t, err)
	assert.Equal(t, "DeadPage", entry.Title)
	assert.Equal(t, "Generated summary", entry.AISummary)
}

func TestAddToolValidation(t *testing.T) {
	svc := newTestEntryService(newFakeStore(), nil, nil)

	_, _, err := svc.AddTool(context.Background(), "", "https://x.dev", "U1")
	assert.ErrorIs(t, err, ErrMissingTitle)

	_, _, err = svc.AddTool(context.Background(), "Name", "   ", "U1")
	assert.ErrorIs(t, err, ErrMissingContent)
}

func TestVoteScoreIsLatestBallotPerVoter(t *testing.T) {
	store := newFakeStore()
	svc := newTestEntryService(store, nil, nil)

	entry, _, err := svc.AddTool(context.Background(), "Tool", "https://tool.dev", "U1")
	require.NoError(t, err)

	scored, err := svc.Vote(entry.ID, "U2", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, scored.Score)

	scored, err = svc.Vote(entry.ID, "U3", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, scored.Score)

	// U2 flips to a downvote: the old ballot is replaced, not added to.
	scored, err = svc.Vote(entry.ID, "U2", -1)
	require.NoError(t, err)
	assert.Equal(t, 0, scored.Score)
	assert.Equal(t, 1, scored.Upvotes)
	assert.Equal(t, 1, scored.Downvotes)

	// Re-voting the same direction changes nothing.
	scored, err = svc.Vote(entry.ID, "U2", -1)
	require.NoError(t, err)
	assert.Equal(t, 0, scored.Score)
}

func TestVoteUnknownEntry(t *testing.T) {
	svc := newTestEntryService(newFakeStore(), nil, nil)
	_, err := svc.Vote("missing", "U1", 1)
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestTopOrdersByScore(t *testing.T) {
	store := newFakeStore()
	svc := newTestEntryService(store, nil, nil)

	low, _, _ := svc.AddTool(context.Background(), "Low", "https://low.dev", "U1")
	high, _, _ := svc.AddTool(context.Background(), "High", "https://high.dev", "U1")

	_, err := svc.Vote(high.ID, "U2", 1)
	require.NoError(t, err)
	_, err = svc.Vote(low.ID, "U2", -1)
	require.NoError(t, err)

	rows, err := svc.Top(10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "High", rows[0].Title)
	assert.Equal(t, "Low", rows[1].Title)
}

func TestListHidesProhibitedEntries(t *testing.T) {
	store := newFakeStore()
	svc := newTestEntryService(store, nil, nil)

	entry, _, err := svc.AddTool(context.Background(), "Risky", "https://risky.dev", "U1")
	require.NoError(t, err)
	store.entries[entry.ID].SecurityStatus = models.SecurityProhibited

	rows, err := svc.List("")
	require.NoError(t, err)
	assert.Empty(t, rows)

	admin, err := svc.AdminList(10)
	require.NoError(t, err)
	assert.Len(t, admin, 1)
}

func TestUpdateEntry(t *testing.T) {
	store := newFakeStore()
	svc := newTestEntryService(store, nil, nil)

	entry, _, err := svc.AddTool(context.Background(), "Old", "https://tool.dev", "U1")
	require.NoError(t, err)

	title := "New Name"
	updated, err := svc.UpdateEntry(entry.ID, models.EntryUpdate{
		Title: &title,
		Tags:  []string{"Chatbot", "chatbot", "Voice AI"},
	})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Title)
	assert.Equal(t, models.TagList{"chatbot", "voice-ai"}, updated.Tags)

	_, err = svc.UpdateEntry(entry.ID, models.EntryUpdate{})
	assert.ErrorIs(t, err, ErrEmptyUpdate)

	_, err = svc.UpdateEntry("missing", models.EntryUpdate{Title: &title})
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestRetagKeepsOldTagsOnAIFailure(t *testing.T) {
	store := newFakeStore()
	ai := &fakeAI{}
	svc := newTestEntryService(store, ai, nil)

	entry, _, err := svc.AddTool(context.Background(), "Tool", "https://tool.dev", "U1")
	require.NoError(t, err)
	require.Equal(t, models.TagList{"code-assistant", "developer"}, entry.Tags)

	ai.err = errBoom
	after, err := svc.Retag(context.Background(), entry.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TagList{"code-assistant", "developer"}, after.Tags)
	assert.Equal(t, "Generated summary", after.AISummary)
}

func TestRetagAppliesNewResult(t *testing.T) {
	store := newFakeStore()
	ai := &fakeAI{}
	svc := newTestEntryService(store, ai, nil)

	entry, _, err := svc.AddTool(context.Background(), "Tool", "https://tool.dev", "U1")
	require.NoError(t, err)

	ai.result = &models.AIResult{Summary: "Fresh summary", Tags: []string{"chatbot"}}
	after, err := svc.Retag(context.Background(), entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fresh summary", after.AISummary)
	assert.Equal(t, models.TagList{"chatbot"}, after.Tags)
}

func TestDeleteRemovesEntryAndVotes(t *testing.T) {
	store := newFakeStore()
	svc := newTestEntryService(store, nil, nil)

	entry, _, err := svc.AddTool(context.Background(), "Tool", "https://tool.dev", "U1")
	require.NoError(t, err)
	_, err = svc.Vote(entry.ID, "U2", 1)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(entry.ID))
	assert.Empty(t, store.entries)
	assert.Empty(t, store.votes)

	assert.ErrorIs(t, svc.Delete(entry.ID), ErrEntryNotFound)
}
