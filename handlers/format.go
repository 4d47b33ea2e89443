package handlers

import (
	"fmt"
	"strings"

	"github.com/slack-go/slack"

	"github.com/dslans/bot-aitools/models"
	"github.com/dslans/bot-aitools/repositories"
	"github.com/dslans/bot-aitools/services"
)

const (
	actionUpvote      = "upvote_"
	actionDownvote    = "downvote_"
	actionUpvoteTag   = "upvote_tag_"
	actionDownvoteTag = "downvote_tag_"
	actionSuggestTag  = "suggest_tag_"
	actionAdminEdit   = "admin_edit_"
)

var securityEmoji = map[models.SecurityStatus]string{
	models.SecurityApproved:   ":white_check_mark:",
	models.SecurityRestricted: ":warning:",
	models.SecurityProhibited: ":no_entry:",
	models.SecurityReview:     ":hourglass:",
}

func entryBlocks(e *models.EntryWithScore) []slack.Block {
	blocks := []slack.Block{headerBlock(e.Title)}

	var body strings.Builder
	if e.URL != nil {
		fmt.Fprintf(&body, "<%s|%s>\n", *e.URL, *e.URL)
	}
	if e.AISummary != "" {
		fmt.Fprintf(&body, "%s\n", e.AISummary)
	}
	if e.TargetAudience != "" {
		fmt.Fprintf(&body, "*Best for:* %s\n", e.TargetAudience)
	}
	if len(e.Tags) > 0 {
		fmt.Fprintf(&body, "*Tags:* %s\n", formatTags(e.Tags))
	}
	if e.SecurityDisplay != "" {
		fmt.Fprintf(&body, "%s %s\n", securityEmoji[e.SecurityStatus], e.SecurityDisplay)
	}
	fmt.Fprintf(&body, "*Score:* %d (:arrow_up: %d / :arrow_down: %d)", e.Score, e.Upvotes, e.Downvotes)

	blocks = append(blocks,
		slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, body.String(), false, false),
			nil, nil),
		voteButtons(e.ID),
		slack.NewContextBlock("",
			slack.NewTextBlockObject(slack.MarkdownType,
				fmt.Sprintf("ID: `%s` | added by <@%s>", e.ID, e.AuthorID), false, false)),
	)
	return blocks
}

func entryListBlocks(title string, entries []models.EntryWithScore) []slack.Block {
	if len(entries) == 0 {
		return []slack.Block{
			slack.NewSectionBlock(
				slack.NewTextBlockObject(slack.MarkdownType, "No entries found.", false, false),
				nil, nil),
		}
	}

	blocks := []slack.Block{headerBlock(title)}
	for i := range entries {
		e := &entries[i]
		line := fmt.Sprintf("*%s*  (score %d)", e.Title, e.Score)
		if e.URL != nil {
			line = fmt.Sprintf("*<%s|%s>*  (score %d)", *e.URL, e.Title, e.Score)
		}
		if len(e.Tags) > 0 {
			line += "\n" + formatTags(e.Tags)
		}
		if e.AISummary != "" && e.AISummary != "Summary generation in progress..." {
			line += "\n" + truncateText(e.AISummary, 150)
		}
		blocks = append(blocks,
			slack.NewSectionBlock(
				slack.NewTextBlockObject(slack.MarkdownType, line, false, false),
				nil,
				slack.NewAccessory(slack.NewButtonBlockElement(
					actionSuggestTag+e.ID, e.ID,
					slack.NewTextBlockObject(slack.PlainTextType, "Details", false, false)))),
			slack.NewContextBlock("",
				slack.NewTextBlockObject(slack.MarkdownType, "ID: `"+e.ID+"`", false, false)),
		)
	}
	return blocks
}

func adminEntryListBlocks(title string, entries []models.EntryWithScore) []slack.Block {
	blocks := []slack.Block{headerBlock(title)}
	if len(entries) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, "No entries.", false, false),
			nil, nil))
		return blocks
	}
	for i := range entries {
		e := &entries[i]
		line := fmt.Sprintf("*%s*\nscore %d (:arrow_up: %d / :arrow_down: %d) | security: %s\nID: `%s`",
			e.Title, e.Score, e.Upvotes, e.Downvotes, string(e.SecurityStatus), e.ID)
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, line, false, false),
			nil,
			slack.NewAccessory(slack.NewButtonBlockElement(
				actionAdminEdit+e.ID, e.ID,
				slack.NewTextBlockObject(slack.PlainTextType, "Edit", false, false)))))
	}
	return blocks
}

func suggestionBlocks(s *models.TagSuggestion, entryTitle string) []slack.Block {
	text := fmt.Sprintf("Tag suggestion `%s`", s.SuggestedTag)
	if entryTitle != "" {
		text += " for *" + entryTitle + "*"
	}
	text += fmt.Sprintf("\nnet votes: %d (:arrow_up: %d / :arrow_down: %d) | status: %s\nID: `%s`",
		s.NetVotes, s.Upvotes, s.Downvotes, string(s.Status), s.ID)

	blocks := []slack.Block{
		slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, text, false, false),
			nil, nil),
	}
	if s.Status == models.SuggestionPending {
		blocks = append(blocks, tagVoteButtons(s.ID))
	}
	return blocks
}

func pendingSuggestionBlocks(rows []repositories.PendingSuggestion) []slack.Block {
	blocks := []slack.Block{headerBlock("Pending tag suggestions")}
	if len(rows) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, "No pending suggestions.", false, false),
			nil, nil))
		return blocks
	}
	for i := range rows {
		s := &rows[i]
		line := fmt.Sprintf("`%s` on *%s*\nnet %d (:arrow_up: %d / :arrow_down: %d) | suggested by <@%s>\nID: `%s`",
			s.SuggestedTag, s.EntryTitle, s.NetVotes, s.Upvotes, s.Downvotes, s.SuggestedBy, s.ID)
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, line, false, false),
			nil, nil))
	}
	return blocks
}

func tagCatalogBlocks(catalog *services.TagCatalog) []slack.Block {
	blocks := []slack.Block{headerBlock("Tags")}

	var core strings.Builder
	core.WriteString("*Core tags in use:*\n")
	if len(catalog.Core) == 0 {
		core.WriteString("_none yet_")
	}
	for _, t := range catalog.Core {
		fmt.Fprintf(&core, "`%s` (%d)  ", t.Tag, t.Count)
	}
	blocks = append(blocks, slack.NewSectionBlock(
		slack.NewTextBlockObject(slack.MarkdownType, strings.TrimSpace(core.String()), false, false),
		nil, nil))

	var community strings.Builder
	community.WriteString("*Community tags:*\n")
	if len(catalog.Community) == 0 {
		community.WriteString("_none yet. Suggest one with `/aitools-suggest-tag`_")
	}
	for _, t := range catalog.Community {
		fmt.Fprintf(&community, "`%s` (%d)  ", t.Tag, t.Count)
	}
	blocks = append(blocks, slack.NewSectionBlock(
		slack.NewTextBlockObject(slack.MarkdownType, strings.TrimSpace(community.String()), false, false),
		nil, nil))

	return blocks
}

func voteButtons(entryID string) *slack.ActionBlock {
	return slack.NewActionBlock("vote_"+entryID,
		slack.NewButtonBlockElement(actionUpvote+entryID, entryID,
			slack.NewTextBlockObject(slack.PlainTextType, ":arrow_up: Upvote", true, false)),
		slack.NewButtonBlockElement(actionDownvote+entryID, entryID,
			slack.NewTextBlockObject(slack.PlainTextType, ":arrow_down: Downvote", true, false)),
	)
}

func tagVoteButtons(suggestionID string) *slack.ActionBlock {
	return slack.NewActionBlock("tag_vote_"+suggestionID,
		slack.NewButtonBlockElement(actionUpvoteTag+suggestionID, suggestionID,
			slack.NewTextBlockObject(slack.PlainTextType, ":arrow_up: Yes", true, false)),
		slack.NewButtonBlockElement(actionDownvoteTag+suggestionID, suggestionID,
			slack.NewTextBlockObject(slack.PlainTextType, ":arrow_down: No", true, false)),
	)
}

func headerBlock(text string) *slack.HeaderBlock {
	return slack.NewHeaderBlock(
		slack.NewTextBlockObject(slack.PlainTextType, truncateText(text, 150), false, false))
}

func formatTags(tags []string) string {
	parts := make([]string, 0, len(tags))
	for _, t := range tags {
		parts = append(parts, "`"+t+"`")
	}
	return strings.Join(parts, " ")
}

func entryFieldsText(e *models.Entry) string {
	return fmt.Sprintf("*%s*\nID: `%s`\ntitle: %s\ndescription: %s\nsummary: %s\naudience: %s\ntags: %s\nsecurity: %s",
		e.Title, e.ID, e.Title, e.Description, e.AISummary, e.TargetAudience,
		strings.Join(e.Tags, ", "), string(e.SecurityStatus))
}

func truncateText(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

const helpText = "*AI Tools Wiki*\n" +
	"`/aitools-add <title> | <url or description>` - add a tool\n" +
	"`/aitools-search <keyword>` - search tools\n" +
	"`/aitools-list [tag]` - list tools, optionally by tag\n" +
	"`/aitools-top [limit]` - highest voted tools\n" +
	"`/aitools-tags` - available tags\n" +
	"`/aitools-suggest-tag <entry_id> <tag>` - suggest a community tag\n" +
	"Vote with the :arrow_up: / :arrow_down: buttons on any entry."

const adminHelpText = "*Admin commands*\n" +
	"`/aitools-admin-list [limit]`\n" +
	"`/aitools-admin-search <keyword>`\n" +
	"`/aitools-admin-edit <entry_id> [field: value ...]`\n" +
	"`/aitools-admin-retag <entry_id>`\n" +
	"`/aitools-admin-delete <entry_id>`\n" +
	"`/aitools-admin-suggestions`\n" +
	"`/aitools-admin-promote-tag <tag>`\n" +
	"`/aitools-admin-reject-tag <suggestion_id>`"
