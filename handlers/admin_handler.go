package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/slack-go/slack"

	"github.com/dslans/bot-aitools/models"
)

const maxAdminListLimit = 50

// handleAdminCommand dispatches the /aitools-admin-* family. The allow-list
// check runs before anything else so a non-admin never triggers a side
// effect.
func (h *SlackHandler) handleAdminCommand(c *gin.Context, cmd slack.SlashCommand) {
	if !h.cfg.IsAdmin(cmd.UserID) {
		ephemeral(c, "Sorry, admin commands are restricted.")
		return
	}

	switch cmd.Command {
	case "/aitools-admin":
		ephemeral(c, adminHelpText)
	case "/aitools-admin-list":
		h.handleAdminList(c, cmd)
	case "/aitools-admin-search":
		h.handleAdminSearch(c, cmd)
	case "/aitools-admin-edit":
		h.handleAdminEdit(c, cmd)
	case "/aitools-admin-retag":
		h.handleAdminRetag(c, cmd)
	case "/aitools-admin-delete":
		h.handleAdminDelete(c, cmd)
	case "/aitools-admin-suggestions":
		h.handleAdminSuggestions(c)
	case "/aitools-admin-promote-tag":
		h.handleAdminPromoteTag(c, cmd)
	case "/aitools-admin-reject-tag":
		h.handleAdminRejectTag(c, cmd)
	default:
		ephemeral(c, adminHelpText)
	}
}

func (h *SlackHandler) handleAdminList(c *gin.Context, cmd slack.SlashCommand) {
	limit := 20
	if t := strings.TrimSpace(cmd.Text); t != "" {
		if n, err := strconv.Atoi(t); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxAdminListLimit {
		limit = maxAdminListLimit
	}
	rows, err := h.entries.AdminList(limit)
	if err != nil {
		h.fail(c, "admin-list", err)
		return
	}
	ephemeralBlocks(c, adminEntryListBlocks("All entries", rows))
}

func (h *SlackHandler) handleAdminSearch(c *gin.Context, cmd slack.SlashCommand) {
	keyword := strings.TrimSpace(cmd.Text)
	if keyword == "" {
		ephemeral(c, "Usage: `/aitools-admin-search <keyword>`")
		return
	}
	rows, err := h.entries.Search(keyword)
	if err != nil {
		h.fail(c, "admin-search", err)
		return
	}
	ephemeralBlocks(c, adminEntryListBlocks("Results for \""+keyword+"\"", rows))
}

func (h *SlackHandler) handleAdminEdit(c *gin.Context, cmd slack.SlashCommand) {
	text := strings.TrimSpace(cmd.Text)
	if text == "" {
		ephemeral(c, "Usage: `/aitools-admin-edit <entry_id> [field: value ...]`")
		return
	}

	id, rest := text, ""
	if i := strings.IndexAny(text, " \n"); i >= 0 {
		id, rest = text[:i], text[i+1:]
	}

	update := parseEditFields(rest)
	if update.Empty() {
		// No edits given: show the current fields and the accepted syntax.
		entry, err := h.entries.Get(id)
		if err != nil {
			ephemeral(c, userMessage(err))
			return
		}
		ephemeral(c, entryFieldsText(&entry.Entry)+
			"\n\nEdit with lines like:\n`/aitools-admin-edit "+id+" title: New name`\n"+
			"Fields: title, description, summary, audience, tags (comma-separated).")
		return
	}

	entry, err := h.entries.UpdateEntry(id, update)
	if err != nil {
		ephemeral(c, userMessage(err))
		return
	}
	ephemeral(c, "Updated.\n"+entryFieldsText(entry))
}

// parseEditFields reads "field: value" lines. Unknown field names are
// ignored rather than failing the whole edit.
func parseEditFields(text string) models.EntryUpdate {
	var update models.EntryUpdate
	for _, line := range strings.Split(text, "\n") {
		field, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.ToLower(strings.TrimSpace(field)) {
		case "title":
			update.Title = &value
		case "description":
			update.Description = &value
		case "summary":
			update.AISummary = &value
		case "audience":
			update.TargetAudience = &value
		case "tags":
			tags := []string{}
			for _, t := range strings.Split(value, ",") {
				if t = strings.TrimSpace(t); t != "" {
					tags = append(tags, t)
				}
			}
			update.Tags = tags
		}
	}
	return update
}

func (h *SlackHandler) handleAdminRetag(c *gin.Context, cmd slack.SlashCommand) {
	id := strings.TrimSpace(cmd.Text)
	if id == "" {
		ephemeral(c, "Usage: `/aitools-admin-retag <entry_id>`")
		return
	}

	ephemeral(c, ":hourglass: Re-running enrichment...")

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), addToolTimeout)
		defer cancel()
		entry, err := h.entries.Retag(ctx, id)
		if err != nil {
			h.webhookText(cmd.ResponseURL, "Retag failed: "+userMessage(err))
			return
		}
		h.webhookText(cmd.ResponseURL, "Retagged.\n"+entryFieldsText(entry))
	}()
}

func (h *SlackHandler) handleAdminDelete(c *gin.Context, cmd slack.SlashCommand) {
	id := strings.TrimSpace(cmd.Text)
	if id == "" {
		ephemeral(c, "Usage: `/aitools-admin-delete <entry_id>`")
		return
	}
	if err := h.entries.Delete(id); err != nil {
		ephemeral(c, userMessage(err))
		return
	}
	ephemeral(c, "Entry `"+id+"` and its votes were deleted.")
}

func (h *SlackHandler) handleAdminSuggestions(c *gin.Context) {
	rows, err := h.suggestions.Pending(maxAdminListLimit)
	if err != nil {
		h.fail(c, "admin-suggestions", err)
		return
	}
	ephemeralBlocks(c, pendingSuggestionBlocks(rows))
}

func (h *SlackHandler) handleAdminPromoteTag(c *gin.Context, cmd slack.SlashCommand) {
	tag := strings.TrimSpace(cmd.Text)
	if tag == "" {
		ephemeral(c, "Usage: `/aitools-admin-promote-tag <tag>`")
		return
	}
	normalized, err := h.suggestions.PromoteTag(tag, cmd.UserID)
	if err != nil {
		ephemeral(c, userMessage(err))
		return
	}
	c.JSON(http.StatusOK, slack.Msg{
		ResponseType: slack.ResponseTypeInChannel,
		Text:         "Tag `" + normalized + "` is now an approved community tag.",
	})
}

func (h *SlackHandler) handleAdminRejectTag(c *gin.Context, cmd slack.SlashCommand) {
	id := strings.TrimSpace(cmd.Text)
	if id == "" {
		ephemeral(c, "Usage: `/aitools-admin-reject-tag <suggestion_id>`")
		return
	}
	suggestion, err := h.suggestions.Reject(id)
	if err != nil {
		ephemeral(c, userMessage(err))
		return
	}
	ephemeral(c, "Suggestion `"+suggestion.SuggestedTag+"` was rejected.")
}
