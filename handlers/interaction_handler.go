package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/slack-go/slack"
)

// HandleInteraction processes Block Kit button clicks. The vote writes are
// single fast statements, so the work runs inline before the ack; results go
// back through the interaction's response_url.
func (h *SlackHandler) HandleInteraction(c *gin.Context) {
	payload := c.PostForm("payload")
	if payload == "" {
		c.String(http.StatusBadRequest, "missing payload")
		return
	}

	var callback slack.InteractionCallback
	if err := json.Unmarshal([]byte(payload), &callback); err != nil {
		c.String(http.StatusBadRequest, "could not parse payload")
		return
	}
	if len(callback.ActionCallback.BlockActions) == 0 {
		c.Status(http.StatusOK)
		return
	}

	action := callback.ActionCallback.BlockActions[0]
	userID := callback.User.ID
	responseURL := callback.ResponseURL

	// Longest prefixes first: upvote_tag_ also matches upvote_.
	switch {
	case strings.HasPrefix(action.ActionID, actionUpvoteTag):
		h.handleTagVote(responseURL, strings.TrimPrefix(action.ActionID, actionUpvoteTag), userID, 1)
	case strings.HasPrefix(action.ActionID, actionDownvoteTag):
		h.handleTagVote(responseURL, strings.TrimPrefix(action.ActionID, actionDownvoteTag), userID, -1)
	case strings.HasPrefix(action.ActionID, actionUpvote):
		h.handleEntryVote(responseURL, strings.TrimPrefix(action.ActionID, actionUpvote), userID, 1)
	case strings.HasPrefix(action.ActionID, actionDownvote):
		h.handleEntryVote(responseURL, strings.TrimPrefix(action.ActionID, actionDownvote), userID, -1)
	case strings.HasPrefix(action.ActionID, actionSuggestTag):
		h.handleEntryDetails(responseURL, strings.TrimPrefix(action.ActionID, actionSuggestTag))
	case strings.HasPrefix(action.ActionID, actionAdminEdit):
		h.handleEditButton(responseURL, strings.TrimPrefix(action.ActionID, actionAdminEdit), userID)
	}

	c.Status(http.StatusOK)
}

func (h *SlackHandler) handleEntryVote(responseURL, entryID, userID string, value int) {
	entry, err := h.entries.Vote(entryID, userID, value)
	if err != nil {
		h.webhookText(responseURL, userMessage(err))
		return
	}
	h.webhookText(responseURL, fmt.Sprintf(
		"Vote recorded. *%s* now has score %d (:arrow_up: %d / :arrow_down: %d).",
		entry.Title, entry.Score, entry.Upvotes, entry.Downvotes))
}

func (h *SlackHandler) handleTagVote(responseURL, suggestionID, userID string, value int) {
	suggestion, promoted, err := h.suggestions.Vote(suggestionID, userID, value)
	if err != nil {
		h.webhookText(responseURL, userMessage(err))
		return
	}

	if promoted {
		err := h.postWebhook(responseURL, &slack.WebhookMessage{
			ResponseType: slack.ResponseTypeInChannel,
			Text: fmt.Sprintf(":tada: Tag `%s` reached %d net votes and is now an approved community tag!",
				suggestion.SuggestedTag, suggestion.NetVotes),
		})
		if err != nil {
			h.log.Error("webhook post failed", "error", err.Error())
		}
		return
	}

	h.webhookText(responseURL, fmt.Sprintf(
		"Vote recorded. `%s` is at %d net votes (:arrow_up: %d / :arrow_down: %d).",
		suggestion.SuggestedTag, suggestion.NetVotes, suggestion.Upvotes, suggestion.Downvotes))
}

func (h *SlackHandler) handleEntryDetails(responseURL, entryID string) {
	entry, err := h.entries.Get(entryID)
	if err != nil {
		h.webhookText(responseURL, userMessage(err))
		return
	}
	err = h.postWebhook(responseURL, &slack.WebhookMessage{
		ResponseType: slack.ResponseTypeEphemeral,
		Blocks:       &slack.Blocks{BlockSet: entryBlocks(entry)},
	})
	if err != nil {
		h.log.Error("webhook post failed", "error", err.Error())
	}
}

func (h *SlackHandler) handleEditButton(responseURL, entryID, userID string) {
	if !h.cfg.IsAdmin(userID) {
		h.webhookText(responseURL, "Sorry, admin commands are restricted.")
		return
	}
	entry, err := h.entries.Get(entryID)
	if err != nil {
		h.webhookText(responseURL, userMessage(err))
		return
	}
	h.webhookText(responseURL, entryFieldsText(&entry.Entry)+
		"\n\nEdit with `/aitools-admin-edit "+entryID+" field: value`")
}
