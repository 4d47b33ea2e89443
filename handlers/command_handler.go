package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/slack-go/slack"

	"github.com/dslans/bot-aitools/config"
	"github.com/dslans/bot-aitools/models"
	"github.com/dslans/bot-aitools/services"
)

// addToolTimeout bounds the background scrape+enrichment work spawned after
// the slash command has already been acknowledged.
const addToolTimeout = 90 * time.Second

type SlackHandler struct {
	entries     services.EntryService
	suggestions services.SuggestionService
	tags        services.TagService
	cfg         *config.Config
	log         *slog.Logger

	// postWebhook delivers deferred results to a command's response_url.
	postWebhook func(url string, msg *slack.WebhookMessage) error
}

func NewSlackHandler(
	entries services.EntryService,
	suggestions services.SuggestionService,
	tags services.TagService,
	cfg *config.Config,
	log *slog.Logger,
) *SlackHandler {
	return &SlackHandler{
		entries:     entries,
		suggestions: suggestions,
		tags:        tags,
		cfg:         cfg,
		log:         log,
		postWebhook: slack.PostWebhook,
	}
}

// HandleCommand dispatches slash commands. Slack expects a response within
// 3 seconds, so anything slower acks here and reports via response_url.
func (h *SlackHandler) HandleCommand(c *gin.Context) {
	cmd, err := slack.SlashCommandParse(c.Request)
	if err != nil {
		c.String(http.StatusBadRequest, "could not parse command")
		return
	}

	if strings.HasPrefix(cmd.Command, "/aitools-admin") {
		h.handleAdminCommand(c, cmd)
		return
	}

	switch cmd.Command {
	case "/aitools-add":
		h.handleAdd(c, cmd)
	case "/aitools-search":
		h.handleSearch(c, cmd)
	case "/aitools-list":
		h.handleList(c, cmd)
	case "/aitools-top":
		h.handleTop(c, cmd)
	case "/aitools-tags":
		h.handleTags(c)
	case "/aitools-suggest-tag":
		h.handleSuggestTag(c, cmd)
	default:
		ephemeral(c, helpText)
	}
}

func (h *SlackHandler) handleAdd(c *gin.Context, cmd slack.SlashCommand) {
	title, content, ok := strings.Cut(cmd.Text, "|")
	if !ok || strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		ephemeral(c, "Usage: `/aitools-add <title> | <url or description>`")
		return
	}

	ephemeral(c, ":hourglass: Processing your submission...")

	go h.finishAdd(cmd, strings.TrimSpace(title), strings.TrimSpace(content))
}

// finishAdd runs the slow part of Add after the ack and posts the outcome to
// the command's response_url.
func (h *SlackHandler) finishAdd(cmd slack.SlashCommand, title, content string) {
	ctx, cancel := context.WithTimeout(context.Background(), addToolTimeout)
	defer cancel()

	entry, existing, err := h.entries.AddTool(ctx, title, content, cmd.UserID)
	if err != nil {
		h.webhookText(cmd.ResponseURL, "Could not add the tool: "+userMessage(err))
		return
	}

	scored, err := h.entries.Get(entry.ID)
	if err != nil {
		scored = &models.EntryWithScore{Entry: *entry}
	}

	msg := &slack.WebhookMessage{
		ResponseType: slack.ResponseTypeInChannel,
		Blocks:       &slack.Blocks{BlockSet: entryBlocks(scored)},
	}
	if existing {
		msg.ResponseType = slack.ResponseTypeEphemeral
		msg.Text = "This tool is already in the wiki:"
	}
	if err := h.postWebhook(cmd.ResponseURL, msg); err != nil {
		h.log.Error("webhook post failed",
			slog.String("entry_id", entry.ID),
			slog.String("error", err.Error()))
	}
}

func (h *SlackHandler) handleSearch(c *gin.Context, cmd slack.SlashCommand) {
	keyword := strings.TrimSpace(cmd.Text)
	if keyword == "" {
		ephemeral(c, "Usage: `/aitools-search <keyword>`")
		return
	}
	rows, err := h.entries.Search(keyword)
	if err != nil {
		h.fail(c, "search", err)
		return
	}
	ephemeralBlocks(c, entryListBlocks("Results for \""+keyword+"\"", rows))
}

func (h *SlackHandler) handleList(c *gin.Context, cmd slack.SlashCommand) {
	tag := strings.TrimSpace(cmd.Text)
	rows, err := h.entries.List(tag)
	if err != nil {
		h.fail(c, "list", err)
		return
	}
	title := "AI tools"
	if tag != "" {
		title = "AI tools tagged `" + tag + "`"
	}
	ephemeralBlocks(c, entryListBlocks(title, rows))
}

func (h *SlackHandler) handleTop(c *gin.Context, cmd slack.SlashCommand) {
	limit := 0
	if t := strings.TrimSpace(cmd.Text); t != "" {
		n, err := strconv.Atoi(t)
		if err != nil {
			ephemeral(c, "Usage: `/aitools-top [limit]` with limit between 1 and 50")
			return
		}
		limit = n
	}
	rows, err := h.entries.Top(limit)
	if err != nil {
		h.fail(c, "top", err)
		return
	}
	ephemeralBlocks(c, entryListBlocks("Top voted tools", rows))
}

func (h *SlackHandler) handleTags(c *gin.Context) {
	catalog, err := h.tags.Catalog()
	if err != nil {
		h.fail(c, "tags", err)
		return
	}
	ephemeralBlocks(c, tagCatalogBlocks(catalog))
}

func (h *SlackHandler) handleSuggestTag(c *gin.Context, cmd slack.SlashCommand) {
	fields := strings.Fields(cmd.Text)
	if len(fields) < 2 {
		ephemeral(c, "Usage: `/aitools-suggest-tag <entry_id> <tag>`")
		return
	}
	entryID := fields[0]
	tag := strings.Join(fields[1:], " ")

	suggestion, created, err := h.suggestions.Suggest(entryID, tag, cmd.UserID)
	if err != nil {
		ephemeral(c, userMessage(err))
		return
	}

	text := "Tag suggestion opened. Vote below:"
	if !created {
		text = "This tag was already suggested. Vote below:"
	}
	c.JSON(http.StatusOK, slack.Msg{
		ResponseType: slack.ResponseTypeInChannel,
		Text:         text,
		Blocks:       slack.Blocks{BlockSet: suggestionBlocks(suggestion, "")},
	})
}

func (h *SlackHandler) webhookText(url, text string) {
	err := h.postWebhook(url, &slack.WebhookMessage{
		ResponseType: slack.ResponseTypeEphemeral,
		Text:         text,
	})
	if err != nil {
		h.log.Error("webhook post failed", slog.String("error", err.Error()))
	}
}

func (h *SlackHandler) fail(c *gin.Context, op string, err error) {
	h.log.Error("command failed", slog.String("op", op), slog.String("error", err.Error()))
	ephemeral(c, "Something went wrong, please try again.")
}

func ephemeral(c *gin.Context, text string) {
	c.JSON(http.StatusOK, slack.Msg{
		ResponseType: slack.ResponseTypeEphemeral,
		Text:         text,
	})
}

func ephemeralBlocks(c *gin.Context, blocks []slack.Block) {
	c.JSON(http.StatusOK, slack.Msg{
		ResponseType: slack.ResponseTypeEphemeral,
		Blocks:       slack.Blocks{BlockSet: blocks},
	})
}

// userMessage maps service sentinels to the short messages users see.
func userMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrMissingTitle), errors.Is(err, services.ErrMissingContent):
		return "Both a title and a URL or description are required."
	case errors.Is(err, services.ErrEntryNotFound):
		return "No entry with that ID."
	case errors.Is(err, services.ErrSuggestionNotFound):
		return "No suggestion with that ID."
	case errors.Is(err, services.ErrInvalidTag):
		return "That tag is empty or too long (max 30 characters)."
	case errors.Is(err, services.ErrReservedTag):
		return "That tag is part of the core vocabulary and already available."
	case errors.Is(err, services.ErrAlreadyResolved):
		return "That suggestion has already been resolved."
	case errors.Is(err, services.ErrEmptyUpdate):
		return "Nothing to update. Use `field: value` lines."
	default:
		return "Something went wrong, please try again."
	}
}
