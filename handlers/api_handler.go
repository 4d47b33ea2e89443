package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/dslans/bot-aitools/helper"
	"github.com/dslans/bot-aitools/models"
	"github.com/dslans/bot-aitools/services"
)

// APIHandler serves the JSON read API: public catalog reads plus the
// JWT-protected admin views.
type APIHandler struct {
	entries     services.EntryService
	suggestions services.SuggestionService
	tags        services.TagService
	httpHelper  *helper.HTTPHelper
}

func NewAPIHandler(
	entries services.EntryService,
	suggestions services.SuggestionService,
	tags services.TagService,
) *APIHandler {
	return &APIHandler{
		entries:     entries,
		suggestions: suggestions,
		tags:        tags,
		httpHelper:  &helper.HTTPHelper{},
	}
}

func (h *APIHandler) GetEntries(c *gin.Context) {
	var params models.EntryListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.httpHelper.SendBadRequest(c, err.Error(), h.httpHelper.EmptyJsonMap())
		return
	}

	var rows []models.EntryWithScore
	var err error
	if params.Keyword != "" {
		rows, err = h.entries.Search(params.Keyword)
	} else {
		rows, err = h.entries.List(params.Tag)
	}
	if err != nil {
		h.httpHelper.SendBadRequest(c, "could not list entries", h.httpHelper.EmptyJsonMap())
		return
	}

	h.httpHelper.SendSuccess(c, "", rows)
}

func (h *APIHandler) GetEntry(c *gin.Context) {
	entry, err := h.entries.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrEntryNotFound) {
			h.httpHelper.SendNotFoundError(c, "entry not found", h.httpHelper.EmptyJsonMap())
			return
		}
		h.httpHelper.SendBadRequest(c, "could not load entry", h.httpHelper.EmptyJsonMap())
		return
	}

	h.httpHelper.SendSuccess(c, "", entry)
}

func (h *APIHandler) GetTags(c *gin.Context) {
	catalog, err := h.tags.Catalog()
	if err != nil {
		h.httpHelper.SendBadRequest(c, "could not load tags", h.httpHelper.EmptyJsonMap())
		return
	}

	h.httpHelper.SendSuccess(c, "", catalog)
}

func (h *APIHandler) GetAdminEntries(c *gin.Context) {
	var params models.EntryListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.httpHelper.SendBadRequest(c, err.Error(), h.httpHelper.EmptyJsonMap())
		return
	}

	rows, err := h.entries.AdminList(params.Limit)
	if err != nil {
		h.httpHelper.SendBadRequest(c, "could not list entries", h.httpHelper.EmptyJsonMap())
		return
	}

	h.httpHelper.SendSuccess(c, "", rows)
}

func (h *APIHandler) GetAdminSuggestions(c *gin.Context) {
	rows, err := h.suggestions.Pending(maxAdminListLimit)
	if err != nil {
		h.httpHelper.SendBadRequest(c, "could not list suggestions", h.httpHelper.EmptyJsonMap())
		return
	}

	h.httpHelper.SendSuccess(c, "", rows)
}
