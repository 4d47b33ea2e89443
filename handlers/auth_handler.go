package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/dslans/bot-aitools/helper"
	"github.com/dslans/bot-aitools/models"
	"github.com/dslans/bot-aitools/services"
)

type AuthHandler struct {
	authService services.AuthService
	httpHelper  *helper.HTTPHelper
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		httpHelper:  &helper.HTTPHelper{},
	}
}

// Login exchanges the shared admin password for a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.httpHelper.SendBadRequest(c, "password is required", h.httpHelper.EmptyJsonMap())
		return
	}

	token, err := h.authService.Login(req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			h.httpHelper.SendUnauthorizedError(c, "invalid credentials", h.httpHelper.EmptyJsonMap())
			return
		}
		h.httpHelper.SendBadRequest(c, err.Error(), h.httpHelper.EmptyJsonMap())
		return
	}

	h.httpHelper.SendSuccess(c, "login successful", models.AuthResponse{Token: token})
}
