package handler

import (
	"net/http"

	coreport "github.com/litepremium/coin-engine/internal/domain/port/core"
	"github.com/litepremium/coin-engine/internal/domain/port/usecase"
	"github.com/litepremium/coin-engine/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// AdminHandler handles admin panel HTTP requests for users and settings
type AdminHandler struct {
	userUseCase     usecase.UserUseCase
	settingsUseCase usecase.SettingsUseCase
	logger          coreport.Logger
}

// NewAdminHandler creates a new admin handler instance
func NewAdminHandler(
	userUseCase usecase.UserUseCase,
	settingsUseCase usecase.SettingsUseCase,
	logger coreport.Logger,
) *AdminHandler {
	return &AdminHandler{
		userUseCase:     userUseCase,
		settingsUseCase: settingsUseCase,
		logger:          logger,
	}
}

// ListUsers handles GET /admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.userUseCase.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, dto.NewUserResponse(user))
	}
	c.JSON(http.StatusOK, responses)
}

// AdjustBalance handles POST /admin/users/:userId/adjust
func (h *AdminHandler) AdjustBalance(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	var payload dto.AdjustBalanceRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}

	balance, err := h.userUseCase.AdjustBalance(c.Request.Context(), userID, payload.Delta, payload.Note)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, balance)
}

// SetBadge handles PUT /admin/users/:userId/badge
func (h *AdminHandler) SetBadge(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	var payload dto.SetBadgeRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}

	if err := h.userUseCase.SetBadge(c.Request.Context(), userID, payload.Badge); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// SetStatus handles PUT /admin/users/:userId/status
func (h *AdminHandler) SetStatus(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	var payload dto.SetStatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}

	if err := h.userUseCase.SetStatus(c.Request.Context(), userID, payload.Status); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteUser handles DELETE /admin/users/:userId
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	if err := h.userUseCase.DeleteUser(c.Request.Context(), userID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetSettings handles GET /settings
func (h *AdminHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsUseCase.Get(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSettingsResponse(settings))
}

// UpdateSetting handles PUT /admin/settings
func (h *AdminHandler) UpdateSetting(c *gin.Context) {
	var payload dto.UpdateSettingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}

	settings, err := h.settingsUseCase.UpdateField(c.Request.Context(), payload.Field, payload.Value)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSettingsResponse(settings))
}
