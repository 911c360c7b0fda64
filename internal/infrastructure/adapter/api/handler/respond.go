package handler

import (
	"errors"
	"net/http"
	"strconv"

	domainerr "github.com/litepremium/coin-engine/internal/domain/error"
	coreport "github.com/litepremium/coin-engine/internal/domain/port/core"
	"github.com/litepremium/coin-engine/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// parseUserID extracts and validates the userId path parameter
func parseUserID(c *gin.Context) (uint64, bool) {
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil || userID == 0 {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(domainerr.ErrorCode(domainerr.ErrInvalidUserID), "Invalid user ID format"))
		return 0, false
	}
	return userID, true
}

// parseIDParam extracts a generic numeric id path parameter
func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(domainerr.ErrorCode(domainerr.ErrInvalidRequest), "Invalid " + name + " format"))
		return 0, false
	}
	return id, true
}

// respondError maps a domain error to its HTTP status and writes the response
func respondError(c *gin.Context, logger coreport.Logger, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, domainerr.ErrInvalidAmount),
		errors.Is(err, domainerr.ErrInvalidRequest),
		errors.Is(err, domainerr.ErrInvalidUserID),
		errors.Is(err, domainerr.ErrBelowMinimum):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, domainerr.ErrInsufficientBalance):
		status = http.StatusUnprocessableEntity
		message = err.Error()
	case errors.Is(err, domainerr.ErrSoldOut),
		errors.Is(err, domainerr.ErrDuplicateTransaction),
		errors.Is(err, domainerr.ErrInvalidStateTransition),
		errors.Is(err, domainerr.ErrDuplicateUser),
		errors.Is(err, domainerr.ErrDuplicateAsset),
		errors.Is(err, domainerr.ErrSettingsConflict):
		status = http.StatusConflict
		message = err.Error()
	case domainerr.IsNotFoundError(err):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, domainerr.ErrUserBanned),
		errors.Is(err, domainerr.ErrUnauthorized):
		status = http.StatusForbidden
		message = err.Error()
	case domainerr.IsUserLockedError(err):
		status = http.StatusLocked
		message = err.Error()
	}

	if status == http.StatusInternalServerError {
		logger.Error("Request failed", map[string]any{
			"path":  c.Request.URL.Path,
			"error": err.Error(),
		})
	}

	c.JSON(status, dto.NewErrorResponse(domainerr.ErrorCode(err), message))
}

// respondBadRequest writes a 400 for malformed payloads
func respondBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(domainerr.ErrorCode(domainerr.ErrInvalidRequest), "Invalid request payload: " + err.Error()))
}
