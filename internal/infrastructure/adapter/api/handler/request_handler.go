package handler

import (
	"net/http"

	coreport "github.com/litepremium/coin-engine/internal/domain/port/core"
	"github.com/litepremium/coin-engine/internal/domain/port/usecase"
	"github.com/litepremium/coin-engine/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// RequestHandler handles deposit and withdrawal HTTP requests
type RequestHandler struct {
	requestUseCase usecase.RequestUseCase
	logger         coreport.Logger
}

// NewRequestHandler creates a new request handler instance
func NewRequestHandler(requestUseCase usecase.RequestUseCase, logger coreport.Logger) *RequestHandler {
	return &RequestHandler{
		requestUseCase: requestUseCase,
		logger:         logger,
	}
}

// SubmitDeposit handles POST /user/:userId/deposits
func (h *RequestHandler) SubmitDeposit(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	var payload dto.DepositRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}

	req, err := h.requestUseCase.SubmitDeposit(c.Request.Context(), userID, usecase.DepositInput{
		Amount:        payload.Amount,
		Method:        payload.Method,
		SenderNumber:  payload.SenderNumber,
		TransactionID: payload.TransactionID,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewDepositResponse(req))
}

// ListDeposits handles GET /user/:userId/deposits
func (h *RequestHandler) ListDeposits(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	requests, err := h.requestUseCase.ListUserDeposits(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	responses := make([]dto.DepositResponse, 0, len(requests))
	for _, req := range requests {
		responses = append(responses, dto.NewDepositResponse(req))
	}
	c.JSON(http.StatusOK, responses)
}

// SubmitWithdrawal handles POST /user/:userId/withdrawals
func (h *RequestHandler) SubmitWithdrawal(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	var payload dto.WithdrawalRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}

	req, err := h.requestUseCase.SubmitWithdrawal(c.Request.Context(), userID, usecase.WithdrawalInput{
		Amount:       payload.Amount,
		Method:       payload.Method,
		PayoutNumber: payload.PayoutNumber,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewWithdrawalResponse(req))
}

// ListWithdrawals handles GET /user/:userId/withdrawals
func (h *RequestHandler) ListWithdrawals(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	requests, err := h.requestUseCase.ListUserWithdrawals(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	responses := make([]dto.WithdrawalResponse, 0, len(requests))
	for _, req := range requests {
		responses = append(responses, dto.NewWithdrawalResponse(req))
	}
	c.JSON(http.StatusOK, responses)
}

// ListPendingDeposits handles GET /admin/deposits
func (h *RequestHandler) ListPendingDeposits(c *gin.Context) {
	requests, err := h.requestUseCase.ListPendingDeposits(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	responses := make([]dto.DepositResponse, 0, len(requests))
	for _, req := range requests {
		responses = append(responses, dto.NewDepositResponse(req))
	}
	c.JSON(http.StatusOK, responses)
}

// ResolveDeposit handles POST /admin/deposits/:requestId/resolve
func (h *RequestHandler) ResolveDeposit(c *gin.Context) {
	requestID, ok := parseIDParam(c, "requestId")
	if !ok {
		return
	}

	var payload dto.ResolveRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}

	req, err := h.requestUseCase.ResolveDeposit(c.Request.Context(), requestID, payload.Approve)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewDepositResponse(req))
}

// ListPendingWithdrawals handles GET /admin/withdrawals
func (h *RequestHandler) ListPendingWithdrawals(c *gin.Context) {
	requests, err := h.requestUseCase.ListPendingWithdrawals(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	responses := make([]dto.WithdrawalResponse, 0, len(requests))
	for _, req := range requests {
		responses = append(responses, dto.NewWithdrawalResponse(req))
	}
	c.JSON(http.StatusOK, responses)
}

// ResolveWithdrawal handles POST /admin/withdrawals/:requestId/resolve
func (h *RequestHandler) ResolveWithdrawal(c *gin.Context) {
	requestID, ok := parseIDParam(c, "requestId")
	if !ok {
		return
	}

	var payload dto.ResolveRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}

	req, err := h.requestUseCase.ResolveWithdrawal(c.Request.Context(), requestID, payload.Approve)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewWithdrawalResponse(req))
}
