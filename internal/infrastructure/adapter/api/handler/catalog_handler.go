package handler

import (
	"net/http"

	coreport "github.com/litepremium/coin-engine/internal/domain/port/core"
	"github.com/litepremium/coin-engine/internal/domain/port/usecase"
	"github.com/litepremium/coin-engine/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// CatalogHandler handles asset catalog HTTP requests
type CatalogHandler struct {
	catalogUseCase usecase.CatalogUseCase
	logger         coreport.Logger
}

// NewCatalogHandler creates a new catalog handler instance
func NewCatalogHandler(catalogUseCase usecase.CatalogUseCase, logger coreport.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogUseCase: catalogUseCase,
		logger:         logger,
	}
}

// ListAssets handles GET /assets
func (h *CatalogHandler) ListAssets(c *gin.Context) {
	assets, err := h.catalogUseCase.ListAssets(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	responses := make([]dto.AssetResponse, 0, len(assets))
	for _, asset := range assets {
		responses = append(responses, dto.NewAssetResponse(asset))
	}
	c.JSON(http.StatusOK, responses)
}

// ListHoldings handles GET /user/:userId/holdings
func (h *CatalogHandler) ListHoldings(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	holdings, err := h.catalogUseCase.ListHoldings(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	responses := make([]dto.HoldingResponse, 0, len(holdings))
	for _, holding := range holdings {
		responses = append(responses, dto.NewHoldingResponse(holding))
	}
	c.JSON(http.StatusOK, responses)
}

// Purchase handles POST /user/:userId/purchase
func (h *CatalogHandler) Purchase(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	var payload dto.PurchaseRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}

	result, err := h.catalogUseCase.Purchase(c.Request.Context(), userID, payload.AssetID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.PurchaseResponse{
		Holding:    dto.NewHoldingResponse(result.Holding),
		Balance:    result.Balance,
		MiningRate: result.MiningRate,
	})
}

// CreateAsset handles POST /admin/assets
func (h *CatalogHandler) CreateAsset(c *gin.Context) {
	var input usecase.AssetInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, err)
		return
	}

	asset, err := h.catalogUseCase.CreateAsset(c.Request.Context(), input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewAssetResponse(asset))
}

// UpdateAsset handles PUT /admin/assets/:assetId
func (h *CatalogHandler) UpdateAsset(c *gin.Context) {
	assetID, ok := parseIDParam(c, "assetId")
	if !ok {
		return
	}

	var input usecase.AssetInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, err)
		return
	}

	asset, err := h.catalogUseCase.UpdateAsset(c.Request.Context(), assetID, input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAssetResponse(asset))
}

// DeleteAsset handles DELETE /admin/assets/:assetId
func (h *CatalogHandler) DeleteAsset(c *gin.Context) {
	assetID, ok := parseIDParam(c, "assetId")
	if !ok {
		return
	}

	if err := h.catalogUseCase.DeleteAsset(c.Request.Context(), assetID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}
