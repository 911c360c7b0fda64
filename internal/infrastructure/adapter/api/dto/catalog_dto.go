package dto

import (
	"time"

	"github.com/litepremium/coin-engine/internal/domain/entity"
)

// AssetResponse represents a catalog asset in API responses
type AssetResponse struct {
	ID            uint64 `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	Price         string `json:"price"`
	HourlyReturn  string `json:"hourlyReturn"`
	StockLimit    uint32 `json:"stockLimit"`
	UnitsSold     uint32 `json:"unitsSold"`
	InStock       bool   `json:"inStock"`
	LifecycleDays int    `json:"lifecycleDays"`
	Icon          string `json:"icon,omitempty"`
}

// NewAssetResponse maps an asset entity to its API representation
func NewAssetResponse(asset *entity.Asset) AssetResponse {
	return AssetResponse{
		ID:            asset.ID,
		Name:          asset.Name,
		Type:          string(asset.Type),
		Price:         entity.FormatCoins(asset.Price),
		HourlyReturn:  entity.FormatCoins(asset.HourlyReturn()),
		StockLimit:    asset.StockLimit,
		UnitsSold:     asset.UnitsSold,
		InStock:       asset.InStock(),
		LifecycleDays: asset.LifecycleDays,
		Icon:          asset.Icon,
	}
}

// HoldingResponse represents a purchased holding in API responses
type HoldingResponse struct {
	ID           uint64     `json:"id"`
	AssetName    string     `json:"assetName"`
	AssetType    string     `json:"assetType"`
	AmountPaid   string     `json:"amountPaid"`
	HourlyReturn string     `json:"hourlyReturn"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"createdAt"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty"`
}

// NewHoldingResponse maps a holding entity to its API representation
func NewHoldingResponse(holding *entity.Holding) HoldingResponse {
	resp := HoldingResponse{
		ID:           holding.ID,
		AssetName:    holding.AssetName,
		AssetType:    string(holding.AssetType),
		AmountPaid:   entity.FormatCoins(holding.AmountPaid),
		HourlyReturn: entity.FormatCoins(holding.HourlyReturn),
		Status:       string(holding.Status),
		CreatedAt:    holding.CreatedAt,
	}
	if !holding.ExpiresAt.IsZero() {
		expiresAt := holding.ExpiresAt
		resp.ExpiresAt = &expiresAt
	}
	return resp
}

// PurchaseRequest represents the payload for buying an asset
type PurchaseRequest struct {
	AssetID uint64 `json:"assetId" binding:"required"`
}

// PurchaseResponse represents the outcome of a completed purchase
type PurchaseResponse struct {
	Holding    HoldingResponse `json:"holding"`
	Balance    string          `json:"balance"`
	MiningRate string          `json:"miningRate"`
}
