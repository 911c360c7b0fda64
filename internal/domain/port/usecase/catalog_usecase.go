package usecase

import (
	"context"

	"github.com/litepremium/coin-engine/internal/domain/entity"
)

// AssetInput carries an asset definition from the admin API
type AssetInput struct {
	Name          string `json:"name"`
	Type          string `json:"type"`
	Price         string `json:"price"`         // decimal coins
	Rate          string `json:"rate"`          // decimal coins per hour, worker
	MonthlyProfit string `json:"monthlyProfit"` // decimal coins per 30 days, investor
	StockLimit    uint32 `json:"stockLimit"`
	LifecycleDays int    `json:"lifecycleDays"`
	Icon          string `json:"icon"`
}

// PurchaseResult reports the outcome of a completed purchase
type PurchaseResult struct {
	Holding    *entity.Holding `json:"holding"`
	Balance    string          `json:"balance"`
	MiningRate string          `json:"miningRate"`
}

// CatalogUseCase defines methods for the asset catalog and purchases
type CatalogUseCase interface {
	// ListAssets returns the purchasable catalog ordered by price
	ListAssets(ctx context.Context) ([]*entity.Asset, error)

	// ListHoldings returns a user's holdings, newest first
	ListHoldings(ctx context.Context, userID uint64) ([]*entity.Holding, error)

	// Purchase atomically debits the price, reserves a unit of stock and
	// creates the holding. Buying a worker replaces the equipped worker;
	// buying an investor stacks on top of existing holdings.
	Purchase(ctx context.Context, userID, assetID uint64) (*PurchaseResult, error)

	// CreateAsset adds a new asset definition to the catalog
	CreateAsset(ctx context.Context, input AssetInput) (*entity.Asset, error)

	// UpdateAsset modifies an existing asset definition. Holdings keep the
	// terms they were bought under.
	UpdateAsset(ctx context.Context, assetID uint64, input AssetInput) (*entity.Asset, error)

	// DeleteAsset removes an asset from the catalog
	DeleteAsset(ctx context.Context, assetID uint64) error
}
