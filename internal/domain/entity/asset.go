package entity

import (
	"fmt"
	"strings"
	"time"

	errs "github.com/litepremium/coin-engine/internal/domain/error"
)

// AssetType classifies how an asset contributes to the owner's mining rate
type AssetType string

// Asset types
const (
	// AssetWorker occupies the single worker slot; buying a new one replaces
	// the previous worker's rate contribution.
	AssetWorker AssetType = "worker"
	// AssetInvestor is stackable; each purchase adds its hourly return.
	AssetInvestor AssetType = "investor"
)

// hoursPerTerm amortizes an investor's monthly profit target to an hourly rate
const hoursPerTerm = 30 * 24

// Asset defines a purchasable yield-generating asset
type Asset struct {
	ID            uint64
	Name          string
	Type          AssetType
	Price         int64 // cents
	Rate          int64 // cents per hour, worker type only
	MonthlyProfit int64 // cents over a 30-day term, investor type only
	StockLimit    uint32 // 0 = unlimited
	UnitsSold     uint32
	LifecycleDays int // 0 = never expires
	Icon          string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate checks the asset definition invariants
func (a *Asset) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("%w: asset name is required", errs.ErrInvalidRequest)
	}
	if a.Type != AssetWorker && a.Type != AssetInvestor {
		return fmt.Errorf("%w: unknown asset type %q", errs.ErrInvalidRequest, a.Type)
	}
	if a.Price < 0 || a.Rate < 0 || a.MonthlyProfit < 0 {
		return errs.ErrInvalidAmount
	}
	if a.LifecycleDays < 0 {
		return fmt.Errorf("%w: negative lifecycle", errs.ErrInvalidRequest)
	}
	if a.StockLimit != 0 && a.UnitsSold > a.StockLimit {
		return fmt.Errorf("%w: units sold exceeds stock limit", errs.ErrInvalidRequest)
	}
	return nil
}

// HourlyReturn is the rate contribution a new holding of this asset carries.
// Worker assets yield their configured rate; investor assets amortize the
// monthly profit target over 30x24 hours.
func (a *Asset) HourlyReturn() int64 {
	if a.Type == AssetWorker {
		return a.Rate
	}
	return a.MonthlyProfit / hoursPerTerm
}

// InStock reports whether a unit can still be sold
func (a *Asset) InStock() bool {
	return a.StockLimit == 0 || a.UnitsSold < a.StockLimit
}

// IsValidAssetType validates an asset type value
func IsValidAssetType(t string) bool {
	return t == string(AssetWorker) || t == string(AssetInvestor)
}
