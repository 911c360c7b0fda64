package entity

import (
	"time"

	errs "github.com/litepremium/coin-engine/internal/domain/error"
)

// HoldingStatus represents the lifecycle state of a purchased holding
type HoldingStatus string

// Holding statuses
const (
	HoldingActive  HoldingStatus = "active"
	HoldingExpired HoldingStatus = "expired"
)

// Holding is a user's purchased instance of an asset. It snapshots the asset
// terms at purchase time and is immutable afterwards except for expiry.
type Holding struct {
	ID           uint64
	UserID       uint64
	AssetName    string
	AssetType    AssetType
	AmountPaid   int64 // cents
	HourlyReturn int64 // cents per hour contributed while active
	Status       HoldingStatus
	CreatedAt    time.Time
	ExpiresAt    time.Time // zero if the holding never expires
	ExpiredAt    *time.Time
}

// NewHolding creates an active holding from an asset definition
func NewHolding(userID uint64, asset *Asset, now time.Time) *Holding {
	h := &Holding{
		UserID:       userID,
		AssetName:    asset.Name,
		AssetType:    asset.Type,
		AmountPaid:   asset.Price,
		HourlyReturn: asset.HourlyReturn(),
		Status:       HoldingActive,
		CreatedAt:    now,
	}
	if asset.LifecycleDays > 0 {
		h.ExpiresAt = now.Add(time.Duration(asset.LifecycleDays) * 24 * time.Hour)
	}
	return h
}

// IsExpiredAt reports whether an active holding has outlived its lifecycle at t
func (h *Holding) IsExpiredAt(t time.Time) bool {
	if h.Status != HoldingActive || h.ExpiresAt.IsZero() {
		return false
	}
	return !t.Before(h.ExpiresAt)
}

// MarkExpired transitions the holding to expired exactly once
func (h *Holding) MarkExpired(t time.Time) error {
	if h.Status != HoldingActive {
		return errs.ErrInvalidStateTransition
	}
	h.Status = HoldingExpired
	h.ExpiredAt = &t
	return nil
}
