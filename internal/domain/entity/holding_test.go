package entity_test

import (
	"testing"
	"time"

	"github.com/litepremium/coin-engine/internal/domain/entity"
	errs "github.com/litepremium/coin-engine/internal/domain/error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHolding(t *testing.T) {
	t.Run("Expiring asset", func(t *testing.T) {
		asset := &entity.Asset{
			Name:          "Premium Investor",
			Type:          entity.AssetInvestor,
			Price:         5000000,
			MonthlyProfit: 1800000,
			LifecycleDays: 30,
		}

		h := entity.NewHolding(42, asset, baseTime)
		assert.Equal(t, uint64(42), h.UserID)
		assert.Equal(t, entity.HoldingActive, h.Status)
		assert.Equal(t, int64(5000000), h.AmountPaid)
		assert.Equal(t, int64(2500), h.HourlyReturn) // 18000.00 over 720 hours
		assert.Equal(t, baseTime.Add(30*24*time.Hour), h.ExpiresAt)
	})

	t.Run("Non-expiring asset", func(t *testing.T) {
		asset := &entity.Asset{
			Name: "Digital Worker",
			Type: entity.AssetWorker,
			Rate: 100,
		}

		h := entity.NewHolding(42, asset, baseTime)
		assert.True(t, h.ExpiresAt.IsZero())
		assert.False(t, h.IsExpiredAt(baseTime.Add(100*365*24*time.Hour)))
	})
}

func TestHoldingExpiry(t *testing.T) {
	asset := &entity.Asset{
		Name:          "Premium Investor",
		Type:          entity.AssetInvestor,
		MonthlyProfit: 1800000,
		LifecycleDays: 30,
	}
	expiry := baseTime.Add(30 * 24 * time.Hour)

	t.Run("IsExpiredAt boundary", func(t *testing.T) {
		h := entity.NewHolding(1, asset, baseTime)

		assert.False(t, h.IsExpiredAt(expiry.Add(-time.Second)))
		assert.True(t, h.IsExpiredAt(expiry))
		assert.True(t, h.IsExpiredAt(expiry.Add(time.Hour)))
	})

	t.Run("MarkExpired is terminal", func(t *testing.T) {
		h := entity.NewHolding(1, asset, baseTime)

		require.NoError(t, h.MarkExpired(expiry))
		assert.Equal(t, entity.HoldingExpired, h.Status)
		require.NotNil(t, h.ExpiredAt)
		assert.Equal(t, expiry, *h.ExpiredAt)

		assert.ErrorIs(t, h.MarkExpired(expiry.Add(time.Hour)), errs.ErrInvalidStateTransition)
	})

	t.Run("Expired holdings never report expired again", func(t *testing.T) {
		h := entity.NewHolding(1, asset, baseTime)
		require.NoError(t, h.MarkExpired(expiry))

		assert.False(t, h.IsExpiredAt(expiry.Add(time.Hour)))
	})
}
