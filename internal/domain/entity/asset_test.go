package entity_test

import (
	"testing"

	"github.com/litepremium/coin-engine/internal/domain/entity"
	errs "github.com/litepremium/coin-engine/internal/domain/error"
	"github.com/stretchr/testify/assert"
)

func TestAssetValidate(t *testing.T) {
	valid := entity.Asset{
		Name:  "Digital Worker",
		Type:  entity.AssetWorker,
		Price: 500000,
		Rate:  100,
	}

	t.Run("Valid asset", func(t *testing.T) {
		a := valid
		assert.NoError(t, a.Validate())
	})

	t.Run("Missing name", func(t *testing.T) {
		a := valid
		a.Name = "  "
		assert.ErrorIs(t, a.Validate(), errs.ErrInvalidRequest)
	})

	t.Run("Unknown type", func(t *testing.T) {
		a := valid
		a.Type = "gambler"
		assert.ErrorIs(t, a.Validate(), errs.ErrInvalidRequest)
	})

	t.Run("Negative amounts", func(t *testing.T) {
		a := valid
		a.Price = -1
		assert.ErrorIs(t, a.Validate(), errs.ErrInvalidAmount)
	})

	t.Run("Negative lifecycle", func(t *testing.T) {
		a := valid
		a.LifecycleDays = -1
		assert.ErrorIs(t, a.Validate(), errs.ErrInvalidRequest)
	})
}

func TestAssetHourlyReturn(t *testing.T) {
	t.Run("Worker uses its rate", func(t *testing.T) {
		a := entity.Asset{Type: entity.AssetWorker, Rate: 100, MonthlyProfit: 999999}
		assert.Equal(t, int64(100), a.HourlyReturn())
	})

	t.Run("Investor amortizes monthly profit", func(t *testing.T) {
		a := entity.Asset{Type: entity.AssetInvestor, MonthlyProfit: 1800000}
		assert.Equal(t, int64(2500), a.HourlyReturn())
	})
}

func TestAssetInStock(t *testing.T) {
	t.Run("Unlimited stock", func(t *testing.T) {
		a := entity.Asset{StockLimit: 0, UnitsSold: 1000000}
		assert.True(t, a.InStock())
	})

	t.Run("Limited stock", func(t *testing.T) {
		a := entity.Asset{StockLimit: 50, UnitsSold: 49}
		assert.True(t, a.InStock())

		a.UnitsSold = 50
		assert.False(t, a.InStock())
	})
}
