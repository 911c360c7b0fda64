package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/litepremium/coin-engine/internal/domain/entity"
	errs "github.com/litepremium/coin-engine/internal/domain/error"
	coreport "github.com/litepremium/coin-engine/internal/domain/port/core"
	"github.com/litepremium/coin-engine/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// AssetRepository implements persistence.AssetRepository using GORM
type AssetRepository struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewAssetRepository creates a new AssetRepository instance
func NewAssetRepository(db *gorm.DB, logger coreport.Logger) *AssetRepository {
	return &AssetRepository{
		db:     db,
		logger: logger,
	}
}

func modelToAssetEntity(m *model.Asset) *entity.Asset {
	return &entity.Asset{
		ID:            m.ID,
		Name:          m.Name,
		Type:          entity.AssetType(m.Type),
		Price:         m.Price,
		Rate:          m.Rate,
		MonthlyProfit: m.MonthlyProfit,
		StockLimit:    m.StockLimit,
		UnitsSold:     m.UnitsSold,
		LifecycleDays: m.LifecycleDays,
		Icon:          m.Icon,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func assetEntityToModel(a *entity.Asset) *model.Asset {
	return &model.Asset{
		ID:            a.ID,
		Name:          a.Name,
		Type:          string(a.Type),
		Price:         a.Price,
		Rate:          a.Rate,
		MonthlyProfit: a.MonthlyProfit,
		StockLimit:    a.StockLimit,
		UnitsSold:     a.UnitsSold,
		LifecycleDays: a.LifecycleDays,
		Icon:          a.Icon,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func (r *AssetRepository) handleDatabaseError(operation string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.ErrAssetNotFound
	}

	r.logger.Error(fmt.Sprintf("Database error when %s", operation), map[string]any{
		"error": err.Error(),
	})

	if isDuplicateKey(err) {
		return errs.ErrDuplicateAsset
	}
	return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
}

// GetByID retrieves an asset by ID
func (r *AssetRepository) GetByID(ctx context.Context, id uint64) (*entity.Asset, error) {
	var m model.Asset
	if result := r.db.WithContext(ctx).First(&m, id); result.Error != nil {
		return nil, r.handleDatabaseError("getting asset", result.Error)
	}
	return modelToAssetEntity(&m), nil
}

// GetByName retrieves an asset by its unique name
func (r *AssetRepository) GetByName(ctx context.Context, name string) (*entity.Asset, error) {
	var m model.Asset
	if result := r.db.WithContext(ctx).Where("name = ?", name).First(&m); result.Error != nil {
		return nil, r.handleDatabaseError("getting asset by name", result.Error)
	}
	return modelToAssetEntity(&m), nil
}

// List returns the full catalog ordered by price ascending
func (r *AssetRepository) List(ctx context.Context) ([]*entity.Asset, error) {
	var models []model.Asset
	if result := r.db.WithContext(ctx).Order("price ASC").Find(&models); result.Error != nil {
		return nil, r.handleDatabaseError("listing assets", result.Error)
	}

	assets := make([]*entity.Asset, 0, len(models))
	for i := range models {
		assets = append(assets, modelToAssetEntity(&models[i]))
	}
	return assets, nil
}

// Create persists a new asset definition
func (r *AssetRepository) Create(ctx context.Context, asset *entity.Asset) error {
	m := assetEntityToModel(asset)
	if result := r.db.WithContext(ctx).Create(m); result.Error != nil {
		return r.handleDatabaseError("creating asset", result.Error)
	}
	asset.ID = m.ID
	return nil
}

// Update persists changes to an asset definition
func (r *AssetRepository) Update(ctx context.Context, asset *entity.Asset) error {
	m := assetEntityToModel(asset)
	result := r.db.WithContext(ctx).Model(&model.Asset{}).
		Where("id = ?", asset.ID).
		Updates(map[string]any{
			"name":           m.Name,
			"type":           m.Type,
			"price":          m.Price,
			"rate":           m.Rate,
			"monthly_profit": m.MonthlyProfit,
			"stock_limit":    m.StockLimit,
			"lifecycle_days": m.LifecycleDays,
			"icon":           m.Icon,
			"updated_at":     m.UpdatedAt,
		})
	if result.Error != nil {
		return r.handleDatabaseError("updating asset", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.ErrAssetNotFound
	}
	return nil
}

// Delete removes an asset from the catalog
func (r *AssetRepository) Delete(ctx context.Context, id uint64) error {
	result := r.db.WithContext(ctx).Delete(&model.Asset{}, id)
	if result.Error != nil {
		return r.handleDatabaseError("deleting asset", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.ErrAssetNotFound
	}
	return nil
}

// ReserveUnit atomically increments units sold while stock remains. The
// guard lives in the WHERE clause, so of two concurrent buyers of the last
// unit exactly one update matches a row.
func (r *AssetRepository) ReserveUnit(ctx context.Context, assetID uint64) error {
	result := r.db.WithContext(ctx).Model(&model.Asset{}).
		Where("id = ? AND (stock_limit = 0 OR units_sold < stock_limit)", assetID).
		UpdateColumn("units_sold", gorm.Expr("units_sold + 1"))
	if result.Error != nil {
		return r.handleDatabaseError("reserving asset unit", result.Error)
	}
	if result.RowsAffected == 0 {
		// Either the asset is gone or the stock ran out; disambiguate
		var count int64
		if err := r.db.WithContext(ctx).Model(&model.Asset{}).Where("id = ?", assetID).Count(&count).Error; err != nil {
			return r.handleDatabaseError("checking asset existence", err)
		}
		if count == 0 {
			return errs.ErrAssetNotFound
		}
		return errs.ErrSoldOut
	}
	return nil
}
