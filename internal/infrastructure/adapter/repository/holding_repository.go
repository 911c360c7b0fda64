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

// HoldingRepository implements persistence.HoldingRepository using GORM
type HoldingRepository struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewHoldingRepository creates a new HoldingRepository instance
func NewHoldingRepository(db *gorm.DB, logger coreport.Logger) *HoldingRepository {
	return &HoldingRepository{
		db:     db,
		logger: logger,
	}
}

func modelToHoldingEntity(m *model.Holding) *entity.Holding {
	h := &entity.Holding{
		ID:           m.ID,
		UserID:       m.UserID,
		AssetName:    m.AssetName,
		AssetType:    entity.AssetType(m.AssetType),
		AmountPaid:   m.AmountPaid,
		HourlyReturn: m.HourlyReturn,
		Status:       entity.HoldingStatus(m.Status),
		CreatedAt:    m.CreatedAt,
		ExpiredAt:    m.ExpiredAt,
	}
	if m.ExpiresAt != nil {
		h.ExpiresAt = *m.ExpiresAt
	}
	return h
}

func holdingEntityToModel(h *entity.Holding) *model.Holding {
	m := &model.Holding{
		ID:           h.ID,
		UserID:       h.UserID,
		AssetName:    h.AssetName,
		AssetType:    string(h.AssetType),
		AmountPaid:   h.AmountPaid,
		HourlyReturn: h.HourlyReturn,
		Status:       string(h.Status),
		CreatedAt:    h.CreatedAt,
		ExpiredAt:    h.ExpiredAt,
	}
	if !h.ExpiresAt.IsZero() {
		expiresAt := h.ExpiresAt
		m.ExpiresAt = &expiresAt
	}
	return m
}

func (r *HoldingRepository) handleDatabaseError(operation string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.ErrNotFound
	}
	r.logger.Error(fmt.Sprintf("Database error when %s", operation), map[string]any{
		"error": err.Error(),
	})
	return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
}

// Create persists a new holding
func (r *HoldingRepository) Create(ctx context.Context, holding *entity.Holding) error {
	m := holdingEntityToModel(holding)
	if result := r.db.WithContext(ctx).Create(m); result.Error != nil {
		return r.handleDatabaseError("creating holding", result.Error)
	}
	holding.ID = m.ID
	return nil
}

// Update persists a holding's status change
func (r *HoldingRepository) Update(ctx context.Context, holding *entity.Holding) error {
	result := r.db.WithContext(ctx).Model(&model.Holding{}).
		Where("id = ?", holding.ID).
		Updates(map[string]any{
			"status":     string(holding.Status),
			"expired_at": holding.ExpiredAt,
		})
	if result.Error != nil {
		return r.handleDatabaseError("updating holding", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// ListByUser returns all holdings of a user, newest first
func (r *HoldingRepository) ListByUser(ctx context.Context, userID uint64) ([]*entity.Holding, error) {
	var models []model.Holding
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&models)
	if result.Error != nil {
		return nil, r.handleDatabaseError("listing holdings", result.Error)
	}
	return modelsToHoldingEntities(models), nil
}

// ListActiveByUser returns active holdings ordered by expiry ascending,
// never-expiring holdings last
func (r *HoldingRepository) ListActiveByUser(ctx context.Context, userID uint64) ([]*entity.Holding, error) {
	var models []model.Holding
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, string(entity.HoldingActive)).
		Order("expires_at ASC NULLS LAST").
		Find(&models)
	if result.Error != nil {
		return nil, r.handleDatabaseError("listing active holdings", result.Error)
	}
	return modelsToHoldingEntities(models), nil
}

// ActiveWorkerByUser returns the user's active worker holding, if any
func (r *HoldingRepository) ActiveWorkerByUser(ctx context.Context, userID uint64) (*entity.Holding, error) {
	var m model.Holding
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND asset_type = ? AND status = ?",
			userID, string(entity.AssetWorker), string(entity.HoldingActive)).
		Order("created_at DESC").
		First(&m)
	if result.Error != nil {
		return nil, r.handleDatabaseError("getting active worker", result.Error)
	}
	return modelToHoldingEntity(&m), nil
}

func modelsToHoldingEntities(models []model.Holding) []*entity.Holding {
	holdings := make([]*entity.Holding, 0, len(models))
	for i := range models {
		holdings = append(holdings, modelToHoldingEntity(&models[i]))
	}
	return holdings
}
