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

// SettingsRepository implements persistence.SettingsRepository using GORM
type SettingsRepository struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewSettingsRepository creates a new SettingsRepository instance
func NewSettingsRepository(db *gorm.DB, logger coreport.Logger) *SettingsRepository {
	return &SettingsRepository{
		db:     db,
		logger: logger,
	}
}

func modelToSettingsEntity(m *model.Settings) *entity.Settings {
	return &entity.Settings{
		ID:            m.ID,
		ExchangeRate:  m.ExchangeRate,
		MinWithdrawal: m.MinWithdrawal,
		MinDeposit:    m.MinDeposit,
		ReferralBonus: m.ReferralBonus,
		SignupBonus:   m.SignupBonus,
		CashInNumber:  m.CashInNumber,
		Version:       m.Version,
		UpdatedAt:     m.UpdatedAt,
	}
}

// Get returns the current settings row
func (r *SettingsRepository) Get(ctx context.Context) (*entity.Settings, error) {
	var m model.Settings
	result := r.db.WithContext(ctx).First(&m)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	return modelToSettingsEntity(&m), nil
}

// Save persists settings guarded by an optimistic version check
func (r *SettingsRepository) Save(ctx context.Context, settings *entity.Settings, expectedVersion uint64) error {
	result := r.db.WithContext(ctx).Model(&model.Settings{}).
		Where("id = ? AND version = ?", settings.ID, expectedVersion).
		Updates(map[string]any{
			"exchange_rate":  settings.ExchangeRate,
			"min_withdrawal": settings.MinWithdrawal,
			"min_deposit":    settings.MinDeposit,
			"referral_bonus": settings.ReferralBonus,
			"signup_bonus":   settings.SignupBonus,
			"cash_in_number": settings.CashInNumber,
			"version":        settings.Version,
			"updated_at":     settings.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	if result.RowsAffected == 0 {
		r.logger.Warn("Settings write lost a version race", map[string]any{
			"expected_version": expectedVersion,
		})
		return errs.ErrSettingsConflict
	}
	return nil
}

// Seed inserts the default settings row if none exists
func (r *SettingsRepository) Seed(ctx context.Context, settings *entity.Settings) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Settings{}).Count(&count).Error; err != nil {
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
	}
	if count > 0 {
		return nil
	}

	m := &model.Settings{
		ExchangeRate:  settings.ExchangeRate,
		MinWithdrawal: settings.MinWithdrawal,
		MinDeposit:    settings.MinDeposit,
		ReferralBonus: settings.ReferralBonus,
		SignupBonus:   settings.SignupBonus,
		CashInNumber:  settings.CashInNumber,
		Version:       settings.Version,
		UpdatedAt:     settings.UpdatedAt,
	}
	if result := r.db.WithContext(ctx).Create(m); result.Error != nil {
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	settings.ID = m.ID

	r.logger.Info("Seeded default settings", map[string]any{
		"version": settings.Version,
	})
	return nil
}
