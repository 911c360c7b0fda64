package migration

import (
	"context"
	"fmt"

	"github.com/litepremium/coin-engine/internal/domain/entity"
	coreport "github.com/litepremium/coin-engine/internal/domain/port/core"
	"github.com/litepremium/coin-engine/internal/infrastructure/adapter/model"
	"github.com/litepremium/coin-engine/internal/infrastructure/adapter/repository"
	"gorm.io/gorm"
)

// Manager runs schema migrations and seeds reference data
type Manager struct {
	db           *gorm.DB
	logger       coreport.Logger
	timeProvider coreport.TimeProvider
}

// NewManager creates a migration manager
func NewManager(db *gorm.DB, logger coreport.Logger, timeProvider coreport.TimeProvider) *Manager {
	return &Manager{
		db:           db,
		logger:       logger,
		timeProvider: timeProvider,
	}
}

// Run migrates the schema and seeds defaults. Safe to call on every start.
func (m *Manager) Run(ctx context.Context) error {
	m.logger.Info("Running database migrations", nil)

	if err := m.db.WithContext(ctx).AutoMigrate(
		&model.User{},
		&model.Asset{},
		&model.Holding{},
		&model.DepositRequest{},
		&model.WithdrawalRequest{},
		&model.LedgerEntry{},
		&model.Settings{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	if err := m.seedSettings(ctx); err != nil {
		return err
	}
	if err := m.seedAssets(ctx); err != nil {
		return err
	}

	m.logger.Info("Database migrations completed", nil)
	return nil
}

// seedSettings inserts the default settings singleton if missing
func (m *Manager) seedSettings(ctx context.Context) error {
	repo := repository.NewSettingsRepository(m.db, m.logger)
	return repo.Seed(ctx, entity.DefaultSettings(m.timeProvider.Now()))
}

// seedAssets inserts the starter catalog on an empty assets table
func (m *Manager) seedAssets(ctx context.Context) error {
	var count int64
	if err := m.db.WithContext(ctx).Model(&model.Asset{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count assets: %w", err)
	}
	if count > 0 {
		return nil
	}

	now := m.timeProvider.Now()
	defaults := []model.Asset{
		{
			Name:      "Starter Worker",
			Type:      string(entity.AssetWorker),
			Price:     0,
			Rate:      10, // 0.10 coins per hour
			Icon:      "pickaxe",
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			Name:      "Digital Worker",
			Type:      string(entity.AssetWorker),
			Price:     500000, // 5000 coins
			Rate:      100,    // 1.00 coins per hour
			Icon:      "robot",
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			Name:      "Mining Pro",
			Type:      string(entity.AssetWorker),
			Price:     1500000, // 15000 coins
			Rate:      500,     // 5.00 coins per hour
			Icon:      "drill",
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			Name:          "Premium Investor",
			Type:          string(entity.AssetInvestor),
			Price:         5000000, // 50000 coins
			MonthlyProfit: 1800000, // 18000 coins over 30 days
			StockLimit:    50,
			LifecycleDays: 30,
			Icon:          "briefcase",
			CreatedAt:     now,
			UpdatedAt:     now,
		},
	}

	if err := m.db.WithContext(ctx).Create(&defaults).Error; err != nil {
		return fmt.Errorf("failed to seed assets: %w", err)
	}

	m.logger.Info("Seeded default asset catalog", map[string]any{
		"count": len(defaults),
	})
	return nil
}
