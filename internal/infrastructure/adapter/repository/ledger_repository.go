package repository

import (
	"context"
	"fmt"

	"github.com/litepremium/coin-engine/internal/domain/entity"
	errs "github.com/litepremium/coin-engine/internal/domain/error"
	coreport "github.com/litepremium/coin-engine/internal/domain/port/core"
	"github.com/litepremium/coin-engine/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// LedgerRepository implements persistence.LedgerRepository using GORM
type LedgerRepository struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewLedgerRepository creates a new LedgerRepository instance
func NewLedgerRepository(db *gorm.DB, logger coreport.Logger) *LedgerRepository {
	return &LedgerRepository{
		db:     db,
		logger: logger,
	}
}

func modelToLedgerEntity(m *model.LedgerEntry) *entity.LedgerEntry {
	return &entity.LedgerEntry{
		ID:           m.ID,
		UserID:       m.UserID,
		Amount:       m.Amount,
		BalanceAfter: m.BalanceAfter,
		Reason:       entity.LedgerReason(m.Reason),
		Reference:    m.Reference,
		CreatedAt:    m.CreatedAt,
	}
}

func (r *LedgerRepository) wrapError(operation string, err error) error {
	r.logger.Error(fmt.Sprintf("Database error when %s", operation), map[string]any{
		"error": err.Error(),
	})
	return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
}

// Append records a balance change. Entries are insert-only.
func (r *LedgerRepository) Append(ctx context.Context, entry *entity.LedgerEntry) error {
	m := &model.LedgerEntry{
		UserID:       entry.UserID,
		Amount:       entry.Amount,
		BalanceAfter: entry.BalanceAfter,
		Reason:       string(entry.Reason),
		Reference:    entry.Reference,
		CreatedAt:    entry.CreatedAt,
	}
	if result := r.db.WithContext(ctx).Create(m); result.Error != nil {
		return r.wrapError("appending ledger entry", result.Error)
	}
	entry.ID = m.ID
	return nil
}

// ListByUser returns a page of a user's entries, newest first
func (r *LedgerRepository) ListByUser(ctx context.Context, userID uint64, limit, offset int) ([]*entity.LedgerEntry, error) {
	var models []model.LedgerEntry
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&models)
	if result.Error != nil {
		return nil, r.wrapError("listing ledger entries", result.Error)
	}

	entries := make([]*entity.LedgerEntry, 0, len(models))
	for i := range models {
		entries = append(entries, modelToLedgerEntity(&models[i]))
	}
	return entries, nil
}

// CountByUser returns the total number of entries for a user
func (r *LedgerRepository) CountByUser(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&model.LedgerEntry{}).
		Where("user_id = ?", userID).
		Count(&count)
	if result.Error != nil {
		return 0, r.wrapError("counting ledger entries", result.Error)
	}
	return count, nil
}
