package usecase

import (
	"context"

	"github.com/litepremium/coin-engine/internal/domain/entity"
)

// SettingsUseCase defines operations on the operator settings singleton
type SettingsUseCase interface {
	// Get returns the current settings
	Get(ctx context.Context) (*entity.Settings, error)

	// UpdateField changes one named setting and bumps the version.
	// Concurrent edits lose with ErrSettingsConflict and must retry.
	UpdateField(ctx context.Context, field, value string) (*entity.Settings, error)
}
