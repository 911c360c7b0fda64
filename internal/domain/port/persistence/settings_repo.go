package persistence

import (
	"context"

	"github.com/litepremium/coin-engine/internal/domain/entity"
)

// SettingsRepository defines persistence operations for the settings singleton
type SettingsRepository interface {
	// Get returns the current settings row
	//
	// Possible errors:
	// - ErrNotFound: If settings were never seeded
	// - ErrDatabaseConnection: If database connection fails
	Get(ctx context.Context) (*entity.Settings, error)

	// Save persists settings with an optimistic version check: the write
	// only succeeds if the stored version matches expectedVersion.
	//
	// Possible errors:
	// - ErrSettingsConflict: If another writer bumped the version first
	// - ErrDatabaseConnection: If database connection fails
	Save(ctx context.Context, settings *entity.Settings, expectedVersion uint64) error

	// Seed inserts the default settings row if none exists
	Seed(ctx context.Context, settings *entity.Settings) error
}
