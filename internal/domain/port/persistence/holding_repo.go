package persistence

import (
	"context"

	"github.com/litepremium/coin-engine/internal/domain/entity"
)

// HoldingRepository defines persistence operations for purchased holdings
type HoldingRepository interface {
	// Create persists a new holding
	Create(ctx context.Context, holding *entity.Holding) error

	// Update persists a holding's status change
	//
	// Possible errors:
	// - ErrNotFound: If the holding doesn't exist
	// - ErrDatabaseConnection: If database connection fails
	Update(ctx context.Context, holding *entity.Holding) error

	// ListByUser returns all holdings of a user, newest first
	ListByUser(ctx context.Context, userID uint64) ([]*entity.Holding, error)

	// ListActiveByUser returns the user's active holdings ordered by
	// expiry time ascending, holdings without expiry last. The ordering is
	// what lets accrual settle expiries in the sequence they happened.
	ListActiveByUser(ctx context.Context, userID uint64) ([]*entity.Holding, error)

	// ActiveWorkerByUser returns the user's active worker holding, if any
	//
	// Possible errors:
	// - ErrNotFound: If the user has no active worker
	// - ErrDatabaseConnection: If database connection fails
	ActiveWorkerByUser(ctx context.Context, userID uint64) (*entity.Holding, error)
}
