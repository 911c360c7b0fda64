package persistence

import (
	"context"

	"github.com/litepremium/coin-engine/internal/domain/entity"
)

// AssetRepository defines persistence operations for the asset catalog
type AssetRepository interface {
	// GetByID retrieves an asset by ID
	//
	// Possible errors:
	// - ErrAssetNotFound: If the asset doesn't exist
	// - ErrDatabaseConnection: If database connection fails
	GetByID(ctx context.Context, id uint64) (*entity.Asset, error)

	// GetByName retrieves an asset by its unique name
	//
	// Possible errors:
	// - ErrAssetNotFound: If the asset doesn't exist
	// - ErrDatabaseConnection: If database connection fails
	GetByName(ctx context.Context, name string) (*entity.Asset, error)

	// List returns the full catalog ordered by price ascending
	List(ctx context.Context) ([]*entity.Asset, error)

	// Create persists a new asset definition
	//
	// Possible errors:
	// - ErrDuplicateAsset: If the name is already taken
	// - ErrDatabaseConnection: If database connection fails
	Create(ctx context.Context, asset *entity.Asset) error

	// Update persists changes to an asset definition
	//
	// Possible errors:
	// - ErrAssetNotFound: If the asset doesn't exist
	// - ErrDatabaseConnection: If database connection fails
	Update(ctx context.Context, asset *entity.Asset) error

	// Delete removes an asset from the catalog. Existing holdings keep their
	// snapshotted terms.
	//
	// Possible errors:
	// - ErrAssetNotFound: If the asset doesn't exist
	// - ErrDatabaseConnection: If database connection fails
	Delete(ctx context.Context, id uint64) error

	// ReserveUnit atomically increments units sold while units remain.
	// The guard runs inside the UPDATE so concurrent purchases of the last
	// unit cannot both succeed.
	//
	// Possible errors:
	// - ErrSoldOut: If no stock remains
	// - ErrAssetNotFound: If the asset doesn't exist
	// - ErrDatabaseConnection: If database connection fails
	ReserveUnit(ctx context.Context, assetID uint64) error
}
