package persistence

import (
	"context"

	"github.com/litepremium/coin-engine/internal/domain/entity"
)

// DepositRepository defines persistence operations for deposit requests
type DepositRepository interface {
	// Create persists a new deposit request. The transaction id carries a
	// unique constraint, so a replayed proof fails here even under races.
	//
	// Possible errors:
	// - ErrDuplicateTransaction: If the transaction id was already submitted
	// - ErrDatabaseConnection: If database connection fails
	Create(ctx context.Context, request *entity.DepositRequest) error

	// GetByID retrieves a deposit request by ID
	//
	// Possible errors:
	// - ErrRequestNotFound: If the request doesn't exist
	// - ErrDatabaseConnection: If database connection fails
	GetByID(ctx context.Context, id uint64) (*entity.DepositRequest, error)

	// GetForUpdate retrieves a deposit request with a row lock inside a
	// transaction so two admins cannot resolve it concurrently
	//
	// Possible errors:
	// - ErrRequestNotFound: If the request doesn't exist
	// - ErrDatabaseConnection: If database connection fails
	GetForUpdate(ctx context.Context, id uint64) (*entity.DepositRequest, error)

	// TransactionIDExists reports whether a transaction id was already used
	TransactionIDExists(ctx context.Context, transactionID string) (bool, error)

	// Update persists a status change
	Update(ctx context.Context, request *entity.DepositRequest) error

	// ListByUser returns a user's deposit requests, newest first
	ListByUser(ctx context.Context, userID uint64) ([]*entity.DepositRequest, error)

	// ListByStatus returns all deposit requests in the given status, oldest first
	ListByStatus(ctx context.Context, status entity.RequestStatus) ([]*entity.DepositRequest, error)
}

// WithdrawalRepository defines persistence operations for withdrawal requests
type WithdrawalRepository interface {
	// Create persists a new withdrawal request
	Create(ctx context.Context, request *entity.WithdrawalRequest) error

	// GetByID retrieves a withdrawal request by ID
	//
	// Possible errors:
	// - ErrRequestNotFound: If the request doesn't exist
	// - ErrDatabaseConnection: If database connection fails
	GetByID(ctx context.Context, id uint64) (*entity.WithdrawalRequest, error)

	// GetForUpdate retrieves a withdrawal request with a row lock inside a
	// transaction so the refund on reject can only happen once
	//
	// Possible errors:
	// - ErrRequestNotFound: If the request doesn't exist
	// - ErrDatabaseConnection: If database connection fails
	GetForUpdate(ctx context.Context, id uint64) (*entity.WithdrawalRequest, error)

	// Update persists a status change
	Update(ctx context.Context, request *entity.WithdrawalRequest) error

	// ListByUser returns a user's withdrawal requests, newest first
	ListByUser(ctx context.Context, userID uint64) ([]*entity.WithdrawalRequest, error)

	// ListByStatus returns all withdrawal requests in the given status, oldest first
	ListByStatus(ctx context.Context, status entity.RequestStatus) ([]*entity.WithdrawalRequest, error)
}
