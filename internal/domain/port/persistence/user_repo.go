package persistence

import (
	"context"

	"github.com/litepremium/coin-engine/internal/domain/entity"
)

// UserRepository defines persistence operations for user accounts
type UserRepository interface {
	// GetByID retrieves a user by ID
	//
	// Possible errors:
	// - ErrUserNotFound: If user with specified ID doesn't exist
	// - ErrDatabaseConnection: If database connection fails
	GetByID(ctx context.Context, id uint64) (*entity.User, error)

	// GetByEmail retrieves a user by email address
	//
	// Possible errors:
	// - ErrUserNotFound: If no user carries that email
	// - ErrDatabaseConnection: If database connection fails
	GetByEmail(ctx context.Context, email string) (*entity.User, error)

	// GetByReferralCode retrieves a user by their referral code
	//
	// Possible errors:
	// - ErrUserNotFound: If the code matches no user
	// - ErrDatabaseConnection: If database connection fails
	GetByReferralCode(ctx context.Context, code string) (*entity.User, error)

	// GetForUpdate retrieves a user with a row lock inside a transaction.
	// Must be called with a transactional context from UnitOfWork.Begin.
	//
	// Possible errors:
	// - ErrUserNotFound: If user doesn't exist
	// - ErrUserLocked: If the row lock could not be acquired
	// - ErrDatabaseConnection: If database connection fails
	GetForUpdate(ctx context.Context, id uint64) (*entity.User, error)

	// Create persists a new user
	//
	// Possible errors:
	// - ErrDuplicateUser: If the email or referral code already exists
	// - ErrDatabaseConnection: If database connection fails
	Create(ctx context.Context, user *entity.User) error

	// Update persists changes to an existing user, including balance,
	// mining rate and accrual clock
	//
	// Possible errors:
	// - ErrUserNotFound: If user doesn't exist
	// - ErrDatabaseConnection: If database connection fails
	Update(ctx context.Context, user *entity.User) error

	// Delete removes a user account
	//
	// Possible errors:
	// - ErrUserNotFound: If user doesn't exist
	// - ErrDatabaseConnection: If database connection fails
	Delete(ctx context.Context, id uint64) error

	// List returns all users ordered by creation time, newest first
	List(ctx context.Context) ([]*entity.User, error)
}
