package usecase

import (
	"context"

	"github.com/litepremium/coin-engine/internal/domain/entity"
)

// BalanceResponse represents the standardized balance response
type BalanceResponse struct {
	UserID      uint64 `json:"userId"`
	Balance     string `json:"balance"` // Formatted with 2 decimal places
	MiningRate  string `json:"miningRate"`
	WorkerLevel string `json:"workerLevel,omitempty"`
	Badge       string `json:"badge"`
}

// LedgerPage is one page of a user's balance history
type LedgerPage struct {
	Entries []*entity.LedgerEntry `json:"entries"`
	Total   int64                 `json:"total"`
	Limit   int                   `json:"limit"`
	Offset  int                   `json:"offset"`
}

// UserUseCase defines methods for account-related business operations
type UserUseCase interface {
	// Register creates a new account. A referral code of an existing user
	// may be supplied to link the accounts and pay the referrer bonus.
	Register(ctx context.Context, email, referrerCode string) (*entity.User, error)

	// GetBalance settles pending yield accrual and returns the balance.
	// This is the main read path; accrual is lazy so the balance a user
	// sees is always current.
	GetBalance(ctx context.Context, userID uint64) (*BalanceResponse, error)

	// GetProfile returns the full account entity with accrual settled
	GetProfile(ctx context.Context, userID uint64) (*entity.User, error)

	// LedgerHistory returns a page of the user's balance changes
	LedgerHistory(ctx context.Context, userID uint64, limit, offset int) (*LedgerPage, error)

	// ApplyReferral links the user to the owner of the referral code and
	// pays the one-time bonus. Returns false without error if the user
	// already has a referrer, the code does not resolve to another
	// account, or the balance has moved since signup.
	ApplyReferral(ctx context.Context, userID uint64, referrerCode string) (bool, error)

	// ListUsers returns all accounts for the admin panel
	ListUsers(ctx context.Context) ([]*entity.User, error)

	// SetBadge assigns a badge tier to an account
	SetBadge(ctx context.Context, userID uint64, badge string) error

	// SetStatus activates or bans an account
	SetStatus(ctx context.Context, userID uint64, status string) error

	// AdjustBalance applies a signed admin correction to a balance.
	// The delta is a decimal string; prefix with "-" to deduct.
	AdjustBalance(ctx context.Context, userID uint64, delta string, note string) (*BalanceResponse, error)

	// DeleteUser removes an account
	DeleteUser(ctx context.Context, userID uint64) error
}
