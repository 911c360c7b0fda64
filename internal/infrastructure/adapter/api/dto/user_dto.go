package dto

import (
	"time"

	"github.com/litepremium/coin-engine/internal/domain/entity"
)

// RegisterRequest represents the payload for account registration
type RegisterRequest struct {
	Email        string `json:"email" binding:"required"`
	ReferrerCode string `json:"referrerCode"`
}

// UserResponse represents an account in API responses
type UserResponse struct {
	ID            uint64    `json:"id"`
	Email         string    `json:"email"`
	Status        string    `json:"status"`
	Badge         string    `json:"badge"`
	Balance       string    `json:"balance"`
	MiningRate    string    `json:"miningRate"`
	WorkerLevel   string    `json:"workerLevel,omitempty"`
	ReferralCode  string    `json:"referralCode"`
	ReferralCount uint64    `json:"referralCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

// NewUserResponse maps a user entity to its API representation
func NewUserResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:            user.ID,
		Email:         user.Email,
		Status:        string(user.Status),
		Badge:         string(user.Badge),
		Balance:       user.FormattedBalance(),
		MiningRate:    entity.FormatCoins(user.MiningRate),
		WorkerLevel:   user.WorkerLevel,
		ReferralCode:  user.ReferralCode,
		ReferralCount: user.ReferralCount,
		CreatedAt:     user.CreatedAt,
	}
}

// ReferralRequest represents the payload for applying a referral code
type ReferralRequest struct {
	ReferrerCode string `json:"referrerCode" binding:"required"`
}

// AdjustBalanceRequest represents an admin balance correction
type AdjustBalanceRequest struct {
	Delta string `json:"delta" binding:"required"` // decimal coins, "-" prefix deducts
	Note  string `json:"note"`
}

// SetBadgeRequest represents an admin badge assignment
type SetBadgeRequest struct {
	Badge string `json:"badge" binding:"required"`
}

// SetStatusRequest represents an admin status change
type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// LedgerEntryResponse represents one balance change in API responses
type LedgerEntryResponse struct {
	ID           uint64    `json:"id"`
	Amount       string    `json:"amount"`
	BalanceAfter string    `json:"balanceAfter"`
	Reason       string    `json:"reason"`
	Reference    string    `json:"reference,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NewLedgerEntryResponse maps a ledger entry to its API representation
func NewLedgerEntryResponse(entry *entity.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:           entry.ID,
		Amount:       entity.FormatCoins(entry.Amount),
		BalanceAfter: entity.FormatCoins(entry.BalanceAfter),
		Reason:       string(entry.Reason),
		Reference:    entry.Reference,
		CreatedAt:    entry.CreatedAt,
	}
}

// LedgerPageResponse represents a page of ledger history
type LedgerPageResponse struct {
	Entries []LedgerEntryResponse `json:"entries"`
	Total   int64                 `json:"total"`
	Limit   int                   `json:"limit"`
	Offset  int                   `json:"offset"`
}
