package entity

import (
	"strings"
	"time"

	errs "github.com/litepremium/coin-engine/internal/domain/error"
	coreport "github.com/litepremium/coin-engine/internal/domain/port/core"
)

// UserStatus represents the operational status of an account
type UserStatus string

// BadgeTier represents the display tier assigned by admins
type BadgeTier string

// User statuses
const (
	StatusActive UserStatus = "active"
	StatusBanned UserStatus = "banned"
)

// Badge tiers
const (
	BadgeSilver   BadgeTier = "Silver"
	BadgeGold     BadgeTier = "Gold"
	BadgePlatinum BadgeTier = "Platinum"
)

// secondsPerHour is the divisor for converting accrued cent-seconds to cents
const secondsPerHour = 3600

// User represents an account holding a coin balance and yield-generating assets
type User struct {
	ID            uint64
	Email         string
	Status        UserStatus
	Badge         BadgeTier
	balance       int64 // cents, never negative (private)
	MiningRate    int64 // cents accrued per hour, sum of active holdings
	WorkerLevel   string // name of the equipped worker asset, empty if none
	ReferralCode  string
	ReferrerID    *uint64 // set at most once
	ReferralCount uint64
	LastAccrualAt time.Time
	AccrualCarry  int64 // earned cent-seconds not yet credited, 0 <= carry < 3600
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewUser creates an account with the signup grant as its starting balance
func NewUser(email, referralCode string, signupGrant int64, timeProvider coreport.TimeProvider) (*User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, errs.ErrInvalidRequest
	}
	if signupGrant < 0 {
		return nil, errs.ErrInvalidAmount
	}

	now := timeProvider.Now()
	return &User{
		Email:         email,
		Status:        StatusActive,
		Badge:         BadgeSilver,
		balance:       signupGrant,
		ReferralCode:  referralCode,
		LastAccrualAt: now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// UserRecord carries persisted account state for rehydration by repositories
type UserRecord struct {
	ID            uint64
	Email         string
	Status        string
	Badge         string
	Balance       int64
	MiningRate    int64
	WorkerLevel   string
	ReferralCode  string
	ReferrerID    *uint64
	ReferralCount uint64
	LastAccrualAt time.Time
	AccrualCarry  int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// UserFromRecord rebuilds a user entity from its persisted state
func UserFromRecord(rec UserRecord) *User {
	return &User{
		ID:            rec.ID,
		Email:         rec.Email,
		Status:        UserStatus(rec.Status),
		Badge:         BadgeTier(rec.Badge),
		balance:       rec.Balance,
		MiningRate:    rec.MiningRate,
		WorkerLevel:   rec.WorkerLevel,
		ReferralCode:  rec.ReferralCode,
		ReferrerID:    rec.ReferrerID,
		ReferralCount: rec.ReferralCount,
		LastAccrualAt: rec.LastAccrualAt,
		AccrualCarry:  rec.AccrualCarry,
		CreatedAt:     rec.CreatedAt,
		UpdatedAt:     rec.UpdatedAt,
	}
}

// Balance returns the current balance in cents
func (u *User) Balance() int64 {
	return u.balance
}

// FormattedBalance returns the balance as a decimal string with two places
func (u *User) FormattedBalance() string {
	return FormatCoins(u.balance)
}

// SetBalance updates the balance directly (for internal use, like repositories)
func (u *User) SetBalance(cents int64, timeProvider coreport.TimeProvider) {
	u.balance = cents
	u.UpdatedAt = timeProvider.Now()
}

// IsBanned reports whether the account is blocked from mutating operations
func (u *User) IsBanned() bool {
	return u.Status == StatusBanned
}

// CanDebit checks if the user has enough balance for a deduction
func (u *User) CanDebit(amount int64) bool {
	return amount > 0 && u.balance >= amount
}

// ApplyCredit adds the amount to the balance
func (u *User) ApplyCredit(amount int64, timeProvider coreport.TimeProvider) error {
	if amount <= 0 {
		return errs.ErrInvalidAmount
	}
	u.balance += amount
	u.UpdatedAt = timeProvider.Now()
	return nil
}

// ApplyDebit subtracts the amount from the balance if sufficient funds exist
func (u *User) ApplyDebit(amount int64, timeProvider coreport.TimeProvider) error {
	if amount <= 0 {
		return errs.ErrInvalidAmount
	}
	if u.balance < amount {
		return errs.NewInsufficientBalanceError(u.ID, FormatCoins(amount), u.FormattedBalance())
	}
	u.balance -= amount
	u.UpdatedAt = timeProvider.Now()
	return nil
}

// ApplyAdjustment applies a signed delta while keeping the balance non-negative
func (u *User) ApplyAdjustment(delta int64, timeProvider coreport.TimeProvider) error {
	if delta == 0 {
		return errs.ErrInvalidAmount
	}
	if u.balance+delta < 0 {
		return errs.NewInsufficientBalanceError(u.ID, FormatCoins(-delta), u.FormattedBalance())
	}
	u.balance += delta
	u.UpdatedAt = timeProvider.Now()
	return nil
}

// AccrueTo advances the accrual clock to t and returns the whole cents earned
// since the last accrual. Sub-cent earnings stay in AccrualCarry so repeated
// short intervals lose nothing. Calling with t at or before the clock is a
// no-op returning zero.
func (u *User) AccrueTo(t time.Time) int64 {
	if !t.After(u.LastAccrualAt) {
		return 0
	}
	elapsed := int64(t.Sub(u.LastAccrualAt) / time.Second)
	if elapsed <= 0 {
		return 0
	}

	u.AccrualCarry += u.MiningRate * elapsed
	credit := u.AccrualCarry / secondsPerHour
	u.AccrualCarry %= secondsPerHour
	u.LastAccrualAt = u.LastAccrualAt.Add(time.Duration(elapsed) * time.Second)
	return credit
}

// EquipWorker replaces the single worker slot: the previous worker's rate
// contribution is removed and the new one added.
func (u *User) EquipWorker(assetName string, rate int64, previousRate int64) {
	u.MiningRate -= previousRate
	if u.MiningRate < 0 {
		u.MiningRate = 0
	}
	u.MiningRate += rate
	u.WorkerLevel = assetName
}

// AddRateContribution adds a stackable holding's hourly return to the mining rate
func (u *User) AddRateContribution(rate int64) {
	if rate > 0 {
		u.MiningRate += rate
	}
}

// RemoveRateContribution subtracts an expired holding's hourly return.
// The rate never goes below zero even if bookkeeping drifted.
func (u *User) RemoveRateContribution(rate int64) {
	u.MiningRate -= rate
	if u.MiningRate < 0 {
		u.MiningRate = 0
	}
}

// SetReferrer links the referring account; the link can only be set once
func (u *User) SetReferrer(referrerID uint64) error {
	if u.ReferrerID != nil {
		return errs.ErrInvalidStateTransition
	}
	if referrerID == 0 || referrerID == u.ID {
		return errs.ErrInvalidRequest
	}
	u.ReferrerID = &referrerID
	return nil
}

// IsValidStatus validates an account status value
func IsValidStatus(s string) bool {
	return s == string(StatusActive) || s == string(StatusBanned)
}

// IsValidBadge validates a badge tier value
func IsValidBadge(b string) bool {
	return b == string(BadgeSilver) || b == string(BadgeGold) || b == string(BadgePlatinum)
}
