package entity

import "time"

// LedgerReason categorizes why a balance changed
type LedgerReason string

// Ledger reasons
const (
	ReasonSignup           LedgerReason = "signup"
	ReasonDeposit          LedgerReason = "deposit"
	ReasonWithdrawal       LedgerReason = "withdrawal"
	ReasonWithdrawalReject LedgerReason = "withdrawal_reject"
	ReasonPurchase         LedgerReason = "purchase"
	ReasonAccrual          LedgerReason = "accrual"
	ReasonReferral         LedgerReason = "referral"
	ReasonAdminAdjust      LedgerReason = "admin_adjust"
)

// LedgerEntry is an immutable record of a single balance change. The amount
// is signed: credits positive, debits negative. BalanceAfter snapshots the
// balance once the change was applied, so the history reads as a statement.
type LedgerEntry struct {
	ID           uint64
	UserID       uint64
	Amount       int64 // cents, signed
	BalanceAfter int64 // cents
	Reason       LedgerReason
	Reference    string // request id, asset name or trx id depending on reason
	CreatedAt    time.Time
}

// NewLedgerEntry records a balance change
func NewLedgerEntry(userID uint64, amount, balanceAfter int64, reason LedgerReason, reference string, now time.Time) *LedgerEntry {
	return &LedgerEntry{
		UserID:       userID,
		Amount:       amount,
		BalanceAfter: balanceAfter,
		Reason:       reason,
		Reference:    reference,
		CreatedAt:    now,
	}
}
