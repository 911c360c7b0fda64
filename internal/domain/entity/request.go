package entity

import (
	"strings"
	"time"

	errs "github.com/litepremium/coin-engine/internal/domain/error"
)

// RequestStatus represents the workflow state of a deposit or withdrawal request
type RequestStatus string

// Request statuses. Pending is the only non-terminal state.
const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// PaymentMethod identifies the mobile banking channel used for a request
type PaymentMethod string

// Supported payment methods
const (
	MethodBkash  PaymentMethod = "bkash"
	MethodNagad  PaymentMethod = "nagad"
	MethodRocket PaymentMethod = "rocket"
)

// IsValidPaymentMethod validates a payment method value
func IsValidPaymentMethod(m string) bool {
	switch PaymentMethod(strings.ToLower(m)) {
	case MethodBkash, MethodNagad, MethodRocket:
		return true
	}
	return false
}

// DepositRequest is a user's claim of an external payment awaiting admin
// review. The user pays in BDT; the coin amount is computed at the exchange
// rate in force at submission time and snapshotted here, so a later rate
// change cannot alter what an approval credits. The transaction id is
// globally unique so a payment proof can never be replayed.
type DepositRequest struct {
	ID            uint64
	UserID        uint64
	AmountBDT     int64 // BDT cents paid externally
	Amount        int64 // coin cents credited on approval
	Method        PaymentMethod
	SenderNumber  string
	TransactionID string
	Status        RequestStatus
	CreatedAt     time.Time
	ResolvedAt    *time.Time
}

// NewDepositRequest creates a pending deposit request. amountBDT is what the
// user paid, coins what approval will credit.
func NewDepositRequest(userID uint64, amountBDT, coins int64, method PaymentMethod, senderNumber, transactionID string, now time.Time) (*DepositRequest, error) {
	if amountBDT <= 0 || coins <= 0 {
		return nil, errs.ErrInvalidAmount
	}
	transactionID = strings.TrimSpace(transactionID)
	if transactionID == "" {
		return nil, errs.ErrInvalidRequest
	}
	if !IsValidPaymentMethod(string(method)) {
		return nil, errs.ErrInvalidRequest
	}
	return &DepositRequest{
		UserID:        userID,
		AmountBDT:     amountBDT,
		Amount:        coins,
		Method:        PaymentMethod(strings.ToLower(string(method))),
		SenderNumber:  strings.TrimSpace(senderNumber),
		TransactionID: transactionID,
		Status:        RequestPending,
		CreatedAt:     now,
	}, nil
}

// Approve transitions the request from pending to approved exactly once
func (r *DepositRequest) Approve(now time.Time) error {
	if r.Status != RequestPending {
		return errs.NewStateTransitionError("deposit", r.ID, string(r.Status), string(RequestApproved))
	}
	r.Status = RequestApproved
	r.ResolvedAt = &now
	return nil
}

// Reject transitions the request from pending to rejected exactly once
func (r *DepositRequest) Reject(now time.Time) error {
	if r.Status != RequestPending {
		return errs.NewStateTransitionError("deposit", r.ID, string(r.Status), string(RequestRejected))
	}
	r.Status = RequestRejected
	r.ResolvedAt = &now
	return nil
}

// IsPending reports whether the request is still awaiting review
func (r *DepositRequest) IsPending() bool {
	return r.Status == RequestPending
}

// WithdrawalRequest is a user's cash-out request. The coins are debited when
// the request is submitted; approval just records the payout, rejection
// refunds the debit exactly once. The BDT payout is computed at the exchange
// rate in force at submission time and snapshotted for the admin to pay out.
type WithdrawalRequest struct {
	ID           uint64
	UserID       uint64
	Amount       int64 // coin cents, already debited from the balance
	AmountBDT    int64 // BDT cents owed to the user on approval
	Method       PaymentMethod
	PayoutNumber string
	Status       RequestStatus
	Refunded     bool
	CreatedAt    time.Time
	ResolvedAt   *time.Time
}

// NewWithdrawalRequest creates a pending withdrawal request. amount is the
// coin debit, amountBDT the computed payout.
func NewWithdrawalRequest(userID uint64, amount, amountBDT int64, method PaymentMethod, payoutNumber string, now time.Time) (*WithdrawalRequest, error) {
	if amount <= 0 || amountBDT <= 0 {
		return nil, errs.ErrInvalidAmount
	}
	payoutNumber = strings.TrimSpace(payoutNumber)
	if payoutNumber == "" {
		return nil, errs.ErrInvalidRequest
	}
	if !IsValidPaymentMethod(string(method)) {
		return nil, errs.ErrInvalidRequest
	}
	return &WithdrawalRequest{
		UserID:       userID,
		Amount:       amount,
		AmountBDT:    amountBDT,
		Method:       PaymentMethod(strings.ToLower(string(method))),
		PayoutNumber: payoutNumber,
		Status:       RequestPending,
		CreatedAt:    now,
	}, nil
}

// Approve transitions the request from pending to approved exactly once
func (r *WithdrawalRequest) Approve(now time.Time) error {
	if r.Status != RequestPending {
		return errs.NewStateTransitionError("withdrawal", r.ID, string(r.Status), string(RequestApproved))
	}
	r.Status = RequestApproved
	r.ResolvedAt = &now
	return nil
}

// Reject transitions the request from pending to rejected exactly once and
// marks the held amount as owed back to the user.
func (r *WithdrawalRequest) Reject(now time.Time) error {
	if r.Status != RequestPending {
		return errs.NewStateTransitionError("withdrawal", r.ID, string(r.Status), string(RequestRejected))
	}
	r.Status = RequestRejected
	r.Refunded = true
	r.ResolvedAt = &now
	return nil
}

// IsPending reports whether the request is still awaiting review
func (r *WithdrawalRequest) IsPending() bool {
	return r.Status == RequestPending
}
