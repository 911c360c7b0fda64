package usecase

import (
	"context"

	"github.com/litepremium/coin-engine/internal/domain/entity"
)

// DepositInput carries a deposit claim from the API
type DepositInput struct {
	Amount        string `json:"amount"` // decimal BDT paid externally
	Method        string `json:"method"`
	SenderNumber  string `json:"senderNumber"`
	TransactionID string `json:"transactionId"`
}

// WithdrawalInput carries a cash-out request from the API
type WithdrawalInput struct {
	Amount       string `json:"amount"` // decimal coins
	Method       string `json:"method"`
	PayoutNumber string `json:"payoutNumber"`
}

// RequestUseCase defines the deposit and withdrawal review workflow
type RequestUseCase interface {
	// SubmitDeposit records a pending deposit claim. The transaction id
	// must never have been used before; the balance is untouched until an
	// admin approves.
	SubmitDeposit(ctx context.Context, userID uint64, input DepositInput) (*entity.DepositRequest, error)

	// ResolveDeposit approves or rejects a pending deposit. Approval
	// credits the coin amount snapshotted at submission; either way the
	// request becomes terminal and cannot be resolved again.
	ResolveDeposit(ctx context.Context, requestID uint64, approve bool) (*entity.DepositRequest, error)

	// SubmitWithdrawal debits the amount immediately and records a pending
	// cash-out request. The amount must meet the configured minimum.
	SubmitWithdrawal(ctx context.Context, userID uint64, input WithdrawalInput) (*entity.WithdrawalRequest, error)

	// ResolveWithdrawal approves or rejects a pending withdrawal.
	// Rejection refunds the held amount exactly once.
	ResolveWithdrawal(ctx context.Context, requestID uint64, approve bool) (*entity.WithdrawalRequest, error)

	// ListUserDeposits returns a user's deposit requests, newest first
	ListUserDeposits(ctx context.Context, userID uint64) ([]*entity.DepositRequest, error)

	// ListUserWithdrawals returns a user's withdrawal requests, newest first
	ListUserWithdrawals(ctx context.Context, userID uint64) ([]*entity.WithdrawalRequest, error)

	// ListPendingDeposits returns the admin review queue, oldest first
	ListPendingDeposits(ctx context.Context) ([]*entity.DepositRequest, error)

	// ListPendingWithdrawals returns the admin review queue, oldest first
	ListPendingWithdrawals(ctx context.Context) ([]*entity.WithdrawalRequest, error)
}
