package dto

import (
	"time"

	"github.com/litepremium/coin-engine/internal/domain/entity"
)

// DepositRequestPayload represents the payload for submitting a deposit claim
type DepositRequestPayload struct {
	Amount        string `json:"amount" binding:"required"`
	Method        string `json:"method" binding:"required"`
	SenderNumber  string `json:"senderNumber"`
	TransactionID string `json:"transactionId" binding:"required"`
}

// WithdrawalRequestPayload represents the payload for a cash-out request
type WithdrawalRequestPayload struct {
	Amount       string `json:"amount" binding:"required"`
	Method       string `json:"method" binding:"required"`
	PayoutNumber string `json:"payoutNumber" binding:"required"`
}

// ResolveRequestPayload represents an admin approve/reject decision
type ResolveRequestPayload struct {
	Approve bool `json:"approve"`
}

// DepositResponse represents a deposit request in API responses
type DepositResponse struct {
	ID            uint64     `json:"id"`
	UserID        uint64     `json:"userId"`
	AmountBDT     string     `json:"amountBdt"`
	Amount        string     `json:"amount"`
	Method        string     `json:"method"`
	SenderNumber  string     `json:"senderNumber,omitempty"`
	TransactionID string     `json:"transactionId"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
	ResolvedAt    *time.Time `json:"resolvedAt,omitempty"`
}

// NewDepositResponse maps a deposit request entity to its API representation
func NewDepositResponse(req *entity.DepositRequest) DepositResponse {
	return DepositResponse{
		ID:            req.ID,
		UserID:        req.UserID,
		AmountBDT:     entity.FormatCoins(req.AmountBDT),
		Amount:        entity.FormatCoins(req.Amount),
		Method:        string(req.Method),
		SenderNumber:  req.SenderNumber,
		TransactionID: req.TransactionID,
		Status:        string(req.Status),
		CreatedAt:     req.CreatedAt,
		ResolvedAt:    req.ResolvedAt,
	}
}

// WithdrawalResponse represents a withdrawal request in API responses
type WithdrawalResponse struct {
	ID           uint64     `json:"id"`
	UserID       uint64     `json:"userId"`
	Amount       string     `json:"amount"`
	AmountBDT    string     `json:"amountBdt"`
	Method       string     `json:"method"`
	PayoutNumber string     `json:"payoutNumber"`
	Status       string     `json:"status"`
	Refunded     bool       `json:"refunded"`
	CreatedAt    time.Time  `json:"createdAt"`
	ResolvedAt   *time.Time `json:"resolvedAt,omitempty"`
}

// NewWithdrawalResponse maps a withdrawal request entity to its API representation
func NewWithdrawalResponse(req *entity.WithdrawalRequest) WithdrawalResponse {
	return WithdrawalResponse{
		ID:           req.ID,
		UserID:       req.UserID,
		Amount:       entity.FormatCoins(req.Amount),
		AmountBDT:    entity.FormatCoins(req.AmountBDT),
		Method:       string(req.Method),
		PayoutNumber: req.PayoutNumber,
		Status:       string(req.Status),
		Refunded:     req.Refunded,
		CreatedAt:    req.CreatedAt,
		ResolvedAt:   req.ResolvedAt,
	}
}
