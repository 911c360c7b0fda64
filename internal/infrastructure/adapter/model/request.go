package model

import (
	"time"
)

// DepositRequest represents the database model for deposit claims.
// The unique index on TransactionID is the hard guarantee against
// replayed payment proofs.
type DepositRequest struct {
	ID            uint64    `gorm:"primaryKey"`
	UserID        uint64    `gorm:"not null;index"`
	AmountBDT     int64     `gorm:"column:amount_bdt;not null"` // BDT cents
	Amount        int64     `gorm:"not null"`                   // coin cents
	Method        string    `gorm:"size:16;not null"`
	SenderNumber  string    `gorm:"size:32"`
	TransactionID string    `gorm:"size:64;not null;uniqueIndex"`
	Status        string    `gorm:"size:16;not null;index"`
	CreatedAt     time.Time `gorm:"not null"`
	ResolvedAt    *time.Time
}

// TableName specifies the table name for DepositRequest
func (DepositRequest) TableName() string {
	return "deposit_requests"
}

// WithdrawalRequest represents the database model for cash-out requests
type WithdrawalRequest struct {
	ID           uint64    `gorm:"primaryKey"`
	UserID       uint64    `gorm:"not null;index"`
	Amount       int64     `gorm:"not null"`                   // coin cents
	AmountBDT    int64     `gorm:"column:amount_bdt;not null"` // BDT cents
	Method       string    `gorm:"size:16;not null"`
	PayoutNumber string    `gorm:"size:32;not null"`
	Status       string    `gorm:"size:16;not null;index"`
	Refunded     bool      `gorm:"not null;default:false"`
	CreatedAt    time.Time `gorm:"not null"`
	ResolvedAt   *time.Time
}

// TableName specifies the table name for WithdrawalRequest
func (WithdrawalRequest) TableName() string {
	return "withdrawal_requests"
}
