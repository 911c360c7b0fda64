package model

import (
	"time"
)

// LedgerEntry represents the database model for the append-only ledger
type LedgerEntry struct {
	ID           uint64    `gorm:"primaryKey"`
	UserID       uint64    `gorm:"not null;index:idx_ledger_user_created"`
	Amount       int64     `gorm:"not null"` // cents, signed
	BalanceAfter int64     `gorm:"not null"`
	Reason       string    `gorm:"size:32;not null"`
	Reference    string    `gorm:"size:128"`
	CreatedAt    time.Time `gorm:"not null;index:idx_ledger_user_created"`
}

// TableName specifies the table name for LedgerEntry
func (LedgerEntry) TableName() string {
	return "ledger_entries"
}
