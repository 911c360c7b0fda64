package model

import (
	"time"
)

// Settings represents the database model for the settings singleton.
// There is exactly one row; Version implements optimistic locking.
type Settings struct {
	ID            uint64    `gorm:"primaryKey"`
	ExchangeRate  int64     `gorm:"not null"`
	MinWithdrawal int64     `gorm:"not null"`
	MinDeposit    int64     `gorm:"not null"`
	ReferralBonus int64     `gorm:"not null"`
	SignupBonus   int64     `gorm:"not null"`
	CashInNumber  string    `gorm:"size:32;not null"`
	Version       uint64    `gorm:"not null;default:1"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName specifies the table name for Settings
func (Settings) TableName() string {
	return "settings"
}
