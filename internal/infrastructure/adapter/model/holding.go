package model

import (
	"time"
)

// Holding represents the database model for purchased holdings
type Holding struct {
	ID           uint64     `gorm:"primaryKey"`
	UserID       uint64     `gorm:"not null;index:idx_holdings_user_status"`
	AssetName    string     `gorm:"size:64;not null"`
	AssetType    string     `gorm:"size:16;not null"`
	AmountPaid   int64      `gorm:"not null"` // cents
	HourlyReturn int64      `gorm:"not null"`
	Status       string     `gorm:"size:16;not null;index:idx_holdings_user_status"`
	CreatedAt    time.Time  `gorm:"not null"`
	ExpiresAt    *time.Time `gorm:"index"` // null when the holding never expires
	ExpiredAt    *time.Time
}

// TableName specifies the table name for Holding
func (Holding) TableName() string {
	return "holdings"
}
