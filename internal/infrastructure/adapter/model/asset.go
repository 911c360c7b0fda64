package model

import (
	"time"
)

// Asset represents the database model for catalog assets
type Asset struct {
	ID            uint64    `gorm:"primaryKey"`
	Name          string    `gorm:"size:64;not null;uniqueIndex"`
	Type          string    `gorm:"size:16;not null;index"`
	Price         int64     `gorm:"not null"` // cents
	Rate          int64     `gorm:"not null;default:0"`
	MonthlyProfit int64     `gorm:"not null;default:0"`
	StockLimit    uint32    `gorm:"not null;default:0"`
	UnitsSold     uint32    `gorm:"not null;default:0"`
	LifecycleDays int       `gorm:"not null;default:0"`
	Icon          string    `gorm:"size:64"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName specifies the table name for Asset
func (Asset) TableName() string {
	return "assets"
}
