package model

import (
	"time"
)

// User represents the database model for accounts
type User struct {
	ID            uint64    `gorm:"primaryKey"`
	Email         string    `gorm:"size:255;not null;uniqueIndex"`
	Status        string    `gorm:"size:16;not null;default:active"`
	Badge         string    `gorm:"size:16;not null;default:Silver"`
	Balance       int64     `gorm:"not null"` // Balance in cents
	MiningRate    int64     `gorm:"not null;default:0"`
	WorkerLevel   string    `gorm:"size:64"`
	ReferralCode  string    `gorm:"size:16;not null;uniqueIndex"`
	ReferrerID    *uint64   `gorm:"index"`
	ReferralCount uint64    `gorm:"not null;default:0"`
	LastAccrualAt time.Time `gorm:"not null"`
	AccrualCarry  int64     `gorm:"not null;default:0"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
