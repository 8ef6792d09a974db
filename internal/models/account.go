package models

import "time"

// Account represents a trading account.
// CashCents is the authoritative current balance, stored in cents to
// avoid float error. It is mutated only by the trading engine as a side
// effect of a committed trade, and never goes negative.
type Account struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"size:64;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	CashCents    int64  `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	LastLoginAt *time.Time
	LastLoginIP string `gorm:"size:64"`
}
