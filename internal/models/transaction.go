package models

import "time"

// Transaction is a single row of the append-only trade ledger.
// Quantity is positive for a buy and negative for a sell. Rows are
// immutable once written; holdings are always derived by summing them,
// never stored directly.
type Transaction struct {
	ID             uint   `gorm:"primaryKey"`
	AccountID      uint   `gorm:"index;not null"`
	Symbol         string `gorm:"size:16;index;not null"`
	Quantity       int64  `gorm:"not null"`
	UnitPriceCents int64  `gorm:"not null"`
	CreatedAt      time.Time

	Account Account `gorm:"constraint:OnDelete:CASCADE"`
}
