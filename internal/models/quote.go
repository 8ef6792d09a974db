package models

import "time"

// Quote is a cached price for one symbol, upserted on every successful
// provider fetch. A row is fresh while now - FetchedAt is inside the
// configured freshness window. The company name is deliberately not
// persisted; cache hits return the price only.
type Quote struct {
	Symbol     string    `gorm:"primaryKey;size:16"`
	PriceCents int64     `gorm:"not null"`
	FetchedAt  time.Time `gorm:"index;not null"`
}
