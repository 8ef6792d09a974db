// Package ledger is the append-only store of buy/sell transactions.
// It performs no business validation; affordability and share-ownership
// checks belong to the trading engine, which must run them in the same
// database transaction as the append.
package ledger

import (
	"fmt"

	"github.com/mohammeder55/CS50-finance/internal/models"

	"gorm.io/gorm"
)

// Ledger reads and appends transaction rows.
type Ledger struct {
	db *gorm.DB
}

// New creates a Ledger over db.
func New(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// Append adds one transaction row using tx, which is expected to be the
// caller's open gorm transaction so the append commits or rolls back
// together with the caller's other writes.
func (l *Ledger) Append(tx *gorm.DB, txn *models.Transaction) error {
	if err := tx.Create(txn).Error; err != nil {
		return fmt.Errorf("append transaction: %w", err)
	}
	return nil
}

// HoldingsFor returns the net quantity per symbol for an account,
// derived by summing every transaction. Symbols whose net quantity is
// zero are omitted.
func (l *Ledger) HoldingsFor(accountID uint) (map[string]int64, error) {
	return holdingsFor(l.db, accountID)
}

// HoldingFor returns the net quantity of one symbol for an account,
// computed with tx so the engine can read it inside a trade
// transaction. Zero means not owned.
func (l *Ledger) HoldingFor(tx *gorm.DB, accountID uint, symbol string) (int64, error) {
	var net int64
	err := tx.Model(&models.Transaction{}).
		Where("account_id = ? AND symbol = ?", accountID, symbol).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&net).Error
	if err != nil {
		return 0, fmt.Errorf("sum holding: %w", err)
	}
	return net, nil
}

// HistoryFor returns all of an account's transactions in insertion
// order.
func (l *Ledger) HistoryFor(accountID uint) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := l.db.Where("account_id = ?", accountID).
		Order("id ASC").
		Find(&txns).Error
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return txns, nil
}

type holdingRow struct {
	Symbol string
	Net    int64
}

func holdingsFor(db *gorm.DB, accountID uint) (map[string]int64, error) {
	var rows []holdingRow
	err := db.Model(&models.Transaction{}).
		Where("account_id = ?", accountID).
		Select("symbol, SUM(quantity) AS net").
		Group("symbol").
		Having("SUM(quantity) != 0").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("sum holdings: %w", err)
	}

	holdings := make(map[string]int64, len(rows))
	for _, r := range rows {
		holdings[r.Symbol] = r.Net
	}
	return holdings, nil
}
