// Package engine orchestrates quotes and the ledger to execute trades.
// Each buy/sell is a single all-or-nothing database transaction: the
// ledger append and the cash update commit together or not at all.
package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/mohammeder55/CS50-finance/internal/domain"
	"github.com/mohammeder55/CS50-finance/internal/ledger"
	"github.com/mohammeder55/CS50-finance/internal/models"
	"github.com/mohammeder55/CS50-finance/internal/quote"

	"gorm.io/gorm"
)

// Fill is the result of a committed buy or sell.
type Fill struct {
	Symbol     string `json:"symbol"`
	Quantity   int64  `json:"quantity"`
	PriceCents int64  `json:"price_cents"`
	TotalCents int64  `json:"total_cents"`
}

// Position is one priced holding inside a portfolio valuation.
type Position struct {
	Symbol           string `json:"symbol"`
	Quantity         int64  `json:"quantity"`
	PriceCents       int64  `json:"price_cents"`
	MarketValueCents int64  `json:"market_value_cents"`
}

// Portfolio is a full account valuation: every nonzero holding priced
// at the current quote, plus cash and the resulting net worth.
type Portfolio struct {
	Positions     []Position `json:"positions"`
	CashCents     int64      `json:"cash_cents"`
	NetWorthCents int64      `json:"net_worth_cents"`
}

// Engine executes trades against the ledger at quoted prices.
type Engine struct {
	db     *gorm.DB
	quotes quote.Source
	ledger *ledger.Ledger
}

// New creates an Engine.
func New(db *gorm.DB, quotes quote.Source, l *ledger.Ledger) *Engine {
	return &Engine{db: db, quotes: quotes, ledger: l}
}

// tradeTotal computes qty * priceCents, rejecting quantities large
// enough to overflow int64. Without this guard a huge-but-positive
// quantity wraps the total, slips past the cash check and mints shares
// that were never paid for.
func tradeTotal(qty, priceCents int64) (int64, error) {
	if priceCents > 0 && qty > math.MaxInt64/priceCents {
		return 0, fmt.Errorf("%w: %d", domain.ErrInvalidQuantity, qty)
	}
	return qty * priceCents, nil
}

// Buy purchases qty shares of symbol at the current quoted price.
// The cash debit is a guarded UPDATE (cash_cents >= total), so two
// concurrent buys can never jointly overdraw the account: the losing
// transaction affects zero rows and rolls back untouched.
func (e *Engine) Buy(ctx context.Context, accountID uint, symbol string, qty int64) (*Fill, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidQuantity, qty)
	}

	q, err := e.quotes.Lookup(ctx, symbol)
	if err != nil {
		return nil, err
	}
	total, err := tradeTotal(qty, q.PriceCents)
	if err != nil {
		return nil, err
	}

	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Account{}).
			Where("id = ? AND cash_cents >= ?", accountID, total).
			Update("cash_cents", gorm.Expr("cash_cents - ?", total))
		if res.Error != nil {
			return fmt.Errorf("debit cash: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			// either the account is unknown or it cannot afford the trade
			var count int64
			if err := tx.Model(&models.Account{}).Where("id = ?", accountID).Count(&count).Error; err != nil {
				return fmt.Errorf("check account: %w", err)
			}
			if count == 0 {
				return domain.ErrAccountNotFound
			}
			return domain.ErrInsufficientFunds
		}

		return e.ledger.Append(tx, &models.Transaction{
			AccountID:      accountID,
			Symbol:         symbol,
			Quantity:       qty,
			UnitPriceCents: q.PriceCents,
		})
	})
	if err != nil {
		return nil, err
	}

	return &Fill{Symbol: symbol, Quantity: qty, PriceCents: q.PriceCents, TotalCents: total}, nil
}

// Sell disposes of qty shares of symbol at the current quoted price.
// The holding is recomputed from the ledger inside the same transaction
// that appends the sale, so a concurrent sell cannot dispose of the
// same shares twice.
func (e *Engine) Sell(ctx context.Context, accountID uint, symbol string, qty int64) (*Fill, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidQuantity, qty)
	}

	q, err := e.quotes.Lookup(ctx, symbol)
	if err != nil {
		return nil, err
	}
	total, err := tradeTotal(qty, q.PriceCents)
	if err != nil {
		return nil, err
	}

	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		held, err := e.ledger.HoldingFor(tx, accountID, symbol)
		if err != nil {
			return err
		}
		if qty > held {
			return domain.ErrInsufficientShares
		}

		if err := e.ledger.Append(tx, &models.Transaction{
			AccountID:      accountID,
			Symbol:         symbol,
			Quantity:       -qty,
			UnitPriceCents: q.PriceCents,
		}); err != nil {
			return err
		}

		res := tx.Model(&models.Account{}).
			Where("id = ?", accountID).
			Update("cash_cents", gorm.Expr("cash_cents + ?", total))
		if res.Error != nil {
			return fmt.Errorf("credit cash: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ErrAccountNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Fill{Symbol: symbol, Quantity: -qty, PriceCents: q.PriceCents, TotalCents: total}, nil
}

// PortfolioValue prices every nonzero holding of the account at the
// current quote. Valuation is all-or-nothing: if any symbol cannot be
// priced the whole call fails, so a reported net worth is never built
// from partial data.
func (e *Engine) PortfolioValue(ctx context.Context, accountID uint) (*Portfolio, error) {
	var acct models.Account
	if err := e.db.WithContext(ctx).First(&acct, accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("load account: %w", err)
	}

	holdings, err := e.ledger.HoldingsFor(accountID)
	if err != nil {
		return nil, err
	}

	p := &Portfolio{
		Positions:     make([]Position, 0, len(holdings)),
		CashCents:     acct.CashCents,
		NetWorthCents: acct.CashCents,
	}
	for symbol, qty := range holdings {
		q, err := e.quotes.Lookup(ctx, symbol)
		if err != nil {
			return nil, err
		}
		value := qty * q.PriceCents
		p.Positions = append(p.Positions, Position{
			Symbol:           symbol,
			Quantity:         qty,
			PriceCents:       q.PriceCents,
			MarketValueCents: value,
		})
		p.NetWorthCents += value
	}

	sort.Slice(p.Positions, func(i, j int) bool {
		return p.Positions[i].Symbol < p.Positions[j].Symbol
	})
	return p, nil
}

// History returns the account's full trade history in insertion order.
func (e *Engine) History(accountID uint) ([]models.Transaction, error) {
	return e.ledger.HistoryFor(accountID)
}
