// Package quote provides stock price lookup backed by a persisted,
// time-bounded cache in front of the external quote provider.
package quote

import "context"

// Quote is a priced symbol as returned to callers. Name is only
// populated when the price came from a live provider fetch; cache hits
// return it empty because the cache does not store company names.
type Quote struct {
	Symbol     string
	Name       string
	PriceCents int64
}

// Source is the lookup interface the trading engine consumes.
type Source interface {
	Lookup(ctx context.Context, symbol string) (*Quote, error)
}
