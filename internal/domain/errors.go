package domain

import "errors"

// Sentinel errors for business-rule failures.
// The handler layer maps these to HTTP status codes; the core never
// mutates state before returning one of them.
var (
	ErrInvalidQuantity    = errors.New("invalid_quantity")
	ErrInsufficientFunds  = errors.New("insufficient_funds")
	ErrInsufficientShares = errors.New("insufficient_shares")
	ErrQuoteUnavailable   = errors.New("quote_unavailable")
	ErrUsernameTaken      = errors.New("username_taken")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrAccountNotFound    = errors.New("account_not_found")
)
