package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mohammeder55/CS50-finance/internal/config"
	"github.com/mohammeder55/CS50-finance/internal/domain"
	"github.com/mohammeder55/CS50-finance/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Cache looks prices up in the quotes table first and only contacts the
// provider when the cached row is missing or older than the freshness
// window. Symbols are opaque and case-sensitive; no normalization.
type Cache struct {
	db      *gorm.DB
	client  *http.Client
	baseURL string
	apiKey  string
	window  time.Duration
}

// NewCache builds a Cache from the quote section of the configuration.
func NewCache(db *gorm.DB, cfg config.QuoteConfig) *Cache {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	window := time.Duration(cfg.FreshnessHours) * time.Hour
	if window <= 0 {
		window = 24 * time.Hour
	}
	return &Cache{
		db:      db,
		client:  &http.Client{Timeout: timeout},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		window:  window,
	}
}

// providerQuote mirrors the fields of the provider's JSON body we care
// about. LatestPrice is a pointer so a missing field is detectable.
type providerQuote struct {
	Symbol      string   `json:"symbol"`
	CompanyName string   `json:"companyName"`
	LatestPrice *float64 `json:"latestPrice"`
}

// Lookup returns the price for symbol, serving it from the cache while
// fresh and refreshing it from the provider otherwise. Provider
// failures of any kind map to domain.ErrQuoteUnavailable and leave the
// cache untouched.
func (c *Cache) Lookup(ctx context.Context, symbol string) (*Quote, error) {
	if symbol == "" {
		return nil, fmt.Errorf("%w: empty symbol", domain.ErrQuoteUnavailable)
	}

	var row models.Quote
	err := c.db.WithContext(ctx).Where("symbol = ?", symbol).First(&row).Error
	switch {
	case err == nil:
		if time.Since(row.FetchedAt) < c.window {
			return &Quote{Symbol: symbol, PriceCents: row.PriceCents}, nil
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		// miss, fall through to the provider
	default:
		return nil, fmt.Errorf("read quote cache: %w", err)
	}

	q, err := c.fetch(ctx, symbol)
	if err != nil {
		return nil, err
	}

	// update price/fetched_at if a row existed, insert otherwise
	upsert := c.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}},
		DoUpdates: clause.AssignmentColumns([]string{"price_cents", "fetched_at"}),
	}).Create(&models.Quote{
		Symbol:     symbol,
		PriceCents: q.PriceCents,
		FetchedAt:  time.Now(),
	})
	if upsert.Error != nil {
		return nil, fmt.Errorf("write quote cache: %w", upsert.Error)
	}

	return q, nil
}

// fetch performs one provider request. Every failure mode (transport,
// status, malformed body) maps to domain.ErrQuoteUnavailable so a bad
// response can never corrupt the cache.
func (c *Cache) fetch(ctx context.Context, symbol string) (*Quote, error) {
	addr := fmt.Sprintf("%s/stock/%s/quote?token=%s",
		c.baseURL, url.PathEscape(symbol), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrQuoteUnavailable, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrQuoteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: provider status %s", domain.ErrQuoteUnavailable, resp.Status)
	}

	var pq providerQuote
	if err := json.NewDecoder(resp.Body).Decode(&pq); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrQuoteUnavailable, err)
	}
	if pq.LatestPrice == nil {
		return nil, fmt.Errorf("%w: missing latestPrice", domain.ErrQuoteUnavailable)
	}

	cents, err := domain.PriceToCents(*pq.LatestPrice)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrQuoteUnavailable, err)
	}

	name := pq.CompanyName
	sym := pq.Symbol
	if sym == "" {
		sym = symbol
	}
	return &Quote{Symbol: sym, Name: name, PriceCents: cents}, nil
}
