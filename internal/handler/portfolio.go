package handler

import (
	"net/http"

	"github.com/mohammeder55/CS50-finance/internal/engine"
	"github.com/mohammeder55/CS50-finance/internal/quote"
	"github.com/mohammeder55/CS50-finance/internal/util"

	"github.com/gin-gonic/gin"
)

// PortfolioHandler serves quotes, valuation and trade history.
type PortfolioHandler struct {
	Engine *engine.Engine
	Quotes quote.Source
}

func NewPortfolioHandler(e *engine.Engine, quotes quote.Source) *PortfolioHandler {
	return &PortfolioHandler{Engine: e, Quotes: quotes}
}

// GetQuote looks a symbol up, e.g. GET /api/quote?symbol=AAPL.
func (h *PortfolioHandler) GetQuote(c *gin.Context) {
	if _, ok := currentAccount(c); !ok {
		return
	}

	symbol := c.Query("symbol")
	if symbol == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "symbol is required")
		return
	}

	q, err := h.Quotes.Lookup(c.Request.Context(), symbol)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	util.Success(c, util.Response{
		"quote": gin.H{
			"symbol":      q.Symbol,
			"name":        q.Name,
			"price_cents": q.PriceCents,
			"price":       util.FormatPrice(q.PriceCents),
		},
	})
}

// GetPortfolio returns the full valuation of the current account.
func (h *PortfolioHandler) GetPortfolio(c *gin.Context) {
	acct, ok := currentAccount(c)
	if !ok {
		return
	}

	p, err := h.Engine.PortfolioValue(c.Request.Context(), acct.ID)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	util.Success(c, util.Response{
		"positions": p.Positions,
		"cash":      util.FormatUSD(p.CashCents),
		"net_worth": util.FormatUSD(p.NetWorthCents),

		"cash_cents":      p.CashCents,
		"net_worth_cents": p.NetWorthCents,
	})
}

type historyRow struct {
	ID     uint   `json:"id"`
	Symbol string `json:"symbol"`
	Shares int64  `json:"shares"`
	Price  string `json:"price"`
	Time   string `json:"time"`
}

// GetHistory lists the account's transactions, oldest first.
func (h *PortfolioHandler) GetHistory(c *gin.Context) {
	acct, ok := currentAccount(c)
	if !ok {
		return
	}

	txns, err := h.Engine.History(acct.ID)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	rows := make([]historyRow, 0, len(txns))
	for _, t := range txns {
		rows = append(rows, historyRow{
			ID:     t.ID,
			Symbol: t.Symbol,
			Shares: t.Quantity,
			Price:  util.FormatPrice(t.UnitPriceCents),
			Time:   t.CreatedAt.Format("15:04, Mon 02/01/2006"),
		})
	}

	util.Success(c, util.Response{"history": rows})
}
