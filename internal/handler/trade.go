package handler

import (
	"net/http"

	"github.com/mohammeder55/CS50-finance/internal/engine"
	"github.com/mohammeder55/CS50-finance/internal/util"

	"github.com/gin-gonic/gin"
)

// TradeHandler serves buy and sell orders.
type TradeHandler struct {
	Engine *engine.Engine
}

func NewTradeHandler(e *engine.Engine) *TradeHandler {
	return &TradeHandler{Engine: e}
}

type tradeReq struct {
	Symbol string `json:"symbol" binding:"required"`
	Shares int64  `json:"shares" binding:"required"`
}

func (h *TradeHandler) Buy(c *gin.Context) {
	acct, ok := currentAccount(c)
	if !ok {
		return
	}

	var req tradeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}

	fill, err := h.Engine.Buy(c.Request.Context(), acct.ID, req.Symbol, req.Shares)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	util.Success(c, util.Response{
		"fill":  fill,
		"price": util.FormatPrice(fill.PriceCents),
		"total": util.FormatUSD(fill.TotalCents),
	})
}

func (h *TradeHandler) Sell(c *gin.Context) {
	acct, ok := currentAccount(c)
	if !ok {
		return
	}

	var req tradeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}

	fill, err := h.Engine.Sell(c.Request.Context(), acct.ID, req.Symbol, req.Shares)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	util.Success(c, util.Response{
		"fill":  fill,
		"price": util.FormatPrice(fill.PriceCents),
		"total": util.FormatUSD(fill.TotalCents),
	})
}
