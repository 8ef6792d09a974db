package handler

import (
	"errors"
	"net/http"

	"github.com/mohammeder55/CS50-finance/internal/domain"
	"github.com/mohammeder55/CS50-finance/internal/models"
	"github.com/mohammeder55/CS50-finance/internal/util"

	"github.com/gin-gonic/gin"
)

// currentAccount pulls the account the auth middleware stored.
func currentAccount(c *gin.Context) (*models.Account, bool) {
	v, ok := c.Get("currentAccount")
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return nil, false
	}
	acct, ok := v.(*models.Account)
	if !ok || acct == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return nil, false
	}
	return acct, true
}

// writeDomainError maps core sentinel errors to HTTP responses; any
// other error is an infrastructure failure and becomes a 500.
func writeDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "quantity must be a positive whole number")
	case errors.Is(err, domain.ErrInsufficientFunds):
		util.Error(c, http.StatusUnprocessableEntity, util.CodeTradeReject, "not enough cash for this purchase")
	case errors.Is(err, domain.ErrInsufficientShares):
		util.Error(c, http.StatusUnprocessableEntity, util.CodeTradeReject, "you do not own that many shares")
	case errors.Is(err, domain.ErrQuoteUnavailable):
		util.Error(c, http.StatusBadGateway, util.CodeUpstream, "quote unavailable, try again later")
	case errors.Is(err, domain.ErrUsernameTaken):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "username already taken")
	case errors.Is(err, domain.ErrInvalidCredentials):
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "invalid username and/or password")
	case errors.Is(err, domain.ErrAccountNotFound):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "account not found")
	default:
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "internal error")
	}
}
