package handler

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/mohammeder55/CS50-finance/internal/account"
	"github.com/mohammeder55/CS50-finance/internal/util"

	"github.com/gin-gonic/gin"
)

// AuthHandler serves registration, login and logout.
type AuthHandler struct {
	Accounts  *account.Store
	JWTSecret string
	JWTIssuer string
	TokenTTL  time.Duration
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(accounts *account.Store, jwtSecret, issuer string, ttlHours int) *AuthHandler {
	if ttlHours <= 0 {
		ttlHours = 24
	}
	return &AuthHandler{
		Accounts:  accounts,
		JWTSecret: jwtSecret,
		JWTIssuer: issuer,
		TokenTTL:  time.Duration(ttlHours) * time.Hour,
	}
}

// ---------- register ----------

type registerReq struct {
	Username        string `json:"username" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}

	req.Username = strings.TrimSpace(req.Username)

	if !usernameRe.MatchString(req.Username) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "username must be 3-20 letters, digits or underscores")
		return
	}
	if len(req.Password) < 8 || len(req.Password) > 64 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "password must be 8-64 characters")
		return
	}
	if req.Password != req.ConfirmPassword {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "passwords must match")
		return
	}

	acct, err := h.Accounts.Create(req.Username, req.Password)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	util.Success(c, util.Response{
		"message": "registered",
		"account": gin.H{
			"id":         acct.ID,
			"username":   acct.Username,
			"cash_cents": acct.CashCents,
			"cash":       util.FormatUSD(acct.CashCents),
		},
	})
}

// ---------- login ----------

type loginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}

	req.Username = strings.TrimSpace(req.Username)

	acct, err := h.Accounts.Verify(req.Username, req.Password)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	_ = h.Accounts.RecordLogin(acct.ID, c.ClientIP())

	sess, err := h.Accounts.OpenSession(acct.ID, h.TokenTTL)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "create session failed")
		return
	}

	token, err := util.GenerateToken(h.JWTSecret, h.JWTIssuer, acct.ID, sess.ID, h.TokenTTL)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "generate token failed")
		return
	}

	util.Success(c, util.Response{
		"token": token,
		"account": gin.H{
			"id":         acct.ID,
			"username":   acct.Username,
			"cash_cents": acct.CashCents,
		},
	})
}

// Logout revokes the session carried by the current token.
func (h *AuthHandler) Logout(c *gin.Context) {
	sessionID := c.GetString("sessionID")
	if sessionID != "" {
		if err := h.Accounts.RevokeSession(sessionID); err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "logout failed")
			return
		}
	}
	util.Success(c, util.Response{"message": "logged out"})
}

// GetMe returns the current account (requires AuthMiddleware).
func GetMe(c *gin.Context) {
	acct, ok := currentAccount(c)
	if !ok {
		return
	}

	util.Success(c, util.Response{
		"account": gin.H{
			"id":         acct.ID,
			"username":   acct.Username,
			"cash_cents": acct.CashCents,
			"cash":       util.FormatUSD(acct.CashCents),
			"created_at": acct.CreatedAt,
		},
	})
}
