package middleware

import (
	"net/http"
	"strings"

	"github.com/mohammeder55/CS50-finance/internal/account"
	"github.com/mohammeder55/CS50-finance/internal/models"
	"github.com/mohammeder55/CS50-finance/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthMiddleware verifies the JWT, checks the backing session has not
// been revoked, and puts the current account into the gin context.
func AuthMiddleware(jwtSecret string, db *gorm.DB, sessions *account.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenStr string

		// 1) Header: Authorization: Bearer xxx
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				tokenStr = parts[1]
			}
		}

		// 2) query param ?token=xxx (downloads cannot set headers)
		if tokenStr == "" {
			tokenStr = c.Query("token")
		}

		// 3) cookie
		if tokenStr == "" {
			if cookie, err := c.Cookie("fin_token"); err == nil {
				tokenStr = cookie
			}
		}

		if tokenStr == "" {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
			c.Abort()
			return
		}

		claims, err := util.ParseToken(jwtSecret, tokenStr)
		if err != nil {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "session expired, please log in again")
			c.Abort()
			return
		}

		ok, err := sessions.SessionValid(claims.SessionID)
		if err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "check session failed")
			c.Abort()
			return
		}
		if !ok {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "session expired, please log in again")
			c.Abort()
			return
		}

		var acct models.Account
		if err := db.First(&acct, claims.AccountID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				util.Error(c, http.StatusUnauthorized, util.CodeAuth, "account not found")
			} else {
				util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "load account failed")
			}
			c.Abort()
			return
		}

		c.Set("currentAccount", &acct)
		c.Set("sessionID", claims.SessionID)
		c.Next()
	}
}
