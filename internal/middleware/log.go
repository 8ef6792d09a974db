package middleware

import (
	"github.com/mohammeder55/CS50-finance/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuditMiddleware records one audit row per authenticated request.
// Request bodies are never stored; they carry credentials and trade
// details that do not belong in the log.
func AuditMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var accountID uint
		if v, ok := c.Get("currentAccount"); ok {
			if acct, ok := v.(*models.Account); ok && acct != nil {
				accountID = acct.ID
			}
		}

		c.Next()

		// only record operations of logged-in accounts
		if accountID == 0 {
			return
		}

		entry := models.AuditLog{
			AccountID: &accountID,
			Method:    c.Request.Method,
			Path:      c.Request.URL.Path,
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		}

		_ = db.Create(&entry).Error
	}
}
