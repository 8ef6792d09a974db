package router

import (
	"github.com/mohammeder55/CS50-finance/internal/account"
	"github.com/mohammeder55/CS50-finance/internal/config"
	"github.com/mohammeder55/CS50-finance/internal/engine"
	"github.com/mohammeder55/CS50-finance/internal/handler"
	"github.com/mohammeder55/CS50-finance/internal/ledger"
	"github.com/mohammeder55/CS50-finance/internal/middleware"
	"github.com/mohammeder55/CS50-finance/internal/quote"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter wires the core services and configures the Gin engine.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// core services
	accounts := account.New(db, cfg.Security.BcryptCost, cfg.App.StartingCashCents)
	quotes := quote.NewCache(db, cfg.Quote)
	eng := engine.New(db, quotes, ledger.New(db))

	// ====== API ======
	api := r.Group("/api")

	jwtSecret := cfg.JWT.Secret
	authHandler := handler.NewAuthHandler(accounts, jwtSecret, cfg.JWT.Issuer, cfg.JWT.ExpireHours)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	// routes below require a valid login
	protected := api.Group("")
	protected.Use(
		middleware.AuthMiddleware(jwtSecret, db, accounts),
		middleware.AuditMiddleware(db),
	)

	protected.POST("/auth/logout", authHandler.Logout)
	protected.GET("/me", handler.GetMe)

	portfolioHandler := handler.NewPortfolioHandler(eng, quotes)
	protected.GET("/quote", portfolioHandler.GetQuote)
	protected.GET("/portfolio", portfolioHandler.GetPortfolio)
	protected.GET("/history", portfolioHandler.GetHistory)

	tradeHandler := handler.NewTradeHandler(eng)
	protected.POST("/buy", tradeHandler.Buy)
	protected.POST("/sell", tradeHandler.Sell)

	exportHandler := handler.NewExportHandler(eng)
	protected.GET("/export/csv", exportHandler.ExportCSV)
	protected.GET("/export/xlsx", exportHandler.ExportXLSX)

	return r
}
