package routes

import (
	"time"

	coreport "github.com/litepremium/coin-engine/internal/domain/port/core"
	"github.com/litepremium/coin-engine/internal/infrastructure/adapter/api/handler"
	"github.com/litepremium/coin-engine/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers bundles all API handlers wired into the router
type Handlers struct {
	User    *handler.UserHandler
	Catalog *handler.CatalogHandler
	Request *handler.RequestHandler
	Admin   *handler.AdminHandler
}

// SetupRoutes configures all the routes for the API
func SetupRoutes(
	router *gin.Engine,
	h Handlers,
	adminToken string,
	logger coreport.Logger,
) {
	// Public catalog and settings
	router.GET("/assets", h.Catalog.ListAssets)
	router.GET("/settings", h.Admin.GetSettings)

	// Observability
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// User routes
	userRoutes := router.Group("/user")
	{
		userRoutes.POST("/register", h.User.Register)
		userRoutes.GET("/:userId", h.User.GetProfile)
		userRoutes.GET("/:userId/balance", h.User.GetBalance)
		userRoutes.GET("/:userId/history", h.User.LedgerHistory)
		userRoutes.POST("/:userId/referral", h.User.ApplyReferral)

		userRoutes.GET("/:userId/holdings", h.Catalog.ListHoldings)
		userRoutes.POST("/:userId/purchase", h.Catalog.Purchase)

		userRoutes.POST("/:userId/deposits", h.Request.SubmitDeposit)
		userRoutes.GET("/:userId/deposits", h.Request.ListDeposits)
		userRoutes.POST("/:userId/withdrawals", h.Request.SubmitWithdrawal)
		userRoutes.GET("/:userId/withdrawals", h.Request.ListWithdrawals)
	}

	// Admin routes, guarded by the admin token header
	adminRoutes := router.Group("/admin", middleware.AdminAuth(adminToken, logger))
	{
		adminRoutes.POST("/assets", h.Catalog.CreateAsset)
		adminRoutes.PUT("/assets/:assetId", h.Catalog.UpdateAsset)
		adminRoutes.DELETE("/assets/:assetId", h.Catalog.DeleteAsset)

		adminRoutes.GET("/deposits", h.Request.ListPendingDeposits)
		adminRoutes.POST("/deposits/:requestId/resolve", h.Request.ResolveDeposit)
		adminRoutes.GET("/withdrawals", h.Request.ListPendingWithdrawals)
		adminRoutes.POST("/withdrawals/:requestId/resolve", h.Request.ResolveWithdrawal)

		adminRoutes.GET("/users", h.Admin.ListUsers)
		adminRoutes.POST("/users/:userId/adjust", h.Admin.AdjustBalance)
		adminRoutes.PUT("/users/:userId/badge", h.Admin.SetBadge)
		adminRoutes.PUT("/users/:userId/status", h.Admin.SetStatus)
		adminRoutes.DELETE("/users/:userId", h.Admin.DeleteUser)

		adminRoutes.PUT("/settings", h.Admin.UpdateSetting)
	}
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(
	router *gin.Engine,
	logger coreport.Logger,
	rateLimiter *middleware.RateLimiter,
	rateLimit int,
	rateLimitWindow time.Duration,
) {
	// Apply middlewares in the correct order
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS())
	router.Use(middleware.Metrics())
	if rateLimiter != nil {
		router.Use(rateLimiter.Limit(rateLimit, rateLimitWindow))
	}
}
