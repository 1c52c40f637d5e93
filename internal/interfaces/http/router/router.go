package router

import (
	"github.com/finboard/backend/internal/domain/identity"
	"github.com/finboard/backend/internal/infrastructure/auth"
	"github.com/finboard/backend/internal/infrastructure/config"
	"github.com/finboard/backend/internal/infrastructure/logger"
	"github.com/finboard/backend/internal/interfaces/http/handler"
	"github.com/finboard/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers bundles every HTTP handler the router mounts
type Handlers struct {
	System      *handler.SystemHandler
	Auth        *handler.AuthHandler
	Customer    *handler.CustomerHandler
	Invoice     *handler.InvoiceHandler
	Revenue     *handler.RevenueHandler
	User        *handler.UserHandler
	SearchIndex *handler.SearchIndexHandler
}

// Dependencies carries the cross-cutting services the middleware stack needs
type Dependencies struct {
	Config    *config.Config
	Logger    *zap.Logger
	JWT       *auth.JWTService
	Blacklist auth.TokenBlacklist
}

// New builds the gin engine with the full middleware stack and all routes
func New(deps Dependencies, h Handlers) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	_ = engine.SetTrustedProxies(deps.Config.HTTP.TrustedProxies)

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(deps.Logger))
	engine.Use(logger.Recovery(deps.Logger))
	engine.Use(middleware.Secure())

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = deps.Config.HTTP.CORSAllowOrigins
	if len(deps.Config.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = deps.Config.HTTP.CORSAllowMethods
	}
	if len(deps.Config.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = deps.Config.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsCfg))

	engine.Use(middleware.BodyLimit(deps.Config.HTTP.MaxBodySize))
	if deps.Config.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(
			deps.Config.HTTP.RateLimitRequests,
			deps.Config.HTTP.RateLimitWindow,
		)
		engine.Use(middleware.RateLimit(limiter))
	}

	engine.GET("/health", h.System.Health)

	jwtCfg := middleware.DefaultJWTConfig(deps.JWT)
	jwtCfg.TokenBlacklist = deps.Blacklist
	jwtCfg.Logger = deps.Logger

	api := engine.Group("/api/v1")
	api.Use(middleware.JWTAuth(jwtCfg))

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh", h.Auth.Refresh)
		authGroup.POST("/logout", h.Auth.Logout)
		authGroup.GET("/me", h.Auth.Me)
	}

	customers := api.Group("/customers")
	{
		customers.GET("", middleware.RequireGrant(identity.GrantCustomersRead), h.Customer.List)
		customers.GET("/:id", middleware.RequireGrant(identity.GrantCustomersRead), h.Customer.Get)
		customers.POST("", middleware.RequireGrant(identity.GrantCustomersWrite), h.Customer.Create)
		customers.PUT("/:id", middleware.RequireGrant(identity.GrantCustomersWrite), h.Customer.Update)
		customers.POST("/:id/image", middleware.RequireGrant(identity.GrantCustomersWrite), h.Customer.UploadImage)
		customers.DELETE("/:id", middleware.RequireGrant(identity.GrantCustomersWrite), h.Customer.Delete)
	}

	invoices := api.Group("/invoices")
	{
		invoices.GET("", middleware.RequireGrant(identity.GrantInvoicesRead), h.Invoice.List)
		// Static route before the :id wildcard
		invoices.GET("/search", middleware.RequireGrant(identity.GrantInvoicesRead), h.Invoice.Search)
		invoices.GET("/:id", middleware.RequireGrant(identity.GrantInvoicesRead), h.Invoice.Get)
		invoices.POST("", middleware.RequireGrant(identity.GrantInvoicesWrite), h.Invoice.Create)
		invoices.PUT("/:id", middleware.RequireGrant(identity.GrantInvoicesWrite), h.Invoice.Update)
		invoices.POST("/:id/pay", middleware.RequireGrant(identity.GrantInvoicesWrite), h.Invoice.MarkPaid)
		invoices.DELETE("/:id", middleware.RequireGrant(identity.GrantInvoicesWrite), h.Invoice.Delete)
	}

	reporting := api.Group("")
	reporting.Use(middleware.RequireGrant(identity.GrantRevenuesRead))
	{
		reporting.GET("/revenues", h.Revenue.List)
		reporting.GET("/overview", h.Revenue.Overview)
	}
	api.PUT("/revenues", middleware.RequireGrant(identity.GrantAdmin), h.Revenue.Upsert)

	users := api.Group("/users")
	{
		users.GET("", middleware.RequireGrant(identity.GrantUsersRead), h.User.List)
		users.GET("/:id", middleware.RequireGrant(identity.GrantUsersRead), h.User.Get)
		users.POST("", middleware.RequireGrant(identity.GrantUsersWrite), h.User.Create)
		users.PUT("/:id", middleware.RequireGrant(identity.GrantUsersWrite), h.User.Update)
		users.DELETE("/:id", middleware.RequireGrant(identity.GrantUsersWrite), h.User.Delete)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.RequireGrant(identity.GrantAdmin))
	{
		admin.POST("/search-index/rebuild", h.SearchIndex.Rebuild)
	}

	return engine
}
