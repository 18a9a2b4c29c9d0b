package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"

	"github.com/SscSPs/settlement_app/cmd/docs"
	portssvc "github.com/SscSPs/settlement_app/internal/core/ports/services"
	"github.com/SscSPs/settlement_app/internal/middleware"
	"github.com/SscSPs/settlement_app/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
// rateLimiter may be nil to disable rate limiting.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	rateLimiter *limiter.Limiter,
) {
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, services, rateLimiter)
	setupSwaggerRoutes(r, cfg)
}

func setupAPIV1Routes(r *gin.Engine, services *portssvc.ServiceContainer, rateLimiter *limiter.Limiter) {
	v1 := r.Group("/api/v1", middleware.ActorMiddleware())
	if rateLimiter != nil {
		v1.Use(middleware.RateLimit(rateLimiter))
	} else {
		slog.Warn("Rate limiting disabled for /api/v1")
	}
	RegisterAPIRoutes(v1, services)
}

// RegisterAPIRoutes mounts every resource group under rg.
func RegisterAPIRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	registerAccountRoutes(rg, services.Account)
	registerJournalRoutes(rg, services.Journal)
	registerStockRoutes(rg, services.Stock)
	registerSaleRoutes(rg, services.Sale, services.Settlement)
	registerPaymentRoutes(rg, services.Payment)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
