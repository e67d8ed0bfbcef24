package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/basket-service/basket_service/internal/api/handlers"
	"github.com/basket-service/basket_service/internal/api/middleware"
	"github.com/basket-service/basket_service/internal/infrastructure/di"
	"github.com/basket-service/basket_service/pkg/ratelimit"
	"github.com/basket-service/basket_service/pkg/tracing"
)

// SetupRoutes configures all application routes
func SetupRoutes(container *di.Container) *gin.Engine {
	router := gin.New()

	// Global middleware, order matters
	router.Use(tracing.HTTPMiddleware())
	router.Use(middleware.RequestID())
	router.Use(middleware.Metrics())
	router.Use(middleware.Logger(container.Logger))
	router.Use(middleware.Recovery(container.Logger))
	router.Use(middleware.CORS(container.Config.Server.AllowedOrigins))
	router.Use(middleware.SecurityHeaders())

	healthHandler := handlers.NewHealthHandler(container.HealthChecker)
	basketHandlers := handlers.NewBasketHandlers(container.BasketService, container.CacheInvalidator, container.ZapLog)
	calculatorHandlers := handlers.NewCalculatorHandlers(container.ZapLog)

	// Health checks (no rate limit)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)
	router.GET("/live", healthHandler.Live)
	router.GET("/version", healthHandler.Version)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	v1.Use(ratelimit.Middleware(container.RateLimiter, ratelimit.IPKeyFunc, container.ZapLog.Named("ratelimit")))
	{
		baskets := v1.Group("/baskets")
		{
			baskets.GET("", basketHandlers.ListBaskets)
			baskets.GET("/:id", basketHandlers.GetBasket)
			baskets.GET("/:id/projection", basketHandlers.GetProjection)
			baskets.GET("/:id/projection/export", basketHandlers.ExportProjection)
			baskets.GET("/:id/sip", basketHandlers.GetSchedule)
		}

		v1.GET("/compare", basketHandlers.Compare)

		sessions := v1.Group("/sessions")
		{
			sessions.POST("", basketHandlers.CreateSession)
			sessions.POST("/:session/baskets/:id/select", basketHandlers.SelectBasket)
			sessions.GET("/:session/baskets/:id", basketHandlers.GetSessionView)
		}

		calculators := v1.Group("/calculators")
		{
			calculators.POST("/sip", calculatorHandlers.SIP)
			calculators.POST("/lumpsum", calculatorHandlers.Lumpsum)
			calculators.POST("/goal", calculatorHandlers.Goal)
		}

		admin := v1.Group("/admin")
		admin.Use(middleware.ValidateAPIKey(container.Config.Server.AdminAPIKeys))
		{
			admin.GET("/cache/warmer", func(c *gin.Context) {
				c.JSON(http.StatusOK, container.CacheWarmer.GetStatus())
			})
			admin.DELETE("/cache", basketHandlers.InvalidateAllCache)
			admin.DELETE("/cache/baskets/:id", basketHandlers.InvalidateBasketCache)
		}
	}

	return router
}
