package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nutriswap/backend/config"
	"github.com/nutriswap/backend/internal/logger"
	"github.com/nutriswap/backend/internal/metrics"
)

// Observability bundles the request logger and metrics wiring of the router.
// Zero values are fine: no /metrics route and slog.Default() for logs.
type Observability struct {
	Logger   *slog.Logger
	Metrics  *metrics.Collector
	Gatherer prometheus.Gatherer
}

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, obs Observability) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(logger.Component(obs.Logger, "http")))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(MetricsMiddleware(obs.Metrics))

	router.GET("/health", handler.HealthCheck)
	if obs.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(obs.Gatherer, promhttp.HandlerOpts{})))
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		nutrition := v1.Group("/nutrition")
		{
			nutrition.POST("/resolve", handler.ResolveNutrition)
			nutrition.GET("/search", handler.SearchNutrition)
			nutrition.POST("/validate", handler.ValidateNutrition)
		}

		health := v1.Group("/health-score")
		{
			health.POST("", handler.ScoreHealth)
			health.POST("/compare", handler.CompareFoods)
		}

		v1.POST("/alternatives", handler.RecommendAlternatives)
		v1.POST("/recognitions/resolve", handler.ResolveRecognition)
		v1.POST("/feedback", handler.SubmitFeedback)
		v1.DELETE("/cache/search", handler.InvalidateSearch)
	}

	return router
}
