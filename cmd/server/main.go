package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/nutriswap/backend/config"
	httpDelivery "github.com/nutriswap/backend/internal/delivery/http"
	"github.com/nutriswap/backend/internal/domain"
	"github.com/nutriswap/backend/internal/infrastructure/cache"
	"github.com/nutriswap/backend/internal/infrastructure/feedback"
	"github.com/nutriswap/backend/internal/infrastructure/usda"
	"github.com/nutriswap/backend/internal/logger"
	"github.com/nutriswap/backend/internal/metrics"
	"github.com/nutriswap/backend/internal/usecase"
)

const (
	shutdownTimeout = 10 * time.Second
	warmupTimeout   = 2 * time.Minute
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	slog.SetDefault(log)

	log.Info("starting NutriSwap backend",
		"version", "1.0.0",
		"environment", cfg.Server.Environment,
		"port", cfg.Server.Port,
		"cache", cfg.Cache.Type,
		"cacheTTL", cfg.Cache.TTL)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := newCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.New(registry)

	usdaClient := usda.NewClient(usda.Config{
		APIKey:          cfg.USDA.APIKey,
		BaseURL:         cfg.USDA.BaseURL,
		PageSize:        cfg.USDA.PageSize,
		RequestsPerHour: cfg.RateLimit.USDA,
		Timeout:         cfg.USDA.Timeout,
		Logger:          log,
	})
	if cfg.USDA.Debug || cfg.Server.Environment == "development" {
		usdaClient.SetDebug(true)
		log.Info("USDA client debug mode enabled")
	}

	nutritionService := usecase.NewNutritionService(store, usdaClient, usecase.NutritionServiceConfig{
		CacheTTL:           cfg.Cache.TTL,
		Concurrency:        cfg.Recommendation.Concurrency,
		Logger:             log,
		Metrics:            collector,
		EnableDebugLogging: cfg.USDA.Debug,
	})

	recommendationService := usecase.NewRecommendationService(nutritionService, usecase.RecommendationConfig{
		MaxAlternatives:   cfg.Recommendation.MaxAlternatives,
		CuratedLimit:      cfg.Recommendation.CuratedLimit,
		MinCalorieSavings: cfg.Recommendation.MinCalorieSavings,
		Logger:            log,
	})

	feedbackSink := feedback.NewMemorySink(log)

	if cfg.Cache.WarmOnStart {
		go func() {
			warmCtx, cancel := context.WithTimeout(ctx, warmupTimeout)
			defer cancel()
			warmed := nutritionService.WarmCache(warmCtx)
			log.Info("search cache warmed", "queries", warmed)
		}()
	}

	handler := httpDelivery.NewHandler(nutritionService, recommendationService, feedbackSink, log)
	router := httpDelivery.SetupRouter(cfg, handler, httpDelivery.Observability{
		Logger:   log,
		Metrics:  collector,
		Gatherer: registry,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	log.Info("server stopped")
	return nil
}

// newCache builds the configured cache and its close func
func newCache(ctx context.Context, cfg *config.Config) (domain.CacheRepository, func(), error) {
	switch cfg.Cache.Type {
	case "redis":
		redisCache, err := cache.NewRedisCache(ctx, cfg.Cache.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return redisCache, func() { redisCache.Close() }, nil
	default:
		memoryCache := cache.NewMemoryCache()
		return memoryCache, func() { memoryCache.Close() }, nil
	}
}
