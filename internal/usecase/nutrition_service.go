package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nutriswap/backend/internal/domain"
	"github.com/nutriswap/backend/internal/logger"
	"github.com/nutriswap/backend/internal/metrics"
)

const (
	searchCachePrefix = "usda:"
	externalSource    = "USDA FoodData Central"
)

// popularFoods are searched by WarmCache
var popularFoods = []string{
	"big mac", "whopper", "pizza", "french fries", "chicken nuggets",
	"salad", "subway sandwich", "taco", "burrito", "pasta",
}

// NutritionServiceConfig holds configuration for the nutrition service
type NutritionServiceConfig struct {
	CacheTTL           time.Duration
	Concurrency        int
	Weights            IngredientWeights
	Logger             *slog.Logger
	Metrics            *metrics.Collector
	EnableDebugLogging bool
}

// NutritionService resolves food names to nutrition data with caching
type NutritionService struct {
	cache       domain.CacheRepository
	searcher    domain.NutritionSearcher
	matcher     *MatchingService
	composite   *CompositeCalculator
	cacheTTL    time.Duration
	concurrency int
	log         *slog.Logger
	metrics     *metrics.Collector
	now         func() time.Time
}

// NewNutritionService creates a new nutrition service with dependencies
func NewNutritionService(
	cache domain.CacheRepository,
	searcher domain.NutritionSearcher,
	config NutritionServiceConfig,
) *NutritionService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 720 * time.Hour // Default 30 days
	}

	concurrency := config.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	matcher := NewMatchingService(MatchConfig{
		Logger:             config.Logger,
		EnableDebugLogging: config.EnableDebugLogging,
	})

	s := &NutritionService{
		cache:       cache,
		searcher:    searcher,
		matcher:     matcher,
		cacheTTL:    cacheTTL,
		concurrency: concurrency,
		log:         logger.Component(config.Logger, "nutrition"),
		metrics:     config.Metrics,
		now:         time.Now,
	}

	s.composite = NewCompositeCalculator(s, matcher, CompositeConfig{
		Weights:     config.Weights,
		Concurrency: concurrency,
		Logger:      config.Logger,
		Metrics:     config.Metrics,
	})

	return s
}

// Matcher exposes the matching service shared with the recommender
func (s *NutritionService) Matcher() *MatchingService {
	return s.matcher
}

// SearchFood runs an external search through the cache. Results are per
// 100g. An empty slice with a nil error means nothing matched.
func (s *NutritionService) SearchFood(ctx context.Context, query string) ([]domain.NutritionData, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, &domain.ValidationError{Field: "query", Reason: "is required"}
	}

	key := searchCacheKey(query)

	if cached, ok := s.getFromCache(ctx, key); ok {
		s.metrics.CacheLookup(true)
		s.log.Debug("cache hit", "query", query, "results", len(cached))
		return cached, nil
	}
	s.metrics.CacheLookup(false)

	start := time.Now()
	records, err := s.searcher.SearchFoods(ctx, query)
	s.metrics.UpstreamSearch(time.Since(start))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.log.Error("external search failed", "query", query, "error", err)
		if errors.Is(err, domain.ErrUpstreamFailure) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
	}

	results := make([]domain.NutritionData, 0, len(records))
	for _, rec := range records {
		if err := rec.Macros.Validate(); err != nil {
			s.log.Warn("dropping malformed search record", "query", query, "name", rec.Name, "error", err)
			continue
		}
		results = append(results, externalToNutrition(rec))
	}

	s.log.Info("external search", "query", query, "results", len(results), "duration", time.Since(start))

	if len(results) > 0 {
		s.setInCache(ctx, key, results)
	}

	return results, nil
}

// SearchMultiple runs several searches concurrently, at most the configured
// number at a time. Results are returned in query order. A failed query
// contributes no results; the call fails only when every query failed.
func (s *NutritionService) SearchMultiple(ctx context.Context, queries []string) ([][]domain.NutritionData, error) {
	results := make([][]domain.NutritionData, len(queries))
	errs := make([]error, len(queries))

	var g errgroup.Group
	g.SetLimit(s.concurrency)

	for i, q := range queries {
		g.Go(func() error {
			results[i], errs[i] = s.SearchFood(ctx, q)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	failed := 0
	for i, err := range errs {
		if err != nil {
			failed++
			s.log.Warn("alternative query failed", "query", queries[i], "error", err)
		}
	}
	if len(queries) > 0 && failed == len(queries) {
		return nil, fmt.Errorf("%w: all %d searches failed: %w", domain.ErrUpstreamFailure, failed, errors.Join(errs...))
	}

	return results, nil
}

// ResolveNutrition resolves a free-text food name to one nutrition record.
// Branded names try the curated table first, plain names only when they
// contain a full curated name; both fall back to the external search. Composite dishes are summed from their ingredients, estimated from
// the name when none are given.
func (s *NutritionService) ResolveNutrition(ctx context.Context, foodName string, hints domain.ResolveHints) (*domain.NutritionData, error) {
	name := strings.TrimSpace(foodName)
	if name == "" {
		return nil, &domain.ValidationError{Field: "foodName", Reason: "is required"}
	}

	kind := s.matcher.Classify(name, hints)

	var (
		result *domain.NutritionData
		err    error
	)
	switch kind {
	case KindComposite:
		result, err = s.resolveComposite(ctx, name, hints)
	default:
		result, err = s.resolveDirect(ctx, name, kind)
	}
	if err != nil {
		s.log.Info("resolution failed", "food", name, "kind", kind.String(), "error", err)
		return nil, err
	}

	s.metrics.Resolution(string(result.Provenance))
	s.log.Info("resolved",
		"food", name, "kind", kind.String(), "provenance", result.Provenance,
		"match", result.Name, "calories", result.Calories, "cached", result.Cached)

	return result, nil
}

func (s *NutritionService) resolveDirect(ctx context.Context, name string, kind FoodKind) (*domain.NutritionData, error) {
	lookup := FindCuratedFoodByName
	if kind == KindBranded {
		lookup = FindCuratedFood
	}
	if food, ok := lookup(name); ok {
		return &food, nil
	}
	return s.resolveExternal(ctx, name, false)
}

func (s *NutritionService) resolveComposite(ctx context.Context, name string, hints domain.ResolveHints) (*domain.NutritionData, error) {
	ingredients := hints.Ingredients
	if len(ingredients) == 0 {
		estimated, ok := EstimateIngredients(name)
		if !ok {
			s.log.Debug("no ingredient estimate, searching directly", "food", name)
			return s.resolveExternal(ctx, name, true)
		}
		ingredients = estimated
	}
	return s.composite.Calculate(ctx, ingredients, hints.ServingSize)
}

// resolveExternal searches the normalized name and keeps the best candidate
func (s *NutritionService) resolveExternal(ctx context.Context, name string, excludeFrozen bool) (*domain.NutritionData, error) {
	query := NormalizeFoodNameForSearch(name)
	if query == "" {
		query = strings.ToLower(name)
	}

	candidates, err := s.SearchFood(ctx, query)
	if err != nil {
		return nil, err
	}

	best, ok := s.matcher.SelectBestCandidate(candidates, query, excludeFrozen)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrNotFound, name)
	}
	return &best, nil
}

// InvalidateSearch drops the cached results for one query
func (s *NutritionService) InvalidateSearch(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return &domain.ValidationError{Field: "query", Reason: "is required"}
	}
	if err := s.cache.Delete(ctx, searchCacheKey(query)); err != nil {
		return fmt.Errorf("invalidate %q: %w", query, err)
	}
	s.log.Info("search cache invalidated", "query", query)
	return nil
}

// WarmCache searches a fixed list of popular foods so their results are
// cached. It returns how many searches succeeded.
func (s *NutritionService) WarmCache(ctx context.Context) int {
	warmed := 0
	for _, food := range popularFoods {
		if ctx.Err() != nil {
			break
		}
		if _, err := s.SearchFood(ctx, food); err != nil {
			s.log.Warn("cache warm-up failed", "query", food, "error", err)
			continue
		}
		warmed++
	}
	s.log.Info("cache warm-up completed", "warmed", warmed, "total", len(popularFoods))
	return warmed
}

// searchCacheKey creates a normalized cache key for a search query.
// Format: "usda:{normalized_query}"
func searchCacheKey(query string) string {
	return searchCachePrefix + normalizeForCacheKey(query)
}

// getFromCache returns cached results flagged as cached. Cache failures are
// logged and treated as a miss.
func (s *NutritionService) getFromCache(ctx context.Context, key string) ([]domain.NutritionData, bool) {
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			s.log.Warn("cache read failed", "key", key, "error", err)
		}
		return nil, false
	}

	var stored []domain.NutritionData
	if err := json.Unmarshal(raw, &stored); err != nil {
		s.log.Warn("discarding undecodable cache entry", "key", key, "error", err)
		return nil, false
	}

	results := make([]domain.NutritionData, len(stored))
	for i, item := range stored {
		results[i] = item.Clone()
		results[i].Cached = true
	}
	return results, true
}

// setInCache stores search results. Failures are logged and ignored.
func (s *NutritionService) setInCache(ctx context.Context, key string, results []domain.NutritionData) {
	now := s.now()
	stored := make([]domain.NutritionData, len(results))
	for i, item := range results {
		stored[i] = item.Clone()
		stored[i].CachedAt = now
	}

	raw, err := json.Marshal(stored)
	if err != nil {
		s.log.Warn("cache encode failed", "key", key, "error", err)
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.cacheTTL); err != nil {
		s.log.Warn("cache write failed", "key", key, "error", err)
	}
}

// externalToNutrition turns a per-100g search record into a scored record
func externalToNutrition(rec domain.FoodRecord) domain.NutritionData {
	quality := DetectQualityAttributes(rec.Name, rec.Description)

	return domain.NutritionData{
		Name:              rec.Name,
		Brand:             rec.Brand,
		ExternalID:        rec.ExternalID,
		ServingSize:       100,
		MacroWeight:       100,
		Basis:             domain.BasisPer100g,
		Macros:            rec.Macros,
		LegacyHealthScore: LegacyHealthScore(rec.Macros),
		Quality:           quality,
		HealthScore:       scoreHealth(rec.Macros, quality),
		Provenance:        domain.ProvenanceExternal,
		DataType:          rec.DataType,
		Source:            externalSource,
	}
}
