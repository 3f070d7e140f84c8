package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/nutriswap/backend/internal/domain"
	"github.com/nutriswap/backend/internal/logger"
	"github.com/nutriswap/backend/internal/metrics"
)

const (
	plateServingGrams  = 250.0
	defaultConcurrency = 5
)

// gramsPattern finds an explicit weight such as "250g", "(250 g)" or "300 grams"
var gramsPattern = regexp.MustCompile(`(\d+)\s*g(?:rams?)?\b`)

// dishServingSizes are typical single portions in grams by dish word
var dishServingSizes = []struct {
	dish  string
	grams float64
}{
	{"burger", 200},
	{"pizza", 100},
	{"pasta", 250},
	{"salad", 150},
	{"rice", 150},
	{"chicken", 150},
	{"steak", 200},
	{"sandwich", 150},
}

// ParseServingSize reads a total weight from a serving hint.
// "1 plate (250g)" -> 250, "1 bowl" -> 250, "1 burger" -> 200.
// It reports false when the hint is empty or names nothing it knows, meaning
// the sum of ingredient weights should be used.
func ParseServingSize(hint string) (float64, bool) {
	lower := strings.ToLower(strings.TrimSpace(hint))
	if lower == "" {
		return 0, false
	}

	if m := gramsPattern.FindStringSubmatch(lower); m != nil {
		grams, err := strconv.Atoi(m[1])
		if err == nil && grams > 0 {
			return float64(grams), true
		}
	}

	if strings.Contains(lower, "plate") || strings.Contains(lower, "bowl") {
		return plateServingGrams, true
	}

	for _, d := range dishServingSizes {
		if strings.Contains(lower, d.dish) {
			return d.grams, true
		}
	}

	return 0, false
}

// foodSearcher is the cached external search the calculator resolves
// ingredients through
type foodSearcher interface {
	SearchFood(ctx context.Context, query string) ([]domain.NutritionData, error)
}

// CompositeConfig holds configuration for the composite calculator
type CompositeConfig struct {
	Weights     IngredientWeights
	Concurrency int
	Logger      *slog.Logger
	Metrics     *metrics.Collector
}

// CompositeCalculator estimates a dish's nutrition by summing its ingredients
type CompositeCalculator struct {
	searcher    foodSearcher
	matcher     *MatchingService
	weights     IngredientWeights
	concurrency int
	log         *slog.Logger
	metrics     *metrics.Collector
}

// NewCompositeCalculator creates a calculator that resolves ingredients through searcher
func NewCompositeCalculator(searcher foodSearcher, matcher *MatchingService, config CompositeConfig) *CompositeCalculator {
	weights := config.Weights
	if weights == nil {
		weights = DefaultIngredientWeights
	}

	concurrency := config.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	return &CompositeCalculator{
		searcher:    searcher,
		matcher:     matcher,
		weights:     weights,
		concurrency: concurrency,
		log:         logger.Component(config.Logger, "composite"),
		metrics:     config.Metrics,
	}
}

// ingredientResult is the outcome of resolving one ingredient
type ingredientResult struct {
	name   string
	weight float64
	food   domain.NutritionData
	found  bool
	err    error
}

// Calculate sums weight-scaled per-100g macros of every ingredient that
// resolves. Ingredients with no usable search result are skipped and logged.
// It fails with ErrNotFound when nothing resolves, or ErrUpstreamFailure when
// every lookup failed.
func (c *CompositeCalculator) Calculate(ctx context.Context, ingredients []string, servingHint string) (*domain.NutritionData, error) {
	var (
		names   []string
		pending []ingredientResult
	)
	for _, ingredient := range ingredients {
		name := strings.TrimSpace(ingredient)
		if name == "" {
			continue
		}
		names = append(names, name)
		weight := c.weights.Weight(name)
		if weight == 0 {
			c.log.Debug("skipping negligible ingredient", "ingredient", name)
			continue
		}
		pending = append(pending, ingredientResult{name: name, weight: weight})
	}

	if len(pending) == 0 {
		return nil, fmt.Errorf("%w: no measurable ingredients in %v", domain.ErrNotFound, ingredients)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for i := range pending {
		g.Go(func() error {
			c.resolveIngredient(gctx, &pending[i])
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		total       domain.Macros
		totalWeight float64
		resolved    int
		failed      int
	)
	for _, r := range pending {
		switch {
		case r.err != nil:
			failed++
			c.metrics.IngredientSkipped()
			c.log.Warn("ingredient lookup failed, skipping", "ingredient", r.name, "error", r.err)
			continue
		case !r.found:
			c.metrics.IngredientSkipped()
			c.log.Warn("no data for ingredient, skipping", "ingredient", r.name)
			continue
		}

		resolved++
		totalWeight += r.weight
		total = total.Add(r.food.Per100g().Scale(r.weight / 100))
		c.log.Debug("ingredient resolved",
			"ingredient", r.name, "match", r.food.Name, "grams", r.weight,
			"calories", math.Round(r.food.Per100g().Calories*r.weight/100))
	}

	if resolved == 0 {
		if failed == len(pending) {
			return nil, fmt.Errorf("%w: every ingredient lookup failed", domain.ErrUpstreamFailure)
		}
		return nil, fmt.Errorf("%w: no ingredient of %v resolved", domain.ErrNotFound, ingredients)
	}

	total = roundMacros(total)

	servingSize := totalWeight
	if grams, ok := ParseServingSize(servingHint); ok {
		servingSize = grams
	}

	quality := DetectQualityAttributes(strings.Join(names, " "), "")

	result := &domain.NutritionData{
		Name:              strings.Join(names, " + ") + " (Homemade)",
		ServingLabel:      servingHint,
		ServingSize:       servingSize,
		MacroWeight:       totalWeight,
		Basis:             domain.BasisPerServing,
		Macros:            total,
		LegacyHealthScore: LegacyHealthScore(total),
		Quality:           quality,
		HealthScore:       scoreHealth(total, quality),
		Provenance:        domain.ProvenanceComposite,
		DataType:          "Composite",
		Ingredients:       names,
		Source:            "Ingredient estimate",
	}

	c.log.Info("composite calculated",
		"ingredients", len(pending), "resolved", resolved, "calories", total.Calories)

	return result, nil
}

func (c *CompositeCalculator) resolveIngredient(ctx context.Context, r *ingredientResult) {
	results, err := c.searcher.SearchFood(ctx, ingredientSearchQuery(r.name))
	if err != nil {
		r.err = err
		return
	}

	var usable []domain.NutritionData
	for _, food := range results {
		if food.Macros.Validate() == nil {
			usable = append(usable, food)
		}
	}

	r.food, r.found = c.matcher.SelectBestIngredientMatch(usable, r.name)
}

// roundMacros rounds calories and sodium to whole numbers and grams to one decimal
func roundMacros(m domain.Macros) domain.Macros {
	return domain.Macros{
		Calories: math.Round(m.Calories),
		Protein:  round1(m.Protein),
		Carbs:    round1(m.Carbs),
		Fat:      round1(m.Fat),
		Fiber:    round1(m.Fiber),
		Sugar:    round1(m.Sugar),
		Sodium:   math.Round(m.Sodium),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
