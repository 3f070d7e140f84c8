package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/nutriswap/backend/internal/domain"
	"github.com/nutriswap/backend/internal/logger"
)

const (
	StrategyCurated  = "curated"
	StrategyExternal = "external"

	minRecognitionConfidence = 0.5
)

// RecommendationConfig holds configuration for the recommendation service
type RecommendationConfig struct {
	MaxAlternatives   int
	CuratedLimit      int
	MinCalorieSavings float64
	Logger            *slog.Logger
}

// RecommendationService ranks lower-calorie alternatives for a food
type RecommendationService struct {
	nutrition         *NutritionService
	maxAlternatives   int
	curatedLimit      int
	minCalorieSavings float64
	log               *slog.Logger
}

// NewRecommendationService creates a recommender on top of the nutrition service
func NewRecommendationService(nutrition *NutritionService, config RecommendationConfig) *RecommendationService {
	maxAlternatives := config.MaxAlternatives
	if maxAlternatives <= 0 {
		maxAlternatives = 5
	}
	curatedLimit := config.CuratedLimit
	if curatedLimit <= 0 {
		curatedLimit = 3
	}
	minSavings := config.MinCalorieSavings
	if minSavings <= 0 || minSavings >= 1 {
		minSavings = 0.2
	}

	return &RecommendationService{
		nutrition:         nutrition,
		maxAlternatives:   maxAlternatives,
		curatedLimit:      curatedLimit,
		minCalorieSavings: minSavings,
		log:               logger.Component(config.Logger, "recommend"),
	}
}

// RecommendAlternatives resolves foodName and ranks healthier swaps for it.
// Foods resolved from the curated table are compared against the table
// itself; everything else, or a curated food with no curated swaps, goes
// through the external search. The original is never among the results.
func (s *RecommendationService) RecommendAlternatives(
	ctx context.Context,
	foodName string,
	category domain.Category,
	hints domain.ResolveHints,
) (*domain.Recommendation, error) {
	original, err := s.nutrition.ResolveNutrition(ctx, foodName, hints)
	if err != nil {
		return nil, err
	}

	if category == domain.CategoryNone {
		category = original.Category
	}

	if original.Provenance == domain.ProvenanceCurated {
		if food, ok := curatedByName(original.Name); ok {
			rec := s.curatedRecommendation(*original, food)
			if len(rec.Alternatives) > 0 {
				s.log.Info("alternatives recommended",
					"food", foodName, "strategy", rec.Strategy, "count", len(rec.Alternatives))
				return rec, nil
			}
			s.log.Debug("no curated alternatives, searching externally", "food", original.Name)
		}
	}

	rec, err := s.externalRecommendation(ctx, *original, foodName, category)
	if err != nil {
		return nil, err
	}

	s.log.Info("alternatives recommended",
		"food", foodName, "strategy", rec.Strategy,
		"count", len(rec.Alternatives), "candidates", rec.TotalOptions)

	return rec, nil
}

// ResolveRecognition recommends alternatives for an upstream recognition.
// Low-confidence recognitions are rejected as invalid input.
func (s *RecommendationService) ResolveRecognition(ctx context.Context, r domain.RecognitionResult) (*domain.Recommendation, error) {
	if strings.TrimSpace(r.FoodName) == "" {
		return nil, &domain.ValidationError{Field: "foodName", Reason: "is required"}
	}
	if r.Confidence < minRecognitionConfidence {
		return nil, &domain.ValidationError{
			Field:  "confidence",
			Reason: fmt.Sprintf("%.2f is below %.2f", r.Confidence, minRecognitionConfidence),
		}
	}

	name := r.FoodName
	if r.Brand != "" && !strings.Contains(strings.ToLower(name), strings.ToLower(r.Brand)) {
		name = r.Brand + " " + name
	}

	category, _ := domain.ParseCategory(r.Category)

	return s.RecommendAlternatives(ctx, name, category, r.Hints())
}

// curatedRecommendation compares per serving against the curated table.
// Scores are relative to the best swap, which scores 100.
func (s *RecommendationService) curatedRecommendation(original domain.NutritionData, food curatedFood) *domain.Recommendation {
	all := curatedAlternatives(food, 0)
	limit := min(s.curatedLimit, len(all))

	best := 1.0
	if len(all) > 0 && all[0].score > 0 {
		best = all[0].score
	}

	alternatives := make([]domain.FoodAlternative, 0, limit)
	for _, c := range all[:limit] {
		alt := c.food.toNutritionData()
		saved := original.Calories - alt.Calories
		improvement := alt.LegacyHealthScore - original.LegacyHealthScore

		alternatives = append(alternatives, domain.FoodAlternative{
			Food:                   alt,
			CaloriesSaved:          math.Round(saved),
			CaloriesSavedPercent:   savedPercent(saved, original.Calories),
			HealthScoreImprovement: improvement,
			Reason:                 alternativeReason(saved, original.Calories, improvement, alt.Protein-original.Protein),
			Score:                  clampInt(int(math.Round(c.score/best*100)), 0, 100),
		})
	}

	return &domain.Recommendation{
		Original:     original,
		Alternatives: alternatives,
		Strategy:     StrategyCurated,
		TotalOptions: len(all),
	}
}

// scoredAlternative keeps the unrounded savings for tie-breaking
type scoredAlternative struct {
	alt   domain.FoodAlternative
	saved float64
}

// externalRecommendation searches healthier phrasings of the food and keeps
// candidates with enough calorie savings. Comparisons are per 100g.
func (s *RecommendationService) externalRecommendation(
	ctx context.Context,
	original domain.NutritionData,
	foodName string,
	category domain.Category,
) (*domain.Recommendation, error) {
	queries := alternativeQueries(NormalizeFoodNameForSearch(foodName), category)

	batches, err := s.nutrition.SearchMultiple(ctx, queries)
	if err != nil {
		return nil, err
	}

	base := original.Per100g()
	baseLegacy := LegacyHealthScore(base)
	threshold := s.minCalorieSavings * base.Calories

	seen := make(map[string]bool)
	var candidates []scoredAlternative
	total := 0

	for _, batch := range batches {
		for _, food := range batch {
			key := candidateKey(food)
			if seen[key] {
				continue
			}
			seen[key] = true
			total++

			if isSameFood(original, food) {
				continue
			}

			per100 := food.Per100g()
			saved := base.Calories - per100.Calories
			if saved <= 0 || saved < threshold {
				continue
			}

			improvement := LegacyHealthScore(per100) - baseLegacy
			proteinDiff := per100.Protein - base.Protein
			fiberDiff := per100.Fiber - base.Fiber

			candidates = append(candidates, scoredAlternative{
				saved: saved,
				alt: domain.FoodAlternative{
					Food:                   food,
					CaloriesSaved:          math.Round(saved),
					CaloriesSavedPercent:   savedPercent(saved, base.Calories),
					HealthScoreImprovement: improvement,
					Reason:                 alternativeReason(saved, base.Calories, improvement, proteinDiff),
					Score:                  externalScore(saved, improvement, proteinDiff, fiberDiff),
				},
			})
		}
	}

	sortAlternatives(candidates)

	limit := min(s.maxAlternatives, len(candidates))
	alternatives := make([]domain.FoodAlternative, 0, limit)
	for _, c := range candidates[:limit] {
		alternatives = append(alternatives, c.alt)
	}

	return &domain.Recommendation{
		Original:     original,
		Alternatives: alternatives,
		Strategy:     StrategyExternal,
		TotalOptions: total,
	}, nil
}

// externalScore is 50 plus capped bonuses for savings, health, protein and fiber
func externalScore(saved float64, improvement int, proteinDiff, fiberDiff float64) int {
	score := 50.0
	score += math.Min(saved/10, 30)
	score += math.Min(float64(improvement)/2, 20)
	score += math.Min(math.Max(proteinDiff, 0), 10)
	score += math.Min(math.Max(fiberDiff, 0)*2, 10)
	return clampInt(int(math.Round(score)), 0, 100)
}

// sortAlternatives orders by score, then savings, then name
func sortAlternatives(c []scoredAlternative) {
	sort.SliceStable(c, func(i, j int) bool {
		if c[i].alt.Score != c[j].alt.Score {
			return c[i].alt.Score > c[j].alt.Score
		}
		if c[i].saved != c[j].saved {
			return c[i].saved > c[j].saved
		}
		return strings.ToLower(c[i].alt.Food.Name) < strings.ToLower(c[j].alt.Food.Name)
	})
}

func candidateKey(food domain.NutritionData) string {
	if food.ExternalID != "" {
		return "id:" + food.ExternalID
	}
	return "name:" + strings.ToLower(strings.TrimSpace(food.Name))
}

func isSameFood(original, food domain.NutritionData) bool {
	if original.ExternalID != "" && original.ExternalID == food.ExternalID {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(original.Name), strings.TrimSpace(food.Name))
}

func savedPercent(saved, originalCalories float64) int {
	if originalCalories <= 0 {
		return 0
	}
	return int(math.Round(saved / originalCalories * 100))
}

// alternativeReason lists savings, health delta and protein in that order
func alternativeReason(saved, originalCalories float64, improvement int, proteinDiff float64) string {
	var parts []string
	if saved > 0 {
		parts = append(parts, fmt.Sprintf("%d%% fewer calories", savedPercent(saved, originalCalories)))
	}
	switch {
	case improvement > 10:
		parts = append(parts, "much healthier")
	case improvement > 0:
		parts = append(parts, "healthier option")
	}
	if proteinDiff > 5 {
		parts = append(parts, "more protein")
	}
	if len(parts) == 0 {
		return "Healthier alternative"
	}
	return capitalize(strings.Join(parts, ", "))
}

func capitalize(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
