package usecase

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/nutriswap/backend/internal/domain"
	"github.com/nutriswap/backend/internal/logger"
)

// FoodKind is how a food name should be resolved
type FoodKind int

const (
	// KindPlain is a generic food name: curated table, then external search
	KindPlain FoodKind = iota
	// KindBranded names a known chain or product: curated table, then external search
	KindBranded
	// KindComposite is a dish estimated from its ingredients
	KindComposite
)

func (k FoodKind) String() string {
	switch k {
	case KindBranded:
		return "branded"
	case KindComposite:
		return "composite"
	default:
		return "plain"
	}
}

// Candidate scoring weights
const (
	exactNameBonus     = 40
	substringNameBonus = 20
	hasBrandBonus      = 30
	famousChainBonus   = 20
	brandedTypeBonus   = 15
	surveyTypeBonus    = 10
	tooFewCalories     = 50.0
	tooFewPenalty      = 50
	tooManyCalories    = 1500.0
	tooManyPenalty     = 30
	frozenBrandPenalty = 200
)

// Ingredient scoring weights
const (
	cookedStarchBonus     = 30
	foundationTypeBonus   = 15
	ingredientSurveyBonus = 10
	garnishCalories       = 10.0
	garnishPenalty        = 50
)

// brandKeywords mark a name as a specific branded item
var brandKeywords = []string{
	"big mac", "whopper", "quarter pounder", "mcdonald's", "burger king",
	"subway", "kfc", "taco bell", "wendy's", "chipotle",
}

// compositeKeywords mark a restaurant or home-cooked dish
var compositeKeywords = []string{
	"pasta", "spaghetti", "salad", "bowl", "plate", "homemade",
	"marinara", "alfredo", "carbonara", "pesto", "stir fry", "fried rice",
	"mixed", "+",
}

// connectorRegex matches "with" and "and" as words, not inside "sandwich"
var connectorRegex = regexp.MustCompile(`\b(with|and)\b`)

// famousChains earn extra trust when they appear as a candidate's brand
var famousChains = []string{
	"mcdonald's", "burger king", "wendy's", "subway", "kfc", "taco bell", "chipotle",
}

// frozenBrands make packaged frozen meals that should not stand in for a dish
var frozenBrands = []string{
	"lean cuisine", "stouffer's", "stouffers", "healthy choice",
	"marie callender's", "banquet", "hungry-man", "hungry man",
	"smart ones", "michelina's", "kid cuisine", "birds eye",
}

// MatchConfig holds configuration for the matching service
type MatchConfig struct {
	Logger             *slog.Logger
	EnableDebugLogging bool
}

// MatchingService classifies food names and picks the best search candidates
type MatchingService struct {
	log                *slog.Logger
	enableDebugLogging bool
}

// NewMatchingService creates a new matching service with the given configuration
func NewMatchingService(config MatchConfig) *MatchingService {
	return &MatchingService{
		log:                logger.Component(config.Logger, "matcher"),
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// Classify decides how a food name should be resolved. Brand keywords win
// over composite keywords, so "McDonald's salad" is branded.
func (s *MatchingService) Classify(foodName string, hints domain.ResolveHints) FoodKind {
	name := strings.ToLower(foodName)

	if containsAny(name, brandKeywords) {
		return KindBranded
	}
	if hints.IsHomemade || len(hints.Ingredients) > 1 {
		return KindComposite
	}
	if containsAny(name, compositeKeywords) || connectorRegex.MatchString(name) {
		return KindComposite
	}
	return KindPlain
}

// SelectBestCandidate returns the highest scoring candidate. Ties keep the
// earlier candidate. With excludeFrozen set, frozen-meal brands are pushed
// far down the ranking.
func (s *MatchingService) SelectBestCandidate(
	candidates []domain.NutritionData,
	query string,
	excludeFrozen bool,
) (domain.NutritionData, bool) {
	if len(candidates) == 0 {
		return domain.NutritionData{}, false
	}

	best := 0
	bestScore := 0
	for i, c := range candidates {
		score := candidateScore(c, query, excludeFrozen)
		if s.enableDebugLogging {
			s.log.Debug("candidate scored",
				"query", query, "name", c.Name, "brand", c.Brand,
				"dataType", c.DataType, "score", score)
		}
		if i == 0 || score > bestScore {
			best, bestScore = i, score
		}
	}

	return candidates[best], true
}

// candidateScore adds the weighted matching factors for one candidate
func candidateScore(c domain.NutritionData, query string, excludeFrozen bool) int {
	score := nameMatchScore(strings.ToLower(c.Name), strings.ToLower(strings.TrimSpace(query)))

	brand := strings.ToLower(c.Brand)
	if brand != "" {
		score += hasBrandBonus
		if containsAny(brand, famousChains) {
			score += famousChainBonus
		}
	}

	switch {
	case c.DataType == "Branded":
		score += brandedTypeBonus
	case strings.HasPrefix(c.DataType, "Survey"):
		score += surveyTypeBonus
	}

	if c.Calories < tooFewCalories {
		score -= tooFewPenalty
	} else if c.Calories > tooManyCalories {
		score -= tooManyPenalty
	}

	score += c.LegacyHealthScore / 10

	if excludeFrozen && (containsAny(brand, frozenBrands) || containsAny(strings.ToLower(c.Name), frozenBrands)) {
		score -= frozenBrandPenalty
	}

	return score
}

// SelectBestIngredientMatch picks the search result that best represents a
// plain ingredient. A single record is returned as is.
func (s *MatchingService) SelectBestIngredientMatch(records []domain.NutritionData, ingredient string) (domain.NutritionData, bool) {
	if len(records) == 0 {
		return domain.NutritionData{}, false
	}
	if len(records) == 1 {
		return records[0], true
	}

	best := 0
	bestScore := 0
	for i, r := range records {
		score := ingredientScore(r, ingredient)
		if i == 0 || score > bestScore {
			best, bestScore = i, score
		}
	}

	if s.enableDebugLogging {
		s.log.Debug("ingredient matched",
			"ingredient", ingredient, "match", records[best].Name, "score", bestScore)
	}

	return records[best], true
}

func ingredientScore(r domain.NutritionData, ingredient string) int {
	want := strings.ToLower(strings.TrimSpace(ingredient))
	name := strings.ToLower(r.Name)

	score := 0
	if strings.Contains(name, "cooked") &&
		(strings.Contains(want, "pasta") || strings.Contains(want, "rice") || strings.Contains(want, "noodle")) {
		score += cookedStarchBonus
	}

	score += nameMatchScore(name, want)
	score += max(0, 20-len(strings.Fields(name))*2)

	switch {
	case r.DataType == "Foundation":
		score += foundationTypeBonus
	case strings.HasPrefix(r.DataType, "Survey"):
		score += ingredientSurveyBonus
	}

	if r.Calories < garnishCalories {
		score -= garnishPenalty
	}

	return score
}

// nameMatchScore is +40 for an exact match and +20 when either contains the other
func nameMatchScore(name, query string) int {
	if name == "" || query == "" {
		return 0
	}
	if name == query {
		return exactNameBonus
	}
	if strings.Contains(name, query) || strings.Contains(query, name) {
		return substringNameBonus
	}
	return 0
}

// EstimateIngredients guesses the ingredient list of a common dish from its
// name. It reports false for dishes it does not know.
func EstimateIngredients(foodName string) ([]string, bool) {
	name := strings.ToLower(foodName)
	has := func(s string) bool { return strings.Contains(name, s) }

	switch {
	case has("spaghetti") || has("pasta"):
		switch {
		case has("marinara"):
			return []string{"spaghetti pasta", "marinara sauce", "olive oil", "basil"}, true
		case has("alfredo"):
			return []string{"fettuccine", "alfredo sauce", "parmesan cheese"}, true
		case has("carbonara"):
			return []string{"spaghetti pasta", "cream", "parmesan cheese", "eggs"}, true
		case has("pesto"):
			return []string{"penne", "pesto", "parmesan cheese"}, true
		case has("tomato") || has("basil"):
			return []string{"spaghetti pasta", "tomato sauce", "olive oil", "basil"}, true
		default:
			return []string{"spaghetti pasta", "tomato sauce", "olive oil"}, true
		}

	case has("salad"):
		switch {
		case has("caesar"):
			return []string{"lettuce", "parmesan cheese", "croutons", "caesar dressing"}, true
		case has("greek"):
			return []string{"lettuce", "tomato", "cucumber", "feta cheese", "olive oil"}, true
		default:
			return []string{"lettuce", "tomato", "cucumber", "olive oil"}, true
		}

	case has("rice") && has("bowl"):
		switch {
		case has("chicken"):
			return []string{"white rice", "grilled chicken", "vegetables"}, true
		case has("beef"):
			return []string{"white rice", "beef", "vegetables"}, true
		default:
			return []string{"white rice", "vegetables"}, true
		}

	case has("stir fry"):
		if has("chicken") {
			return []string{"chicken breast", "vegetables", "soy sauce", "rice"}, true
		}
		return []string{"vegetables", "soy sauce", "rice"}, true
	}

	return nil, false
}

func containsAny(s string, keywords []string) bool {
	if s == "" {
		return false
	}
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
