package usecase

import (
	"regexp"
	"strings"

	"github.com/nutriswap/backend/internal/domain"
)

// Compiled regex patterns for query preprocessing
var (
	// Matches parenthetical notes like "(McDonald's)" or "(large)"
	parentheticalPattern = regexp.MustCompile(`\(.*?\)`)

	// Matches anything that is not a word character or whitespace
	punctuationPattern = regexp.MustCompile(`[^\w\s]`)

	// Matches everything a cache key should not contain
	nonAlphanumericPattern = regexp.MustCompile(`[^a-z0-9\s]`)

	multiSpacePattern = regexp.MustCompile(`\s+`)
)

// categorySearchTerms lists healthier searches for each category
var categorySearchTerms = map[domain.Category][]string{
	domain.CategoryBurger:   {"grilled chicken burger", "veggie burger", "turkey burger"},
	domain.CategoryPizza:    {"thin crust pizza", "vegetable pizza", "margherita pizza"},
	domain.CategorySandwich: {"turkey sandwich", "veggie sandwich", "grilled chicken sandwich"},
	domain.CategorySalad:    {"chicken salad", "greek salad", "caesar salad"},
	domain.CategoryPasta:    {"whole wheat pasta", "marinara pasta", "vegetable pasta"},
	domain.CategoryChicken:  {"grilled chicken", "baked chicken", "chicken breast"},
	domain.CategoryBeef:     {"lean beef", "sirloin steak", "ground turkey"},
	domain.CategoryDessert:  {"fruit salad", "greek yogurt", "frozen yogurt"},
	domain.CategorySnack:    {"nuts", "fruit", "vegetables", "popcorn"},
	domain.CategoryBeverage: {"water", "green tea", "black coffee", "sparkling water"},
}

// quickRecommendations maps well-known foods to common lighter swaps
var quickRecommendations = map[string][]string{
	"big mac":         {"grilled chicken sandwich", "turkey burger", "veggie burger"},
	"whopper":         {"grilled chicken whopper", "impossible whopper", "turkey burger"},
	"french fries":    {"side salad", "apple slices", "carrots"},
	"chicken nuggets": {"grilled chicken strips", "grilled chicken salad"},
	"pizza":           {"thin crust vegetable pizza", "margherita pizza"},
	"soda":            {"water", "sparkling water", "unsweetened iced tea"},
	"milkshake":       {"smoothie", "protein shake", "greek yogurt"},
}

// NormalizeFoodNameForSearch lowercases a name and strips parenthetical notes
// and punctuation: "Big Mac (McDonald's)" -> "big mac".
func NormalizeFoodNameForSearch(name string) string {
	cleaned := strings.ToLower(name)
	cleaned = parentheticalPattern.ReplaceAllString(cleaned, "")
	cleaned = punctuationPattern.ReplaceAllString(cleaned, "")
	cleaned = multiSpacePattern.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// normalizeForCacheKey normalizes a string for use as cache key component.
// Converts to lowercase, removes special characters, and trims whitespace.
func normalizeForCacheKey(s string) string {
	result := strings.ToLower(s)
	result = nonAlphanumericPattern.ReplaceAllString(result, "")
	result = multiSpacePattern.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

// CategorySearchTerms returns the healthier searches for a category
func CategorySearchTerms(category domain.Category) ([]string, bool) {
	terms, ok := categorySearchTerms[category]
	return terms, ok
}

// QuickRecommendations returns predefined swaps for a well-known food
func QuickRecommendations(foodName string) ([]string, bool) {
	swaps, ok := quickRecommendations[NormalizeFoodNameForSearch(foodName)]
	return swaps, ok
}

// alternativeQueries builds the de-duplicated search set for the external
// recommendation strategy: category terms, lighter phrasings of the name,
// two generic healthy staples, then any quick swaps.
func alternativeQueries(foodName string, category domain.Category) []string {
	var queries []string

	if terms, ok := CategorySearchTerms(category); ok {
		queries = append(queries, terms...)
	}

	queries = append(queries,
		"low calorie "+foodName,
		"healthy "+foodName,
		"light "+foodName,
		"grilled chicken",
		"salad",
	)

	if swaps, ok := QuickRecommendations(foodName); ok {
		queries = append(queries, swaps...)
	}

	seen := make(map[string]bool, len(queries))
	unique := queries[:0]
	for _, q := range queries {
		key := strings.ToLower(q)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, q)
	}
	return unique
}
