package usecase

import (
	"sort"
	"strings"
)

const (
	defaultIngredientWeight = 100.0
	unknownIngredient       = "unknown"
)

// IngredientWeights maps a canonical ingredient name to its assumed weight in
// grams for one home-cooked portion. A zero weight marks a negligible item.
type IngredientWeights map[string]float64

// DefaultIngredientWeights is the built-in portion table
var DefaultIngredientWeights = IngredientWeights{
	// Starches
	"pasta":           200,
	"spaghetti":       200,
	"spaghetti pasta": 200,
	"penne":           200,
	"fettuccine":      200,
	"rice":            150,
	"white rice":      150,
	"brown rice":      150,
	"bread":           60,
	"tortilla":        50,
	"noodles":         180,

	// Proteins
	"chicken breast":  150,
	"grilled chicken": 150,
	"beef":            150,
	"steak":           200,
	"pork":            150,
	"fish":            150,
	"salmon":          150,
	"tuna":            120,
	"shrimp":          100,
	"tofu":            150,
	"eggs":            100,

	// Sauces, fats and cheese
	"tomato sauce":    100,
	"marinara sauce":  100,
	"alfredo sauce":   80,
	"pesto":           30,
	"soy sauce":       15,
	"olive oil":       15,
	"butter":          10,
	"cream":           50,
	"cheese":          30,
	"parmesan":        20,
	"parmesan cheese": 20,
	"mozzarella":      50,

	// Vegetables and herbs
	"tomatoes":    100,
	"tomato":      100,
	"lettuce":     50,
	"onion":       50,
	"garlic":      10,
	"basil":       5,
	"fresh basil": 5,
	"spinach":     80,
	"broccoli":    100,
	"carrots":     80,
	"bell pepper": 80,
	"mushrooms":   60,

	// Negligible
	"salt":   0,
	"pepper": 0,
	"herbs":  2,
	"spices": 2,
}

// cookedStarches are searched in their cooked form
var cookedStarches = []string{
	"pasta", "spaghetti", "penne", "fettuccine", "noodles",
	"rice", "quinoa", "lentils", "beans",
}

// Normalize returns the table key for an ingredient: the exact key, else the
// first key (in sorted order) that contains or is contained by the name, else
// "unknown".
func (w IngredientWeights) Normalize(ingredient string) string {
	name := strings.ToLower(strings.TrimSpace(ingredient))
	if name == "" {
		return unknownIngredient
	}
	if _, ok := w[name]; ok {
		return name
	}

	for _, key := range w.sortedKeys() {
		if strings.Contains(name, key) || strings.Contains(key, name) {
			return key
		}
	}
	return unknownIngredient
}

// Weight returns the assumed grams for an ingredient, 100 when unknown
func (w IngredientWeights) Weight(ingredient string) float64 {
	if weight, ok := w[w.Normalize(ingredient)]; ok {
		return weight
	}
	return defaultIngredientWeight
}

// sortedKeys orders keys longest first so "spaghetti pasta" wins over "pasta",
// then alphabetically for determinism.
func (w IngredientWeights) sortedKeys() []string {
	keys := make([]string, 0, len(w))
	for k := range w {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}

// ingredientSearchQuery appends "cooked" to starches that don't already say so.
// "pasta" -> "pasta cooked", "tomato sauce" -> "tomato sauce".
func ingredientSearchQuery(ingredient string) string {
	lower := strings.ToLower(ingredient)
	if strings.Contains(lower, "cooked") {
		return ingredient
	}
	for _, starch := range cookedStarches {
		if strings.Contains(lower, starch) {
			return ingredient + " cooked"
		}
	}
	return ingredient
}
