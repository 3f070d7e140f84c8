package usecase

import (
	"fmt"
	"math"
	"strings"

	"github.com/nutriswap/backend/internal/domain"
)

const (
	noReferenceConfidence = 75.0
	macroWarningPercent   = 30.0
	energyWarningPercent  = 20.0

	referenceSource   = "Web Average (USDA + MyFitnessPal)"
	noReferenceSource = "No Reference Data"
)

// referenceFood is a typical value set, per 100g unless the serving says otherwise
type referenceFood struct {
	name        string
	macros      domain.Macros
	servingSize float64
}

// referenceFoods is ordered; partial matches take the first entry that fits
var referenceFoods = []referenceFood{
	{"big mac", domain.Macros{Calories: 550, Protein: 25, Carbs: 46, Fat: 30}, 219},
	{"whopper", domain.Macros{Calories: 660, Protein: 28, Carbs: 49, Fat: 40}, 290},
	{"quarter pounder", domain.Macros{Calories: 520, Protein: 30, Carbs: 41, Fat: 26}, 194},
	{"spaghetti marinara", domain.Macros{Calories: 200, Protein: 7, Carbs: 40, Fat: 3}, 200},
	{"spaghetti", domain.Macros{Calories: 158, Protein: 5.8, Carbs: 30.9, Fat: 0.9}, 100},
	{"pasta", domain.Macros{Calories: 158, Protein: 5.8, Carbs: 30.9, Fat: 0.9}, 100},
	{"pepperoni pizza", domain.Macros{Calories: 280, Protein: 12, Carbs: 30, Fat: 12}, 100},
	{"margherita pizza", domain.Macros{Calories: 240, Protein: 10, Carbs: 28, Fat: 10}, 100},
	{"fried chicken", domain.Macros{Calories: 320, Protein: 23, Carbs: 12, Fat: 21}, 100},
	{"grilled chicken", domain.Macros{Calories: 165, Protein: 31, Carbs: 0, Fat: 3.6}, 100},
	{"caesar salad", domain.Macros{Calories: 180, Protein: 8, Carbs: 6, Fat: 15}, 100},
	{"greek salad", domain.Macros{Calories: 105, Protein: 4, Carbs: 7, Fat: 7}, 100},
	{"tomato sauce", domain.Macros{Calories: 24, Protein: 1.3, Carbs: 4.4, Fat: 0.5}, 100},
	{"olive oil", domain.Macros{Calories: 884, Protein: 0, Carbs: 0, Fat: 100}, 100},
	{"basil", domain.Macros{Calories: 23, Protein: 3.2, Carbs: 2.7, Fat: 0.6}, 100},
}

func findReference(foodName string) (referenceFood, bool) {
	name := strings.ToLower(strings.TrimSpace(foodName))
	if name == "" {
		return referenceFood{}, false
	}

	for _, ref := range referenceFoods {
		if ref.name == name {
			return ref, true
		}
	}
	for _, ref := range referenceFoods {
		if strings.Contains(name, ref.name) || strings.Contains(ref.name, name) {
			return ref, true
		}
	}
	return referenceFood{}, false
}

// ValidateNutrition compares macros against typical values for the food.
// Without a reference the result is valid with a default confidence.
func ValidateNutrition(foodName string, m domain.Macros) (domain.ValidationResult, error) {
	if err := m.Validate(); err != nil {
		return domain.ValidationResult{}, err
	}

	warnings := []string{}
	if w, ok := energyWarning(m); ok {
		warnings = append(warnings, w)
	}

	ref, ok := findReference(foodName)
	if !ok || ref.macros.Calories == 0 {
		return domain.ValidationResult{
			IsValid:         len(warnings) == 0,
			Confidence:      noReferenceConfidence,
			Warnings:        warnings,
			ReferenceSource: noReferenceSource,
		}, nil
	}

	diffs := domain.MacroDifferences{
		Calories: percentDiff(m.Calories, ref.macros.Calories),
		Protein:  percentDiff(m.Protein, ref.macros.Protein),
		Carbs:    percentDiff(m.Carbs, ref.macros.Carbs),
		Fat:      percentDiff(m.Fat, ref.macros.Fat),
	}

	if math.Abs(diffs.Calories) > macroWarningPercent {
		warnings = append(warnings, fmt.Sprintf(
			"Calories differ by %.0f%% from typical %s (expected ~%.0f kcal)",
			math.Abs(math.Round(diffs.Calories)), foodName, ref.macros.Calories))
	}
	if ref.macros.Protein > 0 && math.Abs(diffs.Protein) > macroWarningPercent {
		direction := "low"
		if diffs.Protein > 0 {
			direction = "high"
		}
		warnings = append(warnings, fmt.Sprintf(
			"Protein content unusually %s (expected ~%gg)", direction, ref.macros.Protein))
	}

	avg := (math.Abs(diffs.Calories) + math.Abs(diffs.Protein) + math.Abs(diffs.Carbs) + math.Abs(diffs.Fat)) / 4

	return domain.ValidationResult{
		IsValid:         math.Abs(diffs.Calories) < macroWarningPercent && len(warnings) == 0,
		Confidence:      math.Max(0, math.Min(100, 100-avg)),
		Warnings:        warnings,
		Differences:     diffs,
		ReferenceSource: referenceSource,
	}, nil
}

// energyWarning flags calories that disagree with the 4/4/9 estimate
func energyWarning(m domain.Macros) (string, bool) {
	estimated := m.EstimatedEnergy()
	if estimated <= 0 || m.Calories <= 0 {
		return "", false
	}
	diff := percentDiff(m.Calories, estimated)
	if math.Abs(diff) <= energyWarningPercent {
		return "", false
	}
	return fmt.Sprintf(
		"Calories (%.0f kcal) differ by %.0f%% from the protein/carbs/fat estimate (%.0f kcal)",
		m.Calories, math.Abs(math.Round(diff)), estimated), true
}

// percentDiff is (actual - expected) / expected as a percentage, 0 when expected is 0
func percentDiff(actual, expected float64) float64 {
	if expected == 0 {
		return 0
	}
	return (actual - expected) / expected * 100
}
