package usda

import (
	"math"
	"strconv"

	"github.com/nutriswap/backend/internal/domain"
)

// FoodData Central nutrient IDs
const (
	NutrientIDEnergy       = 1008 // Calories (kcal)
	NutrientIDProtein      = 1003 // Protein (g)
	NutrientIDCarbohydrate = 1005 // Carbohydrates (g)
	NutrientIDTotalFat     = 1004 // Total Fat (g)
	NutrientIDFiber        = 1079 // Fiber (g)
	NutrientIDSugars       = 2000 // Total sugars (g)
	NutrientIDSodium       = 1093 // Sodium (mg)
)

// MapToFoodRecord converts a search hit to a per-100g food record.
// Calories and sodium are rounded to whole numbers, grams to one decimal.
func MapToFoodRecord(food Food) domain.FoodRecord {
	brand := food.BrandName
	if brand == "" {
		brand = food.BrandOwner
	}

	description := food.Ingredients
	if description == "" {
		description = brand
	}

	return domain.FoodRecord{
		Name:        food.Description,
		Brand:       brand,
		ExternalID:  strconv.Itoa(food.FdcID),
		DataType:    food.DataType,
		Description: description,
		Macros:      extractMacros(food.FoodNutrients),
	}
}

// extractMacros picks the tracked nutrients out of the nutrient list.
// Missing nutrients are zero.
func extractMacros(nutrients []FoodNutrient) domain.Macros {
	return domain.Macros{
		Calories: math.Round(FindNutrientValue(nutrients, NutrientIDEnergy)),
		Protein:  round1(FindNutrientValue(nutrients, NutrientIDProtein)),
		Carbs:    round1(FindNutrientValue(nutrients, NutrientIDCarbohydrate)),
		Fat:      round1(FindNutrientValue(nutrients, NutrientIDTotalFat)),
		Fiber:    round1(FindNutrientValue(nutrients, NutrientIDFiber)),
		Sugar:    round1(FindNutrientValue(nutrients, NutrientIDSugars)),
		Sodium:   math.Round(FindNutrientValue(nutrients, NutrientIDSodium)),
	}
}

// FindNutrientValue finds a specific nutrient value by ID
func FindNutrientValue(nutrients []FoodNutrient, nutrientID int) float64 {
	for _, nutrient := range nutrients {
		if nutrient.NutrientID == nutrientID {
			return nutrient.Value
		}
	}
	return 0.0
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
