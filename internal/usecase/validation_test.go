package usecase

import (
	"errors"
	"testing"

	"github.com/nutriswap/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateNutrition(t *testing.T) {
	t.Run("values close to the reference are valid", func(t *testing.T) {
		got, err := ValidateNutrition("Big Mac", domain.Macros{Calories: 563, Protein: 25, Carbs: 46, Fat: 30})
		require.NoError(t, err)

		assert.True(t, got.IsValid)
		assert.Empty(t, got.Warnings)
		assert.InDelta(t, 2.36, got.Differences.Calories, 0.01)
		assert.InDelta(t, 99.4, got.Confidence, 0.1)
		assert.Equal(t, "Web Average (USDA + MyFitnessPal)", got.ReferenceSource)
	})

	t.Run("large calorie deviation is flagged", func(t *testing.T) {
		got, err := ValidateNutrition("big mac", domain.Macros{Calories: 900, Protein: 25, Carbs: 46, Fat: 30})
		require.NoError(t, err)

		assert.False(t, got.IsValid)
		require.Len(t, got.Warnings, 2)
		assert.Contains(t, got.Warnings[0], "protein/carbs/fat estimate")
		assert.Contains(t, got.Warnings[1], "Calories differ by 64%")
		assert.Less(t, got.Confidence, 100.0)
	})

	t.Run("protein deviation is flagged", func(t *testing.T) {
		got, err := ValidateNutrition("grilled chicken breast", domain.Macros{Calories: 165, Protein: 10, Carbs: 20, Fat: 4})
		require.NoError(t, err)

		assert.False(t, got.IsValid)
		require.Len(t, got.Warnings, 1)
		assert.Contains(t, got.Warnings[0], "Protein content unusually low")
	})

	t.Run("unknown food uses the default confidence", func(t *testing.T) {
		got, err := ValidateNutrition("dragon fruit", domain.Macros{Calories: 60, Protein: 1.2, Carbs: 13, Fat: 0.4})
		require.NoError(t, err)

		assert.True(t, got.IsValid)
		assert.Equal(t, 75.0, got.Confidence)
		assert.Equal(t, "No Reference Data", got.ReferenceSource)
		assert.Equal(t, domain.MacroDifferences{}, got.Differences)
	})

	t.Run("unknown food with inconsistent energy is invalid", func(t *testing.T) {
		got, err := ValidateNutrition("dragon fruit", domain.Macros{Calories: 400, Protein: 1, Carbs: 13, Fat: 0})
		require.NoError(t, err)

		assert.False(t, got.IsValid)
		assert.Len(t, got.Warnings, 1)
	})

	t.Run("rejects negative values", func(t *testing.T) {
		_, err := ValidateNutrition("apple", domain.Macros{Calories: -5})
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	})
}
