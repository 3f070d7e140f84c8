package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIngredientWeights_Normalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Spaghetti Pasta", "spaghetti pasta"},
		{"fresh tomatoes", "tomatoes"},
		{"extra virgin olive oil", "olive oil"},
		{"grated parmesan cheese", "parmesan cheese"},
		{"dragon fruit", "unknown"},
		{"", "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultIngredientWeights.Normalize(tt.input))
		})
	}
}

func TestIngredientWeights_Weight(t *testing.T) {
	t.Run("known ingredients", func(t *testing.T) {
		assert.Equal(t, 200.0, DefaultIngredientWeights.Weight("spaghetti pasta"))
		assert.Equal(t, 100.0, DefaultIngredientWeights.Weight("tomato sauce"))
		assert.Equal(t, 5.0, DefaultIngredientWeights.Weight("basil"))
	})

	t.Run("unknown ingredient defaults to 100g", func(t *testing.T) {
		assert.Equal(t, 100.0, DefaultIngredientWeights.Weight("dragon fruit"))
	})

	t.Run("negligible ingredients weigh nothing", func(t *testing.T) {
		assert.Equal(t, 0.0, DefaultIngredientWeights.Weight("salt"))
		assert.Equal(t, 0.0, DefaultIngredientWeights.Weight("sea salt"))
	})

	t.Run("custom table", func(t *testing.T) {
		w := IngredientWeights{"lentils": 180}
		assert.Equal(t, 180.0, w.Weight("red lentils"))
		assert.Equal(t, 100.0, w.Weight("pasta"))
	})
}

func TestIngredientSearchQuery(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"pasta", "pasta cooked"},
		{"brown rice", "brown rice cooked"},
		{"cooked rice", "cooked rice"},
		{"tomato sauce", "tomato sauce"},
		{"basil", "basil"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ingredientSearchQuery(tt.input))
		})
	}
}
