package domain

import "time"

// RecognitionResult is the output of upstream food recognition. The core
// consumes it as input and never produces it.
type RecognitionResult struct {
	FoodName    string   `json:"foodName"`
	Brand       string   `json:"brand,omitempty"`
	Category    string   `json:"category,omitempty"`
	Confidence  float64  `json:"confidence"`
	Ingredients []string `json:"ingredients,omitempty"`
	ServingSize string   `json:"servingSize,omitempty"`
	IsHomemade  bool     `json:"isHomemade,omitempty"`
}

// Hints converts the recognition output into resolution hints
func (r RecognitionResult) Hints() ResolveHints {
	return ResolveHints{
		Ingredients: r.Ingredients,
		ServingSize: r.ServingSize,
		IsHomemade:  r.IsHomemade,
	}
}

// NutritionFeedback is a user report that a record's calories look wrong
type NutritionFeedback struct {
	FoodName         string    `json:"foodName" binding:"required"`
	ExternalID       string    `json:"externalId,omitempty"`
	ReportedCalories float64   `json:"reportedCalories"`
	ActualCalories   float64   `json:"actualCalories"`
	Comment          string    `json:"comment,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
}

// ValidationResult compares a record against typical reference values
type ValidationResult struct {
	IsValid         bool             `json:"isValid"`
	Confidence      float64          `json:"confidence"`
	Warnings        []string         `json:"warnings"`
	Differences     MacroDifferences `json:"differences"`
	ReferenceSource string           `json:"referenceSource"`
}

// MacroDifferences holds percentage differences from a reference
type MacroDifferences struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}
