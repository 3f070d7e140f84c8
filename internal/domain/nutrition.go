package domain

import (
	"math"
	"slices"
	"time"
)

// Provenance tags which resolution path produced a NutritionData record
type Provenance string

const (
	ProvenanceCurated   Provenance = "curated"
	ProvenanceExternal  Provenance = "external"
	ProvenanceComposite Provenance = "composite"
)

// Basis states what quantity of food the macro values describe
type Basis string

const (
	BasisPerServing Basis = "per_serving"
	BasisPer100g    Basis = "per_100g"
)

// Macros contains the macronutrients of a food. Grams unless noted.
type Macros struct {
	Calories float64 `json:"calories"` // kcal
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
	Sugar    float64 `json:"sugar"`
	Sodium   float64 `json:"sodium"` // mg
}

// Validate rejects negative macro values
func (m Macros) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"calories", m.Calories},
		{"protein", m.Protein},
		{"carbs", m.Carbs},
		{"fat", m.Fat},
		{"fiber", m.Fiber},
		{"sugar", m.Sugar},
		{"sodium", m.Sodium},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return &ValidationError{Field: f.name, Reason: "must be a finite number"}
		}
		if f.value < 0 {
			return &ValidationError{Field: f.name, Reason: "must not be negative"}
		}
	}
	return nil
}

// Scale multiplies every macro by factor
func (m Macros) Scale(factor float64) Macros {
	return Macros{
		Calories: m.Calories * factor,
		Protein:  m.Protein * factor,
		Carbs:    m.Carbs * factor,
		Fat:      m.Fat * factor,
		Fiber:    m.Fiber * factor,
		Sugar:    m.Sugar * factor,
		Sodium:   m.Sodium * factor,
	}
}

// Add returns the element-wise sum of two macro sets
func (m Macros) Add(o Macros) Macros {
	return Macros{
		Calories: m.Calories + o.Calories,
		Protein:  m.Protein + o.Protein,
		Carbs:    m.Carbs + o.Carbs,
		Fat:      m.Fat + o.Fat,
		Fiber:    m.Fiber + o.Fiber,
		Sugar:    m.Sugar + o.Sugar,
		Sodium:   m.Sodium + o.Sodium,
	}
}

// EstimatedEnergy is the 4/4/9 kcal-per-gram approximation of calories
func (m Macros) EstimatedEnergy() float64 {
	return m.Protein*4 + m.Carbs*4 + m.Fat*9
}

// QualityAttributes are non-nutritional quality flags. Any subset may be set.
type QualityAttributes struct {
	IsOrganic     bool `json:"isOrganic"`
	IsNonGMO      bool `json:"isNonGMO"`
	IsLocal       bool `json:"isLocal"`
	IsSustainable bool `json:"isSustainable"`
	HasCleanLabel bool `json:"hasCleanLabel"`
	IsFairTrade   bool `json:"isFairTrade"`
	IsGrassFed    bool `json:"isGrassFed"`
	IsWildCaught  bool `json:"isWildCaught"`
}

// Tier is the label derived from a total health score
type Tier string

const (
	TierExcellent Tier = "Excellent"
	TierGreat     Tier = "Great"
	TierGood      Tier = "Good"
	TierFair      Tier = "Fair"
	TierPoor      Tier = "Poor"
)

// Rank orders tiers from Poor (0) to Excellent (4)
func (t Tier) Rank() int {
	switch t {
	case TierExcellent:
		return 4
	case TierGreat:
		return 3
	case TierGood:
		return 2
	case TierFair:
		return 1
	default:
		return 0
	}
}

// Badge describes one true quality attribute for display
type Badge struct {
	Label       string `json:"label"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

// HealthScoreBreakdown is the two-tier health score.
// Total is always NutritionScore + QualityScore.
type HealthScoreBreakdown struct {
	Total          int     `json:"total"`
	NutritionScore int     `json:"nutritionScore"`
	QualityScore   int     `json:"qualityScore"`
	Badges         []Badge `json:"badges"`
	Tier           Tier    `json:"tier"`
}

// NutritionData is a resolved nutrition record. It is built fresh on every
// resolution and not mutated afterwards; cache hits are returned as clones.
type NutritionData struct {
	Name         string   `json:"name"`
	Brand        string   `json:"brand,omitempty"`
	ExternalID   string   `json:"externalId,omitempty"`
	Category     Category `json:"category,omitempty"`
	ServingLabel string   `json:"servingLabel,omitempty"`
	// ServingSize is the reference serving in grams
	ServingSize float64 `json:"servingSize"`
	// MacroWeight is the weight in grams that Macros describe
	MacroWeight float64 `json:"macroWeight"`
	Basis       Basis   `json:"basis"`
	Macros

	LegacyHealthScore int                  `json:"legacyHealthScore"`
	Quality           QualityAttributes    `json:"quality"`
	HealthScore       HealthScoreBreakdown `json:"healthScore"`

	Provenance  Provenance `json:"provenance"`
	DataType    string     `json:"dataType,omitempty"`
	Ingredients []string   `json:"ingredients,omitempty"`
	IsHealthy   bool       `json:"isHealthy,omitempty"`
	OrderURL    string     `json:"orderUrl,omitempty"`
	Source      string     `json:"source,omitempty"`
	Cached      bool       `json:"cached"`
	CachedAt    time.Time  `json:"cachedAt,omitzero"`
}

// Per100g returns the macros rescaled to 100 grams of food. Records without a
// known macro weight are returned unchanged.
func (n NutritionData) Per100g() Macros {
	if n.Basis == BasisPer100g || n.MacroWeight <= 0 {
		return n.Macros
	}
	return n.Macros.Scale(100 / n.MacroWeight)
}

// Clone returns a copy that shares no slices with n
func (n NutritionData) Clone() NutritionData {
	c := n
	c.Ingredients = slices.Clone(n.Ingredients)
	c.HealthScore.Badges = slices.Clone(n.HealthScore.Badges)
	return c
}

// FoodRecord is one per-100g result of an external nutrition search
type FoodRecord struct {
	Name        string `json:"name"`
	Brand       string `json:"brand,omitempty"`
	ExternalID  string `json:"externalId"`
	DataType    string `json:"dataType"`
	Description string `json:"description,omitempty"`
	Macros
}

// ResolveHints carries optional context about how to resolve a food name
type ResolveHints struct {
	Ingredients []string `json:"ingredients,omitempty"`
	ServingSize string   `json:"servingSize,omitempty"`
	IsHomemade  bool     `json:"isHomemade,omitempty"`
}

// FoodAlternative is a candidate paired with its comparison to one original
type FoodAlternative struct {
	Food                   NutritionData `json:"food"`
	CaloriesSaved          float64       `json:"caloriesSaved"`
	CaloriesSavedPercent   int           `json:"caloriesSavedPercent"`
	HealthScoreImprovement int           `json:"healthScoreImprovement"`
	Reason                 string        `json:"reason"`
	Score                  int           `json:"score"`
}

// Recommendation is the result of recommending alternatives for a food
type Recommendation struct {
	Original     NutritionData     `json:"original"`
	Alternatives []FoodAlternative `json:"alternatives"`
	Strategy     string            `json:"strategy"`
	TotalOptions int               `json:"totalOptions"`
}

// Comparison is the outcome of comparing two scored foods
type Comparison struct {
	BetterFood        string               `json:"betterFood"` // "A", "B" or "Equal"
	ScoreDifference   int                  `json:"scoreDifference"`
	DifferencePercent int                  `json:"differencePercent"`
	BreakdownA        HealthScoreBreakdown `json:"breakdownA"`
	BreakdownB        HealthScoreBreakdown `json:"breakdownB"`
}
