package usecase

import (
	"math"
	"strings"

	"github.com/nutriswap/backend/internal/domain"
)

const (
	maxNutritionScore = 50
	maxQualityScore   = 50

	// equalScoreMargin is the largest total-score gap reported as "Equal"
	equalScoreMargin = 5
)

// qualityRule binds one quality flag to its points, badge and detection keywords.
// The slice order is the badge order.
type qualityRule struct {
	points   int
	badge    domain.Badge
	keywords []string
	isSet    func(q domain.QualityAttributes) bool
	set      func(q *domain.QualityAttributes)
}

var qualityRules = []qualityRule{
	{
		points:   15,
		badge:    domain.Badge{Label: "USDA Organic", Code: "organic", Description: "Certified organic by USDA"},
		keywords: []string{"organic", "usda organic"},
		isSet:    func(q domain.QualityAttributes) bool { return q.IsOrganic },
		set:      func(q *domain.QualityAttributes) { q.IsOrganic = true },
	},
	{
		points:   10,
		badge:    domain.Badge{Label: "Non-GMO", Code: "non_gmo", Description: "Non-genetically modified"},
		keywords: []string{"non-gmo", "non gmo", "gmo-free"},
		isSet:    func(q domain.QualityAttributes) bool { return q.IsNonGMO },
		set:      func(q *domain.QualityAttributes) { q.IsNonGMO = true },
	},
	{
		points:   10,
		badge:    domain.Badge{Label: "Local Farm", Code: "local", Description: "Sourced from local farms"},
		keywords: []string{"local", "farm-fresh", "locally sourced"},
		isSet:    func(q domain.QualityAttributes) bool { return q.IsLocal },
		set:      func(q *domain.QualityAttributes) { q.IsLocal = true },
	},
	{
		points:   10,
		badge:    domain.Badge{Label: "Sustainable", Code: "sustainable", Description: "Environmentally sustainable"},
		keywords: []string{"sustainable", "eco-friendly", "regenerative"},
		isSet:    func(q domain.QualityAttributes) bool { return q.IsSustainable },
		set:      func(q *domain.QualityAttributes) { q.IsSustainable = true },
	},
	{
		points:   5,
		badge:    domain.Badge{Label: "Clean Label", Code: "clean_label", Description: "No artificial additives"},
		keywords: []string{"no additives", "no preservatives", "all natural", "clean label"},
		isSet:    func(q domain.QualityAttributes) bool { return q.HasCleanLabel },
		set:      func(q *domain.QualityAttributes) { q.HasCleanLabel = true },
	},
	{
		points:   3,
		badge:    domain.Badge{Label: "Fair Trade", Code: "fair_trade", Description: "Fair Trade certified"},
		keywords: []string{"fair trade", "fairtrade"},
		isSet:    func(q domain.QualityAttributes) bool { return q.IsFairTrade },
		set:      func(q *domain.QualityAttributes) { q.IsFairTrade = true },
	},
	{
		points:   3,
		badge:    domain.Badge{Label: "Grass-Fed", Code: "grass_fed", Description: "Grass-fed animals"},
		keywords: []string{"grass-fed", "grass fed", "pasture-raised"},
		isSet:    func(q domain.QualityAttributes) bool { return q.IsGrassFed },
		set:      func(q *domain.QualityAttributes) { q.IsGrassFed = true },
	},
	{
		points:   4,
		badge:    domain.Badge{Label: "Wild-Caught", Code: "wild_caught", Description: "Wild-caught seafood"},
		keywords: []string{"wild-caught", "wild caught", "wild"},
		isSet:    func(q domain.QualityAttributes) bool { return q.IsWildCaught },
		set:      func(q *domain.QualityAttributes) { q.IsWildCaught = true },
	},
}

// ScoreHealth computes the two-tier health score. Macros are scored as given;
// callers must not mix per-serving and per-100g values when comparing results.
func ScoreHealth(m domain.Macros, quality domain.QualityAttributes) (domain.HealthScoreBreakdown, error) {
	if err := m.Validate(); err != nil {
		return domain.HealthScoreBreakdown{}, err
	}
	return scoreHealth(m, quality), nil
}

// scoreHealth is ScoreHealth for macros already known to be valid
func scoreHealth(m domain.Macros, quality domain.QualityAttributes) domain.HealthScoreBreakdown {
	nutrition := nutritionScore(m)
	qualityPts := qualityScore(quality)
	total := nutrition + qualityPts

	return domain.HealthScoreBreakdown{
		Total:          total,
		NutritionScore: nutrition,
		QualityScore:   qualityPts,
		Badges:         GenerateBadges(quality),
		Tier:           TierFor(total),
	}
}

func nutritionScore(m domain.Macros) int {
	score := maxNutritionScore

	switch {
	case m.Calories > 400:
		score -= 15
	case m.Calories > 300:
		score -= 10
	case m.Calories > 200:
		score -= 5
	}

	switch {
	case m.Fat > 20:
		score -= 12
	case m.Fat > 15:
		score -= 8
	case m.Fat > 10:
		score -= 4
	}

	switch {
	case m.Sugar > 20:
		score -= 12
	case m.Sugar > 15:
		score -= 8
	case m.Sugar > 10:
		score -= 4
	}

	switch {
	case m.Sodium > 800:
		score -= 10
	case m.Sodium > 600:
		score -= 7
	case m.Sodium > 400:
		score -= 4
	}

	switch {
	case m.Protein >= 25:
		score += 8
	case m.Protein >= 20:
		score += 6
	case m.Protein >= 15:
		score += 4
	case m.Protein >= 10:
		score += 2
	}

	switch {
	case m.Fiber >= 8:
		score += 7
	case m.Fiber >= 5:
		score += 5
	case m.Fiber >= 3:
		score += 3
	}

	return clampInt(score, 0, maxNutritionScore)
}

func qualityScore(q domain.QualityAttributes) int {
	score := 0
	for _, rule := range qualityRules {
		if rule.isSet(q) {
			score += rule.points
		}
	}
	return clampInt(score, 0, maxQualityScore)
}

// GenerateBadges returns one badge per true flag, in fixed attribute order
func GenerateBadges(q domain.QualityAttributes) []domain.Badge {
	badges := []domain.Badge{}
	for _, rule := range qualityRules {
		if rule.isSet(q) {
			badges = append(badges, rule.badge)
		}
	}
	return badges
}

// TierFor maps a total score to its tier
func TierFor(total int) domain.Tier {
	switch {
	case total >= 85:
		return domain.TierExcellent
	case total >= 70:
		return domain.TierGreat
	case total >= 55:
		return domain.TierGood
	case total >= 40:
		return domain.TierFair
	default:
		return domain.TierPoor
	}
}

// DetectQualityAttributes flags attributes whose keywords appear in the name
// or the optional description. Matching is case-insensitive.
func DetectQualityAttributes(name, description string) domain.QualityAttributes {
	text := strings.ToLower(name + " " + description)

	var q domain.QualityAttributes
	for _, rule := range qualityRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				rule.set(&q)
				break
			}
		}
	}
	return q
}

// CompareFoods scores both foods and names the better one. Gaps of
// equalScoreMargin points or less are reported as "Equal".
func CompareFoods(
	a domain.Macros, qualityA domain.QualityAttributes,
	b domain.Macros, qualityB domain.QualityAttributes,
) (*domain.Comparison, error) {
	breakdownA, err := ScoreHealth(a, qualityA)
	if err != nil {
		return nil, err
	}
	breakdownB, err := ScoreHealth(b, qualityB)
	if err != nil {
		return nil, err
	}

	diff := breakdownA.Total - breakdownB.Total

	percent := 0
	if top := max(breakdownA.Total, breakdownB.Total); top > 0 {
		percent = int(math.Abs(math.Round(float64(diff) / float64(top) * 100)))
	}

	better := "Equal"
	if diff > equalScoreMargin {
		better = "A"
	} else if diff < -equalScoreMargin {
		better = "B"
	}

	return &domain.Comparison{
		BetterFood:        better,
		ScoreDifference:   diff,
		DifferencePercent: percent,
		BreakdownA:        breakdownA,
		BreakdownB:        breakdownB,
	}, nil
}

// LegacyHealthScore is the single-tier 0-100 score kept on every record.
// The matcher and the recommender rank with it.
func LegacyHealthScore(m domain.Macros) int {
	score := 100

	if m.Calories > 400 {
		score -= 25
	} else if m.Calories > 250 {
		score -= 15
	} else if m.Calories > 150 {
		score -= 5
	}

	if m.Fat > 20 {
		score -= 20
	} else if m.Fat > 10 {
		score -= 10
	}

	if m.Sugar > 15 {
		score -= 20
	} else if m.Sugar > 8 {
		score -= 10
	}

	if m.Sodium > 800 {
		score -= 15
	} else if m.Sodium > 400 {
		score -= 7
	}

	if m.Protein >= 20 {
		score += 10
	} else if m.Protein >= 10 {
		score += 5
	}

	if m.Fiber >= 5 {
		score += 10
	} else if m.Fiber >= 3 {
		score += 5
	}

	return clampInt(score, 0, 100)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
