package usecase

import (
	"math"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/nutriswap/backend/internal/domain"
)

// curatedFood is one branded item with officially published nutrition.
// Macros are per serving.
type curatedFood struct {
	Name          string
	Brand         string
	Serving       string
	ServingWeight float64
	Macros        domain.Macros
	Source        string
	Category      domain.Category
	IsOrganic     bool
	IsHealthy     bool
	OrderURL      string
}

// macros takes values in label order: kcal, protein, carbs, fat, sugar, fiber, sodium
func macros(calories, protein, carbs, fat, sugar, fiber, sodium float64) domain.Macros {
	return domain.Macros{
		Calories: calories,
		Protein:  protein,
		Carbs:    carbs,
		Fat:      fat,
		Sugar:    sugar,
		Fiber:    fiber,
		Sodium:   sodium,
	}
}

// curatedFoods is ordered; keyword lookups return the first hit in this order.
var curatedFoods = []curatedFood{
	// Burgers
	{Name: "Big Mac", Brand: "McDonald's", Serving: "1 burger", ServingWeight: 219,
		Macros: macros(563, 25, 46, 30, 9, 3, 1010), Source: "McDonald's Official Nutrition",
		Category: domain.CategoryBurger, OrderURL: "https://www.ubereats.com/store/mcdonalds"},
	{Name: "Whopper", Brand: "Burger King", Serving: "1 burger", ServingWeight: 290,
		Macros: macros(657, 28, 49, 40, 11, 2, 980), Source: "Burger King Official Nutrition",
		Category: domain.CategoryBurger, OrderURL: "https://www.ubereats.com/store/burger-king"},
	{Name: "Quarter Pounder with Cheese", Brand: "McDonald's", Serving: "1 burger", ServingWeight: 226,
		Macros: macros(520, 30, 41, 26, 10, 2, 1110), Source: "McDonald's Official Nutrition",
		Category: domain.CategoryBurger, OrderURL: "https://www.ubereats.com/store/mcdonalds"},
	{Name: "Cheeseburger", Brand: "McDonald's", Serving: "1 burger", ServingWeight: 120,
		Macros: macros(300, 15, 32, 13, 7, 2, 720), Source: "McDonald's Official Nutrition",
		Category: domain.CategoryBurger},
	{Name: "Grilled Chicken Sandwich", Brand: "McDonald's", Serving: "1 sandwich", ServingWeight: 213,
		Macros: macros(380, 37, 44, 7, 11, 3, 1120), Source: "McDonald's Official Nutrition",
		Category: domain.CategorySandwich, IsHealthy: true},

	// Pizza
	{Name: "Pepperoni Pizza", Brand: "Domino's", Serving: "1 slice (medium)", ServingWeight: 102,
		Macros: macros(290, 12, 32, 12, 3, 2, 680), Source: "Domino's Official Nutrition",
		Category: domain.CategoryPizza},
	{Name: "Cheese Pizza", Brand: "Domino's", Serving: "1 slice (medium)", ServingWeight: 95,
		Macros: macros(270, 11, 31, 11, 3, 2, 590), Source: "Domino's Official Nutrition",
		Category: domain.CategoryPizza},
	{Name: "Veggie Pizza", Brand: "Domino's", Serving: "1 slice (medium)", ServingWeight: 105,
		Macros: macros(250, 10, 32, 9, 4, 3, 540), Source: "Domino's Official Nutrition",
		Category: domain.CategoryPizza, IsHealthy: true},
	{Name: "Hawaiian Pizza", Brand: "Pizza Hut", Serving: "1 slice (medium)", ServingWeight: 98,
		Macros: macros(260, 11, 30, 10, 5, 2, 620), Source: "Pizza Hut Official Nutrition",
		Category: domain.CategoryPizza},

	// Sandwiches
	{Name: "Italian BMT", Brand: "Subway", Serving: "6-inch sub", ServingWeight: 243,
		Macros: macros(410, 19, 42, 18, 5, 2, 1260), Source: "Subway Official Nutrition",
		Category: domain.CategorySandwich},
	{Name: "Turkey Breast", Brand: "Subway", Serving: "6-inch sub", ServingWeight: 238,
		Macros: macros(280, 18, 41, 3.5, 5, 2, 810), Source: "Subway Official Nutrition",
		Category: domain.CategorySandwich, IsHealthy: true},
	{Name: "Veggie Delite", Brand: "Subway", Serving: "6-inch sub", ServingWeight: 166,
		Macros: macros(230, 8, 44, 2.5, 5, 5, 280), Source: "Subway Official Nutrition",
		Category: domain.CategorySandwich, IsHealthy: true, IsOrganic: true},
	{Name: "Chicken & Bacon Ranch", Brand: "Subway", Serving: "6-inch sub", ServingWeight: 276,
		Macros: macros(570, 36, 43, 28, 6, 2, 1320), Source: "Subway Official Nutrition",
		Category: domain.CategorySandwich},

	// Salads
	{Name: "Caesar Salad", Brand: "Panera Bread", Serving: "1 salad", ServingWeight: 324,
		Macros: macros(330, 11, 16, 25, 3, 3, 830), Source: "Panera Bread Official Nutrition",
		Category: domain.CategorySalad},
	{Name: "Greek Salad", Brand: "Panera Bread", Serving: "1 salad", ServingWeight: 338,
		Macros: macros(380, 10, 16, 31, 7, 5, 900), Source: "Panera Bread Official Nutrition",
		Category: domain.CategorySalad, IsHealthy: true},
	{Name: "Grilled Chicken Salad", Brand: "Chick-fil-A", Serving: "1 salad", ServingWeight: 341,
		Macros: macros(180, 25, 9, 6, 5, 3, 680), Source: "Chick-fil-A Official Nutrition",
		Category: domain.CategorySalad, IsHealthy: true, IsOrganic: true},
	{Name: "Cobb Salad", Brand: "Chick-fil-A", Serving: "1 salad", ServingWeight: 430,
		Macros: macros(510, 40, 27, 28, 7, 5, 1360), Source: "Chick-fil-A Official Nutrition",
		Category: domain.CategorySalad},

	// Bowls
	{Name: "Chicken Bowl", Brand: "Chipotle", Serving: "1 bowl", ServingWeight: 525,
		Macros: macros(630, 45, 62, 21, 5, 11, 1420), Source: "Chipotle Official Nutrition",
		Category: domain.CategoryBowl},
	{Name: "Veggie Bowl", Brand: "Chipotle", Serving: "1 bowl", ServingWeight: 498,
		Macros: macros(430, 16, 65, 13, 10, 15, 1060), Source: "Chipotle Official Nutrition",
		Category: domain.CategoryBowl, IsHealthy: true, IsOrganic: true},
	{Name: "Steak Bowl", Brand: "Chipotle", Serving: "1 bowl", ServingWeight: 525,
		Macros: macros(650, 43, 62, 24, 5, 11, 1530), Source: "Chipotle Official Nutrition",
		Category: domain.CategoryBowl},
	{Name: "Quinoa Bowl", Brand: "Sweetgreen", Serving: "1 bowl", ServingWeight: 400,
		Macros: macros(520, 18, 58, 24, 12, 10, 520), Source: "Sweetgreen Official Nutrition",
		Category: domain.CategoryBowl, IsHealthy: true, IsOrganic: true},

	// Chicken
	{Name: "Original Recipe Chicken", Brand: "KFC", Serving: "1 piece (breast)", ServingWeight: 161,
		Macros: macros(320, 29, 11, 18, 0, 1, 1020), Source: "KFC Official Nutrition",
		Category: domain.CategoryChicken, OrderURL: "https://www.ubereats.com/store/kfc"},
	{Name: "Grilled Chicken Breast", Brand: "KFC", Serving: "1 piece", ServingWeight: 133,
		Macros: macros(220, 35, 0, 8, 0, 0, 730), Source: "KFC Official Nutrition",
		Category: domain.CategoryChicken, IsHealthy: true, OrderURL: "https://www.ubereats.com/store/kfc"},
	{Name: "Popcorn Chicken", Brand: "KFC", Serving: "1 serving", ServingWeight: 128,
		Macros: macros(410, 20, 27, 25, 0, 2, 1260), Source: "KFC Official Nutrition",
		Category: domain.CategoryChicken},

	// Tacos
	{Name: "Crunchy Taco", Brand: "Taco Bell", Serving: "1 taco", ServingWeight: 78,
		Macros: macros(170, 8, 13, 10, 1, 3, 310), Source: "Taco Bell Official Nutrition",
		Category: domain.CategoryTaco, OrderURL: "https://www.ubereats.com/store/taco-bell"},
	{Name: "Soft Taco", Brand: "Taco Bell", Serving: "1 taco", ServingWeight: 99,
		Macros: macros(180, 9, 18, 9, 2, 3, 500), Source: "Taco Bell Official Nutrition",
		Category: domain.CategoryTaco},
	{Name: "Bean Burrito", Brand: "Taco Bell", Serving: "1 burrito", ServingWeight: 198,
		Macros: macros(350, 13, 54, 9, 4, 8, 1020), Source: "Taco Bell Official Nutrition",
		Category: domain.CategoryTaco, IsHealthy: true, OrderURL: "https://www.ubereats.com/store/taco-bell"},
	{Name: "Chicken Power Bowl", Brand: "Taco Bell", Serving: "1 bowl", ServingWeight: 470,
		Macros: macros(500, 27, 51, 20, 4, 7, 1280), Source: "Taco Bell Official Nutrition",
		Category: domain.CategoryBowl, IsHealthy: true},

	// More burgers
	{Name: "Dave's Single", Brand: "Wendy's", Serving: "1 burger", ServingWeight: 268,
		Macros: macros(570, 30, 40, 34, 9, 2, 1110), Source: "Wendy's Official Nutrition",
		Category: domain.CategoryBurger, OrderURL: "https://www.ubereats.com/store/wendys"},
	{Name: "Jr. Hamburger", Brand: "Wendy's", Serving: "1 burger", ServingWeight: 117,
		Macros: macros(250, 14, 26, 10, 5, 1, 490), Source: "Wendy's Official Nutrition",
		Category: domain.CategoryBurger, IsHealthy: true},
	{Name: "Little Hamburger", Brand: "Five Guys", Serving: "1 burger", ServingWeight: 195,
		Macros: macros(540, 26, 39, 30, 8, 2, 430), Source: "Five Guys Official Nutrition",
		Category: domain.CategoryBurger},

	// Breakfast
	{Name: "Egg McMuffin", Brand: "McDonald's", Serving: "1 sandwich", ServingWeight: 142,
		Macros: macros(310, 17, 30, 13, 3, 2, 770), Source: "McDonald's Official Nutrition",
		Category: domain.CategoryBreakfast, OrderURL: "https://www.ubereats.com/store/mcdonalds"},
	{Name: "Bacon, Egg & Cheese Biscuit", Brand: "McDonald's", Serving: "1 sandwich", ServingWeight: 144,
		Macros: macros(460, 19, 38, 26, 4, 2, 1330), Source: "McDonald's Official Nutrition",
		Category: domain.CategoryBreakfast},
	{Name: "Egg White Delight", Brand: "McDonald's", Serving: "1 sandwich", ServingWeight: 135,
		Macros: macros(250, 18, 29, 7, 3, 2, 770), Source: "McDonald's Official Nutrition",
		Category: domain.CategoryBreakfast, IsHealthy: true},

	// Coffee and drinks
	{Name: "Caffe Latte", Brand: "Starbucks", Serving: "1 grande (16 oz)", ServingWeight: 473,
		Macros: macros(190, 13, 19, 7, 18, 0, 170), Source: "Starbucks Official Nutrition",
		Category: domain.CategoryBeverage},
	{Name: "Iced Coffee", Brand: "Starbucks", Serving: "1 grande (16 oz)", ServingWeight: 473,
		Macros: macros(80, 1, 20, 0, 19, 0, 10), Source: "Starbucks Official Nutrition",
		Category: domain.CategoryBeverage, IsHealthy: true},
}

// curatedKeyword maps a generic word to the curated items it stands for
type curatedKeyword struct {
	keyword string
	names   []string
}

// curatedKeywords is checked in order after name and brand matching fail
var curatedKeywords = []curatedKeyword{
	{"burger", []string{"Big Mac", "Whopper", "Quarter Pounder", "Cheeseburger", "Dave's Single", "Jr. Hamburger"}},
	{"pizza", []string{"Pepperoni Pizza", "Cheese Pizza", "Veggie Pizza"}},
	{"sandwich", []string{"Italian BMT", "Turkey Breast", "Veggie Delite", "Grilled Chicken Sandwich"}},
	{"salad", []string{"Grilled Chicken Salad", "Greek Salad", "Caesar Salad"}},
	{"bowl", []string{"Chicken Bowl", "Veggie Bowl", "Quinoa Bowl", "Chicken Power Bowl"}},
	{"chicken", []string{"Original Recipe Chicken", "Grilled Chicken Breast", "Popcorn Chicken"}},
	{"taco", []string{"Crunchy Taco", "Soft Taco", "Bean Burrito"}},
	{"breakfast", []string{"Egg McMuffin", "Egg White Delight"}},
	{"coffee", []string{"Caffe Latte", "Iced Coffee"}},
}

// FindCuratedFood looks a branded name up in the curated table: by name,
// then by "brand name", then by generic keyword.
func FindCuratedFood(name string) (domain.NutritionData, bool) {
	food, ok := findCurated(name)
	if !ok {
		return domain.NutritionData{}, false
	}
	return food.toNutritionData(), true
}

func findCurated(name string) (curatedFood, bool) {
	query := strings.ToLower(strings.TrimSpace(name))
	if query == "" {
		return curatedFood{}, false
	}

	for _, food := range curatedFoods {
		foodName := strings.ToLower(food.Name)
		if foodName == query || strings.Contains(foodName, query) || strings.Contains(query, foodName) {
			return food, true
		}
	}

	for _, food := range curatedFoods {
		full := strings.ToLower(food.Brand + " " + food.Name)
		if strings.Contains(full, query) || strings.Contains(query, full) {
			return food, true
		}
	}

	for _, kw := range curatedKeywords {
		if !strings.Contains(query, kw.keyword) {
			continue
		}
		for _, food := range curatedFoods {
			if containsString(kw.names, food.Name) {
				return food, true
			}
		}
	}

	return curatedFood{}, false
}

// FindCuratedFoodByName matches a plain food name against the table. The
// name must contain a full table name as whole words, so "egg" or "cheese"
// never resolve to a branded item. The longest matching name wins.
func FindCuratedFoodByName(name string) (domain.NutritionData, bool) {
	query := wordTokens(name)
	if len(query) == 0 {
		return domain.NutritionData{}, false
	}

	var (
		best      curatedFood
		bestWords int
	)
	for _, food := range curatedFoods {
		words := wordTokens(food.Name)
		if len(words) > bestWords && containsWordRun(query, words) {
			best, bestWords = food, len(words)
		}
	}
	if bestWords == 0 {
		return domain.NutritionData{}, false
	}
	return best.toNutritionData(), true
}

var wordRegex = regexp.MustCompile(`[a-z0-9]+`)

func wordTokens(s string) []string {
	return wordRegex.FindAllString(strings.ToLower(s), -1)
}

// containsWordRun reports whether run appears in words as consecutive tokens
func containsWordRun(words, run []string) bool {
	if len(run) == 0 || len(run) > len(words) {
		return false
	}
	for i := 0; i+len(run) <= len(words); i++ {
		if slices.Equal(words[i:i+len(run)], run) {
			return true
		}
	}
	return false
}

// curatedByName finds an entry by its exact table name
func curatedByName(name string) (curatedFood, bool) {
	for _, food := range curatedFoods {
		if food.Name == name {
			return food, true
		}
	}
	return curatedFood{}, false
}

func (c curatedFood) toNutritionData() domain.NutritionData {
	quality := DetectQualityAttributes(c.Name, "")
	quality.IsOrganic = quality.IsOrganic || c.IsOrganic

	return domain.NutritionData{
		Name:              c.Name,
		Brand:             c.Brand,
		Category:          c.Category,
		ServingLabel:      c.Serving,
		ServingSize:       c.ServingWeight,
		MacroWeight:       c.ServingWeight,
		Basis:             domain.BasisPerServing,
		Macros:            c.Macros,
		LegacyHealthScore: LegacyHealthScore(c.Macros),
		Quality:           quality,
		HealthScore:       scoreHealth(c.Macros, quality),
		Provenance:        domain.ProvenanceCurated,
		IsHealthy:         c.IsHealthy,
		OrderURL:          c.OrderURL,
		Source:            c.Source,
	}
}

// scoredCurated is a curated alternative with its raw ranking score
type scoredCurated struct {
	food  curatedFood
	score float64
}

// curatedAlternatives returns up to limit same-category items with fewer
// calories that are either flagged healthy or keep at least 80% of the
// original's protein, best first. Values compare per serving.
func curatedAlternatives(original curatedFood, limit int) []scoredCurated {
	var scored []scoredCurated
	for _, food := range curatedFoods {
		if food.Category != original.Category || food.Name == original.Name {
			continue
		}
		if food.Macros.Calories >= original.Macros.Calories {
			continue
		}
		if !food.IsHealthy && food.Macros.Protein < original.Macros.Protein*0.8 {
			continue
		}

		saved := original.Macros.Calories - food.Macros.Calories
		score := saved*0.5 + food.Macros.Protein/math.Max(original.Macros.Protein, 1)*100
		if food.IsOrganic {
			score += 100
		}
		if food.IsHealthy {
			score += 50
		}
		scored = append(scored, scoredCurated{food: food, score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
