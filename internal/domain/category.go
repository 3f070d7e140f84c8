package domain

import "strings"

// Category groups foods for alternative search and curated comparisons
type Category string

const (
	CategoryNone       Category = ""
	CategoryBurger     Category = "burger"
	CategoryPizza      Category = "pizza"
	CategorySandwich   Category = "sandwich"
	CategorySalad      Category = "salad"
	CategoryBowl       Category = "bowl"
	CategoryPasta      Category = "pasta"
	CategoryRice       Category = "rice"
	CategoryChicken    Category = "chicken"
	CategoryBeef       Category = "beef"
	CategorySeafood    Category = "seafood"
	CategoryTaco       Category = "taco"
	CategoryBreakfast  Category = "breakfast"
	CategoryVegetarian Category = "vegetarian"
	CategoryVegan      Category = "vegan"
	CategoryDessert    Category = "dessert"
	CategorySnack      Category = "snack"
	CategoryBeverage   Category = "beverage"
	CategoryOther      Category = "other"
)

var knownCategories = map[Category]bool{
	CategoryBurger: true, CategoryPizza: true, CategorySandwich: true,
	CategorySalad: true, CategoryBowl: true, CategoryPasta: true,
	CategoryRice: true, CategoryChicken: true, CategoryBeef: true,
	CategorySeafood: true, CategoryTaco: true, CategoryBreakfast: true,
	CategoryVegetarian: true, CategoryVegan: true, CategoryDessert: true,
	CategorySnack: true, CategoryBeverage: true, CategoryOther: true,
}

// ParseCategory accepts any casing ("BURGER", "burger"). "drink" is an alias
// of beverage. Unknown or empty input yields (CategoryNone, false).
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if c == "drink" {
		return CategoryBeverage, true
	}
	if knownCategories[c] {
		return c, true
	}
	return CategoryNone, false
}
