package usda

// SearchResponse represents the response from the FoodData Central search API
type SearchResponse struct {
	TotalHits   int    `json:"totalHits"`
	CurrentPage int    `json:"currentPage"`
	TotalPages  int    `json:"totalPages"`
	Foods       []Food `json:"foods"`
}

// Food is one search hit. Nutrient values are per 100g.
type Food struct {
	FdcID         int            `json:"fdcId"`
	Description   string         `json:"description"`
	DataType      string         `json:"dataType"`
	BrandName     string         `json:"brandName,omitempty"`
	BrandOwner    string         `json:"brandOwner,omitempty"`
	Ingredients   string         `json:"ingredients,omitempty"`
	FoodNutrients []FoodNutrient `json:"foodNutrients"`
}

// FoodNutrient represents a single nutrient value in a search hit
type FoodNutrient struct {
	NutrientID   int     `json:"nutrientId"`
	NutrientName string  `json:"nutrientName,omitempty"`
	UnitName     string  `json:"unitName,omitempty"`
	Value        float64 `json:"value"`
}
