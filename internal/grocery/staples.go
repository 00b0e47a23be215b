package grocery

import "github.com/Kerhoff/recipebox/internal/models"

// DefaultPantryStaples is the seed table offered on first run. Thresholds are
// the amounts below which most kitchens are assumed to have the item already.
func DefaultPantryStaples() []models.PantryStapleConfig {
	staple := func(pattern, alternatives string, qty float64, unit, category string, always bool) models.PantryStapleConfig {
		return models.PantryStapleConfig{
			Pattern:           pattern,
			AlternativeNames:  alternatives,
			ThresholdQuantity: qty,
			ThresholdUnit:     unit,
			Category:          category,
			AlwaysFilter:      always,
			Enabled:           true,
		}
	}
	return []models.PantryStapleConfig{
		staple("water", "cold water, warm water, hot water, ice water", 0, "", "basics", true),
		staple("salt", "kosher salt, sea salt, table salt", 2, "tbsp", "seasoning", false),
		staple("black pepper", "ground black pepper, freshly ground pepper, ground pepper", 1, "tbsp", "seasoning", false),
		staple("olive oil", "extra virgin olive oil, extra-virgin olive oil", 0.25, "cup", "oils", false),
		staple("vegetable oil", "canola oil, neutral oil, cooking oil", 0.25, "cup", "oils", false),
		staple("all-purpose flour", "flour, plain flour", 1, "cup", "baking", false),
		staple("sugar", "granulated sugar, white sugar", 0.5, "cup", "baking", false),
		staple("baking soda", "bicarbonate of soda", 1, "tbsp", "baking", false),
		staple("baking powder", "", 1, "tbsp", "baking", false),
		staple("vanilla extract", "vanilla", 1, "tbsp", "baking", false),
		staple("garlic powder", "", 1, "tbsp", "seasoning", false),
		staple("cooking spray", "nonstick spray", 0, "", "oils", true),
	}
}
