package tags

import "sync"

var defaultCategories = map[Category][]string{
	Season: {"Spring", "Summer", "Fall", "Winter"},
	Ingredient: {
		"Chicken", "Beef", "Pork", "Lamb", "Turkey", "Fish", "Salmon", "Shrimp", "Seafood",
		"Tofu", "Eggs", "Cheese", "Pasta", "Rice", "Beans", "Lentils", "Potatoes",
		"Mushrooms", "Tomatoes", "Chocolate", "Apples", "Pumpkin", "Berries", "Lemon",
	},
	Event: {
		"Thanksgiving", "Christmas", "4th of July", "Easter", "Halloween", "New Year's",
		"Valentine's Day", "Hanukkah", "Passover", "Diwali", "Lunar New Year",
		"Super Bowl", "Birthday", "Potluck", "BBQ", "Date Night",
	},
	DishType: {
		"Breakfast", "Brunch", "Lunch", "Dinner", "Appetizer", "Side Dish", "Main Course",
		"Soup", "Salad", "Dessert", "Snack", "Drink", "Sauce", "Bread",
	},
	Method: {
		"Baked", "Grilled", "Roasted", "Fried", "Slow Cooker", "Instant Pot", "Air Fryer",
		"Stir Fry", "One Pot", "No Cook", "Sheet Pan", "Smoked",
	},
	Cuisine: {
		"American", "Italian", "Mexican", "Tex-Mex", "Chinese", "Japanese", "Korean", "Thai",
		"Vietnamese", "Indian", "French", "Spanish", "Greek", "Mediterranean",
		"Middle Eastern", "Caribbean", "Southern",
	},
	Dietary: {
		"Vegetarian", "Vegan", "Gluten-Free", "Dairy-Free", "Nut-Free", "Keto", "Paleo",
		"Low Carb", "Low Sodium", "Kosher", "Halal",
	},
	Time: {"Quick", "Under 30 Minutes", "Make Ahead", "Weeknight", "Weekend Project"},
}

var defaultEventKeywords = map[string]string{
	"thanksgiving":     "Thanksgiving",
	"friendsgiving":    "Thanksgiving",
	"christmas":        "Christmas",
	"xmas":             "Christmas",
	"4th of july":      "4th of July",
	"fourth of july":   "4th of July",
	"independence day": "4th of July",
	"easter":           "Easter",
	"halloween":        "Halloween",
	"new year's":       "New Year's",
	"new years":        "New Year's",
	"new year":         "New Year's",
	"valentine":        "Valentine's Day",
	"valentines":       "Valentine's Day",
	"hanukkah":         "Hanukkah",
	"chanukah":         "Hanukkah",
	"passover":         "Passover",
	"seder":            "Passover",
	"diwali":           "Diwali",
	"lunar new year":   "Lunar New Year",
	"chinese new year": "Lunar New Year",
	"super bowl":       "Super Bowl",
	"birthday":         "Birthday",
	"potluck":          "Potluck",
	"bbq":              "BBQ",
	"barbecue":         "BBQ",
	"cookout":          "BBQ",
	"date night":       "Date Night",
}

var (
	defaultOnce  sync.Once
	defaultVocab *Vocabulary
)

// Default returns the built-in vocabulary. It is built on first use and
// shared afterwards.
func Default() *Vocabulary {
	defaultOnce.Do(func() {
		defaultVocab = NewVocabulary(defaultCategories, defaultEventKeywords)
	})
	return defaultVocab
}
