package ingredient

import (
	"sort"
	"strings"
)

// Dimension is the physical quantity a unit measures.
type Dimension string

const (
	Mass   Dimension = "mass"
	Volume Dimension = "volume"
)

type unitDef struct {
	canonical string
	dimension Dimension
	// factor converts one of this unit into the dimension's base unit (g or ml).
	factor float64
}

var (
	gram       = unitDef{"g", Mass, 1}
	milligram  = unitDef{"mg", Mass, 0.001}
	kilogram   = unitDef{"kg", Mass, 1000}
	ounce      = unitDef{"oz", Mass, 28.349523125}
	pound      = unitDef{"lb", Mass, 453.59237}
	milliliter = unitDef{"ml", Volume, 1}
	liter      = unitDef{"l", Volume, 1000}
	teaspoon   = unitDef{"tsp", Volume, 4.92892159375}
	tablespoon = unitDef{"tbsp", Volume, 14.78676478125}
	cup        = unitDef{"cup", Volume, 236.5882365}
	fluidOunce = unitDef{"fl oz", Volume, 29.5735295625}
	pint       = unitDef{"pint", Volume, 473.176473}
	quart      = unitDef{"quart", Volume, 946.352946}
	gallon     = unitDef{"gallon", Volume, 3785.411784}
)

var unitTable = map[string]unitDef{
	"g": gram, "gram": gram, "grams": gram, "gr": gram,
	"mg": milligram, "milligram": milligram, "milligrams": milligram,
	"kg": kilogram, "kilogram": kilogram, "kilograms": kilogram, "kilo": kilogram, "kilos": kilogram,
	"oz": ounce, "ounce": ounce, "ounces": ounce,
	"lb": pound, "lbs": pound, "pound": pound, "pounds": pound,

	"ml": milliliter, "milliliter": milliliter, "milliliters": milliliter, "millilitre": milliliter, "millilitres": milliliter,
	"l": liter, "liter": liter, "liters": liter, "litre": liter, "litres": liter,
	"tsp": teaspoon, "tsps": teaspoon, "teaspoon": teaspoon, "teaspoons": teaspoon,
	"tbsp": tablespoon, "tbsps": tablespoon, "tbs": tablespoon, "tablespoon": tablespoon, "tablespoons": tablespoon,
	"cup": cup, "cups": cup,
	"fl oz": fluidOunce, "fl. oz": fluidOunce, "fluid ounce": fluidOunce, "fluid ounces": fluidOunce,
	"pint": pint, "pints": pint, "pt": pint,
	"quart": quart, "quarts": quart, "qt": quart,
	"gallon": gallon, "gallons": gallon, "gal": gallon,
}

// unitTokens holds every alias, longest first, so that "fl oz" wins over "fl"
// and "tablespoons" over "tablespoon".
var unitTokens = func() []string {
	tokens := make([]string, 0, len(unitTable))
	for k := range unitTable {
		tokens = append(tokens, k)
	}
	sort.Slice(tokens, func(i, j int) bool {
		if len(tokens[i]) != len(tokens[j]) {
			return len(tokens[i]) > len(tokens[j])
		}
		return tokens[i] < tokens[j]
	})
	return tokens
}()

func resolveUnit(unit string) (unitDef, bool) {
	u := strings.ToLower(strings.TrimSpace(unit))
	u = strings.TrimSuffix(u, ".")
	def, ok := unitTable[u]
	return def, ok
}

// IsUnit reports whether unit is part of the known vocabulary.
func IsUnit(unit string) bool {
	_, ok := resolveUnit(unit)
	return ok
}

// CanonicalUnit maps any known spelling to its canonical form ("cups" -> "cup",
// "lbs" -> "lb"). Unknown units are returned lower-cased and trimmed with ok=false.
func CanonicalUnit(unit string) (string, bool) {
	def, ok := resolveUnit(unit)
	if !ok {
		return strings.ToLower(strings.TrimSpace(unit)), false
	}
	return def.canonical, true
}

// UnitDimension returns the dimension of a known unit.
func UnitDimension(unit string) (Dimension, bool) {
	def, ok := resolveUnit(unit)
	return def.dimension, ok
}

// Convert converts value between two units of the same dimension. It returns
// false when either unit is unknown or the dimensions differ; densities are
// not guessed.
func Convert(value float64, fromUnit, toUnit string) (float64, bool) {
	from, ok := resolveUnit(fromUnit)
	if !ok {
		return 0, false
	}
	to, ok := resolveUnit(toUnit)
	if !ok {
		return 0, false
	}
	if from.dimension != to.dimension {
		return 0, false
	}
	return value * from.factor / to.factor, true
}
