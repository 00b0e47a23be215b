package grocery

import (
	"strings"

	"github.com/Kerhoff/recipebox/internal/ingredient"
	"github.com/Kerhoff/recipebox/internal/models"
)

// PantryFilter decides which consolidated items are suppressed because they
// are pantry staples.
//
// Matching rule: a config's pattern and alternative names are split on
// commas, normalised like ingredient names, and compared with the item name.
// A config matches when one of its names equals the item name or ends it as
// whole words, i.e. the staple is the item's head noun ("salt" matches
// "kosher salt" but not "saltines" or "salted butter"; "sugar" does not
// match "sugar snap peas"). Always-filter configs drop an item regardless of
// amount, so they only match names exactly: "water" suppresses "water" and
// its listed variants but not "coconut water". The first enabled config in
// the given order wins.
type PantryFilter struct {
	configs []pantryRule
}

type pantryRule struct {
	config models.PantryStapleConfig
	names  []string
}

// FilterResult separates items that stay on the list from suppressed ones.
type FilterResult struct {
	Kept       []models.GroceryItem
	Suppressed []models.GroceryItem
}

// NewPantryFilter keeps only enabled configs.
func NewPantryFilter(configs []models.PantryStapleConfig) *PantryFilter {
	f := &PantryFilter{}
	for _, c := range configs {
		if !c.Enabled {
			continue
		}
		rule := pantryRule{config: c}
		for _, n := range c.Names() {
			if n = ingredient.NormalizeName(n); n != "" {
				rule.names = append(rule.names, n)
			}
		}
		if len(rule.names) > 0 {
			f.configs = append(f.configs, rule)
		}
	}
	return f
}

// Match returns the config that applies to name, if any.
func (f *PantryFilter) Match(name string) (models.PantryStapleConfig, bool) {
	name = ingredient.NormalizeName(name)
	if name == "" {
		return models.PantryStapleConfig{}, false
	}
	for _, rule := range f.configs {
		for _, n := range rule.names {
			if n == name || (!rule.config.AlwaysFilter && strings.HasSuffix(name, " "+n)) {
				return rule.config, true
			}
		}
	}
	return models.PantryStapleConfig{}, false
}

// Include reports whether item stays on the grocery list.
func (f *PantryFilter) Include(item models.GroceryItem) bool {
	cfg, ok := f.Match(item.Name)
	if !ok {
		return true
	}
	if cfg.AlwaysFilter {
		return false
	}
	if item.Quantity == nil {
		// no amount to compare against the threshold
		return true
	}
	q, ok := comparableQuantity(*item.Quantity, item.Unit, cfg.ThresholdUnit)
	if !ok {
		return true
	}
	return q >= cfg.ThresholdQuantity
}

// Apply partitions items, preserving their order.
func (f *PantryFilter) Apply(items []models.GroceryItem) FilterResult {
	res := FilterResult{Kept: make([]models.GroceryItem, 0, len(items))}
	for _, it := range items {
		if f.Include(it) {
			res.Kept = append(res.Kept, it)
		} else {
			res.Suppressed = append(res.Suppressed, it)
		}
	}
	return res
}

// comparableQuantity expresses q in the threshold unit. Two unit-less
// amounts compare as they are; otherwise both units must be known and of the
// same dimension, and false means the amounts cannot be compared.
func comparableQuantity(q float64, unit, thresholdUnit string) (float64, bool) {
	if unit == "" && thresholdUnit == "" {
		return q, true
	}
	return ingredient.Convert(q, unit, thresholdUnit)
}
