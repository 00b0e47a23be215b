package grocery

import (
	"testing"

	"github.com/Kerhoff/recipebox/internal/models"
)

func item(name string, qty *float64, unit string) models.GroceryItem {
	return models.GroceryItem{Name: name, Quantity: qty, Unit: unit}
}

func TestPantryFilter(t *testing.T) {
	t.Parallel()
	f := NewPantryFilter([]models.PantryStapleConfig{
		{Pattern: "water", AlwaysFilter: true, Enabled: true},
		{Pattern: "salt", AlternativeNames: "sea salt", ThresholdQuantity: 2, ThresholdUnit: "tbsp", Enabled: true},
		{Pattern: "olive oil", ThresholdQuantity: 0.5, ThresholdUnit: "cup", Enabled: true},
		{Pattern: "sugar", ThresholdQuantity: 100, Enabled: false},
	})

	cases := []struct {
		name string
		item models.GroceryItem
		want bool
	}{
		{"always filter ignores quantity", item("water", models.FloatPtr(10), "cup"), false},
		{"always filter without quantity", item("water", nil, ""), false},
		{"below threshold", item("salt", models.FloatPtr(1), "tsp"), false},
		{"above threshold after conversion", item("salt", models.FloatPtr(9), "tsp"), true},
		{"exactly at threshold", item("salt", models.FloatPtr(2), "tbsp"), true},
		{"above threshold", item("salt", models.FloatPtr(3), "tbsp"), true},
		{"whole word phrase match", item("kosher salt", models.FloatPtr(1), "tsp"), false},
		{"no partial word match", item("saltines", models.FloatPtr(1), ""), true},
		{"no quantity fails open", item("salt", nil, ""), true},
		{"weight against volume threshold kept", item("olive oil", models.FloatPtr(0.25), "lb"), true},
		{"unknown unit kept", item("salt", models.FloatPtr(1), "pinch"), true},
		{"unit-less amount against unit threshold kept", item("salt", models.FloatPtr(1), ""), true},
		{"staple must end the name", item("salted butter", models.FloatPtr(1), "tbsp"), true},
		{"always filter needs exact name", item("coconut water", models.FloatPtr(1), "cup"), true},
		{"always filter not a prefix", item("water chestnuts", models.FloatPtr(1), "cup"), true},
		{"disabled config ignored", item("sugar", models.FloatPtr(1), "cup"), true},
		{"unmatched item always kept", item("chicken breast", models.FloatPtr(0.1), "lb"), true},
	}
	for _, tc := range cases {
		if got := f.Include(tc.item); got != tc.want {
			t.Errorf("%s: Include(%+v) = %v, want %v", tc.name, tc.item, got, tc.want)
		}
	}
}

func TestPantryFilterApplyPartitions(t *testing.T) {
	t.Parallel()
	f := NewPantryFilter(DefaultPantryStaples())
	items := []models.GroceryItem{
		item("water", models.FloatPtr(2), "cups"),
		item("flour", models.FloatPtr(3), "cups"),
		item("salt", models.FloatPtr(1), "tsp"),
		item("tomatoes", models.FloatPtr(4), ""),
	}
	res := f.Apply(items)
	if len(res.Kept)+len(res.Suppressed) != len(items) {
		t.Fatalf("partition lost items: %+v", res)
	}
	if len(res.Suppressed) != 2 {
		t.Fatalf("expected water and salt suppressed, got %+v", res.Suppressed)
	}
	if res.Kept[0].Name != "flour" || res.Kept[1].Name != "tomatoes" {
		t.Fatalf("expected kept order preserved, got %+v", res.Kept)
	}
}

func TestPantryFilterMatchAlternativeNames(t *testing.T) {
	t.Parallel()
	f := NewPantryFilter([]models.PantryStapleConfig{
		{Pattern: "vegetable oil, canola oil", Enabled: true},
	})
	if _, ok := f.Match("Canola Oil"); !ok {
		t.Fatalf("expected comma-separated alternative in pattern to match")
	}
}

func TestPantryFilterDefaultsMatchHeadNoun(t *testing.T) {
	t.Parallel()
	f := NewPantryFilter(DefaultPantryStaples())

	for _, name := range []string{"water", "ice water", "kosher salt", "coarse sea salt", "extra virgin olive oil", "Sugar"} {
		if _, ok := f.Match(name); !ok {
			t.Errorf("expected %q to match a staple", name)
		}
	}
	for _, name := range []string{"water chestnuts", "coconut water", "sugar snap peas", "saltines", "garlic", "olive tapenade"} {
		if cfg, ok := f.Match(name); ok {
			t.Errorf("expected %q to stay unmatched, got %q", name, cfg.Pattern)
		}
	}

	items := []models.GroceryItem{
		item("water chestnuts", models.FloatPtr(8), "oz"),
		item("coconut water", models.FloatPtr(1), "cup"),
		item("sugar snap peas", models.FloatPtr(0.25), "lb"),
		item("ice water", models.FloatPtr(0.5), "cup"),
	}
	res := f.Apply(items)
	if len(res.Suppressed) != 1 || res.Suppressed[0].Name != "ice water" {
		t.Fatalf("expected only ice water suppressed, got %+v", res.Suppressed)
	}
	if len(res.Kept) != 3 {
		t.Fatalf("expected three items kept, got %+v", res.Kept)
	}
}
