package listview

import (
	"cmp"
	"strconv"
	"strings"

	"github.com/Kerhoff/recipebox/internal/models"
)

func GrocerySearch(it *models.GroceryItem, q string) bool {
	return ContainsFold(it.Name, q) || ContainsFold(it.Notes, q)
}

func NewGroceryEngine() *Engine[*models.GroceryItem] {
	return NewEngine(GrocerySearch)
}

func UncheckedFilter() Filter[*models.GroceryItem] {
	return NewFilter("unchecked", "To buy", func(it *models.GroceryItem) bool { return !it.Checked })
}

func CheckedFilter() Filter[*models.GroceryItem] {
	return NewFilter("checked", "In cart", func(it *models.GroceryItem) bool { return it.Checked })
}

func GroceryByName() Sort[*models.GroceryItem] {
	return NewSort("name", "Name", func(a, b *models.GroceryItem) int {
		return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
}

// GroupGroceryByChecked puts unchecked items first.
func GroupGroceryByChecked() Grouping[*models.GroceryItem] {
	return Grouping[*models.GroceryItem]{
		ID:    "checked",
		Label: "Status",
		Key: func(it *models.GroceryItem) string {
			if it.Checked {
				return "checked"
			}
			return "unchecked"
		},
		Format: func(key string) string {
			if key == "checked" {
				return "In cart"
			}
			return "To buy"
		},
		Order: func(a, b string) int { return strings.Compare(b, a) },
	}
}

// GroupGroceryBySource buckets items by the recipe they came from. Items
// merged from several recipes form their own bucket, as do manual items.
// titles maps recipe IDs to display names and may be nil.
func GroupGroceryBySource(titles map[int64]string) Grouping[*models.GroceryItem] {
	return Grouping[*models.GroceryItem]{
		ID:    "source",
		Label: "Recipe",
		Key: func(it *models.GroceryItem) string {
			switch len(it.SourceRecipeIDs) {
			case 0:
				return "manual"
			case 1:
				return strconv.FormatInt(it.SourceRecipeIDs[0], 10)
			}
			return "multiple"
		},
		Format: func(key string) string {
			switch key {
			case "manual":
				return "Added manually"
			case "multiple":
				return "Several recipes"
			}
			id, err := strconv.ParseInt(key, 10, 64)
			if err == nil {
				if title, ok := titles[id]; ok {
					return title
				}
			}
			return "Recipe #" + key
		},
		Order: func(a, b string) int {
			ia, _ := strconv.ParseInt(a, 10, 64)
			ib, _ := strconv.ParseInt(b, 10, 64)
			if c := cmp.Compare(sourceRank(a), sourceRank(b)); c != 0 {
				return c
			}
			return cmp.Compare(ia, ib)
		},
	}
}

func sourceRank(key string) int {
	switch key {
	case "multiple":
		return 1
	case "manual":
		return 2
	}
	return 0
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
