// Package grocery turns recipe ingredient lines into grocery list items:
// consolidation of duplicate ingredients across recipes and suppression of
// pantry staples.
package grocery

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/Kerhoff/recipebox/internal/ingredient"
	"github.com/Kerhoff/recipebox/internal/models"
)

type mergeKey struct {
	name string
	unit string
}

type group struct {
	key      mergeKey
	entries  []ingredient.Parsed
	spelling map[string]int
}

// Consolidate parses every ingredient line of the given recipes and merges
// entries sharing a normalised name and unit into single grocery items for
// list listID. The result is deterministic for a given set of recipes,
// whatever order they are passed in.
func Consolidate(listID int64, recipes []*models.Recipe) []models.GroceryItem {
	var parsed []ingredient.Parsed
	for _, r := range recipes {
		if r == nil {
			continue
		}
		parsed = append(parsed, ingredient.ParseAll(r.Ingredients, r.ID)...)
	}
	return ConsolidateParsed(listID, parsed)
}

// ConsolidateParsed merges already parsed entries. Entries without a unit and
// entries with a unit never share a key. When any member of a group lacks a
// quantity, no combined quantity is produced: the item becomes count-unknown
// and its notes list what each recipe asked for.
func ConsolidateParsed(listID int64, parsed []ingredient.Parsed) []models.GroceryItem {
	groups := make(map[mergeKey]*group)
	for _, p := range parsed {
		if p.Name == "" {
			continue
		}
		unit := ""
		if p.Unit != "" {
			unit, _ = ingredient.CanonicalUnit(p.Unit)
		}
		k := mergeKey{name: p.Name, unit: unit}
		g, ok := groups[k]
		if !ok {
			g = &group{key: k, spelling: make(map[string]int)}
			groups[k] = g
		}
		g.entries = append(g.entries, p)
		if p.Unit != "" {
			g.spelling[p.Unit]++
		}
	}

	items := make([]models.GroceryItem, 0, len(groups))
	for _, g := range groups {
		items = append(items, g.item(listID))
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].Unit < items[j].Unit
	})
	return items
}

func (g *group) item(listID int64) models.GroceryItem {
	item := models.GroceryItem{
		GroceryListID:   listID,
		Name:            g.key.name,
		SourceRecipeIDs: g.sources(),
	}

	total := 0.0
	complete := true
	for _, e := range g.entries {
		if e.Quantity == nil {
			complete = false
			break
		}
		total += *e.Quantity
	}

	if complete {
		q := roundQuantity(total)
		item.Quantity = &q
		item.Unit = g.displayUnit()
		return item
	}

	if len(g.entries) > 1 {
		item.Notes = "amounts not combined: " + strings.Join(g.contributions(), ", ")
	}
	return item
}

func (g *group) sources() []int64 {
	seen := make(map[int64]bool)
	ids := make([]int64, 0, len(g.entries))
	for _, e := range g.entries {
		if !seen[e.SourceRecipeID] {
			seen[e.SourceRecipeID] = true
			ids = append(ids, e.SourceRecipeID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// displayUnit picks the most common spelling in the group; ties go to the
// lexicographically smallest so that input order does not matter.
func (g *group) displayUnit() string {
	best, bestCount := "", 0
	for spelling, n := range g.spelling {
		if n > bestCount || (n == bestCount && spelling < best) {
			best, bestCount = spelling, n
		}
	}
	return best
}

func (g *group) contributions() []string {
	out := make([]string, 0, len(g.entries))
	for _, e := range g.entries {
		if e.Quantity == nil {
			out = append(out, "unspecified")
			continue
		}
		s := strconv.FormatFloat(roundQuantity(*e.Quantity), 'f', -1, 64)
		if e.Unit != "" {
			s = fmt.Sprintf("%s %s", s, e.Unit)
		}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func roundQuantity(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
