package listview

import (
	"cmp"
	"strings"
	"time"

	"github.com/Kerhoff/recipebox/internal/models"
)

// MealPlanSearch matches the query against the plan name, tags and notes.
func MealPlanSearch(p *models.MealPlan, q string) bool {
	if ContainsFold(p.Name, q) || ContainsFold(p.Notes, q) {
		return true
	}
	for _, t := range p.Tags {
		if ContainsFold(t, q) {
			return true
		}
	}
	return false
}

func NewMealPlanEngine() *Engine[*models.MealPlan] {
	return NewEngine(MealPlanSearch)
}

func MealPlanTagFilter(tag string) Filter[*models.MealPlan] {
	return NewFilter("tag:"+strings.ToLower(tag), "Tag: "+tag, func(p *models.MealPlan) bool {
		for _, t := range p.Tags {
			if strings.EqualFold(t, tag) {
				return true
			}
		}
		return false
	})
}

// UpcomingFilter matches dated plans that have not ended before now.
func UpcomingFilter(now time.Time) Filter[*models.MealPlan] {
	today := now.Truncate(24 * time.Hour)
	return NewFilter("upcoming", "Upcoming", func(p *models.MealPlan) bool {
		switch {
		case p.EndDate != nil:
			return !p.EndDate.Before(today)
		case p.StartDate != nil:
			return !p.StartDate.Before(today)
		}
		return false
	})
}

func MealPlansByName() Sort[*models.MealPlan] {
	return NewSort("name", "Name", func(a, b *models.MealPlan) int {
		return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
}

// MealPlansByStart orders by start date; undated plans sort after dated ones.
func MealPlansByStart() Sort[*models.MealPlan] {
	return NewSort("start", "Start date", func(a, b *models.MealPlan) int {
		switch {
		case a.StartDate == nil && b.StartDate == nil:
			return 0
		case a.StartDate == nil:
			return 1
		case b.StartDate == nil:
			return -1
		}
		return a.StartDate.Compare(*b.StartDate)
	})
}

// GroupMealPlansByStartMonth buckets plans by start month, most recent first.
// Plans without a start date are grouped last as "Unscheduled".
func GroupMealPlansByStartMonth() Grouping[*models.MealPlan] {
	return Grouping[*models.MealPlan]{
		ID:    "start-month",
		Label: "Month",
		Key: func(p *models.MealPlan) string {
			if p.StartDate == nil {
				return ""
			}
			return monthKey(*p.StartDate)
		},
		Format: formatMonth,
		Order:  emptyLastDesc,
	}
}

var recipeCountBuckets = []struct {
	key   string
	label string
	max   int
}{
	{"0", "No recipes", 0},
	{"1-3", "1-3 recipes", 3},
	{"4-6", "4-6 recipes", 6},
	{"7+", "7 or more recipes", -1},
}

func recipeCountBucket(n int) int {
	for i, b := range recipeCountBuckets {
		if b.max < 0 || n <= b.max {
			return i
		}
	}
	return len(recipeCountBuckets) - 1
}

// GroupMealPlansByRecipeCount buckets plans by number of recipes, largest
// bucket first.
func GroupMealPlansByRecipeCount() Grouping[*models.MealPlan] {
	index := make(map[string]int, len(recipeCountBuckets))
	for i, b := range recipeCountBuckets {
		index[b.key] = i
	}
	return Grouping[*models.MealPlan]{
		ID:    "recipe-count",
		Label: "Number of recipes",
		Key: func(p *models.MealPlan) string {
			return recipeCountBuckets[recipeCountBucket(len(p.RecipeIDs))].key
		},
		Format: func(key string) string {
			if i, ok := index[key]; ok {
				return recipeCountBuckets[i].label
			}
			return key
		},
		Order: func(a, b string) int { return cmp.Compare(index[b], index[a]) },
	}
}
