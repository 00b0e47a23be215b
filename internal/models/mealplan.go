package models

import (
	"strings"
	"time"
)

// MealPlan groups recipes, optionally over a date range. RecipeIDs are weak
// references: deleting a recipe leaves the ID in place and it resolves to
// "not found".
type MealPlan struct {
	ID        int64      `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	RecipeIDs []int64    `json:"recipe_ids" db:"recipe_ids"`
	StartDate *time.Time `json:"start_date,omitempty" db:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty" db:"end_date"`
	Tags      []string   `json:"tags" db:"tags"`
	Notes     string     `json:"notes,omitempty" db:"notes"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

// Validate checks the meal plan invariants.
func (p *MealPlan) Validate() error {
	v := newValidator("meal plan")
	v.check(strings.TrimSpace(p.Name) != "", "name", "must not be blank")
	if p.StartDate != nil && p.EndDate != nil {
		v.check(!p.StartDate.After(*p.EndDate), "end_date", "must not be before start_date")
	}
	return v.err()
}

// Overlaps reports whether the plan's date range intersects [from, to].
// Plans without dates never overlap.
func (p *MealPlan) Overlaps(from, to time.Time) bool {
	if p.StartDate == nil && p.EndDate == nil {
		return false
	}
	start, end := p.StartDate, p.EndDate
	if start == nil {
		start = end
	}
	if end == nil {
		end = start
	}
	return !start.After(to) && !end.Before(from)
}
