package models

import "time"

// RecipeLog is an append-only record of a recipe being cooked.
type RecipeLog struct {
	ID        int64     `json:"id" db:"id"`
	RecipeID  int64     `json:"recipe_id" db:"recipe_id"`
	CookedAt  time.Time `json:"cooked_at" db:"cooked_at"`
	Notes     string    `json:"notes,omitempty" db:"notes"`
	Rating    *int      `json:"rating,omitempty" db:"rating"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Validate checks the log invariants.
func (l *RecipeLog) Validate() error {
	v := newValidator("recipe log")
	v.check(l.RecipeID > 0, "recipe_id", "is required")
	v.check(l.Rating == nil || (*l.Rating >= 1 && *l.Rating <= 5), "rating", "must be between 1 and 5")
	return v.err()
}
