package models

import (
	"sort"
	"strings"
	"time"
)

// Substitute is one replacement option for a base ingredient.
type Substitute struct {
	Name           string   `json:"name"`
	Ratio          float64  `json:"ratio"`
	ConversionNote string   `json:"conversion_note,omitempty"`
	Note           string   `json:"note,omitempty"`
	Rank           int      `json:"rank"`
	DietaryTags    []string `json:"dietary_tags,omitempty"`
}

// IngredientSubstitution lists substitutes for a base ingredient, keyed by
// the lower-cased ingredient name.
type IngredientSubstitution struct {
	ID          int64        `json:"id" db:"id"`
	Ingredient  string       `json:"ingredient" db:"ingredient"`
	Category    string       `json:"category" db:"category"`
	Substitutes []Substitute `json:"substitutes" db:"substitutes"`
	UserAdded   bool         `json:"user_added" db:"user_added"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" db:"updated_at"`
}

// Validate checks the substitution invariants.
func (s *IngredientSubstitution) Validate() error {
	v := newValidator("substitution")
	v.check(strings.TrimSpace(s.Ingredient) != "", "ingredient", "must not be blank")
	v.check(len(s.Substitutes) > 0, "substitutes", "at least one substitute is required")
	for _, sub := range s.Substitutes {
		v.check(strings.TrimSpace(sub.Name) != "", "substitutes.name", "must not be blank")
		v.check(sub.Rank >= 1 && sub.Rank <= 10, "substitutes.rank", "must be between 1 and 10")
		v.check(sub.Ratio > 0, "substitutes.ratio", "must be greater than zero")
	}
	return v.err()
}

// Ranked returns the substitutes ordered best first (rank 1 is best).
func (s *IngredientSubstitution) Ranked() []Substitute {
	out := append([]Substitute(nil), s.Substitutes...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })
	return out
}
