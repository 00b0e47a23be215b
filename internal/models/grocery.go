package models

import (
	"strings"
	"time"
)

// GroceryList owns a collection of grocery items; deleting the list deletes them.
type GroceryList struct {
	ID        int64         `json:"id" db:"id"`
	Name      string        `json:"name" db:"name"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" db:"updated_at"`
	Items     []GroceryItem `json:"items,omitempty"`
}

// Validate checks the grocery list invariants.
func (l *GroceryList) Validate() error {
	v := newValidator("grocery list")
	v.check(strings.TrimSpace(l.Name) != "", "name", "must not be blank")
	return v.err()
}

// GroceryItem is a single line on a grocery list. Quantity and Unit are
// either both set or Quantity is nil (a count-only or count-unknown item).
type GroceryItem struct {
	ID              int64     `json:"id" db:"id"`
	GroceryListID   int64     `json:"grocery_list_id" db:"grocery_list_id"`
	Name            string    `json:"name" db:"name"`
	Quantity        *float64  `json:"quantity,omitempty" db:"quantity"`
	Unit            string    `json:"unit,omitempty" db:"unit"`
	Checked         bool      `json:"checked" db:"checked"`
	SourceRecipeIDs []int64   `json:"source_recipe_ids" db:"source_recipe_ids"`
	Notes           string    `json:"notes,omitempty" db:"notes"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// Validate checks the grocery item invariants.
func (i *GroceryItem) Validate() error {
	v := newValidator("grocery item")
	v.check(strings.TrimSpace(i.Name) != "", "name", "must not be blank")
	v.check(i.Quantity != nil || i.Unit == "", "unit", "requires a quantity")
	v.check(i.Quantity == nil || *i.Quantity >= 0, "quantity", "must not be negative")
	return v.err()
}

// HasQuantity reports whether the item carries a numeric quantity.
func (i *GroceryItem) HasQuantity() bool {
	return i.Quantity != nil
}

// FloatPtr is a small helper for optional quantities.
func FloatPtr(v float64) *float64 {
	return &v
}
