package models

import (
	"strings"
	"time"
)

// PantryStapleConfig suppresses a commonly stocked ingredient from generated
// grocery lists when the required amount is below ThresholdQuantity.
type PantryStapleConfig struct {
	ID                int64     `json:"id" db:"id"`
	Pattern           string    `json:"pattern" db:"pattern"`
	AlternativeNames  string    `json:"alternative_names,omitempty" db:"alternative_names"`
	ThresholdQuantity float64   `json:"threshold_quantity" db:"threshold_quantity"`
	ThresholdUnit     string    `json:"threshold_unit,omitempty" db:"threshold_unit"`
	Category          string    `json:"category" db:"category"`
	AlwaysFilter      bool      `json:"always_filter" db:"always_filter"`
	Enabled           bool      `json:"enabled" db:"enabled"`
	Custom            bool      `json:"custom" db:"custom"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// Names returns the pattern and all alternative names, split on commas,
// trimmed and lower-cased, without blanks.
func (c *PantryStapleConfig) Names() []string {
	var names []string
	for _, raw := range []string{c.Pattern, c.AlternativeNames} {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
				names = append(names, part)
			}
		}
	}
	return names
}

// Validate checks the pantry staple invariants.
func (c *PantryStapleConfig) Validate() error {
	v := newValidator("pantry staple")
	v.check(len(c.Names()) > 0, "pattern", "must not be blank")
	v.check(c.ThresholdQuantity >= 0, "threshold_quantity", "must not be negative")
	return v.err()
}
