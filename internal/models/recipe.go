package models

import (
	"strings"
	"time"
)

// SourceKind records where a recipe came from.
type SourceKind string

const (
	SourceManual SourceKind = "manual"
	SourceURL    SourceKind = "url"
	SourcePDF    SourceKind = "pdf"
	SourcePhoto  SourceKind = "photo"
)

// Valid reports whether k is one of the known source kinds.
func (k SourceKind) Valid() bool {
	switch k {
	case SourceManual, SourceURL, SourcePDF, SourcePhoto:
		return true
	}
	return false
}

// Recipe represents a stored recipe. Ingredients are free-text lines; they
// are parsed on demand when a grocery list is built.
type Recipe struct {
	ID           int64      `json:"id" db:"id"`
	Title        string     `json:"title" db:"title"`
	Description  string     `json:"description,omitempty" db:"description"`
	Ingredients  []string   `json:"ingredients" db:"ingredients"`
	Instructions []string   `json:"instructions" db:"instructions"`
	Servings     int        `json:"servings" db:"servings"`
	PrepMinutes  *int       `json:"prep_minutes,omitempty" db:"prep_minutes"`
	CookMinutes  *int       `json:"cook_minutes,omitempty" db:"cook_minutes"`
	Tags         []string   `json:"tags" db:"tags"`
	Cuisine      string     `json:"cuisine,omitempty" db:"cuisine"`
	SourceKind   SourceKind `json:"source_kind" db:"source_kind"`
	SourceURL    string     `json:"source_url,omitempty" db:"source_url"`
	MediaRefs    []string   `json:"media_refs,omitempty" db:"media_refs"`
	Notes        string     `json:"notes,omitempty" db:"notes"`
	Favorite     bool       `json:"favorite" db:"favorite"`
	Template     bool       `json:"template" db:"template"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// Validate checks the recipe invariants that must hold before persistence.
func (r *Recipe) Validate() error {
	v := newValidator("recipe")
	v.check(strings.TrimSpace(r.Title) != "", "title", "must not be blank")
	v.check(countNonBlank(r.Ingredients) > 0, "ingredients", "at least one ingredient is required")
	v.check(countNonBlank(r.Instructions) > 0, "instructions", "at least one instruction is required")
	v.check(r.Servings > 0, "servings", "must be greater than zero")
	v.check(r.PrepMinutes == nil || *r.PrepMinutes >= 0, "prep_minutes", "must not be negative")
	v.check(r.CookMinutes == nil || *r.CookMinutes >= 0, "cook_minutes", "must not be negative")
	v.check(r.SourceKind == "" || r.SourceKind.Valid(), "source_kind", "must be one of manual, url, pdf, photo")
	return v.err()
}

// Normalize trims text fields, drops blank lines and de-duplicates tags.
// It is applied before validation so that whitespace-only entries never reach storage.
func (r *Recipe) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Cuisine = strings.TrimSpace(r.Cuisine)
	r.SourceURL = strings.TrimSpace(r.SourceURL)
	r.Ingredients = compactLines(r.Ingredients)
	r.Instructions = compactLines(r.Instructions)
	r.Tags = UniqueFold(r.Tags)
	if r.SourceKind == "" {
		r.SourceKind = SourceManual
	}
}

// TotalMinutes returns prep plus cook time, or 0 when neither is known.
func (r *Recipe) TotalMinutes() int {
	total := 0
	if r.PrepMinutes != nil {
		total += *r.PrepMinutes
	}
	if r.CookMinutes != nil {
		total += *r.CookMinutes
	}
	return total
}

// HasTag reports whether the recipe carries tag, ignoring case.
func (r *Recipe) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

func compactLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// UniqueFold trims values and removes case-insensitive duplicates, keeping
// the first spelling seen.
func UniqueFold(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		key := strings.ToLower(v)
		if v == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}

// IntPtr is a small helper for optional minute fields.
func IntPtr(v int) *int {
	return &v
}
