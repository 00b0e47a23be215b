// Package share builds portable packages of recipes, meal plans and grocery
// lists, renders them for people, and hands them to a share target.
package share

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/Kerhoff/recipebox/internal/models"
)

const (
	Format  = "recipebox.share"
	Version = 1
	// FileExt is appended to package file names.
	FileExt = ".recipebox.json"
)

var (
	ErrUnknownFormat      = errors.New("not a recipebox share package")
	ErrUnsupportedVersion = errors.New("share package version not supported")
)

// Photo is an embedded image belonging to a recipe in the package. Data is
// base64 in JSON.
type Photo struct {
	RecipeID    int64  `json:"recipe_id"`
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}

// Package is the serialized share document. IDs inside are the sender's and
// are remapped on import.
type Package struct {
	Format       string                `json:"format"`
	Version      int                   `json:"version"`
	ID           uuid.UUID             `json:"id"`
	Title        string                `json:"title"`
	ExportedAt   time.Time             `json:"exported_at"`
	Recipes      []*models.Recipe      `json:"recipes,omitempty"`
	MealPlans    []*models.MealPlan    `json:"meal_plans,omitempty"`
	GroceryLists []*models.GroceryList `json:"grocery_lists,omitempty"`
	Photos       []Photo               `json:"photos,omitempty"`
}

// NewPackage creates an empty package stamped with a fresh ID.
func NewPackage(title string, now time.Time) *Package {
	return &Package{
		Format:     Format,
		Version:    Version,
		ID:         uuid.New(),
		Title:      title,
		ExportedAt: now.UTC(),
	}
}

// Empty reports whether the package carries no entities.
func (p *Package) Empty() bool {
	return len(p.Recipes) == 0 && len(p.MealPlans) == 0 && len(p.GroceryLists) == 0
}

// PhotosFor returns the photos attached to a recipe.
func (p *Package) PhotosFor(recipeID int64) []Photo {
	var out []Photo
	for _, ph := range p.Photos {
		if ph.RecipeID == recipeID {
			out = append(out, ph)
		}
	}
	return out
}

// Encode writes p as indented JSON.
func Encode(w io.Writer, p *Package) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("failed to encode share package: %w", err)
	}
	return nil
}

// Decode reads a package and checks its format and version.
func Decode(r io.Reader) (*Package, error) {
	var p Package
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to decode share package: %w", err)
	}
	if p.Format != Format {
		return nil, ErrUnknownFormat
	}
	if p.Version < 1 || p.Version > Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, p.Version)
	}
	return &p, nil
}
