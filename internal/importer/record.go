// Package importer turns recipe web pages into structured recipe data.
// Schema.org JSON-LD is preferred; Open Graph and Twitter card metadata is
// the fallback. Parsing never fails with an error: it either produces a
// record or reports that nothing usable was found.
package importer

import (
	"strings"

	"github.com/Kerhoff/recipebox/internal/models"
)

// DefaultServings is used when a page does not state a yield.
const DefaultServings = 4

// Imported is the intermediate record produced from a page. Optional
// numbers are nil when the page did not provide them.
type Imported struct {
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	Ingredients  []string `json:"ingredients,omitempty"`
	Instructions []string `json:"instructions,omitempty"`
	Servings     *int     `json:"servings,omitempty"`
	PrepMinutes  *int     `json:"prep_minutes,omitempty"`
	CookMinutes  *int     `json:"cook_minutes,omitempty"`
	TotalMinutes *int     `json:"total_minutes,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	Cuisine      string   `json:"cuisine,omitempty"`
	ImageURLs    []string `json:"image_urls,omitempty"`
	SourceURL    string   `json:"source_url"`
	// Structured is true when the record came from JSON-LD rather than
	// page metadata.
	Structured bool `json:"structured"`
}

// ToRecipe maps the record onto a new, unsaved recipe. Total time becomes
// the cook time when the page gave neither prep nor cook time.
func (imp *Imported) ToRecipe() *models.Recipe {
	r := &models.Recipe{
		Title:        imp.Title,
		Description:  imp.Description,
		Ingredients:  append([]string(nil), imp.Ingredients...),
		Instructions: append([]string(nil), imp.Instructions...),
		Servings:     DefaultServings,
		PrepMinutes:  imp.PrepMinutes,
		CookMinutes:  imp.CookMinutes,
		Tags:         append([]string(nil), imp.Tags...),
		Cuisine:      imp.Cuisine,
		SourceKind:   models.SourceURL,
		SourceURL:    imp.SourceURL,
		MediaRefs:    append([]string(nil), imp.ImageURLs...),
	}
	if imp.Servings != nil && *imp.Servings > 0 {
		r.Servings = *imp.Servings
	}
	if r.PrepMinutes == nil && r.CookMinutes == nil && imp.TotalMinutes != nil {
		r.CookMinutes = models.IntPtr(*imp.TotalMinutes)
	}
	r.Normalize()
	return r
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
