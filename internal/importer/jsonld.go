package importer

import (
	"encoding/json"
	"html"
	"strings"

	"github.com/Kerhoff/recipebox/internal/models"
)

// fromJSONLD returns the first Schema.org Recipe found in the page's JSON-LD
// blocks. Blocks that are not valid JSON are skipped.
func fromJSONLD(blocks []string, sourceURL string) (*Imported, bool) {
	for _, block := range blocks {
		var doc any
		if err := json.Unmarshal([]byte(strings.TrimSpace(block)), &doc); err != nil {
			continue
		}
		if obj := findRecipe(doc); obj != nil {
			imp := decodeRecipe(obj, sourceURL)
			if imp.Title == "" {
				continue
			}
			return imp, true
		}
	}
	return nil, false
}

// findRecipe searches a top-level object, an array of objects, or an
// "@graph" array for an object whose @type is Recipe.
func findRecipe(v any) map[string]any {
	switch node := v.(type) {
	case map[string]any:
		if isRecipeType(node["@type"]) {
			return node
		}
		if graph, ok := node["@graph"]; ok {
			return findRecipe(graph)
		}
	case []any:
		for _, el := range node {
			if found := findRecipe(el); found != nil {
				return found
			}
		}
	}
	return nil
}

func isRecipeType(v any) bool {
	switch t := v.(type) {
	case string:
		t = t[strings.LastIndexAny(t, "/:")+1:]
		return strings.EqualFold(t, "Recipe")
	case []any:
		for _, el := range t {
			if isRecipeType(el) {
				return true
			}
		}
	}
	return false
}

func decodeRecipe(obj map[string]any, sourceURL string) *Imported {
	imp := &Imported{
		Title:       text(obj["name"]),
		Description: text(obj["description"]),
		SourceURL:   sourceURL,
		Structured:  true,
	}
	if imp.Title == "" {
		imp.Title = text(obj["headline"])
	}

	ingredients := obj["recipeIngredient"]
	if ingredients == nil {
		ingredients = obj["ingredients"]
	}
	imp.Ingredients = stringList(ingredients)
	imp.Instructions = instructions(obj["recipeInstructions"])
	imp.Servings = servings(obj["recipeYield"])
	imp.PrepMinutes = duration(obj["prepTime"])
	imp.CookMinutes = duration(obj["cookTime"])
	imp.TotalMinutes = duration(obj["totalTime"])

	categories := stringList(obj["recipeCategory"])
	cuisines := stringList(obj["recipeCuisine"])
	var keywords []string
	for _, k := range stringList(obj["keywords"]) {
		keywords = append(keywords, strings.Split(k, ",")...)
	}
	imp.Tags = models.UniqueFold(append(append(categories, cuisines...), keywords...))
	if len(cuisines) > 0 {
		imp.Cuisine = cuisines[0]
	}
	if img := imageURL(obj["image"]); img != "" {
		imp.ImageURLs = []string{resolveURL(sourceURL, img)}
	}
	return imp
}

func text(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return cleanText(html.UnescapeString(s))
}

// stringList accepts a string or a list of strings; blanks are dropped.
func stringList(v any) []string {
	var out []string
	switch t := v.(type) {
	case string:
		if s := text(t); s != "" {
			out = append(out, s)
		}
	case []any:
		for _, el := range t {
			if s := text(el); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// instructions accepts a single string (split on newlines), a list of
// strings, HowToStep objects (their "text"), or HowToSection objects whose
// itemListElement holds further steps.
func instructions(v any) []string {
	var out []string
	switch t := v.(type) {
	case string:
		for _, line := range strings.Split(html.UnescapeString(t), "\n") {
			if s := cleanText(line); s != "" {
				out = append(out, s)
			}
		}
	case []any:
		for _, el := range t {
			out = append(out, instructions(el)...)
		}
	case map[string]any:
		if items, ok := t["itemListElement"]; ok {
			return instructions(items)
		}
		s := text(t["text"])
		if s == "" {
			s = text(t["name"])
		}
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// servings reads a numeric yield directly or the first integer in a string.
// Lists use their first element.
func servings(v any) *int {
	switch t := v.(type) {
	case float64:
		if t > 0 {
			return models.IntPtr(int(t))
		}
	case string:
		if n, ok := FirstInt(t); ok && n > 0 {
			return models.IntPtr(n)
		}
	case []any:
		if len(t) > 0 {
			return servings(t[0])
		}
	}
	return nil
}

func duration(v any) *int {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	if m, ok := ParseDuration(s); ok {
		return models.IntPtr(m)
	}
	return nil
}

// imageURL accepts a URL string, an ImageObject with "url", or a list whose
// first element is decoded the same way.
func imageURL(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case map[string]any:
		return imageURL(t["url"])
	case []any:
		if len(t) > 0 {
			return imageURL(t[0])
		}
	}
	return ""
}
