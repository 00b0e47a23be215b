package listview

import (
	"cmp"
	"strings"
	"time"

	"github.com/Kerhoff/recipebox/internal/models"
)

// RecipeSearch matches the query against title, tags, cuisine, description
// and ingredient lines.
func RecipeSearch(r *models.Recipe, q string) bool {
	if ContainsFold(r.Title, q) || ContainsFold(r.Cuisine, q) || ContainsFold(r.Description, q) {
		return true
	}
	for _, t := range r.Tags {
		if ContainsFold(t, q) {
			return true
		}
	}
	for _, line := range r.Ingredients {
		if ContainsFold(line, q) {
			return true
		}
	}
	return false
}

// NewRecipeEngine creates an engine over recipes using RecipeSearch.
func NewRecipeEngine() *Engine[*models.Recipe] {
	return NewEngine(RecipeSearch)
}

func FavoritesFilter() Filter[*models.Recipe] {
	return NewFilter("favorites", "Favorites", func(r *models.Recipe) bool { return r.Favorite })
}

func TemplatesFilter() Filter[*models.Recipe] {
	return NewFilter("templates", "Templates", func(r *models.Recipe) bool { return r.Template })
}

// TagFilter matches recipes carrying tag (case-insensitive).
func TagFilter(tag string) Filter[*models.Recipe] {
	return NewFilter("tag:"+strings.ToLower(tag), "Tag: "+tag, func(r *models.Recipe) bool {
		return r.HasTag(tag)
	})
}

func CuisineFilter(cuisine string) Filter[*models.Recipe] {
	return NewFilter("cuisine:"+strings.ToLower(cuisine), "Cuisine: "+cuisine, func(r *models.Recipe) bool {
		return strings.EqualFold(r.Cuisine, cuisine)
	})
}

// MaxTotalTimeFilter matches recipes whose known total time is at most
// minutes. Recipes with no time information do not match.
func MaxTotalTimeFilter(minutes int) Filter[*models.Recipe] {
	return NewFilter("max-time", "Ready in "+itoa(minutes)+" min", func(r *models.Recipe) bool {
		if r.PrepMinutes == nil && r.CookMinutes == nil {
			return false
		}
		return r.TotalMinutes() <= minutes
	})
}

func SourceKindFilter(kind models.SourceKind) Filter[*models.Recipe] {
	return NewFilter("source:"+string(kind), "Source: "+string(kind), func(r *models.Recipe) bool {
		return r.SourceKind == kind
	})
}

func RecipesByTitle() Sort[*models.Recipe] {
	return NewSort("title", "Title", func(a, b *models.Recipe) int {
		return cmp.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
	})
}

func RecipesByCreated() Sort[*models.Recipe] {
	return NewSort("created", "Date added", func(a, b *models.Recipe) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
}

func RecipesByUpdated() Sort[*models.Recipe] {
	return NewSort("updated", "Last modified", func(a, b *models.Recipe) int {
		return a.UpdatedAt.Compare(b.UpdatedAt)
	})
}

func RecipesByTotalTime() Sort[*models.Recipe] {
	return NewSort("total-time", "Total time", func(a, b *models.Recipe) int {
		return cmp.Compare(a.TotalMinutes(), b.TotalMinutes())
	})
}

// GroupRecipesByFavorite puts favorites first.
func GroupRecipesByFavorite() Grouping[*models.Recipe] {
	return Grouping[*models.Recipe]{
		ID:    "favorite",
		Label: "Favorites first",
		Key: func(r *models.Recipe) string {
			if r.Favorite {
				return "favorite"
			}
			return "other"
		},
		Format: func(key string) string {
			if key == "favorite" {
				return "Favorites"
			}
			return "Other recipes"
		},
		Order: func(a, b string) int {
			return cmp.Compare(favoriteRank(a), favoriteRank(b))
		},
	}
}

func favoriteRank(key string) int {
	if key == "favorite" {
		return 0
	}
	return 1
}

// GroupRecipesByCreatedMonth buckets recipes by the month they were added,
// most recent first.
func GroupRecipesByCreatedMonth() Grouping[*models.Recipe] {
	return Grouping[*models.Recipe]{
		ID:     "created-month",
		Label:  "Month added",
		Key:    func(r *models.Recipe) string { return monthKey(r.CreatedAt) },
		Format: formatMonth,
		Order:  func(a, b string) int { return strings.Compare(b, a) },
	}
}

// GroupRecipesByCuisine buckets by cuisine alphabetically; recipes without
// a cuisine go last.
func GroupRecipesByCuisine() Grouping[*models.Recipe] {
	return Grouping[*models.Recipe]{
		ID:    "cuisine",
		Label: "Cuisine",
		Key:   func(r *models.Recipe) string { return strings.ToLower(strings.TrimSpace(r.Cuisine)) },
		Format: func(key string) string {
			if key == "" {
				return "Other"
			}
			return strings.ToUpper(key[:1]) + key[1:]
		},
		Order: emptyLast,
	}
}

func monthKey(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01")
}

func formatMonth(key string) string {
	if key == "" {
		return "Unscheduled"
	}
	t, err := time.Parse("2006-01", key)
	if err != nil {
		return key
	}
	return t.Format("January 2006")
}

func emptyLast(a, b string) int {
	switch {
	case a == b:
		return 0
	case a == "":
		return 1
	case b == "":
		return -1
	}
	return strings.Compare(a, b)
}

// emptyLastDesc orders non-empty keys descending with the empty key last.
func emptyLastDesc(a, b string) int {
	switch {
	case a == b:
		return 0
	case a == "":
		return 1
	case b == "":
		return -1
	}
	return strings.Compare(b, a)
}
