package share

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Kerhoff/recipebox/internal/models"
)

// RenderText renders every entity in the package as plain text, for the
// message body that accompanies a share.
func RenderText(p *Package) string {
	titles := recipeTitles(p.Recipes)
	var parts []string
	for _, r := range p.Recipes {
		parts = append(parts, RecipeText(r))
	}
	for _, mp := range p.MealPlans {
		parts = append(parts, MealPlanText(mp, titles))
	}
	for _, gl := range p.GroceryLists {
		parts = append(parts, GroceryListText(gl))
	}
	return strings.Join(parts, "\n\n")
}

// RecipeText renders one recipe.
func RecipeText(r *models.Recipe) string {
	var sb strings.Builder
	sb.WriteString(r.Title)
	sb.WriteByte('\n')
	sb.WriteString(strings.Repeat("=", len([]rune(r.Title))))
	sb.WriteByte('\n')
	if r.Description != "" {
		sb.WriteString(r.Description + "\n")
	}
	if meta := recipeMeta(r); meta != "" {
		sb.WriteString(meta + "\n")
	}
	sb.WriteString("\nIngredients\n")
	for _, l := range r.Ingredients {
		sb.WriteString("- " + l + "\n")
	}
	sb.WriteString("\nInstructions\n")
	for i, l := range r.Instructions {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, l)
	}
	if r.Notes != "" {
		sb.WriteString("\nNotes\n" + r.Notes + "\n")
	}
	if r.SourceURL != "" {
		sb.WriteString("\nSource: " + r.SourceURL + "\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func recipeMeta(r *models.Recipe) string {
	var meta []string
	meta = append(meta, fmt.Sprintf("Serves %d", r.Servings))
	if r.PrepMinutes != nil {
		meta = append(meta, fmt.Sprintf("Prep %d min", *r.PrepMinutes))
	}
	if r.CookMinutes != nil {
		meta = append(meta, fmt.Sprintf("Cook %d min", *r.CookMinutes))
	}
	if r.Cuisine != "" {
		meta = append(meta, r.Cuisine)
	}
	if len(r.Tags) > 0 {
		meta = append(meta, "Tags: "+strings.Join(r.Tags, ", "))
	}
	return strings.Join(meta, " | ")
}

// MealPlanText renders a meal plan. titles resolves recipe IDs; missing
// recipes are listed by ID.
func MealPlanText(mp *models.MealPlan, titles map[int64]string) string {
	var sb strings.Builder
	sb.WriteString("Meal plan: " + mp.Name + "\n")
	if mp.StartDate != nil || mp.EndDate != nil {
		sb.WriteString("Dates: " + dateRange(mp) + "\n")
	}
	if len(mp.Tags) > 0 {
		sb.WriteString("Tags: " + strings.Join(mp.Tags, ", ") + "\n")
	}
	for _, id := range mp.RecipeIDs {
		title, ok := titles[id]
		if !ok {
			title = fmt.Sprintf("recipe #%d (not found)", id)
		}
		sb.WriteString("- " + title + "\n")
	}
	if mp.Notes != "" {
		sb.WriteString("Notes: " + mp.Notes + "\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func dateRange(mp *models.MealPlan) string {
	const layout = "2006-01-02"
	switch {
	case mp.StartDate != nil && mp.EndDate != nil:
		return mp.StartDate.Format(layout) + " to " + mp.EndDate.Format(layout)
	case mp.StartDate != nil:
		return "from " + mp.StartDate.Format(layout)
	}
	return "until " + mp.EndDate.Format(layout)
}

// GroceryListText renders a grocery list with check boxes.
func GroceryListText(gl *models.GroceryList) string {
	var sb strings.Builder
	sb.WriteString("Grocery list: " + gl.Name + "\n")
	for i := range gl.Items {
		it := &gl.Items[i]
		box := "[ ]"
		if it.Checked {
			box = "[x]"
		}
		sb.WriteString(box + " " + FormatItem(it) + "\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatItem renders quantity, unit, name and notes of a grocery item.
func FormatItem(it *models.GroceryItem) string {
	var parts []string
	if it.Quantity != nil {
		parts = append(parts, FormatQuantity(*it.Quantity))
		if it.Unit != "" {
			parts = append(parts, it.Unit)
		}
	}
	parts = append(parts, it.Name)
	s := strings.Join(parts, " ")
	if it.Notes != "" {
		s += " (" + it.Notes + ")"
	}
	return s
}

// FormatQuantity prints at most two decimals without trailing zeros.
func FormatQuantity(q float64) string {
	s := strconv.FormatFloat(q, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

func recipeTitles(recipes []*models.Recipe) map[int64]string {
	m := make(map[int64]string, len(recipes))
	for _, r := range recipes {
		m[r.ID] = r.Title
	}
	return m
}
