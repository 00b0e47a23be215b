package tags

import "slices"

// AggregateMealPlanTags derives a meal plan's tags. Recipe tags are kept
// only when they are predefined ingredient or event tags, in their canonical
// spelling; event keywords found in the plan name are added. The result has
// no duplicates and keeps first occurrence order.
func AggregateMealPlanTags(v *Vocabulary, planName string, recipeTags [][]string) []string {
	var out []string
	add := func(tag string) {
		if !slices.Contains(out, tag) {
			out = append(out, tag)
		}
	}
	for _, tagsOfRecipe := range recipeTags {
		for _, t := range tagsOfRecipe {
			canonical, c, ok := v.Lookup(t)
			if ok && (c == Ingredient || c == Event) {
				add(canonical)
			}
		}
	}
	for _, t := range v.MatchEvents(planName) {
		add(t)
	}
	if out == nil {
		out = []string{}
	}
	return out
}
