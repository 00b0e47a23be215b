package tags

import (
	"slices"
	"testing"
)

func TestAggregateMealPlanTags(t *testing.T) {
	t.Parallel()
	v := Default()
	cases := []struct {
		name    string
		plan    string
		recipes [][]string
		want    []string
	}{
		{"event from name with no recipes", "Thanksgiving Dinner", nil, []string{"Thanksgiving"}},
		{"event from name is case-insensitive", "our THANKSGIVING feast", [][]string{}, []string{"Thanksgiving"}},
		{"xmas maps to christmas", "Xmas Eve", nil, []string{"Christmas"}},
		{"independence day", "Independence Day cookout", nil, []string{"4th of July", "BBQ"}},
		{"keeps ingredient and event tags only", "Week 12", [][]string{
			{"chicken", "Dinner", "Italian", "Quick"},
			{"Halloween", "pumpkin", "Chicken"},
		}, []string{"Chicken", "Halloween", "Pumpkin"}},
		{"recipe and name tags deduplicated", "Christmas lunch", [][]string{{"christmas", "Beef"}}, []string{"Christmas", "Beef"}},
		{"unknown tags dropped", "Plain", [][]string{{"my-own-tag"}}, []string{}},
		{"partial words do not match", "Eastern Europe week", nil, []string{}},
		{"new year's eve", "New Year's Eve party", nil, []string{"New Year's"}},
		{"lunar new year is not also new year's", "Lunar New Year feast", nil, []string{"Lunar New Year"}},
		{"chinese new year", "Chinese New Year dumplings", nil, []string{"Lunar New Year"}},
		{"separate occurrences both count", "Lunar New Year and New Year brunch", nil, []string{"Lunar New Year", "New Year's"}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := AggregateMealPlanTags(v, tc.plan, tc.recipes)
			if !slices.Equal(got, tc.want) {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestVocabularyLookup(t *testing.T) {
	t.Parallel()
	v := Default()
	if v != Default() {
		t.Fatalf("Default should return the shared vocabulary")
	}
	canonical, c, ok := v.Lookup("  gluten-free ")
	if !ok || canonical != "Gluten-Free" || c != Dietary {
		t.Fatalf("lookup: %q %q %v", canonical, c, ok)
	}
	if _, ok := v.CategoryOf("nonsense"); ok {
		t.Fatalf("unexpected match")
	}
	for _, cat := range Categories {
		if len(v.Tags(cat)) == 0 {
			t.Fatalf("category %s is empty", cat)
		}
	}
}

func TestVocabularyIsImmutable(t *testing.T) {
	t.Parallel()
	src := map[Category][]string{Event: {"Picnic"}}
	v := NewVocabulary(src, map[string]string{"picnic": "Picnic"})
	src[Event][0] = "Changed"
	got := v.Tags(Event)
	got[0] = "Mutated"
	if v.Tags(Event)[0] != "Picnic" {
		t.Fatalf("vocabulary changed through caller slices")
	}
	if tags := v.MatchEvents("Spring picnic"); !slices.Equal(tags, []string{"Picnic"}) {
		t.Fatalf("events %q", tags)
	}
}
