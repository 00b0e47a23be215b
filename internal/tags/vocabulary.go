// Package tags holds the predefined tag vocabularies and derives meal plan
// tags from recipes and plan names.
package tags

import (
	"slices"
	"strings"
)

// Category of a predefined tag.
type Category string

const (
	Season     Category = "season"
	Ingredient Category = "ingredient"
	Event      Category = "event"
	DishType   Category = "dish_type"
	Method     Category = "cooking_method"
	Cuisine    Category = "cuisine"
	Dietary    Category = "dietary"
	Time       Category = "time"
)

// Categories lists every category in display order.
var Categories = []Category{Season, Ingredient, Event, DishType, Method, Cuisine, Dietary, Time}

type keyword struct {
	phrase string
	tag    string
}

// Vocabulary is an immutable set of categorised tags. Build it once with
// Default or NewVocabulary and share the pointer.
type Vocabulary struct {
	byCategory map[Category][]string
	index      map[string]entry
	keywords   []keyword
}

type entry struct {
	canonical string
	category  Category
}

// NewVocabulary builds a vocabulary. eventKeywords maps a lower-case phrase
// found in plan names to a canonical event tag. The inputs are copied.
func NewVocabulary(categories map[Category][]string, eventKeywords map[string]string) *Vocabulary {
	v := &Vocabulary{
		byCategory: make(map[Category][]string, len(categories)),
		index:      make(map[string]entry),
	}
	for cat, list := range categories {
		v.byCategory[cat] = slices.Clone(list)
		for _, t := range list {
			key := strings.ToLower(t)
			if _, dup := v.index[key]; !dup {
				v.index[key] = entry{canonical: t, category: cat}
			}
		}
	}
	for phrase, tag := range eventKeywords {
		v.keywords = append(v.keywords, keyword{phrase: strings.ToLower(phrase), tag: tag})
	}
	// Longer phrases first so "new year's eve" wins over "new year".
	slices.SortFunc(v.keywords, func(a, b keyword) int {
		if d := len(b.phrase) - len(a.phrase); d != 0 {
			return d
		}
		return strings.Compare(a.phrase, b.phrase)
	})
	return v
}

// Tags returns a copy of the tags in a category.
func (v *Vocabulary) Tags(c Category) []string {
	return slices.Clone(v.byCategory[c])
}

// Lookup finds a predefined tag ignoring case.
func (v *Vocabulary) Lookup(tag string) (canonical string, c Category, ok bool) {
	e, ok := v.index[strings.ToLower(strings.TrimSpace(tag))]
	return e.canonical, e.category, ok
}

// CategoryOf returns the category of tag, if predefined.
func (v *Vocabulary) CategoryOf(tag string) (Category, bool) {
	_, c, ok := v.Lookup(tag)
	return c, ok
}

// MatchEvents returns the canonical event tags whose keywords appear in
// text as whole words, in keyword order without duplicates. A matched phrase
// is blanked out before shorter keywords are tried, so "lunar new year" does
// not also yield the tag of "new year".
func (v *Vocabulary) MatchEvents(text string) []string {
	lowered := " " + normalizeSpace(strings.ToLower(text)) + " "
	var out []string
	for _, k := range v.keywords {
		start := findPhrase(lowered, k.phrase)
		if start < 0 {
			continue
		}
		lowered = lowered[:start] + strings.Repeat(" ", len(k.phrase)) + lowered[start+len(k.phrase):]
		if !slices.Contains(out, k.tag) {
			out = append(out, k.tag)
		}
	}
	return out
}

// findPhrase returns the byte offset of the first whole-word occurrence of
// phrase in padded, or -1.
func findPhrase(padded, phrase string) int {
	idx := 0
	for {
		i := strings.Index(padded[idx:], phrase)
		if i < 0 {
			return -1
		}
		start := idx + i
		end := start + len(phrase)
		if (start == 0 || !isWordByte(padded[start-1])) && (end >= len(padded) || !isWordByte(padded[end])) {
			return start
		}
		idx = start + 1
	}
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9'
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
