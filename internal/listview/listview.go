// Package listview implements the filter/sort/group pipeline shared by the
// recipe, meal plan and grocery list views. Filters, sorts and groupings are
// plain values holding a function plus identity metadata; Derive is a pure
// function of its inputs.
package listview

import (
	"slices"
	"strings"
)

// Filter is a named predicate over one item.
type Filter[T any] struct {
	ID    string
	Label string
	Match func(T) bool
}

// NewFilter builds a filter.
func NewFilter[T any](id, label string, match func(T) bool) Filter[T] {
	return Filter[T]{ID: id, Label: label, Match: match}
}

// And matches an item when every child matches. With no children it matches everything.
func And[T any](id, label string, children ...Filter[T]) Filter[T] {
	kids := slices.Clone(children)
	return Filter[T]{ID: id, Label: label, Match: func(item T) bool {
		for _, f := range kids {
			if !f.Match(item) {
				return false
			}
		}
		return true
	}}
}

// Or matches an item when any child matches. With no children it matches nothing.
func Or[T any](id, label string, children ...Filter[T]) Filter[T] {
	kids := slices.Clone(children)
	return Filter[T]{ID: id, Label: label, Match: func(item T) bool {
		for _, f := range kids {
			if f.Match(item) {
				return true
			}
		}
		return false
	}}
}

// Not inverts a filter.
func Not[T any](id, label string, child Filter[T]) Filter[T] {
	return Filter[T]{ID: id, Label: label, Match: func(item T) bool { return !child.Match(item) }}
}

// Direction of a sort.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// Sort orders items. Compare defines ascending order; Direction flips it.
type Sort[T any] struct {
	ID        string
	Label     string
	Direction Direction
	Compare   func(a, b T) int
}

// NewSort builds an ascending sort.
func NewSort[T any](id, label string, compare func(a, b T) int) Sort[T] {
	return Sort[T]{ID: id, Label: label, Direction: Ascending, Compare: compare}
}

// Reversed returns the same sort in the opposite direction.
func (s Sort[T]) Reversed() Sort[T] {
	r := s
	if s.Direction == Ascending {
		r.Direction = Descending
	} else {
		r.Direction = Ascending
	}
	return r
}

// WithDirection returns the sort with the given direction.
func (s Sort[T]) WithDirection(d Direction) Sort[T] {
	r := s
	r.Direction = d
	return r
}

func (s Sort[T]) compare(a, b T) int {
	c := s.Compare(a, b)
	if s.Direction == Descending {
		return -c
	}
	return c
}

// Grouping buckets items by a string key. Order decides the order of the
// keys (nil means natural string order) and Format turns a key into a label.
type Grouping[T any] struct {
	ID     string
	Label  string
	Key    func(T) string
	Format func(key string) string
	Order  func(a, b string) int
}

func (g Grouping[T]) label(key string) string {
	if g.Format == nil {
		return key
	}
	return g.Format(key)
}

func (g Grouping[T]) order(a, b string) int {
	if g.Order == nil {
		return strings.Compare(a, b)
	}
	return g.Order(a, b)
}

// Group is one bucket of grouped output.
type Group[T any] struct {
	Key   string
	Label string
	Items []T
}

// SearchFunc reports whether item matches the (already trimmed, non-empty) query.
type SearchFunc[T any] func(item T, query string) bool

// State is the full set of view inputs besides the source items.
type State[T any] struct {
	Search   string
	Filters  map[string]Filter[T]
	Sort     *Sort[T]
	Grouping *Grouping[T]
}

// Grouped reports whether a grouping is active.
func (s State[T]) Grouped() bool {
	return s.Grouping != nil
}

// Result is the derived output. Exactly one of Items and Groups is
// populated, depending on Grouped.
type Result[T any] struct {
	Items   []T
	Groups  []Group[T]
	Grouped bool
}

// Len returns the number of items in the result, grouped or not.
func (r Result[T]) Len() int {
	if !r.Grouped {
		return len(r.Items)
	}
	n := 0
	for _, g := range r.Groups {
		n += len(g.Items)
	}
	return n
}

// GroupMap returns the grouped output keyed by group key.
func (r Result[T]) GroupMap() map[string][]T {
	m := make(map[string][]T, len(r.Groups))
	for _, g := range r.Groups {
		m[g.Key] = g.Items
	}
	return m
}

// Derive runs the pipeline: search, then every active filter (AND), then
// either grouping with a per-group sort or a flat sort. The input slice is
// not modified.
func Derive[T any](items []T, st State[T], search SearchFunc[T]) Result[T] {
	query := strings.TrimSpace(st.Search)
	filtered := make([]T, 0, len(items))
	for _, it := range items {
		if query != "" && search != nil && !search(it, query) {
			continue
		}
		if !matchesAll(it, st.Filters) {
			continue
		}
		filtered = append(filtered, it)
	}

	if st.Grouping == nil {
		sortItems(filtered, st.Sort)
		return Result[T]{Items: filtered}
	}

	g := *st.Grouping
	buckets := make(map[string][]T)
	var keys []string
	for _, it := range filtered {
		k := g.Key(it)
		if _, ok := buckets[k]; !ok {
			keys = append(keys, k)
		}
		buckets[k] = append(buckets[k], it)
	}
	slices.SortStableFunc(keys, g.order)

	groups := make([]Group[T], 0, len(keys))
	for _, k := range keys {
		members := buckets[k]
		sortItems(members, st.Sort)
		groups = append(groups, Group[T]{Key: k, Label: g.label(k), Items: members})
	}
	return Result[T]{Groups: groups, Grouped: true}
}

func matchesAll[T any](item T, filters map[string]Filter[T]) bool {
	for _, f := range filters {
		if !f.Match(item) {
			return false
		}
	}
	return true
}

func sortItems[T any](items []T, s *Sort[T]) {
	if s == nil || s.Compare == nil {
		return
	}
	slices.SortStableFunc(items, s.compare)
}

// ContainsFold reports whether s contains substr, ignoring case.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
