package listview

import (
	"context"
	"maps"
	"sync"
)

// Engine holds a source collection and a view state and keeps the derived
// result current. Every mutation recomputes the result and publishes it to
// subscribers. Subscriber channels hold one value; a slow reader only ever
// sees the most recent result.
type Engine[T any] struct {
	mu     sync.Mutex
	search SearchFunc[T]
	items  []T
	state  State[T]
	result Result[T]
	subs   map[int]chan Result[T]
	nextID int
}

// NewEngine creates an engine with an empty source and default state.
func NewEngine[T any](search SearchFunc[T]) *Engine[T] {
	e := &Engine[T]{
		search: search,
		state:  State[T]{Filters: map[string]Filter[T]{}},
		subs:   make(map[int]chan Result[T]),
	}
	e.result = Derive(nil, e.state, search)
	return e
}

// SetItems replaces the source collection.
func (e *Engine[T]) SetItems(items []T) {
	e.update(func() { e.items = append([]T(nil), items...) })
}

// SetSearch sets the free-text query.
func (e *Engine[T]) SetSearch(q string) {
	e.update(func() { e.state.Search = q })
}

// AddFilter activates a filter. A filter with the same ID replaces the old one.
func (e *Engine[T]) AddFilter(f Filter[T]) {
	e.update(func() {
		next := cloneFilters(e.state.Filters)
		next[f.ID] = f
		e.state.Filters = next
	})
}

// RemoveFilter deactivates the filter with the given ID.
func (e *Engine[T]) RemoveFilter(id string) {
	e.update(func() {
		next := cloneFilters(e.state.Filters)
		delete(next, id)
		e.state.Filters = next
	})
}

// ClearFilters deactivates every filter.
func (e *Engine[T]) ClearFilters() {
	e.update(func() { e.state.Filters = map[string]Filter[T]{} })
}

// SetSort sets the active sort.
func (e *Engine[T]) SetSort(s Sort[T]) {
	e.update(func() { e.state.Sort = &s })
}

// ReverseSort flips the direction of the active sort, if any.
func (e *Engine[T]) ReverseSort() {
	e.update(func() {
		if e.state.Sort == nil {
			return
		}
		r := e.state.Sort.Reversed()
		e.state.Sort = &r
	})
}

// ClearSort removes the active sort.
func (e *Engine[T]) ClearSort() {
	e.update(func() { e.state.Sort = nil })
}

// SetGrouping sets the active grouping.
func (e *Engine[T]) SetGrouping(g Grouping[T]) {
	e.update(func() { e.state.Grouping = &g })
}

// ClearGrouping removes the active grouping.
func (e *Engine[T]) ClearGrouping() {
	e.update(func() { e.state.Grouping = nil })
}

// State returns a copy of the current view state.
func (e *Engine[T]) State() State[T] {
	e.mu.Lock()
	defer e.mu.Unlock()
	st := e.state
	st.Filters = cloneFilters(e.state.Filters)
	return st
}

// Result returns the current derived result.
func (e *Engine[T]) Result() Result[T] {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.result
}

// Subscribe returns a channel that receives the current result immediately
// and every later recomputation. Call cancel to stop receiving.
func (e *Engine[T]) Subscribe() (<-chan Result[T], func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.nextID
	e.nextID++
	ch := make(chan Result[T], 1)
	ch <- e.result
	e.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			if c, ok := e.subs[id]; ok {
				delete(e.subs, id)
				close(c)
			}
		})
	}
	return ch, cancel
}

// Follow replaces the source collection with every snapshot received from
// source until ctx is done or source is closed.
func (e *Engine[T]) Follow(ctx context.Context, source <-chan []T) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case items, ok := <-source:
			if !ok {
				return nil
			}
			e.SetItems(items)
		}
	}
}

// Close releases every subscriber.
func (e *Engine[T]) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for id, ch := range e.subs {
		delete(e.subs, id)
		close(ch)
	}
}

func (e *Engine[T]) update(mutate func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	mutate()
	e.result = Derive(e.items, e.state, e.search)
	for _, ch := range e.subs {
		publish(ch, e.result)
	}
}

func cloneFilters[T any](in map[string]Filter[T]) map[string]Filter[T] {
	out := make(map[string]Filter[T], len(in)+1)
	maps.Copy(out, in)
	return out
}

// publish delivers r, dropping a stale undelivered value if present.
func publish[T any](ch chan Result[T], r Result[T]) {
	select {
	case ch <- r:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	ch <- r
}
