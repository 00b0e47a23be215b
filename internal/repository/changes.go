package repository

import "sync"

// Table names an entity collection that emits change notifications.
type Table string

const (
	TableRecipes       Table = "recipes"
	TableMealPlans     Table = "meal_plans"
	TableGroceryLists  Table = "grocery_lists"
	TableGroceryItems  Table = "grocery_items"
	TableSubstitutions Table = "ingredient_substitutions"
	TablePantryStaples Table = "pantry_staples"
	TableRecipeLogs    Table = "recipe_logs"
)

// Op is the kind of write that happened.
type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Change describes one committed write. ID is zero for bulk writes.
type Change struct {
	Table Table
	Op    Op
	ID    int64
}

// Publisher receives committed writes from repositories.
type Publisher interface {
	Publish(c Change)
}

// ChangeFeed lets readers subscribe to committed writes.
type ChangeFeed interface {
	// Subscribe returns a channel of changes to the given tables (all
	// tables when none are given) and a function that unsubscribes.
	Subscribe(tables ...Table) (<-chan Change, func())
}

type subscriber struct {
	ch     chan Change
	tables map[Table]bool
}

// Broadcaster is an in-process ChangeFeed. Delivery never blocks the writer:
// each subscriber buffers one pending notification and further changes
// arriving before it is read are coalesced into it.
type Broadcaster struct {
	mu     sync.Mutex
	subs   map[int]*subscriber
	nextID int
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[int]*subscriber)}
}

func (b *Broadcaster) Subscribe(tables ...Table) (<-chan Change, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := &subscriber{ch: make(chan Change, 1)}
	if len(tables) > 0 {
		s.tables = make(map[Table]bool, len(tables))
		for _, t := range tables {
			s.tables[t] = true
		}
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = s

	var once sync.Once
	return s.ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			close(s.ch)
		})
	}
}

func (b *Broadcaster) Publish(c Change) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range b.subs {
		if s.tables != nil && !s.tables[c.Table] {
			continue
		}
		select {
		case s.ch <- c:
		default:
		}
	}
}

// Subscribers returns the number of active subscriptions.
func (b *Broadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

type nopPublisher struct{}

func (nopPublisher) Publish(Change) {}

// NopPublisher discards changes.
var NopPublisher Publisher = nopPublisher{}
