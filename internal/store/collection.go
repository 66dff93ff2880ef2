// Package store holds the client-side state shared between pages: the
// session, the user's saved meals and diets, and the RDI snapshots. Every
// store is injected where it is needed and hands out immutable snapshots.
package store

import "sync"

// Entity is anything a Collection can hold.
type Entity interface {
	Key() string
	// Refers reports whether the entity is id itself or a copy of it.
	Refers(id string) bool
}

type ActionType int

const (
	ActionAdd ActionType = iota
	ActionRemove
	ActionReplace
)

func (a ActionType) String() string {
	switch a {
	case ActionAdd:
		return "ADD"
	case ActionRemove:
		return "REMOVE"
	case ActionReplace:
		return "REPLACE"
	default:
		return "UNKNOWN"
	}
}

// Action is one optimistic mutation mirrored after a successful API call.
//
//	Add:     Item is appended, or replaces an entry with the same key.
//	Remove:  every entry that Refers(ID) is dropped.
//	Replace: the first entry that Refers(ID) becomes Item; Item is appended
//	         if nothing matched.
type Action[T Entity] struct {
	Type ActionType
	ID   string
	Item T
}

func Add[T Entity](item T) Action[T] { return Action[T]{Type: ActionAdd, Item: item} }

func Remove[T Entity](id string) Action[T] { return Action[T]{Type: ActionRemove, ID: id} }

func Replace[T Entity](id string, item T) Action[T] {
	return Action[T]{Type: ActionReplace, ID: id, Item: item}
}

// Reduce applies a to items and returns a new slice. items is never modified.
func Reduce[T Entity](items []T, a Action[T]) []T {
	switch a.Type {
	case ActionAdd:
		out := make([]T, 0, len(items)+1)
		replaced := false
		for _, it := range items {
			if !replaced && it.Key() == a.Item.Key() {
				out = append(out, a.Item)
				replaced = true
				continue
			}
			out = append(out, it)
		}
		if !replaced {
			out = append(out, a.Item)
		}
		return out

	case ActionRemove:
		out := make([]T, 0, len(items))
		for _, it := range items {
			if !it.Refers(a.ID) {
				out = append(out, it)
			}
		}
		return out

	case ActionReplace:
		out := make([]T, 0, len(items)+1)
		replaced := false
		for _, it := range items {
			if !replaced && (it.Refers(a.ID) || it.Key() == a.Item.Key()) {
				out = append(out, a.Item)
				replaced = true
				continue
			}
			out = append(out, it)
		}
		if !replaced {
			out = append(out, a.Item)
		}
		return out
	}
	return append([]T(nil), items...)
}

// Snapshot is a read-only view of a collection at one version.
type Snapshot[T Entity] struct {
	Items   []T
	Version int
	Loaded  bool
}

// Find returns the first item that is id or a copy of id.
func (s Snapshot[T]) Find(id string) (T, bool) {
	for _, it := range s.Items {
		if it.Refers(id) {
			return it, true
		}
	}
	var zero T
	return zero, false
}

func (s Snapshot[T]) Contains(id string) bool {
	_, ok := s.Find(id)
	return ok
}

// Collection is a goroutine-safe list of entities mutated only through Dispatch.
type Collection[T Entity] struct {
	mu   sync.RWMutex
	snap Snapshot[T]
}

func NewCollection[T Entity]() *Collection[T] {
	return &Collection[T]{}
}

// Set replaces the whole list, e.g. after a fetch.
func (c *Collection[T]) Set(items []T) Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = Snapshot[T]{
		Items:   append([]T(nil), items...),
		Version: c.snap.Version + 1,
		Loaded:  true,
	}
	return c.snap
}

func (c *Collection[T]) Dispatch(a Action[T]) Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = Snapshot[T]{
		Items:   Reduce(c.snap.Items, a),
		Version: c.snap.Version + 1,
		Loaded:  c.snap.Loaded,
	}
	return c.snap
}

func (c *Collection[T]) Snapshot() Snapshot[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

// Reset empties the collection, e.g. on logout.
func (c *Collection[T]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = Snapshot[T]{Version: c.snap.Version + 1}
}
