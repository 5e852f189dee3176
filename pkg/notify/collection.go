package notify

import (
	"reflect"
	"slices"
)

// Collection is an observable ordered collection.
// Every mutation is applied first and then announced; the error returned by
// a mutating method is the first handler error, the mutation itself stands.
type Collection[T any] struct {
	items    []T
	handlers Handlers[CollectionHandler]
}

// NewCollection creates a collection holding items.
func NewCollection[T any](items ...T) *Collection[T] {
	c := &Collection[T]{}
	c.items = append(c.items, items...)
	return c
}

// Items returns the current members in order.
func (c *Collection[T]) Items() []any {
	out := make([]any, len(c.items))
	for i, item := range c.items {
		out[i] = item
	}
	return out
}

// Values returns a copy of the current members.
func (c *Collection[T]) Values() []T {
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of members.
func (c *Collection[T]) Len() int {
	return len(c.items)
}

// At returns the member at index.
// Panics if index is out of range, like a slice index.
func (c *Collection[T]) At(index int) T {
	return c.items[index]
}

// AddCollectionHandler registers h and returns its id.
func (c *Collection[T]) AddCollectionHandler(h CollectionHandler) HandlerID {
	return c.handlers.Add(h)
}

// RemoveCollectionHandler unregisters the handler with the given id.
func (c *Collection[T]) RemoveCollectionHandler(id HandlerID) bool {
	return c.handlers.Remove(id)
}

// HandlerCount returns the number of registered collection handlers.
func (c *Collection[T]) HandlerCount() int {
	return c.handlers.Len()
}

// Add appends items to the end of the collection.
func (c *Collection[T]) Add(items ...T) error {
	if len(items) == 0 {
		return nil
	}
	c.items = append(c.items, items...)
	return c.notify(ActionAdd, toAny(items), nil)
}

// Insert inserts item at index.
// An index below zero prepends, an index at or past the end appends.
func (c *Collection[T]) Insert(index int, item T) error {
	if index < 0 {
		index = 0
	}
	if index > len(c.items) {
		index = len(c.items)
	}
	c.items = slices.Insert(c.items, index, item)
	return c.notify(ActionAdd, []any{item}, nil)
}

// RemoveAt removes the member at index.
func (c *Collection[T]) RemoveAt(index int) error {
	if index < 0 || index >= len(c.items) {
		return ErrIndexOutOfRange
	}
	old := c.items[index]
	c.items = slices.Delete(c.items, index, index+1)
	return c.notify(ActionRemove, nil, []any{old})
}

// Remove removes the first member identical to item.
// Reports whether a member was removed.
func (c *Collection[T]) Remove(item T) (bool, error) {
	for i, existing := range c.items {
		if identical(existing, item) {
			return true, c.RemoveAt(i)
		}
	}
	return false, nil
}

// RemoveWhere removes every member that satisfies the predicate, announced
// as a single removal.
func (c *Collection[T]) RemoveWhere(predicate func(T) bool) error {
	kept := make([]T, 0, len(c.items))
	var removed []any
	for _, item := range c.items {
		if predicate(item) {
			removed = append(removed, item)
			continue
		}
		kept = append(kept, item)
	}
	if len(removed) == 0 {
		return nil
	}
	c.items = kept
	return c.notify(ActionRemove, nil, removed)
}

// Set replaces the member at index.
func (c *Collection[T]) Set(index int, item T) error {
	if index < 0 || index >= len(c.items) {
		return ErrIndexOutOfRange
	}
	old := c.items[index]
	c.items[index] = item
	return c.notify(ActionReplace, []any{item}, []any{old})
}

// Move moves the member at from to index to.
func (c *Collection[T]) Move(from, to int) error {
	if from < 0 || from >= len(c.items) || to < 0 || to >= len(c.items) {
		return ErrIndexOutOfRange
	}
	if from == to {
		return nil
	}
	item := c.items[from]
	c.items = slices.Delete(c.items, from, from+1)
	c.items = slices.Insert(c.items, to, item)
	return c.notify(ActionMove, []any{item}, []any{item})
}

// Clear removes every member, announced as a reset.
func (c *Collection[T]) Clear() error {
	c.items = nil
	return c.notify(ActionReset, nil, nil)
}

// Reset replaces the whole membership with items, announced as a reset.
func (c *Collection[T]) Reset(items ...T) error {
	c.items = append([]T(nil), items...)
	return c.notify(ActionReset, nil, nil)
}

func (c *Collection[T]) notify(action Action, added, removed []any) error {
	change := CollectionChange{
		Action:  action,
		Added:   added,
		Removed: removed,
		Source:  c,
	}
	for _, h := range c.handlers.Snapshot() {
		if err := h(change); err != nil {
			return err
		}
	}
	return nil
}

func toAny[T any](items []T) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}

// identical compares by identity for pointers and by == for other
// comparable values. Non-comparable values are never identical.
func identical(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	// Value.Comparable also inspects interface fields, whose dynamic
	// values may be funcs, maps or slices.
	if !reflect.ValueOf(a).Comparable() || !reflect.ValueOf(b).Comparable() {
		return false
	}
	return a == b
}
