package notify

import "sync"

type handlerEntry[F any] struct {
	id HandlerID
	fn F
}

// Handlers is an ordered list of handlers of type F.
// Handlers fire in registration order. The zero value is ready to use.
type Handlers[F any] struct {
	entries []handlerEntry[F]
	mu      sync.RWMutex
}

// Add appends fn and returns the id to remove it with.
func (h *Handlers[F]) Add(fn F) HandlerID {
	id := nextID()

	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, handlerEntry[F]{id: id, fn: fn})
	return id
}

// Remove deletes the handler registered under id.
// Reports whether a handler was removed. Order of the remaining handlers is kept.
func (h *Handlers[F]) Remove(id HandlerID) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, e := range h.entries {
		if e.id == id {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of registered handlers.
func (h *Handlers[F]) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}

// Snapshot returns the handlers in registration order.
// Dispatch iterates over a snapshot so that handlers may add or remove
// handlers (including themselves) without holding the lock.
func (h *Handlers[F]) Snapshot() []F {
	h.mu.RLock()
	defer h.mu.RUnlock()

	fns := make([]F, len(h.entries))
	for i, e := range h.entries {
		fns[i] = e.fn
	}
	return fns
}

// Clear removes every handler.
func (h *Handlers[F]) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = nil
}
