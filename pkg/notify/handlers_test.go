package notify

import "testing"

func TestHandlersOrder(t *testing.T) {
	var h Handlers[func() string]
	h.Add(func() string { return "a" })
	h.Add(func() string { return "b" })
	h.Add(func() string { return "c" })

	got := ""
	for _, fn := range h.Snapshot() {
		got += fn()
	}
	if got != "abc" {
		t.Errorf("dispatch order = %q, want %q", got, "abc")
	}
}

func TestHandlersRemoveKeepsOrder(t *testing.T) {
	var h Handlers[func() string]
	h.Add(func() string { return "a" })
	b := h.Add(func() string { return "b" })
	h.Add(func() string { return "c" })

	if !h.Remove(b) {
		t.Fatal("Remove should report removal of a registered handler")
	}
	if h.Remove(b) {
		t.Error("Remove should report false for an already removed handler")
	}

	got := ""
	for _, fn := range h.Snapshot() {
		got += fn()
	}
	if got != "ac" {
		t.Errorf("dispatch order = %q, want %q", got, "ac")
	}
	if h.Len() != 2 {
		t.Errorf("Len() = %d, want 2", h.Len())
	}
}

func TestHandlersRemoveDuringDispatch(t *testing.T) {
	var h Handlers[func()]
	calls := 0
	var self HandlerID
	self = h.Add(func() {
		calls++
		h.Remove(self)
	})

	for _, fn := range h.Snapshot() {
		fn()
	}
	for _, fn := range h.Snapshot() {
		fn()
	}

	if calls != 1 {
		t.Errorf("handler called %d times, want 1", calls)
	}
}

func TestHandlersClear(t *testing.T) {
	var h Handlers[func()]
	h.Add(func() {})
	h.Add(func() {})
	h.Clear()

	if h.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", h.Len())
	}
}

func TestHandlerIDsUnique(t *testing.T) {
	var h Handlers[func()]
	seen := make(map[HandlerID]bool)
	for i := 0; i < 100; i++ {
		id := h.Add(func() {})
		if id == 0 {
			t.Fatal("handler id should never be zero")
		}
		if seen[id] {
			t.Fatalf("duplicate handler id %s", id)
		}
		seen[id] = true
	}
}
