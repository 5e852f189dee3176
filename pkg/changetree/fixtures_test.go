package changetree

import (
	"github.com/vango-dev/changetree/pkg/notify"
)

// node is a notifying object with plain, object and collection properties.
type node struct {
	notify.Object

	X      int
	Y      int
	Z      int
	Nested *node
	Items  *notify.Collection[*node]
}

func (n *node) SetX(v int) error {
	_, err := notify.SetField(&n.Object, &n.X, v, "X")
	return err
}

func (n *node) SetY(v int) error {
	_, err := notify.SetField(&n.Object, &n.Y, v, "Y")
	return err
}

func (n *node) SetZ(v int) error {
	_, err := notify.SetField(&n.Object, &n.Z, v, "Z")
	return err
}

func (n *node) SetNested(v *node) error {
	_, err := notify.SetField(&n.Object, &n.Nested, v, "Nested")
	return err
}

func (n *node) SetItems(v *notify.Collection[*node]) error {
	_, err := notify.SetField(&n.Object, &n.Items, v, "Items")
	return err
}

type simpleObj struct {
	notify.Object
	Int int
}

func (s *simpleObj) SetInt(v int) error {
	_, err := notify.SetField(&s.Object, &s.Int, v, "Int")
	return err
}

type deeperCollection struct {
	notify.Object
	Nested *notify.Collection[*simpleObj]
}

type grid struct {
	notify.Object
	Rows *notify.Collection[*notify.Collection[*node]]
}

// shifty declares one property but announces others.
type shifty struct {
	notify.Object
	a *node
}

func (s *shifty) Properties() []string { return []string{"A"} }

func (s *shifty) Property(name string) (any, bool) {
	if name == "A" {
		return s.a, true
	}
	return nil, false
}

// repeater declares the same property twice.
type repeater struct {
	notify.Object
	a *node
}

func (r *repeater) Properties() []string { return []string{"A", "A"} }

func (r *repeater) Property(name string) (any, bool) {
	if name == "A" {
		return r.a, true
	}
	return nil, false
}

// sliceNotifier is observable but cannot be used as a map key.
type sliceNotifier []int

func (sliceNotifier) AddPropertyHandler(notify.PropertyHandler) notify.HandlerID { return 0 }
func (sliceNotifier) RemovePropertyHandler(notify.HandlerID) bool            { return false }

// boxedNotifier has a comparable type, but hashing it panics when v holds a
// func, map or slice.
type boxedNotifier struct {
	v any
}

func (boxedNotifier) AddPropertyHandler(notify.PropertyHandler) notify.HandlerID { return 0 }
func (boxedNotifier) RemovePropertyHandler(notify.HandlerID) bool            { return false }

// foreignCollection announces whatever change it is told to, Source included.
type foreignCollection struct {
	items    []any
	handlers notify.Handlers[notify.CollectionHandler]
}

func (c *foreignCollection) Items() []any { return c.items }

func (c *foreignCollection) AddCollectionHandler(h notify.CollectionHandler) notify.HandlerID {
	return c.handlers.Add(h)
}

func (c *foreignCollection) RemoveCollectionHandler(id notify.HandlerID) bool {
	return c.handlers.Remove(id)
}

func (c *foreignCollection) announce(change notify.CollectionChange) error {
	for _, h := range c.handlers.Snapshot() {
		if err := h(change); err != nil {
			return err
		}
	}
	return nil
}

// recorder collects everything a listener emits.
type recorder struct {
	props []PropertyChanged
	colls []CollectionChanged
}

func record(l Listener) *recorder {
	r := &recorder{}
	l.OnPropertyChanged(func(e PropertyChanged) {
		r.props = append(r.props, e)
	})
	l.OnCollectionChanged(func(e CollectionChanged) {
		r.colls = append(r.colls, e)
	})
	return r
}

func (r *recorder) paths() []string {
	out := make([]string, len(r.props))
	for i, e := range r.props {
		out[i] = e.FullPath
	}
	return out
}

func (r *recorder) reset() {
	r.props = nil
	r.colls = nil
}
