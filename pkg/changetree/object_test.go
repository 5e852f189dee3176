package changetree

import (
	"errors"
	"slices"
	"testing"

	"github.com/vango-dev/changetree/pkg/notify"
)

func TestObjectListener_PropertyPassthrough(t *testing.T) {
	root := &node{}
	l, err := NewObjectListener(root)
	if err != nil {
		t.Fatalf("NewObjectListener() error = %v", err)
	}
	defer l.Dispose()
	r := record(l)

	if err := root.SetX(1); err != nil {
		t.Fatalf("SetX() error = %v", err)
	}

	if len(r.props) != 1 {
		t.Fatalf("got %d events, want 1", len(r.props))
	}
	e := r.props[0]
	if e.FullPath != "X" {
		t.Errorf("FullPath = %q, want %q", e.FullPath, "X")
	}
	if e.Object != root {
		t.Errorf("Object = %v, want root", e.Object)
	}
	if e.PropertyName != "X" {
		t.Errorf("PropertyName = %q, want %q", e.PropertyName, "X")
	}
}

func TestObjectListener_NestedComposition(t *testing.T) {
	child := &node{}
	root := &node{Nested: child}
	l, err := NewObjectListener(root)
	if err != nil {
		t.Fatalf("NewObjectListener() error = %v", err)
	}
	defer l.Dispose()
	r := record(l)

	if err := child.SetY(2); err != nil {
		t.Fatalf("SetY() error = %v", err)
	}

	if len(r.props) != 1 {
		t.Fatalf("got %d events, want 1", len(r.props))
	}
	e := r.props[0]
	if e.FullPath != "Nested.Y" {
		t.Errorf("FullPath = %q, want %q", e.FullPath, "Nested.Y")
	}
	if e.Object != child {
		t.Error("Object should be the nested child")
	}
	if e.PropertyName != "Y" {
		t.Errorf("PropertyName = %q, want %q", e.PropertyName, "Y")
	}
}

func TestObjectListener_NamedRoot(t *testing.T) {
	child := &node{}
	root := &node{Nested: child}
	l, err := NewObjectListener(root, WithName("Order"))
	if err != nil {
		t.Fatalf("NewObjectListener() error = %v", err)
	}
	defer l.Dispose()
	r := record(l)

	root.SetX(1)
	child.SetY(1)
	child.SetNested(&node{})

	want := []string{"Order.X", "Order.Nested.Y", "Order.Nested.Nested"}
	if got := r.paths(); !slices.Equal(got, want) {
		t.Errorf("paths = %v, want %v", got, want)
	}
}

func TestObjectListener_DeepNesting(t *testing.T) {
	leaf := &node{}
	root := &node{Nested: &node{Nested: &node{Nested: leaf}}}
	l, err := NewObjectListener(root)
	if err != nil {
		t.Fatalf("NewObjectListener() error = %v", err)
	}
	defer l.Dispose()
	r := record(l)

	leaf.SetZ(7)

	want := []string{"Nested.Nested.Nested.Z"}
	if got := r.paths(); !slices.Equal(got, want) {
		t.Errorf("paths = %v, want %v", got, want)
	}
}

func TestObjectListener_RebindOnReplacement(t *testing.T) {
	old := &node{}
	root := &node{Nested: old}
	l, err := NewObjectListener(root)
	if err != nil {
		t.Fatalf("NewObjectListener() error = %v", err)
	}
	defer l.Dispose()
	r := record(l)

	replacement := &node{}
	if err := root.SetNested(replacement); err != nil {
		t.Fatalf("SetNested() error = %v", err)
	}
	if got := old.HandlerCount(); got != 0 {
		t.Errorf("old child HandlerCount() = %d, want 0", got)
	}
	if got := replacement.HandlerCount(); got != 1 {
		t.Errorf("replacement HandlerCount() = %d, want 1", got)
	}

	old.SetY(1)
	replacement.SetY(2)

	want := []string{"Nested", "Nested.Y"}
	if got := r.paths(); !slices.Equal(got, want) {
		t.Errorf("paths = %v, want %v", got, want)
	}
	if r.props[1].Object != replacement {
		t.Error("event should come from the replacement")
	}
}

func TestObjectListener_TreeUpdatedBeforeEvent(t *testing.T) {
	root := &node{}
	l, err := NewObjectListener(root)
	if err != nil {
		t.Fatalf("NewObjectListener() error = %v", err)
	}
	defer l.Dispose()

	var sawChild bool
	l.OnPropertyChanged(func(e PropertyChanged) {
		if e.FullPath == "Nested" {
			_, sawChild = l.Child("Nested")
		}
	})

	root.SetNested(&node{})
	if !sawChild {
		t.Error("nested listener should exist when the change is reported")
	}
}

func TestObjectListener_ReplaceWithNil(t *testing.T) {
	child := &node{}
	root := &node{Nested: child}
	l, err := NewObjectListener(root)
	if err != nil {
		t.Fatalf("NewObjectListener() error = %v", err)
	}
	defer l.Dispose()
	r := record(l)

	if err := root.SetNested(nil); err != nil {
		t.Fatalf("SetNested(nil) error = %v", err)
	}
	if _, ok := l.Child("Nested"); ok {
		t.Error("Child(Nested) should be gone")
	}
	if got := child.HandlerCount(); got != 0 {
		t.Errorf("HandlerCount() = %d, want 0", got)
	}

	child.SetY(1)
	if got := r.paths(); !slices.Equal(got, []string{"Nested"}) {
		t.Errorf("paths = %v, want [Nested]", got)
	}
}

func TestObjectListener_CollectionPropertyReplaced(t *testing.T) {
	first := notify.NewCollection[*node]()
	root := &node{Items: first}
	l, err := NewObjectListener(root)
	if err != nil {
		t.Fatalf("NewObjectListener() error = %v", err)
	}
	defer l.Dispose()
	r := record(l)

	second := notify.NewCollection[*node]()
	if err := root.SetItems(second); err != nil {
		t.Fatalf("SetItems() error = %v", err)
	}
	if got := first.HandlerCount(); got != 0 {
		t.Errorf("first HandlerCount() = %d, want 0", got)
	}

	first.Add(&node{})
	second.Add(&node{})

	if len(r.colls) != 1 {
		t.Fatalf("got %d collection events, want 1", len(r.colls))
	}
	if r.colls[0].Collection != second {
		t.Error("collection event should come from the replacement")
	}
}

func TestObjectListener_Children(t *testing.T) {
	root := &node{Nested: &node{}, Items: notify.NewCollection[*node]()}
	l, err := NewObjectListener(root)
	if err != nil {
		t.Fatalf("NewObjectListener() error = %v", err)
	}
	defer l.Dispose()

	children := l.Children()
	if len(children) != 2 {
		t.Fatalf("len(Children()) = %d, want 2", len(children))
	}
	if children[0].Name() != "Nested" || children[0].Kind() != notify.KindObject {
		t.Errorf("Children()[0] = %s %s, want Nested object", children[0].Name(), children[0].Kind())
	}
	if children[1].Name() != "Items" || children[1].Kind() != notify.KindCollection {
		t.Errorf("Children()[1] = %s %s, want Items collection", children[1].Name(), children[1].Kind())
	}
}

func TestObjectListener_NilSource(t *testing.T) {
	if _, err := NewObjectListener(nil); !errors.Is(err, ErrNilSource) {
		t.Errorf("NewObjectListener(nil) error = %v, want ErrNilSource", err)
	}
	var typed *node
	if _, err := NewObjectListener(typed); !errors.Is(err, ErrNilSource) {
		t.Errorf("NewObjectListener(typed nil) error = %v, want ErrNilSource", err)
	}
}

func TestObjectListener_ShapeError(t *testing.T) {
	child := &node{}
	s := &shifty{a: child}
	l, err := NewObjectListener(s)
	if err != nil {
		t.Fatalf("NewObjectListener() error = %v", err)
	}
	defer l.Dispose()
	r := record(l)

	err = s.Notify("B")
	var shape *ShapeError
	if !errors.As(err, &shape) {
		t.Fatalf("Notify(B) error = %v, want *ShapeError", err)
	}
	if shape.Property != "B" {
		t.Errorf("Property = %q, want %q", shape.Property, "B")
	}
	if !errors.Is(err, notify.ErrUnknownProperty) {
		t.Error("ShapeError should wrap notify.ErrUnknownProperty")
	}
	if len(r.props) != 0 {
		t.Errorf("got %d events, want none", len(r.props))
	}

	// The declared property keeps working.
	child.SetX(1)
	if got := r.paths(); !slices.Equal(got, []string{"A.X"}) {
		t.Errorf("paths = %v, want [A.X]", got)
	}
}

func TestObjectListener_RepeatedPropertyName(t *testing.T) {
	child := &node{}
	rep := &repeater{a: child}
	l, err := NewObjectListener(rep)
	if err != nil {
		t.Fatalf("NewObjectListener() error = %v", err)
	}
	r := record(l)

	if got := len(l.Children()); got != 1 {
		t.Errorf("len(Children()) = %d, want 1", got)
	}
	if got := child.HandlerCount(); got != 1 {
		t.Errorf("child HandlerCount() = %d, want 1", got)
	}

	child.SetX(1)
	if got := r.paths(); !slices.Equal(got, []string{"A.X"}) {
		t.Errorf("paths = %v, want [A.X]", got)
	}

	l.Dispose()
	if got := child.HandlerCount(); got != 0 {
		t.Errorf("child HandlerCount() = %d after Dispose, want 0", got)
	}
}

func TestObjectListener_ReentrantMutation(t *testing.T) {
	n1, n2 := &node{}, &node{}
	root := &node{}
	l, err := NewObjectListener(root)
	if err != nil {
		t.Fatalf("NewObjectListener() error = %v", err)
	}
	defer l.Dispose()

	// The handler swaps n1 for n2 while the change to n1 is being reported,
	// so the inner change completes before the outer one.
	var entered, completed []*node
	l.OnPropertyChanged(func(e PropertyChanged) {
		current := root.Nested
		entered = append(entered, current)
		if current == n1 {
			if err := root.SetNested(n2); err != nil {
				t.Errorf("SetNested(n2) error = %v", err)
			}
		}
		completed = append(completed, current)
	})

	if err := root.SetNested(n1); err != nil {
		t.Fatalf("SetNested(n1) error = %v", err)
	}

	if !slices.Equal(entered, []*node{n1, n2}) {
		t.Errorf("entered = %v, want [n1 n2]", entered)
	}
	if !slices.Equal(completed, []*node{n2, n1}) {
		t.Errorf("completed = %v, want [n2 n1]", completed)
	}

	child, ok := l.Child("Nested")
	if !ok {
		t.Fatal("Child(Nested) missing")
	}
	if child.(*ObjectListener).Object() != n2 {
		t.Error("Nested should be bound to n2")
	}
	if got := n1.HandlerCount(); got != 0 {
		t.Errorf("n1 HandlerCount() = %d, want 0", got)
	}
	if got := n2.HandlerCount(); got != 1 {
		t.Errorf("n2 HandlerCount() = %d, want 1", got)
	}
	if got := len(l.Children()); got != 1 {
		t.Errorf("len(Children()) = %d, want 1", got)
	}

	r := record(l)
	n1.SetY(1)
	n2.SetY(2)
	if got := r.paths(); !slices.Equal(got, []string{"Nested.Y"}) {
		t.Errorf("paths = %v, want [Nested.Y]", got)
	}
}

func TestObjectListener_PlainValuesIgnored(t *testing.T) {
	root := &node{X: 5}
	l, err := NewObjectListener(root)
	if err != nil {
		t.Fatalf("NewObjectListener() error = %v", err)
	}
	defer l.Dispose()

	if got := len(l.Children()); got != 0 {
		t.Errorf("len(Children()) = %d, want 0", got)
	}
}

func TestObjectListener_Dispose(t *testing.T) {
	item := &node{}
	child := &node{}
	items := notify.NewCollection(item)
	root := &node{Nested: child, Items: items}

	l, err := NewObjectListener(root)
	if err != nil {
		t.Fatalf("NewObjectListener() error = %v", err)
	}
	r := record(l)

	l.Dispose()
	l.Dispose()

	if !l.Disposed() {
		t.Error("Disposed() = false after Dispose")
	}
	for name, count := range map[string]int{
		"root":  root.HandlerCount(),
		"child": child.HandlerCount(),
		"items": items.HandlerCount(),
		"item":  item.HandlerCount(),
	} {
		if count != 0 {
			t.Errorf("%s HandlerCount() = %d, want 0", name, count)
		}
	}

	root.SetX(1)
	child.SetY(1)
	item.SetZ(1)
	items.Add(&node{})

	if len(r.props) != 0 || len(r.colls) != 0 {
		t.Errorf("got %d property and %d collection events after Dispose, want none", len(r.props), len(r.colls))
	}
}

func TestObjectListener_DisposedDuringDispatch(t *testing.T) {
	root := &node{}

	// Runs ahead of the listener's own handler within the same dispatch.
	var l *ObjectListener
	root.AddPropertyHandler(func(string) error {
		l.Dispose()
		return nil
	})

	l, err := NewObjectListener(root)
	if err != nil {
		t.Fatalf("NewObjectListener() error = %v", err)
	}
	r := record(l)

	if err := root.SetX(1); err != nil {
		t.Fatalf("SetX() error = %v", err)
	}
	if len(r.props) != 0 {
		t.Errorf("got %d events, want none", len(r.props))
	}
}
