package changetree

import (
	"log/slog"

	"github.com/vango-dev/changetree/pkg/notify"
)

// PropertyChanged reports that a property somewhere below a listener changed.
type PropertyChanged struct {
	// FullPath locates the property relative to the listener that reports it.
	FullPath string

	// Object is the object whose property changed.
	Object any

	// PropertyName is the name of the changed property on Object.
	PropertyName string
}

// CollectionChanged reports a membership change of a collection somewhere
// below a listener. It is passed through unchanged from the collection's own
// listener.
type CollectionChanged struct {
	Collection notify.CollectionNotifier
	Change     notify.CollectionChange
}

// Listener is a node of the shadow tree.
type Listener interface {
	// Name returns the path segment of this listener, "" for an unnamed root
	// or a collection member.
	Name() string

	// Kind reports whether the listener shadows an object or a collection.
	Kind() notify.Kind

	// Children returns the nested listeners in a stable order.
	Children() []Listener

	// OnPropertyChanged registers fn for property changes at or below this
	// listener.
	OnPropertyChanged(fn func(PropertyChanged)) notify.HandlerID
	RemovePropertyHandler(id notify.HandlerID) bool

	// OnCollectionChanged registers fn for membership changes of collections
	// at or below this listener.
	OnCollectionChanged(fn func(CollectionChanged)) notify.HandlerID
	RemoveCollectionHandler(id notify.HandlerID) bool

	// Dispose unsubscribes from the observed source and disposes every
	// nested listener. It is safe to call more than once.
	Dispose()

	// Disposed reports whether Dispose has been called.
	Disposed() bool
}

// base holds what ObjectListener and CollectionListener share: the path
// segment, the outward handlers and the disposal state.
type base struct {
	name     string
	kind     notify.Kind
	cfg      *config
	disposed bool

	propertyHandlers   notify.Handlers[func(PropertyChanged)]
	collectionHandlers notify.Handlers[func(CollectionChanged)]
}

func (b *base) Name() string {
	return b.name
}

func (b *base) Kind() notify.Kind {
	return b.kind
}

func (b *base) Disposed() bool {
	return b.disposed
}

func (b *base) OnPropertyChanged(fn func(PropertyChanged)) notify.HandlerID {
	return b.propertyHandlers.Add(fn)
}

func (b *base) RemovePropertyHandler(id notify.HandlerID) bool {
	return b.propertyHandlers.Remove(id)
}

func (b *base) OnCollectionChanged(fn func(CollectionChanged)) notify.HandlerID {
	return b.collectionHandlers.Add(fn)
}

func (b *base) RemoveCollectionHandler(id notify.HandlerID) bool {
	return b.collectionHandlers.Remove(id)
}

func (b *base) raisePropertyChanged(e PropertyChanged) {
	if b.disposed {
		return
	}
	for _, fn := range b.propertyHandlers.Snapshot() {
		fn(e)
	}
}

func (b *base) raiseCollectionChanged(e CollectionChanged) {
	if b.disposed {
		return
	}
	for _, fn := range b.collectionHandlers.Snapshot() {
		fn(e)
	}
}

// markDisposed flips the disposed flag. Reports false if it was already set.
func (b *base) markDisposed() bool {
	if b.disposed {
		return false
	}
	b.disposed = true
	b.cfg.metrics.listenerDisposed(b.kind)
	return true
}

func (b *base) created() {
	b.cfg.metrics.listenerCreated(b.kind)
	b.cfg.trace("subscribed",
		slog.String("kind", b.kind.String()),
		slog.String("name", b.name),
	)
}

func (b *base) unsubscribed() {
	b.cfg.trace("unsubscribed",
		slog.String("kind", b.kind.String()),
		slog.String("name", b.name),
	)
}

// nested is a child listener together with the handlers its parent
// registered on it.
type nested struct {
	listener     Listener
	propertyID   notify.HandlerID
	collectionID notify.HandlerID
}

// adopt builds a listener for value and forwards its events through
// rewrite (property changes) and the parent's collection signal.
func (b *base) adopt(value any, kind notify.Kind, name string, rewrite func(PropertyChanged) PropertyChanged) (nested, error) {
	child, err := newListener(value, kind, name, b.cfg)
	if err != nil {
		return nested{}, err
	}
	return nested{
		listener: child,
		propertyID: child.OnPropertyChanged(func(e PropertyChanged) {
			b.raisePropertyChanged(rewrite(e))
		}),
		collectionID: child.OnCollectionChanged(b.raiseCollectionChanged),
	}, nil
}

// release detaches the parent's handlers and disposes the child.
func (n nested) release() {
	n.listener.RemovePropertyHandler(n.propertyID)
	n.listener.RemoveCollectionHandler(n.collectionID)
	n.listener.Dispose()
}

// newListener builds the listener matching kind. It returns a nil Listener
// on error, never a typed nil.
func newListener(value any, kind notify.Kind, name string, cfg *config) (Listener, error) {
	switch kind {
	case notify.KindCollection:
		l, err := newCollectionListener(value.(notify.CollectionNotifier), name, cfg)
		if err != nil {
			return nil, err
		}
		return l, nil
	case notify.KindObject:
		l, err := newObjectListener(value.(notify.PropertyNotifier), name, cfg)
		if err != nil {
			return nil, err
		}
		return l, nil
	default:
		return nil, ErrNotObservable
	}
}
