package changetree

import (
	"fmt"
	"log/slog"
	"reflect"
	"slices"

	"github.com/vango-dev/changetree/pkg/notify"
	"go.opentelemetry.io/otel/attribute"
)

// CollectionListener shadows one notifying collection.
// It owns one nested listener per observable member, keyed by the member's
// identity. The same member present twice at once is not supported: the
// later registration replaces the earlier one.
type CollectionListener struct {
	base

	collection notify.CollectionNotifier
	handlerID  notify.HandlerID

	children map[any]nested
	keys     []any // keys of children in attach order
}

// NewCollectionListener builds a listener for c and every observable member.
// It fails with ErrNilSource if c is absent.
func NewCollectionListener(c notify.CollectionNotifier, opts ...Option) (*CollectionListener, error) {
	cfg := newConfig(opts)
	return newCollectionListener(c, cfg.name, cfg)
}

func newCollectionListener(c notify.CollectionNotifier, name string, cfg *config) (*CollectionListener, error) {
	if notify.IsAbsent(c) {
		return nil, ErrNilSource
	}

	l := &CollectionListener{
		base: base{
			name: name,
			kind: notify.KindCollection,
			cfg:  cfg,
		},
		collection: c,
		children:   make(map[any]nested),
	}
	l.created()

	if err := l.subscribe(); err != nil {
		cfg.metrics.recordError(err)
		l.Dispose()
		return nil, err
	}
	return l, nil
}

// Collection returns the observed collection.
func (l *CollectionListener) Collection() notify.CollectionNotifier {
	return l.collection
}

// Child returns the nested listener for a member, if any.
func (l *CollectionListener) Child(item any) (Listener, bool) {
	if !keyable(item) {
		return nil, false
	}
	n, ok := l.children[item]
	if !ok {
		return nil, false
	}
	return n.listener, true
}

// Children returns the nested listeners in attach order.
func (l *CollectionListener) Children() []Listener {
	out := make([]Listener, 0, len(l.keys))
	for _, key := range l.keys {
		out = append(out, l.children[key].listener)
	}
	return out
}

func (l *CollectionListener) subscribe() error {
	l.handlerID = l.collection.AddCollectionHandler(l.onCollectionChanged)
	return l.addItems(l.collection.Items())
}

// onCollectionChanged updates member listeners, then passes the change on
// with the observed collection as its origin.
func (l *CollectionListener) onCollectionChanged(change notify.CollectionChange) error {
	if l.disposed {
		return nil
	}
	l.cfg.metrics.notification(notify.KindCollection)
	l.cfg.metrics.membershipChange(change.Action)

	if change.Source != nil && !sameCollection(change.Source, l.collection) {
		l.cfg.log().Warn("collection change from unexpected source",
			slog.String("name", l.name),
			slog.String("source", fmt.Sprintf("%T", change.Source)),
		)
	}

	if err := l.sync(change); err != nil {
		l.cfg.metrics.recordError(err)
		return err
	}

	l.raiseCollectionChanged(CollectionChanged{
		Collection: l.collection,
		Change:     change,
	})
	return nil
}

func (l *CollectionListener) sync(change notify.CollectionChange) (err error) {
	span := l.cfg.startSpan(spanMembership,
		attribute.String("changetree.listener", l.name),
		attribute.String("changetree.action", change.Action.String()),
		attribute.Int("changetree.added", len(change.Added)),
		attribute.Int("changetree.removed", len(change.Removed)),
	)
	defer func() { endSpan(span, err) }()

	if change.IsReset() {
		// A reset carries no membership detail. Members present afterwards
		// are not listened to until they are announced by a later change.
		l.clearChildren()
		return nil
	}

	for _, item := range change.Removed {
		l.removeItem(item)
	}
	return l.addItems(change.Added)
}

func (l *CollectionListener) addItems(items []any) error {
	for _, item := range items {
		kind := notify.Classify(item)
		if !kind.Observable() {
			continue
		}
		if err := l.addItem(item, kind); err != nil {
			return err
		}
	}
	return nil
}

func (l *CollectionListener) addItem(item any, kind notify.Kind) error {
	if !keyable(item) {
		return fmt.Errorf("%w: %T", ErrUnkeyableItem, item)
	}
	l.removeItem(item)

	// Members are unnamed; a member that is itself a collection keeps this
	// collection's name so nested members still carry a marker.
	name := ""
	if kind == notify.KindCollection {
		name = l.name
	}

	n, err := l.adopt(item, kind, name, func(e PropertyChanged) PropertyChanged {
		e.FullPath = Combine(l.name, e.FullPath, true)
		return e
	})
	if err != nil {
		return err
	}

	l.children[item] = n
	l.keys = append(l.keys, item)
	return nil
}

// removeItem disposes the listener of item. Items without one are ignored.
func (l *CollectionListener) removeItem(item any) {
	if !keyable(item) {
		return
	}
	n, ok := l.children[item]
	if !ok {
		return
	}
	delete(l.children, item)
	l.keys = slices.DeleteFunc(l.keys, func(key any) bool { return key == item })
	n.release()
}

func (l *CollectionListener) clearChildren() {
	for _, key := range l.keys {
		l.children[key].release()
	}
	clear(l.children)
	l.keys = nil
}

// Dispose releases every member listener and the collection subscription.
func (l *CollectionListener) Dispose() {
	if !l.markDisposed() {
		return
	}

	l.clearChildren()
	l.collection.RemoveCollectionHandler(l.handlerID)

	l.unsubscribed()
}

// keyable reports whether item can be used as an identity key. The dynamic
// value is checked, not just its type: a comparable struct type may still
// hold a func or map in an interface field, and hashing that panics.
func keyable(item any) bool {
	return item != nil && reflect.ValueOf(item).Comparable()
}

func sameCollection(a, b notify.CollectionNotifier) bool {
	return keyable(a) && keyable(b) && any(a) == any(b)
}
