package changetree

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/vango-dev/changetree/pkg/notify"
	"go.opentelemetry.io/otel/attribute"
)

// ObjectListener shadows one notifying object.
// It owns one nested listener per property whose current value is itself
// observable, keyed by property name.
type ObjectListener struct {
	base

	object    notify.PropertyNotifier
	handlerID notify.HandlerID

	children map[string]nested
	names    []string // keys of children in attach order
}

// NewObjectListener builds a listener for obj and every observable value
// reachable from it. It fails with ErrNilSource if obj is absent.
func NewObjectListener(obj notify.PropertyNotifier, opts ...Option) (*ObjectListener, error) {
	cfg := newConfig(opts)
	return newObjectListener(obj, cfg.name, cfg)
}

func newObjectListener(obj notify.PropertyNotifier, name string, cfg *config) (*ObjectListener, error) {
	if notify.IsAbsent(obj) {
		return nil, ErrNilSource
	}

	l := &ObjectListener{
		base: base{
			name: name,
			kind: notify.KindObject,
			cfg:  cfg,
		},
		object:   obj,
		children: make(map[string]nested),
	}
	l.created()

	if err := l.subscribe(); err != nil {
		cfg.metrics.recordError(err)
		l.Dispose()
		return nil, err
	}
	return l, nil
}

// Object returns the observed object.
func (l *ObjectListener) Object() notify.PropertyNotifier {
	return l.object
}

// Child returns the nested listener for a property, if any.
func (l *ObjectListener) Child(property string) (Listener, bool) {
	n, ok := l.children[property]
	if !ok {
		return nil, false
	}
	return n.listener, true
}

// Children returns the nested listeners in attach order.
func (l *ObjectListener) Children() []Listener {
	out := make([]Listener, 0, len(l.names))
	for _, name := range l.names {
		out = append(out, l.children[name].listener)
	}
	return out
}

func (l *ObjectListener) subscribe() error {
	l.handlerID = l.object.AddPropertyHandler(l.onPropertyChanged)

	for _, property := range l.cfg.enumerator.Properties(l.object) {
		value, err := l.cfg.enumerator.Value(l.object, property)
		if err != nil {
			return l.shapeError(property, err)
		}
		if err := l.bind(property, value); err != nil {
			return err
		}
	}
	return nil
}

// onPropertyChanged rebuilds the nested listener for property, then reports
// the change. The rebuild happens first so that handlers see the new tree.
func (l *ObjectListener) onPropertyChanged(property string) error {
	if l.disposed {
		return nil
	}
	l.cfg.metrics.notification(notify.KindObject)

	if err := l.rebind(property); err != nil {
		l.cfg.metrics.recordError(err)
		return err
	}

	l.raisePropertyChanged(PropertyChanged{
		FullPath:     Combine(l.name, property, false),
		Object:       l.object,
		PropertyName: property,
	})
	return nil
}

func (l *ObjectListener) rebind(property string) (err error) {
	span := l.cfg.startSpan(spanRebind,
		attribute.String("changetree.listener", l.name),
		attribute.String("changetree.property", property),
	)
	defer func() { endSpan(span, err) }()

	l.cfg.metrics.rebind()
	l.unbind(property)

	value, err := l.cfg.enumerator.Value(l.object, property)
	if err != nil {
		return l.shapeError(property, err)
	}
	return l.bind(property, value)
}

// bind attaches a nested listener for property if value is observable,
// replacing any listener already bound to that name.
func (l *ObjectListener) bind(property string, value any) error {
	l.unbind(property)

	kind := notify.Classify(value)
	if !kind.Observable() {
		if !notify.IsAbsent(value) {
			l.cfg.trace("not listening to property",
				slog.String("property", property),
				slog.String("type", fmt.Sprintf("%T", value)),
			)
		}
		return nil
	}

	n, err := l.adopt(value, kind, property, func(e PropertyChanged) PropertyChanged {
		e.FullPath = Combine(l.name, e.FullPath, false)
		return e
	})
	if err != nil {
		return err
	}

	l.children[property] = n
	l.names = append(l.names, property)
	return nil
}

func (l *ObjectListener) unbind(property string) {
	n, ok := l.children[property]
	if !ok {
		return
	}
	delete(l.children, property)
	l.names = slices.DeleteFunc(l.names, func(name string) bool { return name == property })
	n.release()
}

func (l *ObjectListener) shapeError(property string, err error) error {
	return &ShapeError{
		Type:     fmt.Sprintf("%T", l.object),
		Property: property,
		Err:      err,
	}
}

// Dispose releases the object subscription and every nested listener.
func (l *ObjectListener) Dispose() {
	if !l.markDisposed() {
		return
	}

	l.object.RemovePropertyHandler(l.handlerID)
	for _, name := range l.names {
		l.children[name].release()
	}
	clear(l.children)
	l.names = nil

	l.unsubscribed()
}
