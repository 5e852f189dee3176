package notify

import (
	"errors"
	"reflect"
)

var (
	// ErrUnknownProperty is returned when a property name does not exist on
	// an object's type.
	ErrUnknownProperty = errors.New("notify: unknown property")

	// ErrIndexOutOfRange is returned by Collection operations given an index
	// outside the collection.
	ErrIndexOutOfRange = errors.New("notify: index out of range")
)

// PropertyHandler is invoked with the name of the property that changed.
type PropertyHandler func(propertyName string) error

// PropertyNotifier is implemented by objects that announce property changes.
type PropertyNotifier interface {
	// AddPropertyHandler registers h and returns its id.
	AddPropertyHandler(h PropertyHandler) HandlerID

	// RemovePropertyHandler unregisters the handler with the given id.
	RemovePropertyHandler(id HandlerID) bool
}

// Action describes what kind of membership change occurred.
type Action uint8

const (
	ActionAdd Action = iota + 1
	ActionRemove
	ActionReplace
	ActionMove
	ActionReset
)

// String returns a lower-case name for the action.
func (a Action) String() string {
	switch a {
	case ActionAdd:
		return "add"
	case ActionRemove:
		return "remove"
	case ActionReplace:
		return "replace"
	case ActionMove:
		return "move"
	case ActionReset:
		return "reset"
	default:
		return "unknown"
	}
}

// CollectionChange describes a membership change of a collection.
// A reset carries no Added or Removed detail: membership is unknown and must
// be re-read from the collection.
type CollectionChange struct {
	Action  Action
	Added   []any
	Removed []any

	// Source is the collection that changed, if the announcer sets it.
	Source CollectionNotifier
}

// IsReset reports whether the change is a full reset.
func (c CollectionChange) IsReset() bool {
	return c.Action == ActionReset
}

// CollectionHandler is invoked with each membership change.
type CollectionHandler func(change CollectionChange) error

// CollectionNotifier is implemented by collections that announce membership
// changes.
type CollectionNotifier interface {
	// Items returns the current members in order.
	Items() []any

	// AddCollectionHandler registers h and returns its id.
	AddCollectionHandler(h CollectionHandler) HandlerID

	// RemoveCollectionHandler unregisters the handler with the given id.
	RemoveCollectionHandler(id HandlerID) bool
}

// Kind classifies a value by the change capability it offers.
type Kind uint8

const (
	// KindPlain values cannot be observed (including absent values).
	KindPlain Kind = iota
	// KindObject values implement PropertyNotifier.
	KindObject
	// KindCollection values implement CollectionNotifier.
	KindCollection
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindCollection:
		return "collection"
	default:
		return "plain"
	}
}

// Observable reports whether values of this kind can be listened to.
func (k Kind) Observable() bool {
	return k != KindPlain
}

// Classify decides the capability of v once.
// A value implementing both capabilities is a collection.
func Classify(v any) Kind {
	if IsAbsent(v) {
		return KindPlain
	}
	if _, ok := v.(CollectionNotifier); ok {
		return KindCollection
	}
	if _, ok := v.(PropertyNotifier); ok {
		return KindObject
	}
	return KindPlain
}

// IsAbsent reports whether v is nil or an interface holding a nil pointer,
// map, slice, channel or function.
func IsAbsent(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
