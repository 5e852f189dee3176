package changetree

import (
	"errors"
	"fmt"
)

var (
	// ErrNilSource is returned when a listener is constructed around an
	// absent object or collection.
	ErrNilSource = errors.New("changetree: nil source")

	// ErrNotObservable is returned by New for values that implement neither
	// notify.PropertyNotifier nor notify.CollectionNotifier.
	ErrNotObservable = errors.New("changetree: value is not observable")

	// ErrUnkeyableItem is returned when a collection member cannot be used as
	// an identity key.
	ErrUnkeyableItem = errors.New("changetree: collection item is not comparable")
)

// ShapeError reports a property name that an object announced but its type
// does not have. It means the object's declared shape and its notifications
// disagree.
type ShapeError struct {
	Type     string // Dynamic type of the object, as %T
	Property string // Announced property name
	Err      error  // Underlying enumerator error
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	return fmt.Sprintf("changetree: property %q of %s: %v", e.Property, e.Type, e.Err)
}

// Unwrap returns the enumerator error for errors.Is/As support.
func (e *ShapeError) Unwrap() error {
	return e.Err
}
