// Package notify defines the change-notification capabilities that the
// changetree listener tree observes, plus reference types implementing them.
//
// A value takes part in change tracking through one of two capabilities:
//
//   - PropertyNotifier announces that exactly one named property changed.
//   - CollectionNotifier announces membership deltas (items added, removed)
//     or a full reset, and can enumerate its current items.
//
// Which properties of an object exist is answered by an Enumerator. The
// DefaultEnumerator prefers the PropertySource interface, which lets a type
// declare its readable properties explicitly, and falls back to the exported
// fields of a struct.
//
// # Reference Types
//
// Object is an embeddable property-change announcer:
//
//	type Address struct {
//	    notify.Object
//	    city string
//	}
//
//	func (a *Address) SetCity(city string) error {
//	    _, err := notify.SetField(&a.Object, &a.city, city, "City")
//	    return err
//	}
//
// Collection[T] is an observable ordered collection:
//
//	items := notify.NewCollection[*LineItem]()
//	items.Add(item)      // announces ActionAdd
//	items.RemoveAt(0)    // announces ActionRemove
//	items.Clear()        // announces ActionReset
//
// # Errors
//
// Handlers return errors. The first handler error stops dispatch and is
// returned from the mutating call, so failures inside a listener surface to
// the code that changed the graph.
//
// # Thread Safety
//
// Handler lists are safe to modify from any goroutine, but notification is
// synchronous and a graph is expected to be mutated from one goroutine.
package notify
