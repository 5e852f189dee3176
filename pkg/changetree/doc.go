// Package changetree observes a graph of notifying objects and collections
// and reports every change with its full path from the observed root.
//
// Attach one listener at the root and it mirrors the graph with a shadow tree
// of listeners: one per notifying object or collection currently reachable.
// A change anywhere in the graph bubbles up through the tree and reaches the
// root's handlers with a path such as "Customer.Address.City" or
// "Items[].Quantity".
//
// # Core Types
//
// New builds the root listener for any value:
//
//	l, err := changetree.New(order)
//	if err != nil {
//	    return err
//	}
//	defer l.Dispose()
//
//	l.OnPropertyChanged(func(e changetree.PropertyChanged) {
//	    fmt.Println(e.FullPath, "changed")
//	})
//
// ObjectListener shadows a notify.PropertyNotifier; CollectionListener
// shadows a notify.CollectionNotifier. Both implement Listener.
//
// # Paths
//
// A path is built bottom-up. Each object level adds "Name." and each
// collection level adds "Name[].". The root segment is empty unless WithName
// is given:
//
//	Items[].Quantity        // unnamed root, collection property Items
//	Order.Customer.Name     // root named "Order"
//
// # Tree Maintenance
//
// When a property announces a change, its nested listener is disposed and
// rebuilt from the property's current value before the change is reported,
// so handlers always observe a tree that matches the new value. Collection
// members are keyed by identity; removed members lose their listener, added
// members get one, and a reset disposes every member listener. Members
// present after a reset are not listened to until a later change adds them.
//
// A property whose value becomes observable without announcing a change is
// not picked up until it announces one.
//
// # Disposal
//
// Dispose releases every subscription below a listener synchronously. There
// are no finalizers: hold the root with defer, or use Watch:
//
//	err := changetree.Watch(order, func(l changetree.Listener) error {
//	    return run(l)
//	})
//
// # Thread Safety
//
// A listener tree is not safe for concurrent use. Every notification is
// processed synchronously on the goroutine that mutated the graph.
package changetree
