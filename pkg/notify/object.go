package notify

// Object is an embeddable PropertyNotifier.
// Embed it by value and use a pointer to the outer struct:
//
//	type Customer struct {
//	    notify.Object
//	    name string
//	}
type Object struct {
	handlers Handlers[PropertyHandler]
}

// AddPropertyHandler registers h and returns its id.
func (o *Object) AddPropertyHandler(h PropertyHandler) HandlerID {
	return o.handlers.Add(h)
}

// RemovePropertyHandler unregisters the handler with the given id.
func (o *Object) RemovePropertyHandler(id HandlerID) bool {
	return o.handlers.Remove(id)
}

// HandlerCount returns the number of registered property handlers.
func (o *Object) HandlerCount() int {
	return o.handlers.Len()
}

// Notify announces that the named property changed.
// Handlers run in registration order; the first error stops dispatch and is
// returned.
func (o *Object) Notify(propertyName string) error {
	for _, h := range o.handlers.Snapshot() {
		if err := h(propertyName); err != nil {
			return err
		}
	}
	return nil
}

// SetField assigns value to *field and announces name if the value changed.
// Reports whether the field changed.
func SetField[T comparable](o *Object, field *T, value T, name string) (bool, error) {
	if *field == value {
		return false, nil
	}
	*field = value
	return true, o.Notify(name)
}
