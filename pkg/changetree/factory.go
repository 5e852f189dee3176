package changetree

import (
	"fmt"

	"github.com/vango-dev/changetree/pkg/notify"
)

// New builds the root listener for value.
//
// An absent value (nil, or an interface holding a nil pointer) yields a nil
// Listener and no error. A collection yields a *CollectionListener, any other
// property notifier an *ObjectListener. Values with neither capability fail
// with ErrNotObservable.
//
// The caller owns the returned listener and must Dispose it.
func New(value any, opts ...Option) (Listener, error) {
	if notify.IsAbsent(value) {
		return nil, nil
	}

	kind := notify.Classify(value)
	if !kind.Observable() {
		return nil, fmt.Errorf("%w: %T", ErrNotObservable, value)
	}

	cfg := newConfig(opts)
	return newListener(value, kind, cfg.name, cfg)
}

// Watch builds the root listener for value, runs fn with it and disposes the
// whole tree when fn returns, whatever the outcome.
// An absent value fails with ErrNilSource.
func Watch(value any, fn func(Listener) error, opts ...Option) error {
	l, err := New(value, opts...)
	if err != nil {
		return err
	}
	if l == nil {
		return ErrNilSource
	}
	defer l.Dispose()

	return fn(l)
}
