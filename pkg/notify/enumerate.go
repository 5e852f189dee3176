package notify

import (
	"fmt"
	"reflect"
	"sync"
)

// PropertySource lets a type declare its readable properties explicitly
// instead of having them discovered by reflection.
type PropertySource interface {
	// Properties returns the publicly readable property names.
	Properties() []string

	// Property returns the current value of the named property.
	// The boolean is false if the name is not a property of the type.
	Property(name string) (any, bool)
}

// Enumerator lists the readable properties of an object and reads their
// current values.
type Enumerator interface {
	Properties(obj any) []string
	Value(obj any, name string) (any, error)
}

// DefaultEnumerator uses PropertySource when obj implements it and
// otherwise the exported, non-embedded fields of the struct obj points to.
// Fields promoted from embedded structs are included; fields tagged
// `notify:"-"` are skipped.
var DefaultEnumerator Enumerator = defaultEnumerator{}

type defaultEnumerator struct{}

func (defaultEnumerator) Properties(obj any) []string {
	if ps, ok := obj.(PropertySource); ok {
		return ps.Properties()
	}
	t := structType(obj)
	if t == nil {
		return nil
	}
	return fieldNames(t)
}

func (defaultEnumerator) Value(obj any, name string) (any, error) {
	if ps, ok := obj.(PropertySource); ok {
		v, ok := ps.Property(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q on %T", ErrUnknownProperty, name, obj)
		}
		return v, nil
	}
	return fieldValue(obj, name)
}

// fieldCache maps reflect.Type to the []string of its readable field names.
var fieldCache sync.Map

func structType(obj any) reflect.Type {
	if obj == nil {
		return nil
	}
	t := reflect.TypeOf(obj)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	return t
}

func fieldNames(t reflect.Type) []string {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.([]string)
	}

	var names []string
	for _, f := range reflect.VisibleFields(t) {
		if !readable(t, f) {
			continue
		}
		names = append(names, f.Name)
	}

	fieldCache.Store(t, names)
	return names
}

func readable(t reflect.Type, f reflect.StructField) bool {
	if !f.IsExported() || f.Anonymous || f.Tag.Get("notify") == "-" {
		return false
	}
	// A shadowed or ambiguous name is not reachable by name.
	byName, ok := t.FieldByName(f.Name)
	return ok && len(byName.Index) == len(f.Index)
}

func fieldValue(obj any, name string) (any, error) {
	t := structType(obj)
	if t == nil {
		return nil, fmt.Errorf("%w: %q on %T", ErrUnknownProperty, name, obj)
	}
	f, ok := t.FieldByName(name)
	if !ok || !readable(t, f) {
		return nil, fmt.Errorf("%w: %q on %T", ErrUnknownProperty, name, obj)
	}

	v := reflect.ValueOf(obj)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, nil
		}
		v = v.Elem()
	}

	fv, err := v.FieldByIndexErr(f.Index)
	if err != nil {
		// Promoted through a nil embedded pointer: the property has no value.
		return nil, nil
	}
	return fv.Interface(), nil
}
