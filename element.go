package scopes

import "reflect"

// Element wraps a single registered value: either an already-constructed
// instance or a zero-argument producer that materializes one on first access.
// A scope's table may reference the same element under several keys (the
// declared key plus a runtime-type alias); disposal dedups by identity so the
// disposer runs exactly once.
type Element struct {
	tag      string
	declared reflect.Type
	value    any
	produce  func() (any, error)
	ready    bool
	disposer func(value any)
	disposed bool
}

func newElement(declared reflect.Type, value any, tag string, disposer func(any)) *Element {
	return &Element{
		tag:      tag,
		declared: declared,
		value:    value,
		ready:    true,
		disposer: disposer,
	}
}

func newLazyElement(declared reflect.Type, produce func() (any, error), tag string, disposer func(any)) *Element {
	return &Element{
		tag:      tag,
		declared: declared,
		produce:  produce,
		disposer: disposer,
	}
}

// Tag returns the tag the element was registered under; empty means untagged.
func (e *Element) Tag() string {
	return e.tag
}

// Declared returns the type key the element was registered under.
func (e *Element) Declared() reflect.Type {
	return e.declared
}

// Materialized reports whether the element currently holds a value. Direct
// registrations are materialized from birth; lazy ones only after the first
// access runs the producer.
func (e *Element) Materialized() bool {
	return e.ready
}

// materialize returns the held value, running and discarding the producer on
// first access. The result is cached for the element's lifetime.
func (e *Element) materialize() (any, error) {
	if e.ready {
		return e.value, nil
	}
	v, err := e.produce()
	if err != nil {
		return nil, err
	}
	e.value = v
	e.ready = true
	e.produce = nil
	return v, nil
}

// dispose runs the disposer with the materialized value. A lazy element whose
// producer never ran is discarded without invoking the disposer. Repeated
// calls are no-ops, which is what keeps multi-alias elements to one disposer
// invocation.
func (e *Element) dispose(report func(recovered any)) {
	if e.disposed {
		return
	}
	e.disposed = true
	if e.disposer == nil || !e.ready {
		return
	}
	defer func() {
		if r := recover(); r != nil && report != nil {
			report(r)
		}
	}()
	e.disposer(e.value)
}
