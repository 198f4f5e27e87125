package scopes

import (
	"reflect"
	"testing"
)

func TestDisposerRunsOnceAcrossAliases(t *testing.T) {
	root := NewRoot("app")
	s, _ := root.Open("s")

	disposals := 0
	// Two table slots (declared + runtime alias), one element.
	Register[testAbstraction](s, &testConcrete{id: 1}, WithDisposer(func(any) { disposals++ }))

	if err := s.Close(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if disposals != 1 {
		t.Errorf("expected exactly 1 disposal, got %d", disposals)
	}
}

func TestDisposerSkippedWhenNeverMaterialized(t *testing.T) {
	root := NewRoot("app")
	s, _ := root.Open("s")

	disposals := 0
	RegisterLazy[int](s, func() (int, error) { return 1, nil },
		WithDisposer(func(any) { disposals++ }))

	s.Close()
	if disposals != 0 {
		t.Errorf("expected no disposal for an unmaterialized element, got %d", disposals)
	}
}

func TestDisposerRunsForMaterializedLazy(t *testing.T) {
	root := NewRoot("app")
	s, _ := root.Open("s")

	var disposed any
	RegisterLazy[*testConcrete](s, func() (*testConcrete, error) {
		return &testConcrete{id: 9}, nil
	}, WithDisposer(func(v any) { disposed = v }))

	v, err := Find[*testConcrete](s)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	s.Close()
	if disposed != v {
		t.Error("expected the disposer to receive the materialized value")
	}
}

func TestElementDeclaredKey(t *testing.T) {
	root := NewRoot("app")

	Register[testAbstraction](root, &testConcrete{id: 1})

	el, ok := LookupElement[*testConcrete](root)
	if !ok {
		t.Fatal("expected the alias slot to expose the element")
	}
	if el.Declared() != reflect.TypeOf((*testAbstraction)(nil)).Elem() {
		t.Errorf("expected declared key testAbstraction, got %v", el.Declared())
	}
	if !el.Materialized() {
		t.Error("expected a direct registration to be materialized from birth")
	}
}

func TestDisposerPanicDoesNotAbortTeardown(t *testing.T) {
	root := NewRoot("app")
	s, _ := root.Open("s")

	disposed := 0
	Register[int](s, 1, WithDisposer(func(any) { panic("bad disposer") }))
	Register[string](s, "x", WithDisposer(func(any) { disposed++ }))

	if err := s.Close(); err != nil {
		t.Fatalf("expected close to survive a panicking disposer, got %v", err)
	}
	if disposed != 1 {
		t.Errorf("expected the remaining disposer to run, got %d", disposed)
	}
	if !s.Closed() {
		t.Error("expected the scope to end up closed")
	}
}
