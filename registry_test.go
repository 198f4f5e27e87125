package scopes

import (
	"errors"
	"testing"
)

type testAbstraction interface {
	ID() int
}

type testConcrete struct {
	id int
}

func (c *testConcrete) ID() int { return c.id }

type otherConcrete struct {
	id int
}

func (c *otherConcrete) ID() int { return c.id }

func TestRegisterAndFindIdentity(t *testing.T) {
	root := NewRoot("app")

	v := &testConcrete{id: 1}
	if err := Register[*testConcrete](root, v); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	got, err := Find[*testConcrete](root)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != v {
		t.Error("expected Find to return the registered value by identity")
	}
}

func TestRegisterDuplicate(t *testing.T) {
	root := NewRoot("app")

	Register[int](root, 1)

	var dup *DuplicateRegistrationError
	if err := Register[int](root, 2); !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateRegistrationError, got %v", err)
	}
	if dup.Scope != "app" {
		t.Errorf("expected scope app, got %q", dup.Scope)
	}

	// The same type under a different tag is a separate slot.
	if err := Register[int](root, 2, WithTag("other")); err != nil {
		t.Fatalf("expected tagged registration to succeed, got %v", err)
	}
}

func TestRegisterDuplicateViaAlias(t *testing.T) {
	root := NewRoot("app")

	// Aliased under *testConcrete as the runtime type.
	Register[testAbstraction](root, &testConcrete{id: 1})

	var dup *DuplicateRegistrationError
	if err := Register[*testConcrete](root, &testConcrete{id: 2}); !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateRegistrationError on occupied alias slot, got %v", err)
	}

	// And the reverse: a registration whose alias slot is occupied fails
	// without touching the table.
	root2 := NewRoot("app2")
	Register[*otherConcrete](root2, &otherConcrete{id: 1})
	if err := Register[testAbstraction](root2, &otherConcrete{id: 2}); !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateRegistrationError, got %v", err)
	}
	if ContainsLocal[testAbstraction](root2) {
		t.Error("expected failed registration to leave no declared entry behind")
	}
}

func TestTagIsolation(t *testing.T) {
	root := NewRoot("app")

	v1 := &testConcrete{id: 1}
	v2 := &testConcrete{id: 2}
	Register[*testConcrete](root, v1)
	Register[*testConcrete](root, v2, WithTag("B"))

	got, err := Find[*testConcrete](root)
	if err != nil || got != v1 {
		t.Errorf("expected untagged lookup to return v1, got %v (%v)", got, err)
	}
	got, err = Find[*testConcrete](root, Tagged("B"))
	if err != nil || got != v2 {
		t.Errorf("expected tagged lookup to return v2, got %v (%v)", got, err)
	}
}

func TestEvict(t *testing.T) {
	root := NewRoot("app")

	disposals := 0
	v := &testConcrete{id: 1}
	Register[*testConcrete](root, v, WithDisposer(func(got any) {
		disposals++
		if got != v {
			t.Errorf("expected disposer to receive the registered value, got %v", got)
		}
	}))

	got, err := Evict[*testConcrete](root)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != v {
		t.Error("expected Evict to return the value by identity")
	}
	if disposals != 1 {
		t.Errorf("expected 1 disposal, got %d", disposals)
	}
	if ContainsLocal[*testConcrete](root) {
		t.Error("expected ContainsLocal to be false after eviction")
	}

	var notFound *InstanceNotFoundError
	if _, err := Evict[*testConcrete](root); !errors.As(err, &notFound) {
		t.Fatalf("expected InstanceNotFoundError, got %v", err)
	}
}

func TestEvictRemovesAliases(t *testing.T) {
	root := NewRoot("app")

	Register[testAbstraction](root, &testConcrete{id: 1})

	if _, err := Evict[testAbstraction](root); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	var notFound *InstanceNotFoundError
	if _, err := Find[*testConcrete](root); !errors.As(err, &notFound) {
		t.Fatalf("expected alias entry to leave with the element, got %v", err)
	}
	if ContainsLocal[*testConcrete](root) {
		t.Error("expected no local alias entry after eviction")
	}
}

func TestEvictLazyNeverMaterialized(t *testing.T) {
	root := NewRoot("app")

	produced := 0
	disposals := 0
	RegisterLazy[*testConcrete](root, func() (*testConcrete, error) {
		produced++
		return &testConcrete{id: 1}, nil
	}, WithDisposer(func(any) { disposals++ }))

	got, err := Evict[*testConcrete](root)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != nil {
		t.Error("expected zero value for an unmaterialized lazy element")
	}
	if produced != 0 {
		t.Error("expected eviction not to run the producer")
	}
	if disposals != 0 {
		t.Error("expected disposer to be skipped for an unmaterialized element")
	}
}

func TestWithoutRuntimeAlias(t *testing.T) {
	root := NewRoot("app")

	v := &testConcrete{id: 1}
	Register[testAbstraction](root, v, WithoutRuntimeAlias())

	if ContainsLocal[*testConcrete](root) {
		t.Error("expected no alias entry")
	}
	if _, err := Find[testAbstraction](root); err != nil {
		t.Errorf("expected declared lookup to succeed, got %v", err)
	}

	var notFound *InstanceNotFoundError
	if _, err := Find[*testConcrete](root); !errors.As(err, &notFound) {
		t.Fatalf("expected InstanceNotFoundError without alias, got %v", err)
	}
}

func TestReplaceShadowsLocally(t *testing.T) {
	root := NewRoot("app")
	child, _ := root.Open("child")

	parentVal := &testConcrete{id: 1}
	Register[*testConcrete](root, parentVal)

	disposals := 0
	oldVal := &testConcrete{id: 2}
	Register[*testConcrete](child, oldVal, WithDisposer(func(any) { disposals++ }))

	newVal := &testConcrete{id: 3}
	if err := Replace[*testConcrete](child, newVal); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if disposals != 1 {
		t.Errorf("expected replace to dispose the old local entry, got %d", disposals)
	}

	got, _ := Find[*testConcrete](child)
	if got != newVal {
		t.Error("expected child to resolve the replacement")
	}

	// Ancestor registrations are untouched.
	got, _ = Find[*testConcrete](root)
	if got != parentVal {
		t.Error("expected parent's registration to survive a child replace")
	}
}

func TestReplaceWithoutExistingEntry(t *testing.T) {
	root := NewRoot("app")

	v := &testConcrete{id: 1}
	if err := Replace[*testConcrete](root, v); err != nil {
		t.Fatalf("expected replace to behave as register, got %v", err)
	}
	got, _ := Find[*testConcrete](root)
	if got != v {
		t.Error("expected the replacement to be registered")
	}
}

func TestReplaceLazy(t *testing.T) {
	root := NewRoot("app")

	Register[int](root, 1)
	if err := ReplaceLazy[int](root, func() (int, error) { return 2, nil }); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	got, err := Find[int](root)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != 2 {
		t.Errorf("expected 2, got %d", got)
	}
}

func TestContainsLocalAndIsRegistered(t *testing.T) {
	root := NewRoot("app")
	child, _ := root.Open("child")

	Register[int](root, 1)

	if ContainsLocal[int](child) {
		t.Error("expected ContainsLocal to ignore ancestors")
	}
	if !ContainsLocal[int](root) {
		t.Error("expected ContainsLocal to see the root's entry")
	}
	if !IsRegistered[int](child) {
		t.Error("expected IsRegistered to consult ancestors")
	}
	if IsRegistered[string](child) {
		t.Error("expected IsRegistered to be false for an unknown type")
	}
}

func TestIsRegisteredDoesNotMaterialize(t *testing.T) {
	root := NewRoot("app")

	produced := 0
	RegisterLazy[int](root, func() (int, error) {
		produced++
		return 42, nil
	})

	if !IsRegistered[int](root) {
		t.Fatal("expected IsRegistered to see the lazy entry")
	}
	if produced != 0 {
		t.Error("expected IsRegistered not to run the producer")
	}
}

func TestLookupElement(t *testing.T) {
	root := NewRoot("app")

	RegisterLazy[int](root, func() (int, error) { return 42, nil }, WithTag("lazy"))

	el, ok := LookupElement[int](root, Tagged("lazy"))
	if !ok {
		t.Fatal("expected to find the element")
	}
	if el.Tag() != "lazy" {
		t.Errorf("expected tag lazy, got %q", el.Tag())
	}
	if el.Materialized() {
		t.Error("expected element to be unmaterialized")
	}

	if _, err := Find[int](root, Tagged("lazy")); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !el.Materialized() {
		t.Error("expected element to materialize after Find")
	}

	if _, ok := LookupElement[string](root); ok {
		t.Error("expected lookup miss for an unregistered type")
	}
}
