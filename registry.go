package scopes

import "reflect"

// Producer builds a lazily-registered value. It runs at most once, on the
// first access that needs the value, synchronously on the calling goroutine.
type Producer[T any] func() (T, error)

// Register stores value in s under the type key T. When the value's concrete
// type differs from T and aliasing is not suppressed, a second table entry is
// added under the concrete type with the same tag; both entries reference one
// element, so eviction and disposal treat them as a unit.
//
// An occupied declared or alias slot fails with DuplicateRegistrationError
// and leaves the table untouched.
func Register[T any](s *Scope, value T, opts ...RegisterOption) error {
	cfg := newRegisterConfig(opts)
	key := reflect.TypeOf((*T)(nil)).Elem()
	runtime := reflect.TypeOf(value)

	var alias reflect.Type
	if cfg.alias && runtime != nil && runtime != key {
		alias = runtime
	}

	el := newElement(key, value, cfg.tag, cfg.disposer)
	if err := s.insert(el, key, alias, cfg.tag, runtime); err != nil {
		return err
	}

	op := &Operation{Kind: OpRegister, Scope: s, Key: key, Tag: cfg.tag}
	for _, ext := range s.chain() {
		ext.OnRegister(op)
	}
	return nil
}

// RegisterLazy stores a producer in s under the type key T. The element
// materializes and caches its value on first access. No runtime-type alias
// is possible before materialization, so the duplicate check covers the
// declared key only and WithoutRuntimeAlias is a no-op.
func RegisterLazy[T any](s *Scope, produce Producer[T], opts ...RegisterOption) error {
	cfg := newRegisterConfig(opts)
	key := reflect.TypeOf((*T)(nil)).Elem()

	el := newLazyElement(key, func() (any, error) {
		v, err := produce()
		if err != nil {
			return nil, err
		}
		return v, nil
	}, cfg.tag, cfg.disposer)
	if err := s.insert(el, key, nil, cfg.tag, nil); err != nil {
		return err
	}

	op := &Operation{Kind: OpRegister, Scope: s, Key: key, Tag: cfg.tag}
	for _, ext := range s.chain() {
		ext.OnRegister(op)
	}
	return nil
}

// Replace registers value under T, first evicting any local entry for
// (T, tag) and running its disposer. Ancestor registrations are untouched:
// replace is scope-local shadowing, not global mutation. Without an existing
// local entry it behaves exactly like Register.
func Replace[T any](s *Scope, value T, opts ...RegisterOption) error {
	if err := replaceLocal[T](s, opts); err != nil {
		return err
	}
	return Register(s, value, opts...)
}

// ReplaceLazy is the lazy counterpart of Replace.
func ReplaceLazy[T any](s *Scope, produce Producer[T], opts ...RegisterOption) error {
	if err := replaceLocal[T](s, opts); err != nil {
		return err
	}
	return RegisterLazy(s, produce, opts...)
}

func replaceLocal[T any](s *Scope, opts []RegisterOption) error {
	cfg := newRegisterConfig(opts)
	key := reflect.TypeOf((*T)(nil)).Elem()

	el, err := s.remove(key, cfg.tag, "replace")
	if err != nil {
		return err
	}
	if el != nil {
		el.dispose(s.disposerReporter(s.chain()))
	}
	return nil
}

// Evict removes the local entry for (T, tag) and every alias slot that
// references the same element, invokes its disposer with the materialized
// value, and returns that value. A lazy element that never materialized is
// discarded without running the disposer and the zero value is returned.
// Without a local entry Evict fails with InstanceNotFoundError.
func Evict[T any](s *Scope, opts ...LookupOption) (T, error) {
	var zero T
	cfg := newLookupConfig(opts)
	key := reflect.TypeOf((*T)(nil)).Elem()

	el, err := s.remove(key, cfg.tag, "evict")
	if err != nil {
		return zero, err
	}
	if el == nil {
		return zero, &InstanceNotFoundError{Type: key, Scope: s.name, Tag: cfg.tag}
	}

	op := &Operation{Kind: OpEvict, Scope: s, Key: key, Tag: cfg.tag}
	for _, ext := range s.chain() {
		ext.OnEvict(op)
	}

	if !el.Materialized() {
		return zero, nil
	}
	el.dispose(s.disposerReporter(s.chain()))

	v, ok := el.value.(T)
	if !ok {
		return zero, nil
	}
	return v, nil
}

// ContainsLocal reports whether s itself holds an entry for exactly (T, tag).
// Alias entries count; ancestors do not.
func ContainsLocal[T any](s *Scope, opts ...LookupOption) bool {
	cfg := newLookupConfig(opts)
	return s.containsKey(reflect.TypeOf((*T)(nil)).Elem(), cfg.tag)
}

// IsRegistered reports whether s or any ancestor holds an entry for exactly
// (T, tag). It is an existence check only and never materializes a lazy
// producer.
func IsRegistered[T any](s *Scope, opts ...LookupOption) bool {
	cfg := newLookupConfig(opts)
	key := reflect.TypeOf((*T)(nil)).Elem()
	for cur := s; cur != nil; cur = cur.Parent() {
		if cur.containsKey(key, cfg.tag) {
			return true
		}
	}
	return false
}

// LookupElement returns the element stored locally under exactly (T, tag)
// without materializing it. It is a diagnostic view; resolving lookups go
// through Find.
func LookupElement[T any](s *Scope, opts ...LookupOption) (*Element, bool) {
	cfg := newLookupConfig(opts)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, false
	}
	el, ok := s.table[tableKey{reflect.TypeOf((*T)(nil)).Elem(), cfg.tag}]
	return el, ok
}

// insert adds el under the declared key and, when alias is non-nil, under the
// alias key with the same tag. Either both entries land or neither does.
func (s *Scope) insert(el *Element, key, alias reflect.Type, tag string, runtime reflect.Type) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return &UseAfterCloseError{Scope: s.name, Op: "register"}
	}
	if _, ok := s.table[tableKey{key, tag}]; ok {
		return &DuplicateRegistrationError{Key: key, Scope: s.name, Runtime: runtime, Tag: tag}
	}
	if alias != nil {
		if _, ok := s.table[tableKey{alias, tag}]; ok {
			return &DuplicateRegistrationError{Key: alias, Scope: s.name, Runtime: runtime, Tag: tag}
		}
	}
	s.table[tableKey{key, tag}] = el
	if alias != nil {
		s.table[tableKey{alias, tag}] = el
	}
	return nil
}

// remove deletes the element addressed by (key, tag) from every table slot
// that references it by identity, so aliases leave together. A missing entry
// returns (nil, nil); callers decide whether that is an error.
func (s *Scope) remove(key reflect.Type, tag string, op string) (*Element, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, &UseAfterCloseError{Scope: s.name, Op: op}
	}
	el, ok := s.table[tableKey{key, tag}]
	if !ok {
		return nil, nil
	}
	for k, v := range s.table {
		if v == el {
			delete(s.table, k)
		}
	}
	return el, nil
}

func (s *Scope) containsKey(key reflect.Type, tag string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	_, ok := s.table[tableKey{key, tag}]
	return ok
}
