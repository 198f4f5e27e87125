package scopes

import "reflect"

// Find resolves a value for the type key T, tag-qualified via Tagged.
//
// Resolution order:
//
//  1. The calling scope's exact entry for (T, tag).
//  2. Unless ExactType is set, a scan of the calling scope's primary
//     concrete registrations (entries whose key equals the stored value's
//     own runtime type) for one assignable to T. The scan is local to the
//     calling scope only; it is not repeated while delegating, so a purely
//     abstract lookup does not see a concrete-only registration living in an
//     ancestor.
//  3. The parent chain, exact entries only, from the calling scope upward.
//
// A child's local registration therefore always shadows a parent's. When no
// level yields a value, Find fails with InstanceNotFoundError naming the
// originating scope.
func Find[T any](s *Scope, opts ...LookupOption) (T, error) {
	var zero T
	cfg := newLookupConfig(opts)
	want := reflect.TypeOf((*T)(nil)).Elem()

	v, err := s.resolve(want, cfg)

	op := &Operation{Kind: OpResolve, Scope: s, Key: want, Tag: cfg.tag}
	for _, ext := range s.chain() {
		ext.OnResolve(op, err)
	}

	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok && v != nil {
		return zero, &InstanceNotFoundError{Type: want, Scope: s.name, Tag: cfg.tag}
	}
	return typed, nil
}

func (s *Scope) resolve(want reflect.Type, cfg lookupConfig) (any, error) {
	if s.Closed() {
		return nil, &UseAfterCloseError{Scope: s.name, Op: "find"}
	}

	origin := true
	for cur := s; cur != nil; cur = cur.Parent() {
		v, ok, err := cur.lookupExact(want, cfg.tag, cfg.exact)
		if err != nil {
			return nil, err
		}
		if ok {
			return v, nil
		}
		if origin && !cfg.exact {
			if v, ok := cur.scanAssignable(want, cfg.tag); ok {
				return v, nil
			}
		}
		origin = false
	}
	return nil, &InstanceNotFoundError{Type: want, Scope: s.name, Tag: cfg.tag}
}

// lookupExact checks the scope's own table for an entry keyed exactly
// (want, tag), materializing a lazy element on hit. With declaredOnly set,
// runtime-type alias slots are passed over: only an entry registered under
// want as its declared key matches. The producer runs outside the scope's
// lock so it may register into or resolve from the same scope.
func (s *Scope) lookupExact(want reflect.Type, tag string, declaredOnly bool) (any, bool, error) {
	s.mu.Lock()
	el, ok := s.table[tableKey{want, tag}]
	s.mu.Unlock()
	if !ok {
		return nil, false, nil
	}
	if declaredOnly && el.declared != want {
		return nil, false, nil
	}

	v, err := el.materialize()
	if err != nil {
		return nil, false, err
	}
	if rt := reflect.TypeOf(v); rt != nil && !rt.AssignableTo(want) {
		return nil, false, nil
	}
	return v, true, nil
}

// scanAssignable walks the scope's primary concrete registrations: entries
// whose key equals the stored value's own runtime type. Alias slots under an
// abstract key are skipped, and each element is considered once regardless of
// how many slots reference it. Unmaterialized lazy elements have no runtime
// type yet and are passed over.
func (s *Scope) scanAssignable(want reflect.Type, tag string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[*Element]struct{}, len(s.table))
	for k, el := range s.table {
		if k.tag != tag {
			continue
		}
		if _, done := seen[el]; done {
			continue
		}
		if !el.ready {
			continue
		}
		rt := reflect.TypeOf(el.value)
		if rt == nil || rt != k.typ {
			continue
		}
		seen[el] = struct{}{}
		if rt.AssignableTo(want) {
			return el.value, true
		}
	}
	return nil, false
}
