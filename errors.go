package scopes

import (
	"fmt"
	"reflect"
)

// InstanceNotFoundError reports a failed lookup or eviction: neither the
// queried scope nor (for Find) any of its ancestors holds a matching entry.
type InstanceNotFoundError struct {
	Type  reflect.Type
	Scope string
	Tag   string
}

func (e *InstanceNotFoundError) Error() string {
	if e.Tag != "" {
		return fmt.Sprintf("no registration for %v (tag %q) reachable from scope %q", e.Type, e.Tag, e.Scope)
	}
	return fmt.Sprintf("no registration for %v reachable from scope %q", e.Type, e.Scope)
}

// DuplicateRegistrationError reports a registration attempt on an occupied
// (type, tag) slot. Runtime carries the concrete type of the rejected value
// so the message can distinguish a declared-key collision from an alias
// collision.
type DuplicateRegistrationError struct {
	Key     reflect.Type
	Scope   string
	Runtime reflect.Type
	Tag     string
}

func (e *DuplicateRegistrationError) Error() string {
	msg := fmt.Sprintf("scope %q already holds a registration for %v", e.Scope, e.Key)
	if e.Tag != "" {
		msg += fmt.Sprintf(" (tag %q)", e.Tag)
	}
	if e.Runtime != nil && e.Runtime != e.Key {
		msg += fmt.Sprintf("; rejected value has concrete type %v", e.Runtime)
	}
	return msg
}

// DuplicateScopeNameError reports an Open with a name that already exists
// somewhere in the target root-rooted tree.
type DuplicateScopeNameError struct {
	Name string
	Root string
}

func (e *DuplicateScopeNameError) Error() string {
	return fmt.Sprintf("scope name %q already exists in the tree rooted at %q", e.Name, e.Root)
}

// ScopeNotFoundError reports a CloseByName that matched no scope.
type ScopeNotFoundError struct {
	Name string
}

func (e *ScopeNotFoundError) Error() string {
	return fmt.Sprintf("no scope named %q", e.Name)
}

// IllegalRootCloseError reports an attempt to close a root scope, either
// directly or through CloseByName.
type IllegalRootCloseError struct {
	Name string
}

func (e *IllegalRootCloseError) Error() string {
	return fmt.Sprintf("root scope %q cannot be closed", e.Name)
}

// UseAfterCloseError reports a register, lookup, or eviction on a scope that
// has already been closed.
type UseAfterCloseError struct {
	Scope string
	Op    string
}

func (e *UseAfterCloseError) Error() string {
	return fmt.Sprintf("%s on closed scope %q", e.Op, e.Scope)
}
