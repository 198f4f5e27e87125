// Package scopes provides a hierarchical, typed object registry for Go.
//
// # Overview
//
// Scopes organizes runtime objects around three core concepts:
//
//  1. Scopes: named nodes of a tree, each owning a registration table
//  2. Elements: stored registrations, direct or lazily produced, with
//     optional disposal callbacks
//  3. Resolution: typed lookup that prefers local entries, falls back to a
//     polymorphic scan of local concrete registrations, then walks the
//     parent chain
//
// # Basic Usage
//
// Open scopes under the process-wide root and register into them:
//
//	feature, err := scopes.Open("feature")
//	if err != nil { ... }
//	defer feature.Close()
//
//	err = scopes.Register[*Config](feature, &Config{Port: 8080})
//	cfg, err := scopes.Find[*Config](feature)
//
// Registration is keyed by the static type parameter plus an optional tag:
//
//	scopes.Register[Store](feature, primary)
//	scopes.Register[Store](feature, replica, scopes.WithTag("replica"))
//
//	primary, _ := scopes.Find[Store](feature)
//	replica, _ := scopes.Find[Store](feature, scopes.Tagged("replica"))
//
// # Runtime-type aliases
//
// Registering a concrete value under an interface key also files it under
// its concrete type, so both views resolve to the same instance:
//
//	scopes.Register[Store](feature, &memStore{})
//
//	a, _ := scopes.Find[Store](feature)      // exact entry
//	b, _ := scopes.Find[*memStore](feature)  // alias entry, same instance
//
// ExactType disables the polymorphic treatment:
//
//	_, err := scopes.Find[*memStore](feature, scopes.ExactType())
//
// # Hierarchy and shadowing
//
// A child's local registration always shadows a parent's; absent a local
// entry the parent chain is consulted upward:
//
//	root := scopes.Default()
//	scopes.Register[ApiClient](root, prod)
//
//	test, _ := scopes.Open("test")
//	scopes.Register[ApiClient](test, mock)
//
//	c, _ := scopes.Find[ApiClient](test) // mock
//	c, _ = scopes.Find[ApiClient](root)  // prod
//
// # Lazy registration
//
// RegisterLazy defers construction to the first access; the produced value
// is cached for the element's lifetime:
//
//	scopes.RegisterLazy[*DB](feature, func() (*DB, error) {
//	    return OpenDB()
//	})
//
// # Disposal
//
// A disposer runs exactly once per element, at eviction or scope closure,
// with the materialized value. It never runs for a lazy element that was
// never accessed:
//
//	scopes.Register[*DB](feature, db, scopes.WithDisposer(func(v any) {
//	    v.(*DB).Close()
//	}))
//
// Close tears a subtree down depth-first: children close before the parent's
// own elements are disposed, and an element reachable under several aliases
// is disposed once.
//
// # Extensions
//
// Extensions observe registry events for a scope and its subtree:
//
//	type AuditExtension struct {
//	    scopes.BaseExtension
//	}
//
//	func (e *AuditExtension) OnRegister(op *scopes.Operation) {
//	    log.Printf("register %v in %s", op.Key, op.Scope.Name())
//	}
//
//	root.UseExtension(&AuditExtension{
//	    BaseExtension: scopes.NewBaseExtension("audit"),
//	})
//
// # Thread Safety
//
// The registry is designed for a single logical thread of control. Each
// scope still guards its own table and child list with a mutex acquired per
// level, so accidental cross-goroutine use does not corrupt the tree, but
// producers and disposers run unlocked on the calling goroutine and no
// cross-scope ordering is promised.
package scopes
