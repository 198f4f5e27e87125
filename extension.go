package scopes

import (
	"reflect"
	"sort"
)

// Extension observes registry lifecycle events for a scope and its subtree.
// Hooks run synchronously on the goroutine performing the operation and must
// not block.
type Extension interface {
	// Name returns the extension's name
	Name() string

	// Order determines extension notification order (lower = earlier)
	Order() int

	// Init is called when the extension is registered to a scope
	Init(scope *Scope) error

	// OnOpen is called after a child scope is attached
	OnOpen(parent, child *Scope)

	// OnRegister is called after a successful registration
	OnRegister(op *Operation)

	// OnResolve is called after a Find, successful or not
	OnResolve(op *Operation, err error)

	// OnEvict is called after a successful eviction
	OnEvict(op *Operation)

	// OnClose is called when a scope begins tearing down
	OnClose(scope *Scope)

	// OnDisposerPanic handles a disposer that panicked during eviction or
	// closure. Returns true if handled, false to fall through to the next
	// extension.
	OnDisposerPanic(scope *Scope, recovered any) bool
}

// BaseExtension provides default implementations for Extension methods
type BaseExtension struct {
	name string
}

// NewBaseExtension creates a new base extension with the given name
func NewBaseExtension(name string) BaseExtension {
	return BaseExtension{name: name}
}

func (e *BaseExtension) Name() string {
	return e.name
}

func (e *BaseExtension) Order() int {
	return 100
}

func (e *BaseExtension) Init(scope *Scope) error {
	return nil
}

func (e *BaseExtension) OnOpen(parent, child *Scope) {
}

func (e *BaseExtension) OnRegister(op *Operation) {
}

func (e *BaseExtension) OnResolve(op *Operation, err error) {
}

func (e *BaseExtension) OnEvict(op *Operation) {
}

func (e *BaseExtension) OnClose(scope *Scope) {
}

func (e *BaseExtension) OnDisposerPanic(scope *Scope, recovered any) bool {
	return false
}

// Operation describes what operation is happening
type Operation struct {
	Kind  OperationKind
	Scope *Scope
	Key   reflect.Type
	Tag   string
}

// OperationKind represents the type of operation
type OperationKind string

const (
	// OpRegister indicates a registration
	OpRegister OperationKind = "register"
	// OpResolve indicates a lookup
	OpResolve OperationKind = "resolve"
	// OpEvict indicates an eviction
	OpEvict OperationKind = "evict"
)

// UseExtension registers an extension to the scope. The extension observes
// the scope and every scope below it.
func (s *Scope) UseExtension(ext Extension) error {
	s.mu.Lock()
	s.exts = append(s.exts, ext)
	sort.SliceStable(s.exts, func(i, j int) bool {
		return s.exts[i].Order() < s.exts[j].Order()
	})
	s.mu.Unlock()

	return ext.Init(s)
}

// chain collects the extensions of s and all its ancestors, nearest first.
func (s *Scope) chain() []Extension {
	var out []Extension
	for cur := s; cur != nil; {
		cur.mu.Lock()
		out = append(out, cur.exts...)
		p := cur.parent
		cur.mu.Unlock()
		cur = p
	}
	return out
}

// disposerReporter adapts an extension chain into the panic callback the
// element disposal path expects.
func (s *Scope) disposerReporter(chain []Extension) func(recovered any) {
	return func(recovered any) {
		for _, ext := range chain {
			if ext.OnDisposerPanic(s, recovered) {
				return
			}
		}
	}
}
