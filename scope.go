package scopes

import (
	"fmt"
	"reflect"
	"sync"
)

// tableKey addresses exactly one element in a scope's registration table.
// The zero tag is the untagged marker.
type tableKey struct {
	typ reflect.Type
	tag string
}

// Scope is a named node in the hierarchical registry tree. It owns a
// registration table keyed by (type, tag), an ordered list of child scopes,
// and a back-reference to its parent; the single root of a tree has no
// parent and cannot be closed.
//
// Every operation locks only the scope it touches, never a whole subtree, so
// close can tear children down depth-first without holding the parent's lock
// across the traversal.
type Scope struct {
	mu       sync.Mutex
	name     string
	parent   *Scope
	children []*Scope
	table    map[tableKey]*Element
	exts     []Extension
	closed   bool
}

// RootScopeName is the reserved name of the process-wide default root.
const RootScopeName = "root"

var (
	defaultRoot *Scope
	defaultOnce sync.Once
)

// Default returns the process-wide root scope, constructing it on first use.
// Independently opened scopes attach to it unless an explicit parent is
// given.
func Default() *Scope {
	defaultOnce.Do(func() {
		defaultRoot = NewRoot(RootScopeName)
	})
	return defaultRoot
}

// NewRoot constructs an independent root scope. The default tree is just a
// root made this way; tests that need isolation build their own.
func NewRoot(name string) *Scope {
	return &Scope{
		name:  name,
		table: make(map[tableKey]*Element),
	}
}

// Open creates a scope named name in the default tree. See Scope.Open for
// parent selection and failure modes.
func Open(name string, opts ...OpenOption) (*Scope, error) {
	return Default().Open(name, opts...)
}

// CloseByName locates a scope by name in the default tree and closes it.
func CloseByName(name string) error {
	return Default().CloseByName(name)
}

// Name returns the scope's name, unique within its tree at open time.
func (s *Scope) Name() string {
	return s.name
}

// Parent returns the owning scope, or nil for a root.
func (s *Scope) Parent() *Scope {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.parent
}

// Children returns a snapshot of the scope's children in attachment order.
func (s *Scope) Children() []*Scope {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Scope, len(s.children))
	copy(out, s.children)
	return out
}

// Closed reports whether the scope has been closed.
func (s *Scope) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Root walks the parent chain to the tree's root.
func (s *Scope) Root() *Scope {
	r := s
	for {
		r.mu.Lock()
		p := r.parent
		r.mu.Unlock()
		if p == nil {
			return r
		}
		r = p
	}
}

// Size returns the number of distinct elements held locally. Alias entries
// pointing at the same element count once.
func (s *Scope) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[*Element]struct{}, len(s.table))
	for _, el := range s.table {
		seen[el] = struct{}{}
	}
	return len(seen)
}

// Open creates a child scope named name. The parent is, in order of
// precedence: the scope given via WithParent, the scope located by
// WithParentName from the tree's root, or the receiver itself. A name
// already present anywhere in the root-rooted tree is rejected with
// DuplicateScopeNameError.
func (s *Scope) Open(name string, opts ...OpenOption) (*Scope, error) {
	if name == "" {
		return nil, fmt.Errorf("scope name must not be empty")
	}

	var cfg openConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	root := s.Root()
	parent := cfg.parent
	if parent == nil && cfg.parentName != "" {
		parent = root.Locate(cfg.parentName)
	}
	if parent == nil {
		parent = s
	}

	if parent.Closed() {
		return nil, &UseAfterCloseError{Scope: parent.name, Op: "open"}
	}
	if root.Locate(name) != nil {
		return nil, &DuplicateScopeNameError{Name: name, Root: root.name}
	}

	child := &Scope{
		name:   name,
		parent: parent,
		table:  make(map[tableKey]*Element),
	}

	parent.mu.Lock()
	parent.children = append(parent.children, child)
	parent.mu.Unlock()

	for _, ext := range parent.chain() {
		ext.OnOpen(parent, child)
	}
	return child, nil
}

// Locate searches depth-first from the receiver downward (never upward) for
// a scope with the exact name. The receiver itself is a candidate. An empty
// name never matches.
func (s *Scope) Locate(name string) *Scope {
	if name == "" {
		return nil
	}
	var found *Scope
	s.walk(func(sc *Scope) bool {
		if sc.name == name {
			found = sc
			return false
		}
		return true
	})
	return found
}

// CloseByName locates a scope from the receiver's root and closes it.
// Naming the root fails with IllegalRootCloseError; an unmatched name fails
// with ScopeNotFoundError.
func (s *Scope) CloseByName(name string) error {
	root := s.Root()
	if name == root.name {
		return &IllegalRootCloseError{Name: name}
	}
	target := root.Locate(name)
	if target == nil {
		return &ScopeNotFoundError{Name: name}
	}
	return target.Close()
}

// Close tears the scope down: it detaches from its parent, closes all
// children depth-first, then disposes each distinct owned element exactly
// once and clears the table. A second call is a no-op. Closing a root fails
// with IllegalRootCloseError.
func (s *Scope) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	if s.parent == nil {
		s.mu.Unlock()
		return &IllegalRootCloseError{Name: s.name}
	}
	s.closed = true
	parent := s.parent
	s.parent = nil
	children := make([]*Scope, len(s.children))
	copy(children, s.children)
	exts := s.exts
	s.mu.Unlock()

	chain := append(append([]Extension{}, exts...), parent.chain()...)
	for _, ext := range chain {
		ext.OnClose(s)
	}

	parent.removeChild(s)
	for _, child := range children {
		child.Close()
	}

	s.mu.Lock()
	distinct := make(map[*Element]struct{}, len(s.table))
	for _, el := range s.table {
		distinct[el] = struct{}{}
	}
	s.table = make(map[tableKey]*Element)
	s.children = nil
	s.mu.Unlock()

	report := s.disposerReporter(chain)
	for el := range distinct {
		el.dispose(report)
	}
	return nil
}

// Reset clears the table and child list and un-marks closed without running
// any disposer. It exists for tests and diagnostics; production paths that
// rely on deterministic cleanup must use Close.
func (s *Scope) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table = make(map[tableKey]*Element)
	s.children = nil
	s.closed = false
}

func (s *Scope) removeChild(child *Scope) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.children {
		if c == child {
			s.children = append(s.children[:i], s.children[i+1:]...)
			return
		}
	}
}
