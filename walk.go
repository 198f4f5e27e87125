package scopes

// walk visits the subtree rooted at s in depth-first preorder, children in
// attachment order. The visitor returns false to stop early. Traversal uses
// an explicit stack instead of recursion and snapshots each scope's child
// list under that scope's lock only.
func (s *Scope) walk(visit func(*Scope) bool) {
	stack := make([]*Scope, 0, 16)
	stack = append(stack, s)

	visited := make(map[*Scope]bool, 16)

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited[current] {
			continue
		}
		visited[current] = true

		if !visit(current) {
			return
		}

		children := current.Children()
		for i := len(children) - 1; i >= 0; i-- {
			if !visited[children[i]] {
				stack = append(stack, children[i])
			}
		}
	}
}
