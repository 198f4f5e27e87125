package scopes

import (
	"fmt"

	"github.com/m1gwings/treedrawer/tree"
)

// Draw renders the subtree rooted at s as a box-drawn tree for diagnostics.
// Each node shows the scope's name and how many distinct elements it holds.
func Draw(s *Scope) string {
	t := tree.NewTree(tree.NodeString(scopeLabel(s)))
	appendScope(t, s)
	return t.String()
}

func appendScope(node *tree.Tree, s *Scope) {
	for i, child := range s.Children() {
		node.AddChild(tree.NodeString(scopeLabel(child)))
		childNode, err := node.Child(i)
		if err != nil {
			continue
		}
		appendScope(childNode, child)
	}
}

func scopeLabel(s *Scope) string {
	if n := s.Size(); n > 0 {
		return fmt.Sprintf("%s (%d)", s.Name(), n)
	}
	return s.Name()
}
