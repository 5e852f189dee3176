package demo

import (
	"fmt"
	"io"
	"strings"

	"github.com/vango-dev/changetree/pkg/changetree"
)

// TreeNode describes one listener of a shadow tree.
type TreeNode struct {
	Name     string      `json:"name"`
	Kind     string      `json:"kind"`
	Children []*TreeNode `json:"children,omitempty"`
}

// Describe walks the listener tree rooted at l.
func Describe(l changetree.Listener) *TreeNode {
	if l == nil {
		return nil
	}
	n := &TreeNode{
		Name: l.Name(),
		Kind: l.Kind().String(),
	}
	for _, child := range l.Children() {
		n.Children = append(n.Children, Describe(child))
	}
	return n
}

// Count returns the number of listeners in the tree.
func (n *TreeNode) Count() int {
	if n == nil {
		return 0
	}
	total := 1
	for _, child := range n.Children {
		total += child.Count()
	}
	return total
}

// Render writes the tree as indented text.
func Render(w io.Writer, n *TreeNode) {
	if n == nil {
		return
	}
	fmt.Fprintln(w, n.label())
	render(w, n.Children, "")
}

func render(w io.Writer, children []*TreeNode, prefix string) {
	for i, child := range children {
		branch, indent := "├── ", "│   "
		if i == len(children)-1 {
			branch, indent = "└── ", "    "
		}
		fmt.Fprintln(w, prefix+branch+child.label())
		render(w, child.Children, prefix+indent)
	}
}

func (n *TreeNode) label() string {
	name := n.Name
	if name == "" {
		name = "(unnamed)"
	}
	var b strings.Builder
	b.WriteString(name)
	b.WriteString(" [")
	b.WriteString(n.Kind)
	b.WriteString("]")
	return b.String()
}
