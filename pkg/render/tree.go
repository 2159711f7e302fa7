package render

import (
	"strconv"

	"github.com/matzehuels/erwd/pkg/core/widget"
)

// Node is one use of a widget within a page.
type Node struct {
	Widget   *widget.Widget
	ID       string
	Children []*Node
}

// Tree is the instance tree of one page.
type Tree struct {
	Root *Node
}

// NewTree numbers every use of every widget below page in document order.
func NewTree(page *widget.Widget) *Tree {
	counts := map[string]int{}
	root := &Node{Widget: page}
	stack := []*Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		name := n.Widget.Name()
		counts[name]++
		n.ID = name + "-" + strconv.Itoa(counts[name])
		n.Children = make([]*Node, len(n.Widget.Children()))
		for i, c := range n.Widget.Children() {
			n.Children[i] = &Node{Widget: c}
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
	return &Tree{Root: root}
}

// Walk visits every node in document order.
func (t *Tree) Walk(fn func(*Node)) {
	stack := []*Node{t.Root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		fn(n)
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
}
