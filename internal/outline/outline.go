// Package outline lifts the flat logical-line sequence into a single-rooted
// tree following tab indentation. The tree carries no document semantics:
// what a line means is the parser's business.
package outline

import (
	"strings"

	"dv6/internal/lines"
)

// Node is one logical line plus the lines nested under it. A node without
// children is a leaf; a node gains children only while it sits on the lifting
// stack and is never touched again after it is popped.
type Node struct {
	Line     lines.Line
	Children []*Node
}

// IsBranch reports whether the node has nested lines.
func (n *Node) IsBranch() bool {
	return len(n.Children) > 0
}

// Lift builds the indent tree. The root is synthetic, sits at the virtual
// level -1 and owns every top-level line. Each line becomes a child of the
// innermost open branch; one line of lookahead decides whether the line opens
// a branch of its own or stays a leaf, and how many open branches a shallower
// follow-up line seals. Pops are clamped at the root so documents flagged by
// the splitter for rising too fast still produce a tree.
func Lift(ls []lines.Line) *Node {
	root := &Node{Line: lines.Line{Indent: -1}}
	stack := []*Node{root}

	for i := range ls {
		cur := &Node{Line: ls[i]}
		top := stack[len(stack)-1]
		top.Children = append(top.Children, cur)

		if i+1 == len(ls) {
			break
		}

		next := ls[i+1].Indent
		switch {
		case next > cur.Line.Indent:
			stack = append(stack, cur)
		case next < cur.Line.Indent:
			for k := cur.Line.Indent - next; k > 0 && len(stack) > 1; k-- {
				stack = stack[:len(stack)-1]
			}
		}
	}

	return root
}

// Sketch renders the tree shape for debugging and tests, one line per node.
func Sketch(n *Node) string {
	var b strings.Builder
	var walk func(node *Node, depth int)
	walk = func(node *Node, depth int) {
		for _, c := range node.Children {
			b.WriteString(strings.Repeat("  ", depth))
			if c.IsBranch() {
				b.WriteString("+ ")
			} else {
				b.WriteString("- ")
			}
			b.WriteString(c.Line.Text)
			b.WriteByte('\n')
			walk(c, depth+1)
		}
	}
	walk(n, 0)
	return b.String()
}
