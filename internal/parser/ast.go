// Package parser converts regular-expression patterns into abstract syntax
// trees. The supported grammar is literal characters, `.`, concatenation,
// alternation `|`, grouping `(...)`, the postfix operators `+`, `*`, `?`,
// and backslash escapes of those metacharacters.
package parser

import (
	"fmt"
	"io"
	"strings"
)

// Node is a single AST node. Nodes are immutable once built and each node
// is owned exclusively by its parent, so a tree is never shared and never
// cyclic.
type Node interface {
	// dump writes the indented tree rendering of the node at the given
	// depth. Depth is threaded explicitly so rendering is a pure function
	// of (node, depth).
	dump(w io.Writer, depth int)
}

// Char matches exactly one input character equal to R.
type Char struct {
	R rune
}

// Dot matches exactly one input character of any value.
type Dot struct{}

// Seq is an ordered concatenation of sub-patterns. An empty Seq is legal
// and represents an intentionally empty sub-pattern.
type Seq struct {
	Subs []Node
}

// Or is an alternation between two sub-patterns. Lists of alternatives are
// right-folded, so a|b|c becomes Or(a, Or(b, c)).
type Or struct {
	Left  Node
	Right Node
}

// Plus is one-or-more repetition of Sub.
type Plus struct {
	Sub Node
}

// Star is zero-or-more repetition of Sub.
type Star struct {
	Sub Node
}

// Question is zero-or-one repetition of Sub.
type Question struct {
	Sub Node
}

// Dump writes a human-readable indented tree rendering of n. The output is
// a diagnostic aid only and is not part of the matching contract.
func Dump(w io.Writer, n Node) {
	n.dump(w, 0)
}

func indent(w io.Writer, depth int) {
	io.WriteString(w, strings.Repeat("  ", depth))
}

func (n *Char) dump(w io.Writer, depth int) {
	indent(w, depth)
	fmt.Fprintf(w, "Char(%c)\n", n.R)
}

func (n *Dot) dump(w io.Writer, depth int) {
	indent(w, depth)
	io.WriteString(w, "Dot\n")
}

func (n *Seq) dump(w io.Writer, depth int) {
	indent(w, depth)
	io.WriteString(w, "Seq\n")
	for _, sub := range n.Subs {
		sub.dump(w, depth+1)
	}
}

func (n *Or) dump(w io.Writer, depth int) {
	indent(w, depth)
	io.WriteString(w, "Or\n")
	n.Left.dump(w, depth+1)
	n.Right.dump(w, depth+1)
}

func (n *Plus) dump(w io.Writer, depth int) {
	indent(w, depth)
	io.WriteString(w, "Plus\n")
	n.Sub.dump(w, depth+1)
}

func (n *Star) dump(w io.Writer, depth int) {
	indent(w, depth)
	io.WriteString(w, "Star\n")
	n.Sub.dump(w, depth+1)
}

func (n *Question) dump(w io.Writer, depth int) {
	indent(w, depth)
	io.WriteString(w, "Question\n")
	n.Sub.dump(w, depth+1)
}
