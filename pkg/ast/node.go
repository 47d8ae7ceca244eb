// Package ast defines the parse-tree contract shared by every grammar
// binding. Formatter stages navigate trees exclusively through this
// adapter, so the underlying grammar implementation is replaceable.
package ast

// Point is a zero-based row/column position in the source.
type Point struct {
	Row    uint32
	Column uint32
}

// Node is a read-only view of a single parse-tree node.
//
// Byte offsets address the exact source slice the node covers. Named
// children exclude anonymous tokens such as punctuation.
type Node interface {
	// Kind returns the grammar's label for this node.
	Kind() string

	// StartByte and EndByte delimit the node's source range
	// (inclusive start, exclusive end).
	StartByte() uint32
	EndByte() uint32

	// StartPoint and EndPoint are the row/column positions matching
	// StartByte and EndByte.
	StartPoint() Point
	EndPoint() Point

	// NamedChildCount returns the number of named children.
	NamedChildCount() int

	// NamedChild returns the i-th named child, or nil when out of range.
	NamedChild(i int) Node

	// ChildCount returns the number of children including anonymous ones.
	ChildCount() int

	// Child returns the i-th child including anonymous ones, or nil.
	Child(i int) Node

	// ChildByField returns the child occupying the named grammar field,
	// or nil when the field is absent.
	ChildByField(name string) Node

	// Parent returns the enclosing node, or nil at the root.
	Parent() Node

	// NamedDescendantForByteRange returns the smallest named descendant
	// spanning [start, end), or nil.
	NamedDescendantForByteRange(start, end uint32) Node

	// HasError reports whether this subtree contains a syntax error.
	HasError() bool

	// Text slices the node's range out of the given source.
	Text(src []byte) string
}

// Tree owns a parse result. Close releases parser-owned memory; trees
// must not be used after Close.
type Tree interface {
	Root() Node
	Close()
}

// NamedChildren collects a node's named children into a slice.
func NamedChildren(n Node) []Node {
	if n == nil {
		return nil
	}
	count := n.NamedChildCount()
	children := make([]Node, 0, count)
	for i := 0; i < count; i++ {
		children = append(children, n.NamedChild(i))
	}
	return children
}

// FirstAncestor walks parents from n (exclusive) and returns the first
// ancestor whose kind matches one of the given kinds, or nil.
func FirstAncestor(n Node, kinds ...string) Node {
	if n == nil {
		return nil
	}
	for p := n.Parent(); p != nil; p = p.Parent() {
		for _, k := range kinds {
			if p.Kind() == k {
				return p
			}
		}
	}
	return nil
}
