// Copyright (C) 2025 The phan authors. All Rights Reserved.

// Package cursor implements traversal over an abstract syntax tree.
package cursor

import (
	"fmt"

	"github.com/sanmai/phan/ast"
)

// Path traverses a sequential path into the structure of root where path
// elements are as documented for the Cursor.Down method.  This is a
// convenience wrapper for creating a cursor, applying path, and retrieving
// the node it lands on.
func Path(root *ast.Node, path ...any) (*ast.Node, error) {
	c := New(root).Down(path...)
	if err := c.Err(); err != nil {
		return nil, err
	}
	return c.Node(), nil
}

// Selected returns a cursor positioned on the node of the tree rooted at
// root that carries the selection marker, or nil if no node is marked. The
// cursor's path holds the chain of ancestors from root to the marked node.
func Selected(root *ast.Node) *Cursor {
	c := New(root)
	if root == nil {
		return nil
	}
	if root.Selected {
		return c
	}
	if c.descendSelected() {
		return c
	}
	return nil
}

func (c *Cursor) descendSelected() bool {
	for i, kid := range c.Node().Children {
		c.push(i)
		if kid.Selected {
			return true
		}
		if c.descendSelected() {
			return true
		}
		c.Up()
	}
	return false
}

// A Cursor is a pointer that navigates into the structure of an ast.Node.
type Cursor struct {
	org *ast.Node
	stk []*ast.Node
	err error
}

// New constructs a new Cursor to traverse the structure of origin.
func New(origin *ast.Node) *Cursor { return &Cursor{org: origin} }

// Origin returns the origin node of c.
func (c *Cursor) Origin() *ast.Node { return c.org }

// AtOrigin reports whether c is at its origin.
func (c *Cursor) AtOrigin() bool { return len(c.stk) == 0 }

// Node reports the current node under the cursor.
func (c *Cursor) Node() *ast.Node {
	if c.AtOrigin() {
		return c.org
	}
	return c.stk[len(c.stk)-1]
}

// Path reports the complete sequence of nodes from the origin to the current
// location in c.
func (c *Cursor) Path() []*ast.Node {
	return append([]*ast.Node{c.org}, c.stk...)
}

// Err reports the error from the most recent traversal operation, if any.
func (c *Cursor) Err() error { return c.err }

// Up moves the cursor one position upward in the structure, if possible.
// It returns c to permit chaining.
func (c *Cursor) Up() *Cursor {
	if n := len(c.stk); n > 0 {
		c.stk = c.stk[:n-1]
	}
	return c
}

// Reset resets the cursor to its origin and clears its error.
func (c *Cursor) Reset() { c.stk = c.stk[:0]; c.err = nil }

// Down traverses a sequential path into the structure of c starting from the
// current node. If the path is valid the cursor lands on the node reached;
// otherwise traversal stops and an error is recorded. Use Err to recover the
// error.
//
// If a path element is an integer, it resolves to an index among the current
// node's children. Negative indices count backward from the end (-1 is last,
// -2 second last). An error is reported if the index is out of bounds.
//
// If a path element is an ast.Kind, it resolves to the first direct child of
// that kind. An error is reported if there is none.
//
// If a path element is a function, the function is executed and its result
// becomes the next node in the sequence. The function must have a signature
//
//	func(*ast.Node) (*ast.Node, error)
//
// If the function reports an error, traversal stops and the error is
// recorded.
func (c *Cursor) Down(path ...any) *Cursor {
	c.err = nil // reset error
	for _, elt := range path {
		cur := c.Node()

		switch t := elt.(type) {
		case int:
			i, ok := fixChildBound(len(cur.Children), t)
			if !ok {
				return c.setErrorf("child index %d out of bounds (n=%d)", t, len(cur.Children))
			}
			c.push(i)

		case ast.Kind:
			i := -1
			for j, kid := range cur.Children {
				if kid.Kind == t {
					i = j
					break
				}
			}
			if i < 0 {
				return c.setErrorf("no %v child", t)
			}
			c.push(i)

		case func(*ast.Node) (*ast.Node, error):
			next, err := t(cur)
			if err != nil {
				c.err = err
				return c
			}
			c.stk = append(c.stk, next)

		default:
			panic(fmt.Sprintf("invalid path element %T", elt))
		}
	}
	return c
}

func (c *Cursor) push(i int) { c.stk = append(c.stk, c.Node().Children[i]) }

func (c *Cursor) setErrorf(msg string, args ...any) *Cursor {
	c.err = fmt.Errorf(msg, args...)
	return c
}

// fixChildBound converts a possibly-negative child index into a nonnegative
// one, reporting whether it is in bounds.
func fixChildBound(n, i int) (int, bool) {
	if i < 0 {
		i += n
	}
	return i, i >= 0 && i < n
}
