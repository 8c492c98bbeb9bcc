// Copyright (C) 2025 The phan authors. All Rights Reserved.

// Package syntax defines the full-fidelity concrete syntax tree for the PHP
// slice scanned by the phan package, a tolerant parser that constructs such
// trees from source text, and an offset locator that maps byte offsets to the
// tree elements covering them.
//
// Unlike the normalized tree in the ast package, the concrete tree retains
// every scanned token, including punctuation, comments, and the open and
// close tags, as leaves in document order. A parent's span always covers the
// spans of its children.
package syntax

import (
	"github.com/sanmai/phan"
)

// An Element is a member of the concrete syntax tree: either a *Node or a
// *Token. Every element has a half-open byte span and a stable index
// assigned in a single preorder pass over the finished tree; indices are
// dense and the root node has index 0.
type Element interface {
	Span() phan.Span
	ID() int
}

// NodeKind is the type of a concrete syntax node's kind tag.
type NodeKind byte

// Constants defining the valid NodeKind values.
const (
	SourceFile   NodeKind = iota // a whole source file
	ExprStmt                     // expression statement: expr ";"
	EchoStmt                     // echo statement
	ReturnStmt                   // return statement
	Block                        // braced statement block
	FuncDecl                     // function declaration
	ClassDecl                    // class declaration
	ParamList                    // parenthesized parameter list
	Param                        // a single parameter
	AssignExpr                   // assignment: lhs "=" rhs
	BinaryExpr                   // binary operation: lhs op rhs
	PropAccess                   // property access: expr "->" name
	StaticAccess                 // scoped access: name "::" member
	CallExpr                     // call: callee "(" args ")"
	NewExpr                      // object creation: "new" class args
	IndexExpr                    // subscript: expr "[" index "]"
	ParenExpr                    // parenthesized expression
	VarRef                       // variable reference
	NameRef                      // bare name reference
	Literal                      // integer, float, or string literal
	Missing                      // placeholder for a missing construct
)

var nodeKindStr = [...]string{
	SourceFile:   "SourceFile",
	ExprStmt:     "ExprStmt",
	EchoStmt:     "EchoStmt",
	ReturnStmt:   "ReturnStmt",
	Block:        "Block",
	FuncDecl:     "FuncDecl",
	ClassDecl:    "ClassDecl",
	ParamList:    "ParamList",
	Param:        "Param",
	AssignExpr:   "AssignExpr",
	BinaryExpr:   "BinaryExpr",
	PropAccess:   "PropAccess",
	StaticAccess: "StaticAccess",
	CallExpr:     "CallExpr",
	NewExpr:      "NewExpr",
	IndexExpr:    "IndexExpr",
	ParenExpr:    "ParenExpr",
	VarRef:       "VarRef",
	NameRef:      "NameRef",
	Literal:      "Literal",
	Missing:      "Missing",
}

func (k NodeKind) String() string {
	if int(k) >= len(nodeKindStr) {
		return "invalid"
	}
	return nodeKindStr[k]
}

// A Node is an interior element of the concrete syntax tree.
type Node struct {
	kind     NodeKind
	children []Element
	pos, end int
	id       int
}

// Kind returns the kind tag of n.
func (n *Node) Kind() NodeKind { return n.kind }

// Children returns the ordered children of n, a mix of nodes and tokens.
// The returned slice is shared with n and must not be modified.
func (n *Node) Children() []Element { return n.children }

// Span satisfies the Element interface.
func (n *Node) Span() phan.Span { return phan.Span{Pos: n.pos, End: n.end} }

// ID satisfies the Element interface.
func (n *Node) ID() int { return n.id }

func (n *Node) append(e Element) {
	if len(n.children) == 0 {
		n.pos = e.Span().Pos
		n.end = e.Span().End
	} else if v := e.Span().End; v > n.end {
		n.end = v
	}
	n.children = append(n.children, e)
}

// A Token is a leaf element of the concrete syntax tree.
type Token struct {
	kind phan.Token
	text []byte
	loc  phan.Location
	id   int
}

// Kind returns the lexical kind of t.
func (t *Token) Kind() phan.Token { return t.kind }

// Text returns the raw source text of t.
func (t *Token) Text() string { return string(t.text) }

// Location returns the complete location of t, including line and column
// offsets.
func (t *Token) Location() phan.Location { return t.loc }

// Span satisfies the Element interface.
func (t *Token) Span() phan.Span { return t.loc.Span }

// ID satisfies the Element interface.
func (t *Token) ID() int { return t.id }

// number assigns dense preorder indices to every element of the tree rooted
// at n. The pass is repeatable: renumbering an already-numbered tree yields
// the same indices.
func number(n *Node) {
	next := 0
	var walk func(Element)
	walk = func(e Element) {
		switch v := e.(type) {
		case *Node:
			v.id = next
			next++
			for _, c := range v.children {
				walk(c)
			}
		case *Token:
			v.id = next
			next++
		}
	}
	walk(n)
}
