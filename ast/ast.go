// Copyright (C) 2025 The phan authors. All Rights Reserved.

// Package ast defines the normalized abstract syntax tree for the PHP slice
// parsed by the syntax package, and a converter that builds abstract trees
// from source text while tagging the node an editor navigation request
// pointed at.
package ast

import "github.com/sanmai/phan"

// Kind is the type of an abstract node's kind tag. The names follow the
// php-ast node vocabulary.
type Kind byte

// Constants defining the valid Kind values.
const (
	StmtList   Kind = iota // an ordered sequence of statements
	Echo                   // echo
	Return                 // return
	Assign                 // assignment
	BinaryOp               // binary operation; Text holds the operator
	Var                    // variable; Text holds the name without "$"
	Prop                   // instance property access
	StaticProp             // static property access
	ClassConst             // class constant access
	Call                   // plain function call
	MethodCall             // instance method call
	StaticCall             // static method call
	New                    // object creation
	Dim                    // array subscript
	Name                   // a name; Text holds its text
	ArgList                // call argument list
	FuncDecl               // function declaration; Text holds the name
	ClassDecl              // class declaration; Text holds the name
	ParamList              // parameter list
	Param                  // parameter; Text holds the name without "$"
	IntLit                 // integer literal; Text holds the source text
	FloatLit               // floating-point literal; Text holds the source text
	StringLit              // string literal; Text holds the decoded value
)

var kindStr = [...]string{
	StmtList:   "StmtList",
	Echo:       "Echo",
	Return:     "Return",
	Assign:     "Assign",
	BinaryOp:   "BinaryOp",
	Var:        "Var",
	Prop:       "Prop",
	StaticProp: "StaticProp",
	ClassConst: "ClassConst",
	Call:       "Call",
	MethodCall: "MethodCall",
	StaticCall: "StaticCall",
	New:        "New",
	Dim:        "Dim",
	Name:       "Name",
	ArgList:    "ArgList",
	FuncDecl:   "FuncDecl",
	ClassDecl:  "ClassDecl",
	ParamList:  "ParamList",
	Param:      "Param",
	IntLit:     "Int",
	FloatLit:   "Float",
	StringLit:  "String",
}

func (k Kind) String() string {
	if int(k) >= len(kindStr) {
		return "invalid"
	}
	return kindStr[k]
}

// A Node is a node of the abstract syntax tree.
//
// Selected is the selection marker: when a conversion was given a target
// offset, at most one node in the resulting tree has Selected set, and it is
// the node corresponding to the concrete element found at that offset.
type Node struct {
	Kind     Kind
	Children []*Node
	Text     string // payload of leaf-like kinds; see the Kind constants
	Selected bool

	pos, end int
}

// Span returns the source span the node was built from.
func (n *Node) Span() phan.Span { return phan.Span{Pos: n.pos, End: n.end} }

// Walk calls f for each node of the tree rooted at n in depth-first preorder,
// stopping early if f returns false.
func (n *Node) Walk(f func(*Node) bool) bool {
	if n == nil {
		return true
	}
	if !f(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.Walk(f) {
			return false
		}
	}
	return true
}
