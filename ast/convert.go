// Copyright (C) 2025 The phan authors. All Rights Reserved.

package ast

import (
	"errors"
	"fmt"
	"strings"

	"github.com/creachadair/mds/mapset"
	"github.com/sanmai/phan"
	"github.com/sanmai/phan/syntax"
)

// Version selects the AST format version of a conversion, following the
// php-ast version numbering.
type Version int

// Constants defining the supported Version values.
const (
	V85  Version = 85
	V90  Version = 90
	V100 Version = 100
)

// Versions is the set of AST format versions this package can emit. For the
// constructs in this slice the emitted shapes coincide across all supported
// versions; the gate exists so that callers asking for a format this
// converter does not understand fail fast, before any scanning is done.
var Versions = mapset.New(V85, V90, V100)

// ErrUnsupportedVersion is reported by Convert for a version outside
// Versions. It is the only error Convert returns: malformed source is
// reported through diagnostics, never as an error.
var ErrUnsupportedVersion = errors.New("unsupported AST version")

// A Converter holds the configuration for converting source text into
// abstract syntax trees. The zero value is not useful; at minimum Version
// must be a member of Versions.
//
// A Converter carries no per-request state. All state of a single conversion
// lives in values scoped to that call, so a Converter may be reused and may
// be shared between goroutines.
type Converter struct {
	// Version is the AST format version to emit. Required.
	Version Version

	// Substitute overrides the locator's token substitution policy.
	// A nil value uses syntax.NameSubstitution.
	Substitute syntax.SubstitutePolicy

	// Trace, if set, receives debug events from the locate step and from
	// invariant repairs. It is never called on the happy path of node
	// construction.
	Trace func(format string, args ...any)
}

// Convert parses src and converts it to an abstract syntax tree in the given
// format version, marking the node at the given byte offset as selected.
// It is shorthand for Converter{Version: version}.Convert(src, offset).
func Convert(src []byte, version Version, offset int) (*Node, []phan.Diagnostic, error) {
	return Converter{Version: version}.Convert(src, offset)
}

// Convert parses src and converts it into an abstract tree, locating the
// concrete element at offset and marking the corresponding abstract node as
// selected.
//
// The offset is clamped to [0, len(src)], never rejected. Convert always
// returns a non-nil tree and the parse diagnostics, even for malformed
// source; the only failure is an unsupported Version, which is reported
// before any scanning occurs. An offset beyond the last token simply yields
// a tree with no node marked.
func (c Converter) Convert(src []byte, offset int) (*Node, []phan.Diagnostic, error) {
	if !Versions.Has(c.Version) {
		return nil, nil, fmt.Errorf("AST version %d: %w", c.Version, ErrUnsupportedVersion)
	}
	if offset < 0 {
		offset = 0
	} else if offset > len(src) {
		offset = len(src)
	}

	root, diags := syntax.Parse(src)
	sel, ok := syntax.LocateFunc(root, offset, c.Substitute)
	c.tracef("locate offset %d: found=%v", offset, ok)

	cv := &converter{sel: sel, trace: c.Trace}
	out := cv.node(root)
	if out == nil {
		out = &Node{Kind: StmtList, end: len(src)}
	}
	if cv.pending {
		c.tracef("selection did not attach to any node")
	}
	c.verify(out)
	return out, diags, nil
}

func (c Converter) tracef(format string, args ...any) {
	if c.Trace != nil {
		c.Trace(format, args...)
	}
}

// verify repairs the single-marker invariant: if more than one node carries
// the selection marker, the first in preorder is kept and the rest are
// cleared. A violation indicates a converter defect and is traced.
func (c Converter) verify(root *Node) {
	count := 0
	root.Walk(func(n *Node) bool {
		if n.Selected {
			count++
			if count > 1 {
				n.Selected = false
			}
		}
		return true
	})
	if count > 1 {
		c.tracef("invariant violation: %d nodes marked selected, kept the first", count)
	}
}

// converter is the state of a single conversion. The selection is threaded
// through as a value; pending records a matched concrete element whose
// conversion produced no node, to be attached to the nearest enclosing node
// that is produced.
type converter struct {
	sel     syntax.Selection
	pending bool
	trace   func(format string, args ...any)
}

// node converts a concrete node and applies the selection marker. If the
// node itself is the selected element but maps to no abstract node, or a
// token in its subtree did, the mark is carried upward to the nearest
// produced ancestor. That fallback is best effort by design.
func (c *converter) node(n *syntax.Node) *Node {
	pre := c.pending
	out := c.build(n)
	if c.sel.Matches(n) {
		if out != nil {
			out.Selected = true
		} else {
			c.pending = true
		}
	} else if c.pending && !pre && out != nil {
		// The pending mark came from this subtree, not an earlier sibling.
		out.Selected = true
		c.pending = false
	}
	return out
}

// token records a selection match on a token that maps to no abstract node.
func (c *converter) token(t *syntax.Token) {
	if c.sel.Matches(t) {
		c.pending = true
	}
}

// leaf converts a payload token to an abstract leaf node.
func (c *converter) leaf(t *syntax.Token) *Node {
	out := &Node{pos: t.Span().Pos, end: t.Span().End}
	switch t.Kind() {
	case phan.Variable:
		out.Kind, out.Text = Var, strings.TrimPrefix(t.Text(), "$")
	case phan.Name:
		out.Kind, out.Text = Name, t.Text()
	case phan.Integer:
		out.Kind, out.Text = IntLit, t.Text()
	case phan.Float:
		out.Kind, out.Text = FloatLit, t.Text()
	case phan.String:
		out.Kind = StringLit
		if dec, err := phan.Unquote(t.Text()); err == nil {
			out.Text = string(dec)
		} else {
			out.Text = t.Text()
		}
	default:
		c.token(t)
		return nil
	}
	if c.sel.Matches(t) {
		out.Selected = true
	}
	return out
}

func (c *converter) build(n *syntax.Node) *Node {
	switch n.Kind() {
	case syntax.SourceFile, syntax.Block:
		return newNode(StmtList, n, c.kids(n)...)
	case syntax.ExprStmt, syntax.ParenExpr:
		return c.squash(n)
	case syntax.EchoStmt:
		return newNode(Echo, n, c.kids(n)...)
	case syntax.ReturnStmt:
		return newNode(Return, n, c.kids(n)...)
	case syntax.FuncDecl:
		out := newNode(FuncDecl, n, c.kids(n)...)
		out.Text = c.nameOf(n)
		return out
	case syntax.ClassDecl:
		out := newNode(ClassDecl, n, c.kids(n)...)
		out.Text = c.nameOf(n)
		return out
	case syntax.ParamList:
		return newNode(ParamList, n, c.kids(n)...)
	case syntax.Param:
		out := newNode(Param, n)
		for _, ch := range n.Children() {
			if t, ok := ch.(*syntax.Token); ok {
				if t.Kind() == phan.Variable {
					out.Text = strings.TrimPrefix(t.Text(), "$")
				}
				c.token(t)
			}
		}
		return out
	case syntax.AssignExpr:
		return newNode(Assign, n, c.kids(n)...)
	case syntax.BinaryExpr:
		out := newNode(BinaryOp, n, c.kids(n)...)
		for _, ch := range n.Children() {
			if t, ok := ch.(*syntax.Token); ok && out.Text == "" {
				out.Text = t.Text()
			}
		}
		return out
	case syntax.PropAccess, syntax.StaticAccess:
		return c.access(n)
	case syntax.CallExpr:
		return c.call(n, false)
	case syntax.NewExpr:
		return c.call(n, true)
	case syntax.IndexExpr:
		return newNode(Dim, n, c.kids(n)...)
	case syntax.VarRef, syntax.NameRef, syntax.Literal:
		var out *Node
		for _, ch := range n.Children() {
			if t, ok := ch.(*syntax.Token); ok {
				if l := c.leaf(t); l != nil && out == nil {
					out = l
				}
			}
		}
		return out
	default: // syntax.Missing
		return nil
	}
}

// kids converts the node children of n in document order, dropping empty
// conversions, and reports every token child to the selection check.
func (c *converter) kids(n *syntax.Node) []*Node {
	var out []*Node
	for _, ch := range n.Children() {
		switch v := ch.(type) {
		case *syntax.Token:
			c.token(v)
		case *syntax.Node:
			if k := c.node(v); k != nil {
				out = append(out, k)
			}
		}
	}
	return out
}

// squash converts a node that adds no structure of its own, such as an
// expression statement or a parenthesized expression, to the conversion of
// its single meaningful child.
func (c *converter) squash(n *syntax.Node) *Node {
	ks := c.kids(n)
	if len(ks) == 0 {
		return nil
	}
	return ks[0]
}

// access converts "->" and "::" accesses. The member position becomes a leaf
// child; the node kind depends on the operator and on whether the member is
// a name or a variable.
func (c *converter) access(n *syntax.Node) *Node {
	var obj, member *Node
	var memberTok *syntax.Token
	for _, ch := range n.Children() {
		switch v := ch.(type) {
		case *syntax.Node:
			if k := c.node(v); k != nil {
				if obj == nil {
					obj = k
				} else if member == nil {
					member = k
				}
			}
		case *syntax.Token:
			switch v.Kind() {
			case phan.Name, phan.Variable:
				if member == nil {
					member, memberTok = c.leaf(v), v
				} else {
					c.token(v)
				}
			default:
				c.token(v)
			}
		}
	}
	kind := Prop
	if n.Kind() == syntax.StaticAccess {
		if memberTok != nil && memberTok.Kind() == phan.Variable {
			kind = StaticProp
		} else {
			kind = ClassConst
		}
	}
	return newNode(kind, n, obj, member)
}

// call converts call and new expressions: the callee or class reference
// followed by an ArgList covering the parenthesized arguments. For calls the
// node kind is refined by the callee shape, matching the php-ast kinds for
// method and static calls. A New expression without parentheses still gets
// an empty ArgList.
func (c *converter) call(n *syntax.Node, isNew bool) *Node {
	var callee *Node
	var args []*Node
	argPos, argEnd := n.Span().End, n.Span().End
	sawParen := false
	for _, ch := range n.Children() {
		switch v := ch.(type) {
		case *syntax.Node:
			if k := c.node(v); k == nil {
				continue
			} else if callee == nil && !sawParen {
				callee = k
			} else {
				args = append(args, k)
			}
		case *syntax.Token:
			switch v.Kind() {
			case phan.LParen:
				if !sawParen {
					sawParen = true
					argPos, argEnd = v.Span().Pos, v.Span().End
				}
			case phan.RParen:
				argEnd = v.Span().End
			}
			c.token(v)
		}
	}
	kind := Call
	if isNew {
		kind = New
	} else if callee != nil {
		switch callee.Kind {
		case Prop:
			kind = MethodCall
		case StaticProp, ClassConst:
			kind = StaticCall
		}
	}
	argList := &Node{Kind: ArgList, Children: args, pos: argPos, end: argEnd}
	return newNode(kind, n, callee, argList)
}

func (c *converter) nameOf(n *syntax.Node) string {
	for _, ch := range n.Children() {
		if t, ok := ch.(*syntax.Token); ok && t.Kind() == phan.Name {
			return t.Text()
		}
	}
	return ""
}

func newNode(k Kind, n *syntax.Node, children ...*Node) *Node {
	out := &Node{Kind: k, pos: n.Span().Pos, end: n.Span().End}
	for _, c := range children {
		if c != nil {
			out.Children = append(out.Children, c)
		}
	}
	return out
}
