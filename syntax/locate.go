// Copyright (C) 2025 The phan authors. All Rights Reserved.

package syntax

import "github.com/sanmai/phan"

// A Selection identifies the concrete element a navigation request pointed
// at. Selections are plain values: Locate returns one and the ast converter
// accepts one, so nothing about a request outlives the call that made it.
// The zero Selection matches no element.
type Selection struct {
	target Element
}

// IsValid reports whether s identifies an element.
func (s Selection) IsValid() bool { return s.target != nil }

// Target returns the selected element, or nil for the zero Selection.
func (s Selection) Target() Element { return s.target }

// Matches reports whether e is the selected element. Elements are compared
// by their stable indices, not by identity, so a selection remains valid
// across renumbering passes that preserve the tree shape.
func (s Selection) Matches(e Element) bool {
	return s.target != nil && e != nil && e.ID() == s.target.ID()
}

// A SubstitutePolicy decides, for a token covering the requested offset,
// whether the selection should be the token's enclosing node rather than the
// token itself. Bare names resolve this way so that a request lands on the
// reference expression the name belongs to (a property access, a class
// reference) instead of an isolated identifier.
//
// Only bare names are substituted by the default policy. The set of token
// kinds that deserve substitution is deliberately open; callers with wider
// needs supply their own policy.
type SubstitutePolicy func(*Token) bool

// NameSubstitution is the default SubstitutePolicy: it claims bare name
// tokens and nothing else.
func NameSubstitution(tok *Token) bool { return tok.Kind() == phan.Name }

// Locate finds the element of the tree rooted at root containing the given
// byte offset, using the default NameSubstitution policy. It reports false
// when the offset lies at or beyond the end of the last token; that is a
// normal outcome, not an error.
func Locate(root *Node, offset int) (Selection, bool) {
	return LocateFunc(root, offset, NameSubstitution)
}

// LocateFunc is Locate with an explicit substitution policy. A nil policy is
// the same as NameSubstitution.
//
// The search is a preorder walk over children in document order: the first
// token whose span end exceeds offset wins, and the walk stops there. Spans
// are half-open, so an offset exactly at a token's end belongs to the next
// token, never the one ending there.
func LocateFunc(root *Node, offset int, substitute SubstitutePolicy) (Selection, bool) {
	if root == nil {
		return Selection{}, false
	}
	if substitute == nil {
		substitute = NameSubstitution
	}
	return locate(root, offset, substitute)
}

func locate(n *Node, offset int, substitute SubstitutePolicy) (Selection, bool) {
	for _, child := range n.children {
		switch c := child.(type) {
		case *Token:
			if c.Span().End > offset {
				if substitute(c) {
					return Selection{target: n}, true
				}
				return Selection{target: c}, true
			}
		case *Node:
			if sel, ok := locate(c, offset, substitute); ok {
				return sel, true
			}
		}
	}
	return Selection{}, false
}
