// Copyright (C) 2025 The phan authors. All Rights Reserved.

// Package testutil implements shared helpers for unit tests.
package testutil

import (
	"strings"

	"github.com/sanmai/phan/ast"
)

// Format renders an abstract syntax tree as a compact s-expression for
// comparison in tests. Each node becomes "(Kind child ...)" with the node's
// text payload, if any, following the kind. A selected node is prefixed with
// a star, for example "(StmtList *(Echo (Var x)))".
func Format(n *ast.Node) string {
	var sb strings.Builder
	format(&sb, n)
	return sb.String()
}

func format(sb *strings.Builder, n *ast.Node) {
	if n == nil {
		sb.WriteString("()")
		return
	}
	if n.Selected {
		sb.WriteString("*")
	}
	sb.WriteString("(")
	sb.WriteString(n.Kind.String())
	if n.Text != "" {
		sb.WriteString(" ")
		sb.WriteString(n.Text)
	}
	for _, c := range n.Children {
		sb.WriteString(" ")
		format(sb, c)
	}
	sb.WriteString(")")
}
