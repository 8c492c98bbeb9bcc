// Copyright (C) 2025 The phan authors. All Rights Reserved.

// Package nav adapts the offset-based selection machinery of the ast package
// to the file, line, and column positions used by editor navigation
// requests, and maps the selected node back to an LSP location.
package nav

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/sourcegraph/go-lsp"

	"github.com/sanmai/phan"
	"github.com/sanmai/phan/ast"
	"github.com/sanmai/phan/ast/cursor"
)

// ErrNoSelection is reported by Resolve when no syntax element covers the
// requested position. It is the "absent" result of a navigation request, not
// a failure of the request itself.
var ErrNoSelection = errors.New("no syntax element at position")

// A Resolver answers navigation requests against files on disk.
// The zero value resolves with AST version 100 and reads through os.ReadFile.
type Resolver struct {
	// Version is the AST format version to convert with.
	// Zero means ast.V100.
	Version ast.Version

	// ReadFile overrides how file contents are loaded. Nil means os.ReadFile.
	ReadFile func(path string) ([]byte, error)
}

// Resolve maps a 1-based line/column position in the named file to the
// abstract node the position points at, along with the node's location in
// LSP terms. Parse diagnostics do not fail the request: resolution proceeds
// on the best-effort tree. Resolve reports ErrNoSelection when the position
// lies beyond the parsed content.
func (r Resolver) Resolve(path string, line, col int) (*ast.Node, lsp.Location, error) {
	read := r.ReadFile
	if read == nil {
		read = os.ReadFile
	}
	src, err := read(path)
	if err != nil {
		return nil, lsp.Location{}, fmt.Errorf("resolve %s: %w", path, err)
	}

	version := r.Version
	if version == 0 {
		version = ast.V100
	}
	tree, _, err := ast.Convert(src, version, OffsetFor(src, line, col))
	if err != nil {
		return nil, lsp.Location{}, fmt.Errorf("resolve %s: %w", path, err)
	}

	c := cursor.Selected(tree)
	if c == nil {
		return nil, lsp.Location{}, ErrNoSelection
	}
	node := c.Node()
	return node, lsp.Location{
		URI:   lsp.DocumentURI("file://" + path),
		Range: RangeFor(src, node.Span()),
	}, nil
}

// lineStarts returns the byte offsets at which each line of src begins.
// There is always at least one line.
func lineStarts(src []byte) []int {
	starts := []int{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// OffsetFor converts a 1-based line and column to a byte offset into src.
// Out-of-range lines and columns are clamped rather than rejected, matching
// the offset clamping done by ast.Convert.
func OffsetFor(src []byte, line, col int) int {
	starts := lineStarts(src)
	if line < 1 {
		line = 1
	} else if line > len(starts) {
		line = len(starts)
	}
	pos := starts[line-1]
	end := len(src)
	if line < len(starts) {
		end = starts[line] - 1 // exclude the newline
	}
	if col < 1 {
		col = 1
	}
	if p := pos + col - 1; p < end {
		return p
	}
	return end
}

// PositionFor converts a byte offset into src to a 0-based LSP position.
func PositionFor(src []byte, offset int) lsp.Position {
	if offset < 0 {
		offset = 0
	} else if offset > len(src) {
		offset = len(src)
	}
	starts := lineStarts(src)
	line := sort.Search(len(starts), func(i int) bool { return starts[i] > offset }) - 1
	return lsp.Position{Line: line, Character: offset - starts[line]}
}

// RangeFor converts a byte span into src to a 0-based LSP range.
func RangeFor(src []byte, span phan.Span) lsp.Range {
	return lsp.Range{
		Start: PositionFor(src, span.Pos),
		End:   PositionFor(src, span.End),
	}
}
