// Copyright (C) 2025 The phan authors. All Rights Reserved.

package phan

// A Span describes a contiguous span of a source input.
type Span struct {
	Pos int // the start offset, 0-based
	End int // the end offset, 0-based (noninclusive)
}

// Contains reports whether offset falls inside the span. The end offset is
// excluded: an offset equal to End belongs to whatever follows the span.
func (s Span) Contains(offset int) bool { return offset >= s.Pos && offset < s.End }

// A LineCol describes the line number and column offset of a location in
// source text.
type LineCol struct {
	Line   int // line number, 1-based
	Column int // byte offset of column in line, 0-based
}

// A Location describes the complete location of a range of source text,
// including line and column offsets.
type Location struct {
	Span
	First, Last LineCol
}
