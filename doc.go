// Copyright (C) 2025 The phan authors. All Rights Reserved.

// Package phan implements a lexical scanner for a tolerant slice of PHP,
// along with the location and diagnostic types shared by the syntax-tree
// packages layered above it.
//
// # Scanning
//
// The Scanner type implements a lexical scanner for PHP source text.
// Construct a scanner from an io.Reader and call its Next method to iterate
// over the stream. Next advances to the next input token and returns nil, or
// reports an error:
//
//	s := phan.NewScanner(input)
//	for s.Next() == nil {
//	   log.Printf("Next token: %v", s.Token())
//	}
//
// Next returns io.EOF when the input has been fully consumed. Any other error
// indicates an I/O or lexical error in the input.
//
//	if s.Err() != io.EOF {
//	   log.Fatalf("Scanning failed: %v", err)
//	}
//
// Text outside the PHP tags is reported as InlineHTML tokens; the "<?php"
// open tag switches the scanner into PHP mode and "?>" switches it back.
// Every token carries a half-open byte span and a line/column location.
//
// # Trees
//
// The full-fidelity concrete syntax tree, which retains every token, lives in
// the syntax subpackage, and the normalized abstract tree consumed by
// semantic analysis lives in the ast subpackage. The ast.Convert entry point
// also locates the syntax element covering a requested byte offset and marks
// the corresponding abstract node, which is what editor navigation features
// (go-to-definition, hover, completion) run on; the nav subpackage adapts
// that machinery to file/line/column requests.
package phan
