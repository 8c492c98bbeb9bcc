// Copyright (C) 2025 The phan authors. All Rights Reserved.

package phan_test

import (
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sanmai/phan"
)

func TestScanner(t *testing.T) {
	tests := []struct {
		input string
		want  []phan.Token
	}{
		// Empty input
		{"", nil},

		// Inline HTML and tags
		{"<?php", []phan.Token{phan.OpenTag}},
		{"hello", []phan.Token{phan.InlineHTML}},
		{"hello <?php", []phan.Token{phan.InlineHTML, phan.OpenTag}},
		{"<?php ?> tail", []phan.Token{phan.OpenTag, phan.CloseTag, phan.InlineHTML}},
		{"a<b <?php ?>", []phan.Token{phan.InlineHTML, phan.OpenTag, phan.CloseTag}},

		// Variables, names, and keywords
		{"<?php $a $_x $Ab2;", []phan.Token{
			phan.OpenTag, phan.Variable, phan.Variable, phan.Variable, phan.Semi,
		}},
		{"<?php foo Foo_2;", []phan.Token{phan.OpenTag, phan.Name, phan.Name, phan.Semi}},
		{"<?php echo ECHO Echo;", []phan.Token{phan.OpenTag, phan.Echo, phan.Echo, phan.Echo, phan.Semi}},
		{"<?php function return class new;", []phan.Token{
			phan.OpenTag, phan.Function, phan.Return, phan.Class, phan.New, phan.Semi,
		}},

		// Punctuation
		{"<?php $a->b;", []phan.Token{phan.OpenTag, phan.Variable, phan.Arrow, phan.Name, phan.Semi}},
		{"<?php A::b;", []phan.Token{phan.OpenTag, phan.Name, phan.ColonColon, phan.Name, phan.Semi}},
		{"<?php ( ) { } [ ] , ;", []phan.Token{
			phan.OpenTag, phan.LParen, phan.RParen, phan.LBrace, phan.RBrace,
			phan.LBracket, phan.RBracket, phan.Comma, phan.Semi,
		}},
		{"<?php $x = 1 - 2;", []phan.Token{
			phan.OpenTag, phan.Variable, phan.Assign, phan.Integer, phan.Minus, phan.Integer, phan.Semi,
		}},

		// Numbers
		{"<?php 0 12 3.5 2e3 1.5e-2;", []phan.Token{
			phan.OpenTag, phan.Integer, phan.Integer, phan.Float, phan.Float, phan.Float, phan.Semi,
		}},

		// Strings
		{`<?php "a b" 'c d';`, []phan.Token{phan.OpenTag, phan.String, phan.String, phan.Semi}},
		{`<?php "esc \" quote";`, []phan.Token{phan.OpenTag, phan.String, phan.Semi}},

		// Comments
		{"<?php // x\n# y\n/* z */ 1;", []phan.Token{
			phan.OpenTag, phan.LineComment, phan.LineComment, phan.BlockComment, phan.Integer, phan.Semi,
		}},

		// Mixed expression
		{`<?php echo "a" . $b->c(1, 2.5);`, []phan.Token{
			phan.OpenTag, phan.Echo, phan.String, phan.Dot, phan.Variable, phan.Arrow, phan.Name,
			phan.LParen, phan.Integer, phan.Comma, phan.Float, phan.RParen, phan.Semi,
		}},
	}

	for _, test := range tests {
		var got []phan.Token
		s := phan.NewScanner(strings.NewReader(test.input))
		for s.Next() == nil {
			got = append(got, s.Token())
		}
		if s.Err() != io.EOF {
			t.Errorf("Input: %#q\nNext failed: %v", test.input, s.Err())
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("Input: %#q\nTokens: (-want, +got)\n%s", test.input, diff)
		}
	}
}

func TestScanner_spans(t *testing.T) {
	const input = `<?php $a->b;`

	want := []struct {
		text string
		span phan.Span
	}{
		{"<?php", phan.Span{Pos: 0, End: 5}},
		{"$a", phan.Span{Pos: 6, End: 8}},
		{"->", phan.Span{Pos: 8, End: 10}},
		{"b", phan.Span{Pos: 10, End: 11}},
		{";", phan.Span{Pos: 11, End: 12}},
	}

	s := phan.NewScanner(strings.NewReader(input))
	for i := 0; s.Next() == nil; i++ {
		if i >= len(want) {
			t.Fatalf("Unexpected extra token %v %q", s.Token(), s.Text())
		}
		if got := string(s.Text()); got != want[i].text {
			t.Errorf("Token %d: got text %q, want %q", i, got, want[i].text)
		}
		if got := s.Span(); got != want[i].span {
			t.Errorf("Token %d: got span %+v, want %+v", i, got, want[i].span)
		}
	}
	if s.Err() != io.EOF {
		t.Fatalf("Next failed: %v", s.Err())
	}
}

func TestScanner_locations(t *testing.T) {
	const input = "<?php\necho\n  $x;"

	want := []phan.LineCol{
		{Line: 1, Column: 0},
		{Line: 2, Column: 0},
		{Line: 3, Column: 2},
		{Line: 3, Column: 4},
	}

	s := phan.NewScanner(strings.NewReader(input))
	var got []phan.LineCol
	for s.Next() == nil {
		got = append(got, s.Location().First)
	}
	if s.Err() != io.EOF {
		t.Fatalf("Next failed: %v", s.Err())
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Locations: (-want, +got)\n%s", diff)
	}
}

func TestScanner_errors(t *testing.T) {
	tests := []struct {
		input string
		etext string // substring of the reported error
	}{
		{`<?php "abc`, "unterminated string"},
		{`<?php 'abc`, "unterminated string"},
		{"<?php /* abc", "unterminated block comment"},
		{"<?php 1. ;", "no digits after decimal point"},
		{"<?php $ ;", "identifier"},
		{"<?php @;", "unexpected"},
	}

	for _, test := range tests {
		s := phan.NewScanner(strings.NewReader(test.input))
		var err error
		for {
			if err = s.Next(); err != nil {
				break
			}
		}
		if err == io.EOF {
			t.Errorf("Input: %#q: got EOF, want error containing %q", test.input, test.etext)
		} else if !strings.Contains(err.Error(), test.etext) {
			t.Errorf("Input: %#q: got error %v, want %q", test.input, err, test.etext)
		}
	}
}
