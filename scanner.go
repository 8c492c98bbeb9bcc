// Copyright (C) 2025 The phan authors. All Rights Reserved.

package phan

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
)

// Token is the type of a lexical token in the PHP grammar slice handled by
// this package.
type Token byte

// Constants defining the valid Token values.
const (
	Invalid    Token = iota // invalid token
	OpenTag                 // opening tag "<?php"
	CloseTag                // closing tag "?>"
	InlineHTML              // text outside the PHP tags
	Variable                // variable "$name"
	Name                    // bare identifier
	Integer                 // integer literal
	Float                   // floating-point literal
	String                  // string literal, single or double quoted

	// Keywords, classified out of scanned names.
	Echo
	Function
	Return
	Class
	New

	Arrow      // arrow "->"
	ColonColon // double colon "::"
	Assign     // equals sign "="
	Plus       // plus sign "+"
	Minus      // minus sign "-"
	Star       // asterisk "*"
	Slash      // slash "/"
	Dot        // period "."
	Comma      // comma ","
	Semi       // semicolon ";"
	LParen     // left parenthesis "("
	RParen     // right parenthesis ")"
	LBrace     // left brace "{"
	RBrace     // right brace "}"
	LBracket   // left square bracket "["
	RBracket   // right square bracket "]"

	BlockComment // comment: /* ... */
	LineComment  // comment: // ... <LF> or # ... <LF>
)

var tokenStr = [...]string{
	Invalid:    "invalid token",
	OpenTag:    `"<?php"`,
	CloseTag:   `"?>"`,
	InlineHTML: "inline HTML",
	Variable:   "variable",
	Name:       "name",
	Integer:    "integer",
	Float:      "float",
	String:     "string",

	Echo:     `"echo"`,
	Function: `"function"`,
	Return:   `"return"`,
	Class:    `"class"`,
	New:      `"new"`,

	Arrow:      `"->"`,
	ColonColon: `"::"`,
	Assign:     `"="`,
	Plus:       `"+"`,
	Minus:      `"-"`,
	Star:       `"*"`,
	Slash:      `"/"`,
	Dot:        `"."`,
	Comma:      `","`,
	Semi:       `";"`,
	LParen:     `"("`,
	RParen:     `")"`,
	LBrace:     `"{"`,
	RBrace:     `"}"`,
	LBracket:   `"["`,
	RBracket:   `"]"`,

	BlockComment: "block comment",
	LineComment:  "line comment",
}

func (t Token) String() string {
	v := int(t)
	if v >= len(tokenStr) {
		return tokenStr[Invalid]
	}
	return tokenStr[v]
}

// IsKeyword reports whether t is a reserved word token.
func (t Token) IsKeyword() bool { return t >= Echo && t <= New }

var keywords = map[string]Token{
	"echo":     Echo,
	"function": Function,
	"return":   Return,
	"class":    Class,
	"new":      New,
}

// A Scanner reads lexical tokens from PHP source text.  Each call to Next
// advances the scanner to the next token, or reports an error.
//
// Outside the PHP tags the scanner emits InlineHTML tokens; scanning "<?php"
// switches it into PHP mode until a close tag or the end of input.
type Scanner struct {
	r     *bufio.Reader
	buf   bytes.Buffer // current token
	tok   Token
	err   error
	inPHP bool

	pos, end int // start and end offsets of current token
	last     int // size in bytes of last-read input rune

	// Apparent line and column offsets (0-based)
	pline, pcol int
	eline, ecol int
	lline, lcol int // line and column before the last-read rune
}

// NewScanner constructs a new lexical scanner that consumes input from r.
func NewScanner(r io.Reader) *Scanner {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Scanner{r: br}
}

// Next advances s to the next token of the input, or reports an error.
// At the end of the input, Next returns io.EOF.
func (s *Scanner) Next() error {
	s.buf.Reset()
	s.err = nil
	s.tok = Invalid
	s.pos, s.pline, s.pcol = s.end, s.eline, s.ecol

	if !s.inPHP {
		return s.scanInline()
	}

	for {
		ch, err := s.rune()
		if err == io.EOF {
			return s.setErr(err)
		} else if err != nil {
			return s.fail(err)
		}

		// Discard whitespace.
		if isSpace(ch) {
			s.pos, s.pline, s.pcol = s.end, s.eline, s.ecol
			continue
		}

		// Handle the close tag "?>".
		if ch == '?' {
			return s.scanCloseTag(ch)
		}

		// Handle punctuation that cannot begin anything longer.
		if t, ok := selfDelim(ch); ok {
			s.buf.WriteRune(ch)
			s.tok = t
			return nil
		}

		switch {
		case ch == '$':
			return s.scanVariable(ch)
		case isNameStart(ch):
			return s.scanName(ch)
		case isDigit(ch):
			return s.scanNumber(ch)
		case ch == '\'' || ch == '"':
			return s.scanString(ch)
		case ch == '/':
			return s.scanSlash(ch)
		case ch == '#':
			return s.scanLineComment(ch)
		case ch == '-':
			return s.scanArrow(ch)
		case ch == ':':
			return s.scanDoubleColon(ch)
		case ch == '=':
			s.buf.WriteRune(ch)
			s.tok = Assign
			return nil
		default:
			return s.failf("unexpected %q", ch)
		}
	}
}

// Token returns the type of the current token.
func (s *Scanner) Token() Token { return s.tok }

// Err returns the last error reported by Next.
func (s *Scanner) Err() error { return s.err }

// Text returns the raw text of the current token.  The return value is only
// valid until the next call of Next. The caller must copy the contents of the
// returned slice if it is needed beyond that.
func (s *Scanner) Text() []byte { return s.buf.Bytes() }

// Copy returns a copy of the raw text of the current token.
func (s *Scanner) Copy() []byte { return append([]byte(nil), s.buf.Bytes()...) }

// Span returns the location span of the current token.
func (s *Scanner) Span() Span { return Span{Pos: s.pos, End: s.end} }

// Location returns the complete location of the current token.
func (s *Scanner) Location() Location {
	return Location{
		Span:  s.Span(),
		First: LineCol{Line: s.pline + 1, Column: s.pcol},
		Last:  LineCol{Line: s.eline + 1, Column: s.ecol},
	}
}

// scanInline consumes input up to the next open tag or the end of input.  It
// emits an InlineHTML token for any text preceding the tag, and an OpenTag
// token for the tag itself.
func (s *Scanner) scanInline() error {
	for {
		tag, err := s.r.Peek(len("<?php"))
		if err == nil && string(tag) == "<?php" {
			if s.buf.Len() > 0 {
				s.tok = InlineHTML
				return nil
			}
			for range tag {
				ch, err := s.rune()
				if err != nil {
					return s.fail(err)
				}
				s.buf.WriteRune(ch)
			}
			s.tok = OpenTag
			s.inPHP = true
			return nil
		}

		ch, err := s.rune()
		if err == io.EOF {
			if s.buf.Len() > 0 {
				s.tok = InlineHTML
				return nil
			}
			return s.setErr(err)
		} else if err != nil {
			return s.fail(err)
		}
		s.buf.WriteRune(ch)
	}
}

func (s *Scanner) scanCloseTag(first rune) error {
	ch, err := s.rune()
	if err == io.EOF {
		return s.failf("unexpected %q at end of input", first)
	} else if err != nil {
		return s.fail(err)
	} else if ch != '>' {
		s.unrune()
		return s.failf("unexpected %q", first)
	}
	s.buf.WriteString("?>")
	s.tok = CloseTag
	s.inPHP = false
	return nil
}

func (s *Scanner) scanVariable(first rune) error {
	s.buf.WriteRune(first)
	ch, err := s.require(isNameStart, "identifier")
	if err != nil {
		return err
	}
	s.buf.WriteRune(ch)
	if err := s.finishWhile(isNameRune); err != nil {
		return err
	}
	s.tok = Variable
	return nil
}

func (s *Scanner) scanName(first rune) error {
	s.buf.WriteRune(first)
	if err := s.finishWhile(isNameRune); err != nil {
		return err
	}
	// Keywords are case-insensitive in PHP.
	if t, ok := keywords[strings.ToLower(s.buf.String())]; ok {
		s.tok = t
	} else {
		s.tok = Name
	}
	return nil
}

func (s *Scanner) scanNumber(first rune) error {
	s.buf.WriteRune(first)
	s.tok = Integer

	_, ch, err := s.readWhile(isDigit)
	if err == io.EOF {
		return nil
	} else if err != nil {
		return s.fail(err)
	}

	// If a decimal point follows and a digit follows it, consume a fraction.
	if ch == '.' {
		s.buf.WriteRune(ch)
		nr, next, err := s.readWhile(isDigit)
		if nr == 0 {
			return s.failf("no digits after decimal point")
		}
		s.tok = Float
		if err == io.EOF {
			return nil
		} else if err != nil {
			return s.fail(err)
		}
		ch = next
	}

	// If an exponent follows, consume it.
	if ch != 'E' && ch != 'e' {
		s.unrune()
		return nil
	}
	s.buf.WriteRune(ch)
	ch, err = s.require(isExpStart, "sign or digit")
	if err != nil {
		return err
	}
	s.buf.WriteRune(ch)
	nr, _, err := s.readWhile(isDigit)
	if nr == 0 && (ch == '-' || ch == '+') {
		return s.failf("missing exponent digits")
	} else if err == io.EOF {
		s.tok = Float
		return nil
	} else if err != nil {
		return s.fail(err)
	}
	s.unrune()
	s.tok = Float
	return nil
}

func (s *Scanner) scanString(open rune) error {
	s.buf.WriteRune(open)
	var esc bool
	for {
		ch, err := s.rune()
		if err == io.EOF {
			return s.failf("unterminated string literal")
		} else if err != nil {
			return s.fail(err)
		}
		s.buf.WriteRune(ch)
		if esc {
			esc = false
		} else if ch == '\\' {
			esc = true
		} else if ch == open {
			s.tok = String
			return nil
		}
	}
}

func (s *Scanner) scanSlash(first rune) error {
	ch, err := s.rune()
	if err == io.EOF {
		s.buf.WriteRune(first)
		s.tok = Slash
		return nil
	} else if err != nil {
		return s.fail(err)
	}
	switch ch {
	case '/':
		s.buf.WriteRune(first)
		return s.scanLineComment(ch)
	case '*':
		s.buf.WriteString("/*")
		for {
			_, end, err := s.readWhile(isNotStar)
			if err != nil {
				return s.failf("unterminated block comment")
			}
			s.buf.WriteRune(end) // end == '*'

			next, err := s.rune()
			if err != nil {
				return s.failf("unterminated block comment")
			}
			s.buf.WriteRune(next)
			if next == '/' {
				s.tok = BlockComment
				return nil
			}
		}
	default:
		s.unrune()
		s.buf.WriteRune(first)
		s.tok = Slash
		return nil
	}
}

func (s *Scanner) scanLineComment(first rune) error {
	s.buf.WriteRune(first)
	_, end, err := s.readWhile(isNotLF)
	if err == nil {
		s.buf.WriteRune(end)
	} else if err != io.EOF {
		return s.fail(err)
	}
	s.tok = LineComment
	return nil
}

func (s *Scanner) scanArrow(first rune) error {
	ch, err := s.rune()
	if err == nil && ch == '>' {
		s.buf.WriteString("->")
		s.tok = Arrow
		return nil
	} else if err == nil {
		s.unrune()
	} else if err != io.EOF {
		return s.fail(err)
	}
	s.buf.WriteRune(first)
	s.tok = Minus
	return nil
}

func (s *Scanner) scanDoubleColon(first rune) error {
	ch, err := s.rune()
	if err == nil && ch == ':' {
		s.buf.WriteString("::")
		s.tok = ColonColon
		return nil
	} else if err == nil {
		s.unrune()
	} else if err != io.EOF {
		return s.fail(err)
	}
	return s.failf("unexpected %q", first)
}

func (s *Scanner) rune() (rune, error) {
	ch, nb, err := s.r.ReadRune()
	s.last = nb
	s.end += nb
	s.lline, s.lcol = s.eline, s.ecol
	if ch == '\n' {
		s.eline++
		s.ecol = 0
	} else {
		s.ecol += nb
	}
	return ch, err
}

func (s *Scanner) unrune() {
	s.end -= s.last
	s.eline, s.ecol = s.lline, s.lcol
	s.last = 0
	s.r.UnreadRune()
}

// require reads a single rune matching f from the input, or returns an error
// mentioning the desired label.
func (s *Scanner) require(f func(rune) bool, label string) (rune, error) {
	ch, err := s.rune()
	if err != nil {
		return 0, s.failf("want %s, got error: %w", label, err)
	} else if !f(ch) {
		s.unrune()
		return 0, s.failf("got %q, want %s", ch, label)
	}
	return ch, nil
}

// readWhile consumes runes matching f from the input until EOF or until a rune
// not matching f is found. The first non-matching rune (if any) is returned.
// It is the caller's responsibility to unread this rune, if desired.
// The int reports the number of runes consumed.
func (s *Scanner) readWhile(f func(rune) bool) (int, rune, error) {
	var nr int
	for {
		ch, err := s.rune()
		if err != nil {
			return nr, 0, err
		} else if !f(ch) {
			return nr, ch, nil
		}
		s.buf.WriteRune(ch)
		nr++
	}
}

// finishWhile consumes runes matching f and unreads the first rune that does
// not match, treating EOF as a successful end of token.
func (s *Scanner) finishWhile(f func(rune) bool) error {
	_, _, err := s.readWhile(f)
	if err == io.EOF {
		return nil
	} else if err != nil {
		return s.fail(err)
	}
	s.unrune()
	return nil
}

type posError struct {
	pos int
	err error
}

func (p posError) Error() string {
	return fmt.Sprintf("%s (offset %d)", p.err.Error(), p.pos)
}

func (p posError) Unwrap() error { return p.err }

func (s *Scanner) setErr(err error) error {
	s.err = err
	return err
}

func (s *Scanner) fail(err error) error {
	return s.setErr(posError{s.end, err})
}

func (s *Scanner) failf(msg string, args ...any) error {
	return s.setErr(posError{s.end, fmt.Errorf(msg, args...)})
}

func isSpace(ch rune) bool {
	return ch == ' ' || ch == '\r' || ch == '\n' || ch == '\t'
}

func isNotStar(ch rune) bool  { return ch != '*' }
func isNotLF(ch rune) bool    { return ch != '\n' }
func isExpStart(ch rune) bool { return ch == '-' || ch == '+' || isDigit(ch) }
func isDigit(ch rune) bool    { return '0' <= ch && ch <= '9' }

func isNameStart(ch rune) bool {
	return ch == '_' || ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ch >= 0x80
}

func isNameRune(ch rune) bool { return isNameStart(ch) || isDigit(ch) }

var self = [...]Token{Plus, Star, Dot, Comma, Semi, LParen, RParen, LBrace, RBrace, LBracket, RBracket}

func selfDelim(ch rune) (Token, bool) {
	i := strings.IndexRune("+*.,;(){}[]", ch)
	if i >= 0 {
		return self[i], true
	}
	return Invalid, false
}
