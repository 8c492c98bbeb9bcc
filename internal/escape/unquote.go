// Copyright (C) 2025 The phan authors. All Rights Reserved.

// Package escape handles quoting and unquoting of PHP string literals.
package escape

import (
	"errors"
	"unicode/utf8"

	"go4.org/mem"
)

// Unquote decodes a byte slice containing the body of a double-quoted PHP
// string literal. The input must have the enclosing quotation marks already
// removed.
//
// Escape sequences are replaced with their unescaped equivalents. Following
// PHP, an escape with no defined meaning is kept literally, backslash
// included. Unquote reports an error for an escape sequence cut short by the
// end of the input.
func Unquote(src mem.RO) ([]byte, error) {
	dec := make([]byte, 0, src.Len())
	i := mem.IndexByte(src, '\\')
	if i < 0 {
		return mem.Append(dec, src), nil
	}

	putByte := func(bs ...byte) { dec = append(dec, bs...) }
	putRune := func(r rune) {
		var buf [6]byte
		n := utf8.EncodeRune(buf[:], r)
		dec = append(dec, buf[:n]...)
	}
	for src.Len() != 0 {
		dec = mem.Append(dec, src.SliceTo(i))

		src = src.SliceFrom(i + 1)
		if src.Len() == 0 {
			return nil, errors.New("incomplete escape sequence")
		}
		r, n := mem.DecodeRune(src)
		if n == 0 {
			n++
		}

		src = src.SliceFrom(n)
		switch r {
		case '"', '\\', '$':
			putByte(byte(r))
		case 'n':
			putByte('\n')
		case 't':
			putByte('\t')
		case 'r':
			putByte('\r')
		case 'v':
			putByte('\v')
		case 'f':
			putByte('\f')
		case 'e':
			putByte(0x1b)
		case 'x':
			nd, v := parseHex(src, 2)
			if nd == 0 {
				// \x with no hex digits is literal, per PHP.
				putByte('\\', 'x')
			} else {
				putByte(byte(v))
				src = src.SliceFrom(nd)
			}
		case 'u':
			var ok bool
			src, ok = unquoteCodepoint(src, putRune)
			if !ok {
				return nil, errors.New("malformed Unicode escape")
			}
		case '0', '1', '2', '3', '4', '5', '6', '7':
			nd, v := parseOctal(src, r-'0', 2)
			putByte(byte(v))
			src = src.SliceFrom(nd)
		default:
			// Unknown escapes stay as written.
			putByte('\\')
			putRune(r)
		}

		// Look for the next escape sequence, and if one is not found we can blit
		// the rest of the input and go home.
		i = mem.IndexByte(src, '\\')
		if i < 0 {
			dec = mem.Append(dec, src)
			break
		}
	}
	return dec, nil
}

// UnquoteSingle decodes the body of a single-quoted PHP string literal, in
// which only \' and \\ are escape sequences.
func UnquoteSingle(src mem.RO) ([]byte, error) {
	dec := make([]byte, 0, src.Len())
	for src.Len() != 0 {
		i := mem.IndexByte(src, '\\')
		if i < 0 {
			return mem.Append(dec, src), nil
		}
		dec = mem.Append(dec, src.SliceTo(i))
		src = src.SliceFrom(i + 1)
		if src.Len() == 0 {
			return nil, errors.New("incomplete escape sequence")
		}
		switch b := src.At(0); b {
		case '\'', '\\':
			dec = append(dec, b)
		default:
			dec = append(dec, '\\', b)
		}
		src = src.SliceFrom(1)
	}
	return dec, nil
}

// unquoteCodepoint decodes the "{HHHH}" tail of a \u{...} escape, reporting
// the unconsumed remainder of src.
func unquoteCodepoint(src mem.RO, putRune func(rune)) (mem.RO, bool) {
	if src.Len() == 0 || src.At(0) != '{' {
		// \u without a brace is literal, per PHP.
		putRune('\\')
		putRune('u')
		return src, true
	}
	end := mem.IndexByte(src, '}')
	if end < 1 {
		return src, false
	}
	nd, v := parseHex(src.SliceFrom(1), end-1)
	if nd != end-1 || v > utf8.MaxRune {
		return src, false
	}
	putRune(rune(v))
	return src.SliceFrom(end + 1), true
}

// parseHex consumes up to max leading hex digits of data, reporting how many
// digits were consumed and their value.
func parseHex(data mem.RO, max int) (int, int64) {
	var v int64
	var n int
	for n < data.Len() && n < max {
		b := data.At(n)
		switch {
		case '0' <= b && b <= '9':
			v = v<<4 + int64(b-'0')
		case 'a' <= b && b <= 'f':
			v = v<<4 + int64(b-'a'+10)
		case 'A' <= b && b <= 'F':
			v = v<<4 + int64(b-'A'+10)
		default:
			return n, v
		}
		n++
	}
	return n, v
}

// parseOctal consumes up to max additional octal digits of data after a
// leading digit already decoded into v.
func parseOctal(data mem.RO, v rune, max int) (int, int64) {
	acc := int64(v)
	var n int
	for n < data.Len() && n < max {
		b := data.At(n)
		if b < '0' || b > '7' {
			break
		}
		acc = acc<<3 + int64(b-'0')
		n++
	}
	return n, acc & 0xff
}
