// Copyright (C) 2025 The phan authors. All Rights Reserved.

package phan

import (
	"errors"
	"strings"

	"github.com/sanmai/phan/internal/escape"

	"go4.org/mem"
)

// Quote encodes src as a double-quoted PHP string literal. The contents are
// escaped and double quotation marks are added.
func Quote(src string) string { return `"` + string(escape.Quote(mem.S(src))) + `"` }

// Unquote decodes a PHP string literal, single or double quoted.  The
// quotation marks are removed and escape sequences are replaced with their
// unescaped equivalents.
//
// Following PHP, an escape sequence with no defined meaning decodes as the
// backslash followed by the escaped character. Unquote reports an error for
// an incomplete trailing escape sequence or missing quotation marks.
func Unquote(src string) ([]byte, error) {
	if len(src) < 2 || src[0] != src[len(src)-1] {
		return nil, errors.New("missing quotations")
	}
	body := mem.S(src[1 : len(src)-1])
	switch {
	case strings.HasPrefix(src, `"`):
		return escape.Unquote(body)
	case strings.HasPrefix(src, `'`):
		return escape.UnquoteSingle(body)
	}
	return nil, errors.New("missing quotations")
}
