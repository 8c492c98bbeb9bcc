// Copyright (C) 2025 The phan authors. All Rights Reserved.

package syntax_test

import (
	"strings"
	"testing"

	"github.com/sanmai/phan/syntax"
)

var benchInput = []byte("<?php\n" + strings.Repeat(
	"$obj = new Widget(1, 2.5, \"label\");\necho $obj->name, $obj->size(3)[0];\n", 200))

func BenchmarkParse(b *testing.B) {
	b.SetBytes(int64(len(benchInput)))
	for i := 0; i < b.N; i++ {
		root, diags := syntax.Parse(benchInput)
		if root == nil || len(diags) != 0 {
			b.Fatalf("Parse failed: %v", diags)
		}
	}
}

func BenchmarkLocate(b *testing.B) {
	root, _ := syntax.Parse(benchInput)
	for i := 0; i < b.N; i++ {
		offset := (i * 37) % len(benchInput)
		syntax.Locate(root, offset)
	}
}
