// Copyright (C) 2025 The phan authors. All Rights Reserved.

package nav_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sanmai/phan"
	"github.com/sanmai/phan/ast"
	"github.com/sanmai/phan/nav"
	"github.com/sourcegraph/go-lsp"
)

func TestOffsetFor(t *testing.T) {
	src := []byte("<?php\necho $x;\n") // line starts 0, 6, 15

	tests := []struct {
		line, col int
		want      int
	}{
		{1, 1, 0},
		{1, 3, 2},
		{2, 1, 6},
		{2, 6, 11}, // the "$" of $x

		// Columns beyond a line end clamp to the line's newline.
		{1, 100, 5},
		{2, 100, 14},

		// Out-of-range lines and columns clamp instead of failing.
		{0, 0, 0},
		{-3, 4, 3},
		{3, 1, 15},
		{99, 99, 15},
	}
	for _, test := range tests {
		if got := nav.OffsetFor(src, test.line, test.col); got != test.want {
			t.Errorf("OffsetFor(%d, %d): got %d, want %d", test.line, test.col, got, test.want)
		}
	}
}

func TestPositionFor(t *testing.T) {
	src := []byte("<?php\necho $x;\n")

	tests := []struct {
		offset int
		want   lsp.Position
	}{
		{0, lsp.Position{Line: 0, Character: 0}},
		{5, lsp.Position{Line: 0, Character: 5}},
		{6, lsp.Position{Line: 1, Character: 0}},
		{11, lsp.Position{Line: 1, Character: 5}},
		{15, lsp.Position{Line: 2, Character: 0}},

		{-5, lsp.Position{Line: 0, Character: 0}},
		{100, lsp.Position{Line: 2, Character: 0}},
	}
	for _, test := range tests {
		if got := nav.PositionFor(src, test.offset); got != test.want {
			t.Errorf("PositionFor(%d): got %+v, want %+v", test.offset, got, test.want)
		}
	}

	want := lsp.Range{
		Start: lsp.Position{Line: 1, Character: 5},
		End:   lsp.Position{Line: 1, Character: 7},
	}
	if got := nav.RangeFor(src, phan.Span{Pos: 11, End: 13}); got != want {
		t.Errorf("RangeFor: got %+v, want %+v", got, want)
	}
}

func TestResolve(t *testing.T) {
	files := map[string]string{
		"vars.php": "<?php\necho $x;\n",
		"prop.php": "<?php\n$obj->prop;\n",
	}
	r := nav.Resolver{ReadFile: func(path string) ([]byte, error) {
		src, ok := files[path]
		if !ok {
			return nil, fs.ErrNotExist
		}
		return []byte(src), nil
	}}

	t.Run("Variable", func(t *testing.T) {
		node, loc, err := r.Resolve("vars.php", 2, 6)
		if err != nil {
			t.Fatalf("Resolve: unexpected error: %v", err)
		}
		if node.Kind != ast.Var || node.Text != "x" {
			t.Errorf("Node: got (%v, %q), want (%v, %q)", node.Kind, node.Text, ast.Var, "x")
		}
		want := lsp.Location{
			URI: "file://vars.php",
			Range: lsp.Range{
				Start: lsp.Position{Line: 1, Character: 5},
				End:   lsp.Position{Line: 1, Character: 7},
			},
		}
		if diff := cmp.Diff(want, loc); diff != "" {
			t.Errorf("Location: (-want, +got)\n%s", diff)
		}
	})

	t.Run("Property", func(t *testing.T) {
		// The column lands on the bare name, which resolves to the whole
		// property access.
		node, loc, err := r.Resolve("prop.php", 2, 7)
		if err != nil {
			t.Fatalf("Resolve: unexpected error: %v", err)
		}
		if node.Kind != ast.Prop {
			t.Errorf("Node: got %v, want %v", node.Kind, ast.Prop)
		}
		want := lsp.Range{
			Start: lsp.Position{Line: 1, Character: 0},
			End:   lsp.Position{Line: 1, Character: 10},
		}
		if diff := cmp.Diff(want, loc.Range); diff != "" {
			t.Errorf("Range: (-want, +got)\n%s", diff)
		}
	})

	t.Run("NoSelection", func(t *testing.T) {
		_, _, err := r.Resolve("vars.php", 3, 1)
		if !errors.Is(err, nav.ErrNoSelection) {
			t.Errorf("Resolve: got error %v, want %v", err, nav.ErrNoSelection)
		}
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, _, err := r.Resolve("nonesuch.php", 1, 1)
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("Resolve: got error %v, want %v", err, fs.ErrNotExist)
		}
	})

	t.Run("BadVersion", func(t *testing.T) {
		r := nav.Resolver{Version: 7, ReadFile: r.ReadFile}
		_, _, err := r.Resolve("vars.php", 1, 1)
		if !errors.Is(err, ast.ErrUnsupportedVersion) {
			t.Errorf("Resolve: got error %v, want %v", err, ast.ErrUnsupportedVersion)
		}
	})
}

// TestResolve_disk checks the zero Resolver against a real file.
func TestResolve_disk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.php")
	if err := os.WriteFile(path, []byte("<?php echo $x;"), 0600); err != nil {
		t.Fatalf("Write input: %v", err)
	}

	var r nav.Resolver
	node, loc, err := r.Resolve(path, 1, 12)
	if err != nil {
		t.Fatalf("Resolve: unexpected error: %v", err)
	}
	if node.Kind != ast.Var || node.Text != "x" {
		t.Errorf("Node: got (%v, %q), want (%v, %q)", node.Kind, node.Text, ast.Var, "x")
	}
	if want := lsp.DocumentURI("file://" + path); loc.URI != want {
		t.Errorf("URI: got %q, want %q", loc.URI, want)
	}
}
