// Copyright (C) 2025 The phan authors. All Rights Reserved.

// Program phan-nav resolves an editor position in a PHP file to the syntax
// node it points at, printing the node's kind and source range. It is a
// command-line front end for the same machinery an editor-integration server
// uses to answer go-to-definition and hover requests.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sanmai/phan/ast"
	"github.com/sanmai/phan/nav"
)

var (
	lineFlag    int
	colFlag     int
	versionFlag int
	noColor     bool
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "phan-nav FILE",
	Short: "Resolve an editor position to a syntax node",
	Long: `Resolve a 1-based line/column position in a PHP file to the abstract
syntax node enclosing it, the way an editor's go-to-definition or hover
request would.`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,

	SilenceUsage: true,
}

func init() {
	rootCmd.Flags().IntVarP(&lineFlag, "line", "l", 1, "Line of the position, 1-based")
	rootCmd.Flags().IntVarP(&colFlag, "col", "c", 1, "Column of the position, 1-based")
	rootCmd.Flags().IntVar(&versionFlag, "ast-version", int(ast.V100), "AST format version to convert with")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colorized output")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print parse diagnostics")
}

func runResolve(cmd *cobra.Command, args []string) error {
	if noColor {
		color.NoColor = true
	}
	path := args[0]

	if verbose {
		src, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		_, diags, err := ast.Convert(src, ast.Version(versionFlag), nav.OffsetFor(src, lineFlag, colFlag))
		if err != nil {
			return err
		}
		warn := color.New(color.FgYellow)
		for _, d := range diags {
			warn.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", path, d)
		}
	}

	r := nav.Resolver{Version: ast.Version(versionFlag)}
	node, loc, err := r.Resolve(path, lineFlag, colFlag)
	if errors.Is(err, nav.ErrNoSelection) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s:%d:%d: no syntax element at position\n", path, lineFlag, colFlag)
		return nil
	} else if err != nil {
		return err
	}

	kind := color.New(color.FgGreen, color.Bold)
	fmt.Fprintf(cmd.OutOrStdout(), "%s:%d:%d: %s", path, lineFlag, colFlag, kind.Sprint(node.Kind))
	if node.Text != "" {
		fmt.Fprintf(cmd.OutOrStdout(), " %q", node.Text)
	}
	fmt.Fprintf(cmd.OutOrStdout(), " at %d:%d-%d:%d\n",
		loc.Range.Start.Line+1, loc.Range.Start.Character+1,
		loc.Range.End.Line+1, loc.Range.End.Character+1)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
