package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"brook/internal/ast"
	"brook/internal/diagfmt"
	"brook/internal/lexer"
	"brook/internal/parser"
	"brook/internal/source"
	"brook/internal/trace"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file.bk",
	Short: "Parse a brook source file and print its syntax tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}

	fs := source.NewFileSet()
	id, err := fs.Load(args[0])
	if err != nil {
		return err
	}
	file := fs.Get(id)

	sp := trace.Begin(trace.FromContext(cmd.Context()), trace.ScopePass, "parse", 0)
	builder := ast.NewBuilder(ast.Hints{})
	fileID, err := parser.ParseFile(lexer.New(file), builder)
	sp.End(file.Path)
	if err != nil {
		return reportCompileError(cmd, err)
	}

	if format == "json" {
		return diagfmt.FormatASTJSON(cmd.OutOrStdout(), builder, fileID)
	}
	return diagfmt.FormatASTPretty(cmd.OutOrStdout(), builder, fileID, fs)
}
