package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/kr/pretty"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/example/esparse/ast"
	"github.com/example/esparse/diag"
	"github.com/example/esparse/parser"
)

func newParseCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a script or module and print its ESTree",
		Long: `Parses JavaScript and prints the ESTree as JSON, or as a Go value dump
with --format pretty. Reads stdin when no file or -e source is given.
Warnings go to stderr; a syntax error exits with status 1.`,
		Args: cobra.MaximumNArgs(1),
		RunE: a.runParse,
	}
	cmd.Flags().StringVar(&a.format, "format", "", "output format: json or pretty (default from config)")
	cmd.Flags().BoolVar(&a.comments, "comments", false, "include comments in the output")
	cmd.Flags().BoolVar(&a.regexp, "check-regexp", false, "warn about invalid regular expression literals")
	return cmd
}

// parseOutput is printed instead of the bare program when comments are
// collected.
type parseOutput struct {
	Program  *ast.Program   `json:"program"`
	Comments []*ast.Comment `json:"comments"`
}

func (a *app) parserOptions() []parser.Option {
	opts := a.cfg.ParserOptions()
	if a.module {
		opts = append(opts, parser.WithModule())
	}
	if a.comments {
		opts = append(opts, parser.WithComments())
	}
	if a.regexp {
		opts = append(opts, parser.WithRegExpCheck())
	}
	return append(opts, parser.WithLogger(a.log))
}

func (a *app) runParse(cmd *cobra.Command, args []string) error {
	source, file, err := a.readSource(cmd, args)
	if err != nil {
		return err
	}

	opts := a.parserOptions()
	res, err := parser.ParseProgram(source, file, opts...)
	if err != nil {
		return a.report(cmd, err, source, file)
	}

	formatter := diag.NewFormatter(a.useColor(cmd))
	for _, w := range res.Warnings {
		fmt.Fprint(cmd.ErrOrStderr(), formatter.FormatWarning(w, file, source))
	}

	format := a.format
	if format == "" {
		format = a.cfg.Output.Format
	}
	var out interface{} = res.Program
	if res.Comments != nil {
		out = parseOutput{Program: res.Program, Comments: res.Comments}
	}

	w := cmd.OutOrStdout()
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", a.cfg.Output.Indent)
		if err := enc.Encode(out); err != nil {
			return errors.Wrap(err, "encoding AST")
		}
	case "pretty":
		pretty.Fprintf(w, "%# v\n", out)
	default:
		return errors.Errorf("unknown format %q", format)
	}
	return nil
}
