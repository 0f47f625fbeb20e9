package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/esparse/lexer"
	"github.com/example/esparse/parser"
	"github.com/example/esparse/token"
)

func newTokensCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the token stream",
		Long: `Tokenizes JavaScript without parsing it and prints one token per line:
kind, value and span. Regular expressions and templates are recognized from
the lexer's own token contexts.`,
		Args: cobra.MaximumNArgs(1),
		RunE: a.runTokens,
	}
}

func (a *app) lexerOptions() []lexer.Option {
	opts := []lexer.Option{lexer.HashBang(a.cfg.Parser.AllowHashBang)}
	if a.module || a.cfg.Parser.SourceType == parser.SourceModule {
		opts = append(opts, lexer.Module())
	}
	return opts
}

func (a *app) runTokens(cmd *cobra.Command, args []string) error {
	source, file, err := a.readSource(cmd, args)
	if err != nil {
		return err
	}

	tokens, lexErr := lexer.New(source, a.lexerOptions()...).Tokenize()
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, tok := range tokens {
		fmt.Fprintf(tw, "%s\t%s\t%d-%d\t%s\n", tok.Type, tokenText(tok), tok.Start, tok.End, tok.StartPos)
	}
	tw.Flush()
	if lexErr != nil {
		return a.report(cmd, lexErr, source, file)
	}
	return nil
}

func tokenText(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return ""
	case token.RegExp:
		return "/" + tok.Value + "/" + tok.Flags
	case token.String, token.Template, token.InvalidTemplate:
		return fmt.Sprintf("%q", tok.Value)
	}
	return tok.Literal
}
