// Package cmd implements the esparse command line: parse JavaScript to ESTree
// JSON or dump its token stream.
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/example/esparse/config"
	"github.com/example/esparse/diag"
)

// errReported is returned after a diagnostic has already been printed.
var errReported = errors.New("parse failed")

// app holds the state shared by the subcommands of one invocation.
type app struct {
	cfgFile  string
	verbose  bool
	inline   string
	module   bool
	format   string
	comments bool
	regexp   bool
	color    bool

	cfg *config.Config
	log zerolog.Logger
}

// NewRootCmd builds the esparse command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "esparse",
		Short: "ECMAScript parser producing ESTree JSON",
		Long: `esparse parses JavaScript scripts and modules into ESTree-shaped JSON.

Examples:
  esparse parse app.js
  esparse parse --module -e 'export default 1'
  esparse parse --format pretty < app.js
  esparse tokens app.js`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: $ESPARSE_CONFIG or ./esparse.toml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log debug output to stderr")
	root.PersistentFlags().StringVarP(&a.inline, "eval", "e", "", "parse inline source instead of a file")
	root.PersistentFlags().BoolVar(&a.module, "module", false, "parse with the module goal")
	root.PersistentFlags().BoolVar(&a.color, "color", false, "color diagnostics")

	root.AddCommand(newParseCmd(a), newTokensCmd(a))
	return root
}

// Execute runs the command line against os.Args.
func Execute() error {
	err := NewRootCmd().Execute()
	if err != nil && err != errReported {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	return err
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	var err error
	if a.cfgFile != "" {
		a.cfg, err = config.Load(a.cfgFile)
	} else {
		a.cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}

	level := a.cfg.LogLevel()
	if a.verbose {
		level = zerolog.DebugLevel
	}
	a.log = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), NoColor: !a.useColor(cmd)}).
		Level(level).
		With().Timestamp().Logger()
	return nil
}

func (a *app) useColor(cmd *cobra.Command) bool {
	if cmd.Flags().Changed("color") {
		return a.color
	}
	return a.cfg.Output.Color
}

// readSource returns the inline source, the named file, or stdin, along with
// the name used in diagnostics.
func (a *app) readSource(cmd *cobra.Command, args []string) (string, string, error) {
	if a.inline != "" {
		return a.inline, "", nil
	}
	if len(args) > 0 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", errors.Wrapf(err, "reading %s", args[0])
		}
		return string(data), args[0], nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", "", errors.Wrap(err, "reading stdin")
	}
	return string(data), "<stdin>", nil
}

// report prints a fatal diagnostic with its source context.
func (a *app) report(cmd *cobra.Command, err error, source, file string) error {
	derr, ok := errors.Cause(err).(*diag.Error)
	if !ok {
		return err
	}
	if derr.File == "" {
		derr.File = file
	}
	fmt.Fprint(cmd.ErrOrStderr(), diag.NewFormatter(a.useColor(cmd)).Format(derr, source))
	return errReported
}
