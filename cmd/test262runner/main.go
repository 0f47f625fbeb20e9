package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/example/esparse/config"
	"github.com/example/esparse/testrunner"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfgFile string
		verbose bool
		rc      config.RunnerConfig
	)
	cmd := &cobra.Command{
		Use:   "test262runner [dir]",
		Short: "Run the parser over test262 or test262-parser-tests",
		Long: `Parses every test of a conformance checkout and checks the outcome.

A directory with test/ is treated as test262 (frontmatter decides whether a
SyntaxError is expected). A directory with pass/ is treated as
test262-parser-tests (pass, pass-explicit, fail and early).`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg *config.Config
			var err error
			if cfgFile != "" {
				cfg, err = config.Load(cfgFile)
			} else {
				cfg, err = config.LoadFromEnv()
			}
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if len(args) > 0 {
				cfg.Runner.Dir = args[0]
			}
			if flags.Changed("filter") {
				cfg.Runner.Filter = rc.Filter
			}
			if flags.Changed("limit") {
				cfg.Runner.Limit = rc.Limit
			}
			if flags.Changed("workers") {
				cfg.Runner.Workers = rc.Workers
			}
			if flags.Changed("timeout") {
				cfg.Runner.Timeout = rc.Timeout
			}
			if cfg.Runner.Dir == "" {
				cfg.Runner.Dir = "test262"
			}
			if _, err := os.Stat(cfg.Runner.Dir); os.IsNotExist(err) {
				return fmt.Errorf("test directory not found at %s; clone https://github.com/tc39/test262 or https://github.com/tc39/test262-parser-tests", cfg.Runner.Dir)
			}

			level := cfg.LogLevel()
			if verbose {
				level = zerolog.DebugLevel
			}
			logger := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), NoColor: !cfg.Output.Color}).
				Level(level).
				With().Timestamp().Logger()

			results, summary, err := testrunner.Run(testrunner.Config{
				Dir:       cfg.Runner.Dir,
				Filter:    cfg.Runner.Filter,
				Limit:     cfg.Runner.Limit,
				Workers:   cfg.Runner.Workers,
				Timeout:   cfg.Runner.Timeout.Duration,
				CacheSize: cfg.Runner.CacheSize,
				Verbose:   verbose,
				Logger:    logger,
			})
			if err != nil {
				return err
			}
			testrunner.WriteReport(cmd.OutOrStdout(), results, summary, verbose)
			if summary.Failed > 0 || summary.Errors > 0 {
				return fmt.Errorf("%d failed, %d errors", summary.Failed, summary.Errors)
			}
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: $ESPARSE_CONFIG or ./esparse.toml)")
	flags.StringVar(&rc.Filter, "filter", "", "filter tests by path substring")
	flags.IntVar(&rc.Limit, "limit", 0, "maximum number of tests to run (0 = all)")
	flags.IntVar(&rc.Workers, "workers", 4, "parallel parses")
	flags.DurationVar(&rc.Timeout.Duration, "timeout", 0, "per-test timeout")
	flags.BoolVarP(&verbose, "verbose", "v", false, "print every result and debug logs")
	return cmd
}
