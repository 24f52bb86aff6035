/*
PURPOSE:
  Defines the root Cobra command for the lexbench CLI.
  Handles global flags and command initialization.

REQUIREMENTS:
  User-specified:
  - Provide a CLI interface.
  - Support global flags like --config.

  Implementation-discovered:
  - Needs to expose an Execute() function for main.go.
  - Log level and format are global so every subcommand logs the same way.
  - Tests need a fresh command tree per invocation (flag state is sticky).

ARCHITECTURE INTEGRATION:
  - Called by: cmd/lexbench/main.go
  - Calls: Child commands (run, list, history)
  - Uses: internal/output (logger setup)

ERROR HANDLING:
  - Returns error to main.go for exit code handling.
  - Cobra's own error/usage printing is silenced; main.go prints once.

IMPLEMENTATION RULES:
  - Use `PersistentFlags()` for flags available to all subcommands.
  - Keep Run logic in subcommands, Root is usually empty or helps.

USAGE:
  Called by main.go.

SELF-HEALING INSTRUCTIONS:
  - If adding new global flags, add them to globalOptions and newRootCmd().

RELATED FILES:
  - cmd/lexbench/main.go
  - internal/cli/run.go

MAINTENANCE:
  - Update when adding global configuration options.
*/

package cli

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/daryltucker/lexbench/internal/output"
)

// globalOptions holds persistent flag values shared by every subcommand.
type globalOptions struct {
	// cfgFile stores the path to the config file (if specified via flag)
	cfgFile   string
	logLevel  string
	logFormat string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "lexbench",
		Short: "Scoring harness for legal question-answering systems",
		Long: `lexbench runs a bank of legal questions against a question-answering
system, grades every answer (fact_exact, evidence_set, conflict_gap) and
writes a JSON report. Use 'run --help' for benchmark options.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			output.Init(opts.logLevel, opts.logFormat, cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default is ./lexbench.yaml or ./lexbench.yml)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text", "Log format: text or json")

	rootCmd.AddCommand(
		newRunCmd(opts),
		newListCmd(opts),
		newHistoryCmd(opts),
	)
	return rootCmd
}

// Execute executes the root command. Interrupts cancel the running benchmark;
// questions not yet answered are reported as failed.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}
