/*
PURPOSE:
  Defines the 'list' subcommand.
  Loads the question banks and prints how many questions each archetype has.

REQUIREMENTS:
  User-specified:
  - List available questions.

  Implementation-discovered:
  - Useful validation step before full run (schema errors surface here).

ARCHITECTURE INTEGRATION:
  - Calls: internal/question.Store.Load, question.Counts

ERROR HANDLING:
  - Returns the load error (names the offending file).

IMPLEMENTATION RULES:
  - Simple output to stdout.

USAGE:
  lexbench list --bench-dir ./bench

SELF-HEALING INSTRUCTIONS:
  - None.

RELATED FILES:
  - internal/question/load.go

MAINTENANCE:
  - None.
*/

package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/daryltucker/lexbench/internal/config"
	"github.com/daryltucker/lexbench/internal/question"
	"github.com/daryltucker/lexbench/internal/scoring"
)

func newListCmd(g *globalOptions) *cobra.Command {
	var benchDir, kind string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List question counts per archetype",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(g.cfgFile)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("bench-dir") {
				cfg.BenchDir = benchDir
			}
			if cmd.Flags().Changed("type") {
				cfg.Type = kind
			}
			if err := config.CheckType(cfg.Type); err != nil {
				return err
			}

			questions, err := question.NewStore(cfg.BenchDir).Load(cfg.Type)
			if err != nil {
				return err
			}

			counts := question.Counts(questions)
			kinds := make([]string, 0, len(counts))
			for k := range counts {
				kinds = append(kinds, k)
			}
			sort.Strings(kinds)

			out := cmd.OutOrStdout()
			for _, k := range kinds {
				marker := ""
				if scoring.ParseArchetype(k) == scoring.Unrecognized {
					marker = " (unrecognized, will score 0)"
				}
				fmt.Fprintf(out, "- %s: %d%s\n", k, counts[k], marker)
			}
			fmt.Fprintf(out, "Total: %d\n", len(questions))
			return nil
		},
	}

	cmd.Flags().StringVar(&benchDir, "bench-dir", "", "Directory containing questions/")
	cmd.Flags().StringVar(&kind, "type", "", "Only list this archetype's bank")
	return cmd
}
