/*
PURPOSE:
  Defines the 'history' subcommand.
  Prints the most recent recorded runs.

ARCHITECTURE INTEGRATION:
  - Calls: internal/history.Store.Recent

ERROR HANDLING:
  - Errors when no history database is configured.

USAGE:
  lexbench history --history-db runs.db -n 5
*/

package cli

import (
	"errors"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/daryltucker/lexbench/internal/config"
	"github.com/daryltucker/lexbench/internal/history"
)

func newHistoryCmd(g *globalOptions) *cobra.Command {
	var dbPath string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent benchmark runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(g.cfgFile)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("history-db") {
				cfg.HistoryDB = dbPath
			}
			if cfg.HistoryDB == "" {
				return errors.New("no history database configured (set history_db or --history-db)")
			}

			store, err := history.Open(cfg.HistoryDB)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
				return nil
			}

			w := table.NewWriter()
			w.SetStyle(table.StyleLight)
			w.AppendHeader(table.Row{"Run", "Timestamp", "Passed", "Pass Rate", "Score %", "Report"})
			for _, r := range runs {
				w.AppendRow(table.Row{
					r.RunID,
					r.Timestamp,
					fmt.Sprintf("%d/%d", r.Passed, r.Total),
					fmt.Sprintf("%.1f%%", r.PassRate*100),
					fmt.Sprintf("%.1f%%", r.OverallPercentage),
					r.ReportPath,
				})
			}
			w.SetColumnConfigs([]table.ColumnConfig{
				{Number: 3, Align: text.AlignRight},
				{Number: 4, Align: text.AlignRight},
				{Number: 5, Align: text.AlignRight},
			})
			fmt.Fprintln(cmd.OutOrStdout(), w.Render())
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "history-db", "", "SQLite history database")
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of runs to show")
	return cmd
}
