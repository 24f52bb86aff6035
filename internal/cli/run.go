/*
PURPOSE:
  Defines the 'run' subcommand.
  Executes the full benchmark: load questions, query the system, grade,
  aggregate, persist, print.

REQUIREMENTS:
  User-specified:
  - Run the benchmarks.
  - Specific flags for overrides.
  - Exit status is non-zero when the pass rate is below the threshold.

  Implementation-discovered:
  - Need to load config first.
  - Apply flag overrides to config (only flags the user actually set).
  - Metrics and history are side channels; their failure must not fail a run.
  - CSV rows stream from the harness as questions finish.
  - An interrupted run still persists its report and history.

ARCHITECTURE INTEGRATION:
  - Calls: internal/question, internal/engine, internal/report,
    internal/output, internal/history
  - Uses: internal/config

ERROR HANDLING:
  - Returns error if config load, validation, question loading or the
    report write fails.
  - Returns ErrThresholdNotMet (wrapped) when the run completes below the
    pass threshold.

IMPLEMENTATION RULES:
  - Setup flags in newRunCmd().
  - Logic: Load Config -> Override -> Validate -> Load Questions ->
    Harness.Run -> Summarize -> Write -> Print -> Threshold.

USAGE:
  lexbench run --bench-dir ./bench --type fact_exact -o results.json

SELF-HEALING INSTRUCTIONS:
  - Check flag names match Config struct yaml tags generally.

RELATED FILES:
  - internal/cli/root.go
  - internal/config/config.go

MAINTENANCE:
  - Update when adding new CLI overrides.
*/

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/daryltucker/lexbench/internal/config"
	"github.com/daryltucker/lexbench/internal/engine"
	"github.com/daryltucker/lexbench/internal/history"
	"github.com/daryltucker/lexbench/internal/model"
	"github.com/daryltucker/lexbench/internal/output"
	"github.com/daryltucker/lexbench/internal/question"
	"github.com/daryltucker/lexbench/internal/report"
	"github.com/daryltucker/lexbench/internal/scoring"
)

// ErrThresholdNotMet is returned by run when the aggregate pass rate falls
// below the configured pass threshold.
var ErrThresholdNotMet = errors.New("pass rate below threshold")

type runOptions struct {
	benchDir    string
	kind        string
	output      string
	csvFile     string
	metricsFile string
	historyDB   string
	system      string
	url         string
	parallel    int
	threshold   float64
	markdown    bool
}

func newRunCmd(g *globalOptions) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the benchmark suite",
		Long: `Executes the benchmark against the configured system under test.
The process follows a strict protocol:
1. Load: Reads every question bank under <bench-dir>/questions (or only <type>.json).
2. Query: Sends each question to the system (mock or HTTP).
3. Grade: Scores each answer with its archetype's grader.
4. Report: Writes the JSON report (and optional CSV / metrics / history).

The command exits non-zero when the pass rate is below pass_threshold.`,
		Example: `  # Run with defaults (uses lexbench.yaml if present, mock system)
  lexbench run

  # Only the fact_exact bank, report to a custom path
  lexbench run --bench-dir ./bench --type fact_exact -o out/fact.json

  # Query a live service with 4 workers and record history
  lexbench run --system http --url http://localhost:8080/query -j 4 --history-db runs.db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// 1. Load Config
			cfg, err := config.Load(g.cfgFile)
			if err != nil {
				return err
			}

			// 2. Overrides
			opts.apply(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			// 3. Execution
			return runBenchmark(cmd, cfg, opts.markdown)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.benchDir, "bench-dir", "", "Directory containing questions/ (default \".\")")
	f.StringVar(&opts.kind, "type", "", "Only run this archetype's bank (fact_exact, evidence_set, conflict_gap)")
	f.StringVarP(&opts.output, "output", "o", "", "Path of the JSON report (default benchmark_results.json)")
	f.StringVar(&opts.csvFile, "csv", "", "Also write per-question outcomes to this CSV file")
	f.StringVar(&opts.metricsFile, "metrics-file", "", "Also write Prometheus textfile metrics here")
	f.StringVar(&opts.historyDB, "history-db", "", "Record the run in this SQLite database")
	f.StringVar(&opts.system, "system", "", "System under test: mock or http")
	f.StringVar(&opts.url, "url", "", "Endpoint of the http system")
	f.IntVarP(&opts.parallel, "parallel", "j", 0, "Questions graded concurrently")
	f.Float64Var(&opts.threshold, "pass-threshold", 0, "Minimum pass rate for a zero exit status")
	f.BoolVar(&opts.markdown, "markdown", false, "Print tables as Markdown")

	return cmd
}

// apply copies every flag the user set onto cfg.
func (o *runOptions) apply(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("bench-dir") {
		cfg.BenchDir = o.benchDir
	}
	if f.Changed("type") {
		cfg.Type = o.kind
	}
	if f.Changed("output") {
		cfg.Output = o.output
	}
	if f.Changed("csv") {
		cfg.CSVFile = o.csvFile
	}
	if f.Changed("metrics-file") {
		cfg.MetricsFile = o.metricsFile
	}
	if f.Changed("history-db") {
		cfg.HistoryDB = o.historyDB
	}
	if f.Changed("system") {
		cfg.System.Kind = o.system
	}
	if f.Changed("url") {
		cfg.System.URL = o.url
		if !f.Changed("system") {
			cfg.System.Kind = config.SystemHTTP
		}
	}
	if f.Changed("parallel") {
		cfg.Parallel = o.parallel
	}
	if f.Changed("pass-threshold") {
		cfg.PassThreshold = o.threshold
	}
}

func runBenchmark(cmd *cobra.Command, cfg *config.Config, markdown bool) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	questions, err := question.NewStore(cfg.BenchDir).Load(cfg.Type)
	if err != nil {
		return err
	}
	output.Logger.Info("Loaded questions", "count", len(questions), "type", cfg.Type, "bench_dir", cfg.BenchDir)

	sys, err := engine.NewSystem(cfg)
	if err != nil {
		return err
	}

	h := engine.NewHarness(sys, scoring.New(cfg.AbstentionMarkers), cfg.Parallel)
	var csvWriter *output.CSVWriter
	if cfg.CSVFile != "" {
		csvWriter, err = output.NewCSVWriter(cfg.CSVFile)
		if err != nil {
			return fmt.Errorf("failed to create CSV: %w", err)
		}
		defer csvWriter.Close()
		h.Sink = csvWriter
	}

	start := time.Now()
	outcomes := h.Run(ctx, questions)
	summary := report.Summarize(outcomes, time.Now())
	output.Logger.Info("Run complete", "run_id", summary.RunID, "duration", time.Since(start).Round(time.Millisecond))

	// An interrupted run still gets its report, metrics and history.
	persistCtx := context.WithoutCancel(ctx)

	if err := output.WriteReport(cfg.Output, summary); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if csvWriter != nil {
		if err := csvWriter.Close(); err != nil {
			return fmt.Errorf("failed to write CSV: %w", err)
		}
	}
	if cfg.MetricsFile != "" {
		if err := output.WriteMetricsFile(cfg.MetricsFile, summary); err != nil {
			output.Logger.Warn("Metrics export failed", "path", cfg.MetricsFile, "error", err)
		}
	}
	if cfg.HistoryDB != "" {
		if err := recordHistory(persistCtx, cfg.HistoryDB, summary, cfg.Output); err != nil {
			output.Logger.Warn("History record failed", "path", cfg.HistoryDB, "error", err)
		}
	}

	printSummary(out, summary, cfg.Output, markdown)

	if !summary.Met(cfg.PassThreshold) {
		return fmt.Errorf("%w: %.1f%% < %.1f%%", ErrThresholdNotMet, summary.PassRate*100, cfg.PassThreshold*100)
	}
	return nil
}

func recordHistory(ctx context.Context, path string, summary model.Summary, reportPath string) error {
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Record(ctx, summary, reportPath)
}

func printSummary(w io.Writer, s model.Summary, reportPath string, markdown bool) {
	mode := report.ASCII
	if markdown {
		mode = report.Markdown
	}

	fmt.Fprintf(w, "Run %s\n", s.RunID)
	fmt.Fprintf(w, "Passed %d/%d (%.1f%%), score %.2f/%.2f (%.1f%%)\n\n",
		s.PassedTests, s.TotalTests, s.PassRate*100, s.OverallScore, s.MaxScore, s.OverallPercentage)
	fmt.Fprintln(w, report.RenderTable(s, mode))

	if failures := report.RenderFailures(s, mode); failures != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Failed questions:")
		fmt.Fprintln(w, failures)
	}
	fmt.Fprintf(w, "\nReport written to %s\n", reportPath)
}
