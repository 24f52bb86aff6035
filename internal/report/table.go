/*
PURPOSE:
  Renders run summaries as console tables (ASCII or Markdown).

REQUIREMENTS:
  User-specified:
  - Print the per-type breakdown after a run.

  Implementation-discovered:
  - A failures table makes the report actionable without opening the JSON.
  - Markdown output pastes straight into pull requests and wikis.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli (run)
  - Dependencies: github.com/jedib0t/go-pretty/v6

ERROR HANDLING:
  - None; rendering cannot fail.

IMPLEMENTATION RULES:
  - Rows sorted by type so output is stable.

USAGE:
  fmt.Println(report.RenderTable(summary, report.ASCII))

SELF-HEALING INSTRUCTIONS:
  - If columns misalign, check SetColumnConfigs numbering (1-based).

RELATED FILES:
  - internal/report/summary.go

MAINTENANCE:
  - Update when TypeStats gains columns.
*/

package report

import (
	"fmt"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/daryltucker/lexbench/internal/model"
)

// Mode controls the table output format.
type Mode int

const (
	ASCII    Mode = iota // Fixed-width terminal tables
	Markdown             // GitHub-flavoured Markdown tables
)

// RenderTable renders the per-type breakdown of s with a totals footer.
// Rows are sorted by type so output is stable.
func RenderTable(s model.Summary, m Mode) string {
	w := table.NewWriter()
	if m == ASCII {
		w.SetStyle(table.StyleLight)
	}

	w.AppendHeader(table.Row{"Type", "Passed", "Pass Rate", "Score", "Score %"})

	kinds := make([]string, 0, len(s.ByType))
	for k := range s.ByType {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)

	for _, k := range kinds {
		st := s.ByType[k]
		w.AppendRow(table.Row{
			k,
			fmt.Sprintf("%d/%d", st.Passed, st.Count),
			fmt.Sprintf("%.1f%%", st.PassRate*100),
			fmt.Sprintf("%.2f/%.2f", st.TotalScore, st.MaxScore),
			fmt.Sprintf("%.1f%%", st.Percentage),
		})
	}
	w.AppendFooter(table.Row{
		"TOTAL",
		fmt.Sprintf("%d/%d", s.PassedTests, s.TotalTests),
		fmt.Sprintf("%.1f%%", s.PassRate*100),
		fmt.Sprintf("%.2f/%.2f", s.OverallScore, s.MaxScore),
		fmt.Sprintf("%.1f%%", s.OverallPercentage),
	})
	w.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})

	if m == Markdown {
		return w.RenderMarkdown()
	}
	return w.Render()
}

// RenderFailures renders one row per failed outcome (id, type, score, error).
// Returns "" when every outcome passed.
func RenderFailures(s model.Summary, m Mode) string {
	w := table.NewWriter()
	if m == ASCII {
		w.SetStyle(table.StyleLight)
	}
	w.AppendHeader(table.Row{"ID", "Type", "Score", "Error"})

	n := 0
	for _, o := range s.Results {
		if o.Passed {
			continue
		}
		w.AppendRow(table.Row{o.ID, o.Type, fmt.Sprintf("%.2f", o.Score), o.Error})
		n++
	}
	if n == 0 {
		return ""
	}
	w.SetColumnConfigs([]table.ColumnConfig{{Number: 4, WidthMax: 60}})

	if m == Markdown {
		return w.RenderMarkdown()
	}
	return w.Render()
}
