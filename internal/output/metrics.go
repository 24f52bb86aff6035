/*
PURPOSE:
  Exports run results as Prometheus gauges in node_exporter textfile format.

REQUIREMENTS:
  User-specified:
  - Optional metrics file per run.

  Implementation-discovered:
  - A fresh registry per run keeps repeated runs in one process apart.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli (run)
  - Dependencies: github.com/prometheus/client_golang

ERROR HANDLING:
  - Returns wrapped error if the textfile cannot be written.
  - Caller logs the failure; the run result is unaffected.

IMPLEMENTATION RULES:
  - Gauges only; every value describes the last run.

USAGE:
  err := output.WriteMetricsFile("/var/lib/node_exporter/lexbench.prom", summary)

SELF-HEALING INSTRUCTIONS:
  - If a metric is missing from the file, check Observe and MustRegister.

RELATED FILES:
  - internal/model/types.go

MAINTENANCE:
  - Update when Summary gains fields worth exporting.
*/

package output

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/daryltucker/lexbench/internal/model"
)

// Metrics holds the gauges exported for a finished run. Each run gets its
// own registry so repeated runs in one process never collide.
type Metrics struct {
	Registry          *prometheus.Registry
	QuestionsTotal    *prometheus.GaugeVec
	QuestionsPassed   *prometheus.GaugeVec
	ScoreRatio        *prometheus.GaugeVec
	PassRate          prometheus.Gauge
	OverallPercentage prometheus.Gauge
}

// NewMetrics registers the lexbench gauges on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		QuestionsTotal: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "lexbench_questions_total",
			Help: "Questions graded in the last run, by type.",
		}, []string{"type"}),
		QuestionsPassed: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "lexbench_questions_passed",
			Help: "Questions passed in the last run, by type.",
		}, []string{"type"}),
		ScoreRatio: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "lexbench_score_ratio",
			Help: "Sum of scores over sum of max scores in the last run, by type.",
		}, []string{"type"}),
		PassRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lexbench_pass_rate",
			Help: "Passed questions over total questions in the last run.",
		}),
		OverallPercentage: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lexbench_overall_percentage",
			Help: "Overall score percentage of the last run.",
		}),
	}
	m.Registry.MustRegister(m.QuestionsTotal, m.QuestionsPassed, m.ScoreRatio, m.PassRate, m.OverallPercentage)
	return m
}

// Observe sets every gauge from summary.
func (m *Metrics) Observe(summary model.Summary) {
	for kind, st := range summary.ByType {
		m.QuestionsTotal.WithLabelValues(kind).Set(float64(st.Count))
		m.QuestionsPassed.WithLabelValues(kind).Set(float64(st.Passed))
		m.ScoreRatio.WithLabelValues(kind).Set(st.Percentage / 100)
	}
	m.PassRate.Set(summary.PassRate)
	m.OverallPercentage.Set(summary.OverallPercentage)
}

// WriteMetricsFile writes summary as a node_exporter textfile.
func WriteMetricsFile(path string, summary model.Summary) error {
	m := NewMetrics()
	m.Observe(summary)
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}
	return nil
}
