/*
PURPOSE:
  Aggregator. Folds graded outcomes into the run summary.

REQUIREMENTS:
  User-specified:
  - Pass rate and overall percentage, overall and per archetype.
  - Empty inputs yield zero ratios, never a division by zero.
  - The summary is recomputable from the outcome list at any time.

  Implementation-discovered:
  - Reports need a stable identity across files, CSV and history (run id).

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli
  - Consumes: []model.Outcome
  - Produces: model.Summary

ERROR HANDLING:
  - None: Summarize is total.

IMPLEMENTATION RULES:
  - No side effects; the clock is passed in.

USAGE:
  s := report.Summarize(outcomes, time.Now())

SELF-HEALING INSTRUCTIONS:
  - If counts disagree with the outcome list, the bug is here.

RELATED FILES:
  - internal/model/types.go
  - internal/report/table.go

MAINTENANCE:
  - Update when new aggregate fields are added to model.Summary.
*/

package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/daryltucker/lexbench/internal/model"
)

// Summarize aggregates outcomes into a Summary stamped with now.
func Summarize(outcomes []model.Outcome, now time.Time) model.Summary {
	s := model.Summary{
		RunID:     uuid.NewString(),
		Timestamp: now.Format(time.RFC3339),
		ByType:    make(map[string]model.TypeStats),
		Results:   make([]model.Outcome, len(outcomes)),
	}
	copy(s.Results, outcomes)

	for _, o := range outcomes {
		s.TotalTests++
		if o.Passed {
			s.PassedTests++
		}
		s.OverallScore += o.Score
		s.MaxScore += o.MaxScore

		st := s.ByType[o.Type]
		st.Count++
		if o.Passed {
			st.Passed++
		}
		st.TotalScore += o.Score
		st.MaxScore += o.MaxScore
		s.ByType[o.Type] = st
	}

	s.PassRate = ratio(float64(s.PassedTests), float64(s.TotalTests))
	s.OverallPercentage = ratio(s.OverallScore, s.MaxScore) * 100

	for kind, st := range s.ByType {
		st.PassRate = ratio(float64(st.Passed), float64(st.Count))
		st.Percentage = ratio(st.TotalScore, st.MaxScore) * 100
		s.ByType[kind] = st
	}
	return s
}

// ratio returns num/den, or 0 when den is 0.
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
