/*
PURPOSE:
  Grades evidence_set questions by recall over critical requirements and
  precision over retrieved snippets.

REQUIREMENTS:
  User-specified:
  - 0.5 when recall >= evidence_recall_min, 0.3 when precision >=
    evidence_precision_min, 0.2 for a required citation.
  - A snippet counts when it contains the required substring.

ARCHITECTURE INTEGRATION:
  - Called by: scoring.Engine.Grade

ERROR HANDLING:
  - None; empty inputs have defined ratios.

IMPLEMENTATION RULES:
  - Absent must_include matches nothing; empty must_include matches all.

RELATED FILES:
  - internal/scoring/engine.go
*/

package scoring

import (
	"strings"

	"github.com/daryltucker/lexbench/internal/model"
)

const (
	evidenceRecallWeight    = 0.5
	evidencePrecisionWeight = 0.3
	evidenceCitationWeight  = 0.2
)

func gradeEvidenceSet(q model.Question, c model.Candidate) model.Outcome {
	t := newTally()

	recall := evidenceRecall(q.RequiredEvidence, c.Evidence)
	precision := evidencePrecision(q.RequiredEvidence, c.Evidence)
	t.details["evidence_recall"] = recall
	t.details["evidence_precision"] = precision

	if recall >= q.Scoring.RecallMin() {
		t.score += evidenceRecallWeight
	}
	if precision >= q.Scoring.PrecisionMin() {
		t.score += evidencePrecisionWeight
	}

	if q.Scoring.CitationRequired {
		if c.HasCitation() {
			t.score += evidenceCitationWeight
			t.details["citation_provided"] = true
		} else {
			t.details["citation_provided"] = false
		}
	}

	return t.outcome(q, EvidenceSet)
}

// evidenceRecall counts, for every retrieved snippet, the first critical
// requirement it satisfies. Each snippet contributes at most once, but two
// snippets matching the same requirement both count, so recall may exceed 1.
func evidenceRecall(required []model.EvidenceRequirement, retrieved []model.Snippet) float64 {
	critical := 0
	for _, r := range required {
		if r.Critical() {
			critical++
		}
	}
	if critical == 0 {
		return 1.0
	}

	hits := 0
	for _, s := range retrieved {
		for _, r := range required {
			if r.Critical() && matches(r, s) {
				hits++
				break
			}
		}
	}
	return float64(hits) / float64(critical)
}

// evidencePrecision is the share of retrieved snippets that satisfy any
// requirement, critical or not.
func evidencePrecision(required []model.EvidenceRequirement, retrieved []model.Snippet) float64 {
	if len(retrieved) == 0 {
		return 0.0
	}
	relevant := 0
	for _, s := range retrieved {
		for _, r := range required {
			if matches(r, s) {
				relevant++
				break
			}
		}
	}
	return float64(relevant) / float64(len(retrieved))
}

// matches reports whether snippet contains the requirement's substring.
// A requirement without must_include matches nothing; an empty
// must_include matches every snippet.
func matches(r model.EvidenceRequirement, s model.Snippet) bool {
	return r.MustInclude != nil && strings.Contains(string(s), *r.MustInclude)
}
