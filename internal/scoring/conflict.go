/*
PURPOSE:
  Grades conflict_gap questions: the system should abstain instead of
  inventing an answer, and should quote the governing clause.

REQUIREMENTS:
  User-specified:
  - 0.4 for a correct abstention, 0.4 for no hallucination, 0.2 for the quote.
  - Abstention is the explicit flag or an abstention marker in the answer.

ARCHITECTURE INTEGRATION:
  - Called by: scoring.Engine.Grade (markers come from config)

ERROR HANDLING:
  - None.

IMPLEMENTATION RULES:
  - Empty markers are ignored; empty alternative quotes always match.

RELATED FILES:
  - internal/scoring/engine.go
  - internal/config/config.go
*/

package scoring

import (
	"strings"

	"github.com/daryltucker/lexbench/internal/model"
)

const (
	conflictAbstainWeight       = 0.4
	conflictNoHallucinateWeight = 0.4
	conflictQuoteWeight         = 0.2
)

// gradeConflictGap grades questions whose correct answer is to abstain.
// Hallucination is derived from abstention alone: failing to abstain when
// abstention is expected counts as a hallucination. No fact-checking against
// source evidence takes place.
func gradeConflictGap(q model.Question, c model.Candidate, markers []string) model.Outcome {
	t := newTally()

	shouldAbstain := q.Abstain()
	didAbstain := c.Abstained || containsAny(c.Answer, markers)

	if shouldAbstain {
		if didAbstain {
			t.score += conflictAbstainWeight
			t.details["correct_abstention"] = true
		} else {
			t.details["correct_abstention"] = false
			t.details["should_have_abstained"] = true
		}
	}

	if shouldAbstain && !didAbstain {
		t.details["hallucination_detected"] = true
	} else {
		t.details["hallucination_detected"] = false
		t.score += conflictNoHallucinateWeight
	}

	if q.RequiredQuote != "" {
		if strings.Contains(c.Answer, q.RequiredQuote) || quoted(c.Answer, q.AdditionalQuotes) {
			t.score += conflictQuoteWeight
			t.details["quote_included"] = true
		} else {
			t.details["quote_included"] = false
		}
	}

	return t.outcome(q, ConflictGap)
}

// quoted reports whether answer contains any of quotes. An empty quote is
// contained in every answer.
func quoted(answer string, quotes []string) bool {
	for _, q := range quotes {
		if strings.Contains(answer, q) {
			return true
		}
	}
	return false
}

// containsAny reports whether s contains a non-empty element of subs.
func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
