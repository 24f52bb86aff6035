/*
PURPOSE:
  Grades fact_exact questions: exact amount, date, boolean and text targets
  plus an optional citation bonus.

REQUIREMENTS:
  User-specified:
  - 0.7 per matched target, 0.3 for a required citation.
  - Amount/date only checked when their exact flag is set.

  Implementation-discovered:
  - A text mismatch records its edit distance to speed up triage.

ARCHITECTURE INTEGRATION:
  - Called by: scoring.Engine.Grade
  - Dependencies: github.com/texttheater/golang-levenshtein

ERROR HANDLING:
  - None; missing candidate fields simply fail their check.

IMPLEMENTATION RULES:
  - Scores accumulate without a cap.

RELATED FILES:
  - internal/scoring/engine.go
*/

package scoring

import (
	"github.com/texttheater/golang-levenshtein/levenshtein"

	"github.com/daryltucker/lexbench/internal/model"
)

// Fact-exact weights. Target checks are additive and not capped, so a
// question declaring several targets can score above MaxScore.
const (
	factTargetWeight   = 0.7
	factCitationWeight = 0.3
)

// editOptions counts every insertion, deletion and substitution as one edit.
var editOptions = levenshtein.Options{
	InsCost: 1,
	DelCost: 1,
	SubCost: 1,
	Matches: levenshtein.IdenticalRunes,
}

func gradeFactExact(q model.Question, c model.Candidate) model.Outcome {
	t := newTally()
	exp := q.Expected

	if q.Scoring.NumericExact && exp.AmountTotal != nil {
		if c.Amount != nil && *c.Amount == *exp.AmountTotal {
			t.score += factTargetWeight
			t.details["amount_match"] = true
		} else {
			t.details["amount_match"] = false
			t.details["expected"] = *exp.AmountTotal
			t.details["predicted"] = derefFloat(c.Amount)
		}
	}

	if q.Scoring.DateExact && exp.Date != nil {
		if c.Date != nil && *c.Date == *exp.Date {
			t.score += factTargetWeight
			t.details["date_match"] = true
		} else {
			t.details["date_match"] = false
			t.details["expected_date"] = *exp.Date
			t.details["predicted_date"] = derefString(c.Date)
		}
	}

	if exp.BooleanAnswer != nil {
		if c.Boolean != nil && *c.Boolean == *exp.BooleanAnswer {
			t.score += factTargetWeight
			t.details["boolean_match"] = true
		} else {
			t.details["boolean_match"] = false
		}
	}

	if exp.TextAnswer != nil {
		// An empty answer never matches, not even an empty target.
		if c.Text != nil && *c.Text != "" && *c.Text == *exp.TextAnswer {
			t.score += factTargetWeight
			t.details["text_match"] = true
		} else {
			t.details["text_match"] = false
			if c.Text != nil && *c.Text != "" {
				t.details["text_distance"] = levenshtein.DistanceForStrings(
					[]rune(*exp.TextAnswer), []rune(*c.Text), editOptions)
			}
		}
	}

	if q.Scoring.CitationRequired {
		if c.HasCitation() {
			t.score += factCitationWeight
			t.details["citation_provided"] = true
		} else {
			t.details["citation_provided"] = false
		}
	}

	return t.outcome(q, FactExact)
}

func derefFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func derefString(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}
