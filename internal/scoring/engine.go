/*
PURPOSE:
  Scoring engine for lexbench. Routes a (question, candidate) pair to the
  grader for its archetype and returns a graded outcome.

REQUIREMENTS:
  User-specified:
  - Three archetypes: fact_exact, evidence_set, conflict_gap.
  - Unknown archetypes are rejected gracefully (zero score, error message).
  - Grading is a pure function of its inputs plus static configuration.

  Implementation-discovered:
  - Abstention phrases must be configurable (other languages/phrasings).

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine (Harness)
  - Uses: internal/model

ERROR HANDLING:
  - Never returns an error; problems are reported on the Outcome.

IMPLEMENTATION RULES:
  - Dispatch is a switch over a closed Archetype tag.
  - Graders must not mutate their inputs.

USAGE:
  e := scoring.New(cfg.AbstentionMarkers)
  out := e.Grade(question, candidate)

SELF-HEALING INSTRUCTIONS:
  - Adding an archetype: new constant, ParseArchetype case, grader, Grade case.

RELATED FILES:
  - internal/scoring/fact.go
  - internal/scoring/evidence.go
  - internal/scoring/conflict.go

MAINTENANCE:
  - Update when grading weights or archetypes change.
*/

package scoring

import (
	"fmt"

	"github.com/daryltucker/lexbench/internal/model"
)

// MaxScore is the maximum score of every current archetype.
const MaxScore = 1.0

// PassRatio is the fraction of MaxScore an outcome needs to pass.
const PassRatio = 0.7

// DefaultAbstentionMarkers are the phrases that count as abstaining when
// they appear in a free-text answer ("unknown", "don't recall", "don't know").
var DefaultAbstentionMarkers = []string{"不详", "忘记", "不知道"}

// Archetype identifies which grader applies to a question.
type Archetype int

const (
	Unrecognized Archetype = iota
	FactExact
	EvidenceSet
	ConflictGap
)

// ParseArchetype maps a question type string to its Archetype.
func ParseArchetype(s string) Archetype {
	switch s {
	case "fact_exact":
		return FactExact
	case "evidence_set":
		return EvidenceSet
	case "conflict_gap":
		return ConflictGap
	default:
		return Unrecognized
	}
}

func (a Archetype) String() string {
	switch a {
	case FactExact:
		return "fact_exact"
	case EvidenceSet:
		return "evidence_set"
	case ConflictGap:
		return "conflict_gap"
	default:
		return "unrecognized"
	}
}

// Engine grades candidate answers. It is safe for concurrent use.
type Engine struct {
	markers []string
}

// New creates an Engine. An empty markers list selects
// DefaultAbstentionMarkers.
func New(markers []string) *Engine {
	if len(markers) == 0 {
		markers = DefaultAbstentionMarkers
	}
	m := make([]string, len(markers))
	copy(m, markers)
	return &Engine{markers: m}
}

// Grade scores candidate against question.
func (e *Engine) Grade(q model.Question, c model.Candidate) model.Outcome {
	kind := q.Kind()
	switch ParseArchetype(kind) {
	case FactExact:
		return gradeFactExact(q, c)
	case EvidenceSet:
		return gradeEvidenceSet(q, c)
	case ConflictGap:
		return gradeConflictGap(q, c, e.markers)
	default:
		return Failed(q, kind, fmt.Sprintf("unknown question type: %s", kind))
	}
}

// Failed builds a zero-score, not-passed outcome carrying msg.
func Failed(q model.Question, kind, msg string) model.Outcome {
	id := q.ID
	if id == "" {
		id = "unknown"
	}
	return model.Outcome{
		ID:       id,
		Type:     kind,
		Question: q.Text,
		Passed:   false,
		Score:    0,
		MaxScore: MaxScore,
		Details:  map[string]any{},
		Error:    msg,
	}
}

// tally accumulates a score and its diagnostics for one question.
type tally struct {
	score   float64
	details map[string]any
}

func newTally() *tally {
	return &tally{details: make(map[string]any)}
}

func (t *tally) outcome(q model.Question, a Archetype) model.Outcome {
	return model.Outcome{
		ID:       q.ID,
		Type:     a.String(),
		Question: q.Text,
		Passed:   t.score >= MaxScore*PassRatio,
		Score:    t.score,
		MaxScore: MaxScore,
		Details:  t.details,
	}
}
