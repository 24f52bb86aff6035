/*
PURPOSE:
  Defines the core data structures used throughout lexbench.
  These models represent question-bank records, answers returned by the
  system under test, graded outcomes and the run summary.

REQUIREMENTS:
  User-specified:
  - Question records are immutable once loaded.
  - Every candidate field is optional; absence means "no match", never an error.
  - The summary is derived from the outcome list and holds no other state.

  Implementation-discovered:
  - Optional targets must distinguish "declared" from "zero value" (pointers).
  - Evidence snippets are usually strings but some systems return objects.
  - Need JSON and YAML tags: banks are authored in either format.

ARCHITECTURE INTEGRATION:
  - Used by: internal/question, internal/scoring, internal/engine,
    internal/report, internal/output, internal/history
  - Shared across boundaries.

ERROR HANDLING:
  - None beyond Snippet decoding (pure data structs).

IMPLEMENTATION RULES:
  - Keep structs simple and public.
  - Defaults live next to the field they belong to (see Scoring).

USAGE:
  q := model.Question{ID: "fe-001", Type: "fact_exact", ...}

SELF-HEALING INSTRUCTIONS:
  - If a new archetype needs extra fields, add them here and to the bank schema
    in internal/question/schema.json.

RELATED FILES:
  - internal/question/schema.json
  - internal/scoring/engine.go

MAINTENANCE:
  - Update when the question-bank format or report shape changes.
*/

package model

import (
	"bytes"
	"encoding/json"
)

// Scoring defaults applied when a question leaves a threshold unset.
const (
	DefaultEvidenceRecallMin    = 0.8
	DefaultEvidencePrecisionMin = 0.7
)

// Question is a single question-bank record.
type Question struct {
	ID               string                `json:"id" yaml:"id"`
	Type             string                `json:"type,omitempty" yaml:"type,omitempty"`
	BenchmarkType    string                `json:"benchmark_type,omitempty" yaml:"benchmark_type,omitempty"`
	Text             string                `json:"question" yaml:"question"`
	Expected         Expected              `json:"expected" yaml:"expected"`
	Scoring          Scoring               `json:"scoring" yaml:"scoring"`
	RequiredEvidence []EvidenceRequirement `json:"required_evidence,omitempty" yaml:"required_evidence,omitempty"`
	ShouldAbstain    *bool                 `json:"should_abstain,omitempty" yaml:"should_abstain,omitempty"`
	RequiredQuote    string                `json:"required_quote,omitempty" yaml:"required_quote,omitempty"`
	AdditionalQuotes []string              `json:"additional_quotes,omitempty" yaml:"additional_quotes,omitempty"`
}

// Kind returns the archetype tag of the question, falling back to
// benchmark_type when type is not set.
func (q Question) Kind() string {
	if q.Type != "" {
		return q.Type
	}
	if q.BenchmarkType != "" {
		return q.BenchmarkType
	}
	return "unknown"
}

// Abstain reports whether the question expects the system to abstain.
// Defaults to true.
func (q Question) Abstain() bool {
	if q.ShouldAbstain == nil {
		return true
	}
	return *q.ShouldAbstain
}

// Expected holds the archetype-specific expectation. A nil pointer means
// the target is not declared.
type Expected struct {
	AmountTotal   *float64 `json:"amount_total,omitempty" yaml:"amount_total,omitempty"`
	Date          *string  `json:"date,omitempty" yaml:"date,omitempty"`
	BooleanAnswer *bool    `json:"boolean_answer,omitempty" yaml:"boolean_answer,omitempty"`
	TextAnswer    *string  `json:"text_answer,omitempty" yaml:"text_answer,omitempty"`
	KeyPoints     []string `json:"key_points,omitempty" yaml:"key_points,omitempty"`
}

// Scoring configures which checks are active for a question and the
// thresholds they use.
//
//	numeric_exact           default false
//	date_exact              default false
//	citation_required       default false
//	evidence_recall_min     default 0.8 (DefaultEvidenceRecallMin)
//	evidence_precision_min  default 0.7 (DefaultEvidencePrecisionMin)
type Scoring struct {
	NumericExact         bool     `json:"numeric_exact,omitempty" yaml:"numeric_exact,omitempty"`
	DateExact            bool     `json:"date_exact,omitempty" yaml:"date_exact,omitempty"`
	CitationRequired     bool     `json:"citation_required,omitempty" yaml:"citation_required,omitempty"`
	EvidenceRecallMin    *float64 `json:"evidence_recall_min,omitempty" yaml:"evidence_recall_min,omitempty"`
	EvidencePrecisionMin *float64 `json:"evidence_precision_min,omitempty" yaml:"evidence_precision_min,omitempty"`
}

// RecallMin returns the configured minimum evidence recall.
func (s Scoring) RecallMin() float64 {
	if s.EvidenceRecallMin == nil {
		return DefaultEvidenceRecallMin
	}
	return *s.EvidenceRecallMin
}

// PrecisionMin returns the configured minimum evidence precision.
func (s Scoring) PrecisionMin() float64 {
	if s.EvidencePrecisionMin == nil {
		return DefaultEvidencePrecisionMin
	}
	return *s.EvidencePrecisionMin
}

// EvidenceRequirement is one entry of required_evidence.
// MustInclude is nil when the key is absent; an empty string is a valid
// substring that every snippet contains.
type EvidenceRequirement struct {
	MustInclude *string `json:"must_include,omitempty" yaml:"must_include,omitempty"`
	IsCritical  *bool   `json:"is_critical,omitempty" yaml:"is_critical,omitempty"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
}

// Critical reports whether the requirement is critical. Defaults to true.
func (e EvidenceRequirement) Critical() bool {
	if e.IsCritical == nil {
		return true
	}
	return *e.IsCritical
}

// Candidate is the answer returned by the system under test.
type Candidate struct {
	Amount    *float64  `json:"amount,omitempty"`
	Date      *string   `json:"date,omitempty"`
	Boolean   *bool     `json:"boolean,omitempty"`
	Text      *string   `json:"text,omitempty"`
	Citation  any       `json:"citation"`
	Evidence  []Snippet `json:"evidence"`
	Abstained bool      `json:"abstained,omitempty"`
	Answer    string    `json:"answer,omitempty"`
}

// HasCitation reports whether a citation is present (any non-null value).
func (c Candidate) HasCitation() bool {
	return c.Citation != nil
}

// Snippet is one piece of retrieved evidence. Non-string JSON values are
// kept as their compact JSON text so substring matching still works.
type Snippet string

// UnmarshalJSON accepts either a JSON string or any other JSON value.
func (s *Snippet) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = Snippet(str)
		return nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return err
	}
	*s = Snippet(buf.String())
	return nil
}

// Outcome is the graded result of a single question.
type Outcome struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Question  string         `json:"question"`
	Passed    bool           `json:"passed"`
	Score     float64        `json:"score"`
	MaxScore  float64        `json:"max_score"`
	Details   map[string]any `json:"details"`
	Error     string         `json:"error,omitempty"`
	ElapsedMs int64          `json:"elapsed_ms"`
}

// TypeStats aggregates outcomes of one archetype.
type TypeStats struct {
	Count      int     `json:"count"`
	Passed     int     `json:"passed"`
	PassRate   float64 `json:"pass_rate"`
	TotalScore float64 `json:"total_score"`
	MaxScore   float64 `json:"max_score"`
	Percentage float64 `json:"percentage"`
}

// Summary is the report of a whole run.
type Summary struct {
	RunID             string               `json:"run_id"`
	Timestamp         string               `json:"timestamp"`
	TotalTests        int                  `json:"total_tests"`
	PassedTests       int                  `json:"passed_tests"`
	PassRate          float64              `json:"pass_rate"`
	OverallScore      float64              `json:"overall_score"`
	MaxScore          float64              `json:"max_score"`
	OverallPercentage float64              `json:"overall_percentage"`
	ByType            map[string]TypeStats `json:"by_type"`
	Results           []Outcome            `json:"individual_results"`
}

// Met reports whether the run's pass rate reached threshold.
func (s Summary) Met(threshold float64) bool {
	return s.PassRate >= threshold
}
