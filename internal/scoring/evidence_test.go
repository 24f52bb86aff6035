package scoring_test

import (
	"encoding/json"
	"testing"

	"github.com/daryltucker/lexbench/internal/model"
	"github.com/daryltucker/lexbench/internal/scoring"
)

func TestEvidenceSet_SingleCriticalHit(t *testing.T) {
	q := model.Question{
		ID:               "es-001",
		Type:             "evidence_set",
		RequiredEvidence: []model.EvidenceRequirement{{MustInclude: ptr("clause 7")}},
	}
	c := model.Candidate{Evidence: []model.Snippet{"see clause 7 of the agreement"}}

	out := scoring.New(nil).Grade(q, c)

	if !approx(out.Score, 0.8) {
		t.Errorf("Score = %v, want 0.8", out.Score)
	}
	if !out.Passed {
		t.Error("expected pass")
	}
	if out.Details["evidence_recall"] != 1.0 || out.Details["evidence_precision"] != 1.0 {
		t.Errorf("recall/precision = %v/%v", out.Details["evidence_recall"], out.Details["evidence_precision"])
	}
	if _, ok := out.Details["citation_provided"]; ok {
		t.Error("citation_provided should be absent when citation is not required")
	}
}

func TestEvidenceSet_RecallBoundary(t *testing.T) {
	q := model.Question{
		ID:   "es-002",
		Type: "evidence_set",
		RequiredEvidence: []model.EvidenceRequirement{
			{MustInclude: ptr("Article 12")},
			{MustInclude: ptr("Schedule B")},
		},
		Scoring: model.Scoring{EvidenceRecallMin: ptr(0.8)},
	}
	c := model.Candidate{Evidence: []model.Snippet{"Article 12 governs termination"}}

	out := scoring.New(nil).Grade(q, c)

	if out.Details["evidence_recall"] != 0.5 {
		t.Errorf("evidence_recall = %v, want 0.5", out.Details["evidence_recall"])
	}
	// Recall sub-score withheld; precision 1.0 still earns 0.3.
	if !approx(out.Score, 0.3) {
		t.Errorf("Score = %v, want 0.3", out.Score)
	}
	if out.Passed {
		t.Error("expected fail")
	}
}

func TestEvidenceSet_Cases(t *testing.T) {
	tests := []struct {
		name          string
		required      []model.EvidenceRequirement
		scoring       model.Scoring
		candidate     model.Candidate
		wantRecall    float64
		wantPrecision float64
		wantScore     float64
	}{
		{
			name:          "no requirements and nothing retrieved",
			wantRecall:    1.0,
			wantPrecision: 0.0,
			wantScore:     0.5,
		},
		{
			name:          "no requirements with retrieval",
			candidate:     model.Candidate{Evidence: []model.Snippet{"a", "b"}},
			wantRecall:    1.0,
			wantPrecision: 0.0,
			wantScore:     0.5,
		},
		{
			name: "non-critical only counts for precision",
			required: []model.EvidenceRequirement{
				{MustInclude: ptr("alpha"), IsCritical: ptr(false)},
			},
			candidate:     model.Candidate{Evidence: []model.Snippet{"alpha", "beta"}},
			wantRecall:    1.0,
			wantPrecision: 0.5,
			wantScore:     0.5,
		},
		{
			name: "snippet counts once even when matching two requirements",
			required: []model.EvidenceRequirement{
				{MustInclude: ptr("alpha")},
				{MustInclude: ptr("beta")},
			},
			candidate:     model.Candidate{Evidence: []model.Snippet{"alpha beta"}},
			wantRecall:    0.5,
			wantPrecision: 1.0,
			wantScore:     0.3,
		},
		{
			name: "duplicate snippets each count toward recall",
			required: []model.EvidenceRequirement{
				{MustInclude: ptr("alpha")},
				{MustInclude: ptr("beta")},
			},
			candidate:     model.Candidate{Evidence: []model.Snippet{"alpha", "alpha again"}},
			wantRecall:    1.0,
			wantPrecision: 1.0,
			wantScore:     0.8,
		},
		{
			name:          "absent must_include matches nothing",
			required:      []model.EvidenceRequirement{{Description: "anything"}},
			candidate:     model.Candidate{Evidence: []model.Snippet{"text"}},
			wantRecall:    0.0,
			wantPrecision: 0.0,
			wantScore:     0.0,
		},
		{
			name:          "empty must_include matches every snippet",
			required:      []model.EvidenceRequirement{{MustInclude: ptr("")}},
			candidate:     model.Candidate{Evidence: []model.Snippet{"any text"}},
			wantRecall:    1.0,
			wantPrecision: 1.0,
			wantScore:     0.8,
		},
		{
			name:          "citation bonus",
			required:      []model.EvidenceRequirement{{MustInclude: ptr("x")}},
			scoring:       model.Scoring{CitationRequired: true},
			candidate:     model.Candidate{Evidence: []model.Snippet{"x"}, Citation: "doc#1"},
			wantRecall:    1.0,
			wantPrecision: 1.0,
			wantScore:     1.0,
		},
		{
			name:          "custom precision minimum",
			required:      []model.EvidenceRequirement{{MustInclude: ptr("x")}},
			scoring:       model.Scoring{EvidencePrecisionMin: ptr(0.9)},
			candidate:     model.Candidate{Evidence: []model.Snippet{"x", "x", "x", "noise"}},
			wantRecall:    3.0,
			wantPrecision: 0.75,
			wantScore:     0.5,
		},
	}
	e := scoring.New(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := model.Question{ID: "es", Type: "evidence_set", RequiredEvidence: tt.required, Scoring: tt.scoring}
			out := e.Grade(q, tt.candidate)
			if got := out.Details["evidence_recall"].(float64); !approx(got, tt.wantRecall) {
				t.Errorf("recall = %v, want %v", got, tt.wantRecall)
			}
			if got := out.Details["evidence_precision"].(float64); !approx(got, tt.wantPrecision) {
				t.Errorf("precision = %v, want %v", got, tt.wantPrecision)
			}
			if !approx(out.Score, tt.wantScore) {
				t.Errorf("Score = %v, want %v", out.Score, tt.wantScore)
			}
		})
	}
}

func TestEvidenceSet_EmptyMustIncludeFromJSON(t *testing.T) {
	var q model.Question
	body := `{"id": "es", "type": "evidence_set", "question": "q", "required_evidence": [{"must_include": ""}, {"description": "no key"}]}`
	if err := json.Unmarshal([]byte(body), &q); err != nil {
		t.Fatalf("unmarshal question: %v", err)
	}
	if q.RequiredEvidence[0].MustInclude == nil || q.RequiredEvidence[1].MustInclude != nil {
		t.Fatalf("must_include presence not preserved: %+v", q.RequiredEvidence)
	}

	out := scoring.New(nil).Grade(q, model.Candidate{Evidence: []model.Snippet{"any text"}})
	// One of two critical items is satisfiable; the empty one matches.
	if out.Details["evidence_recall"] != 0.5 {
		t.Errorf("evidence_recall = %v, want 0.5", out.Details["evidence_recall"])
	}
	if out.Details["evidence_precision"] != 1.0 {
		t.Errorf("evidence_precision = %v, want 1.0", out.Details["evidence_precision"])
	}
}

func TestEvidenceSet_ObjectSnippets(t *testing.T) {
	var c model.Candidate
	body := `{"evidence": [{"doc": "lease.pdf", "text": "clause 7 applies"}, "plain"], "citation": null}`
	if err := json.Unmarshal([]byte(body), &c); err != nil {
		t.Fatalf("unmarshal candidate: %v", err)
	}
	if c.HasCitation() {
		t.Error("null citation should not count as present")
	}

	q := model.Question{
		ID:               "es",
		Type:             "evidence_set",
		RequiredEvidence: []model.EvidenceRequirement{{MustInclude: ptr("clause 7")}},
	}
	out := scoring.New(nil).Grade(q, c)
	if out.Details["evidence_recall"] != 1.0 {
		t.Errorf("evidence_recall = %v, want 1.0", out.Details["evidence_recall"])
	}
	if out.Details["evidence_precision"] != 0.5 {
		t.Errorf("evidence_precision = %v, want 0.5", out.Details["evidence_precision"])
	}
}
