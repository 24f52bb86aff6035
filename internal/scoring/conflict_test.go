package scoring_test

import (
	"testing"

	"github.com/daryltucker/lexbench/internal/model"
	"github.com/daryltucker/lexbench/internal/scoring"
)

func TestConflictGap_MarkerAndQuote(t *testing.T) {
	q := model.Question{
		ID:            "cg-001",
		Type:          "conflict_gap",
		ShouldAbstain: ptr(true),
		RequiredQuote: "Section 4.2",
	}
	c := model.Candidate{Answer: "不详，参见 Section 4.2"}

	out := scoring.New(nil).Grade(q, c)

	if !approx(out.Score, 1.0) {
		t.Errorf("Score = %v, want 1.0", out.Score)
	}
	if !out.Passed {
		t.Error("expected pass")
	}
	want := map[string]any{
		"correct_abstention":     true,
		"hallucination_detected": false,
		"quote_included":         true,
	}
	for k, v := range want {
		if out.Details[k] != v {
			t.Errorf("Details[%q] = %v, want %v", k, out.Details[k], v)
		}
	}
}

func TestConflictGap_Cases(t *testing.T) {
	tests := []struct {
		name         string
		question     model.Question
		candidate    model.Candidate
		wantScore    float64
		wantPass     bool
		hallucinated bool
	}{
		{
			name:         "fails to abstain",
			question:     model.Question{},
			candidate:    model.Candidate{Answer: "The deposit is 3000."},
			wantScore:    0,
			hallucinated: true,
		},
		{
			name:      "explicit abstain flag",
			question:  model.Question{},
			candidate: model.Candidate{Abstained: true},
			wantScore: 0.8,
			wantPass:  true,
		},
		{
			name:      "marker 忘记",
			question:  model.Question{},
			candidate: model.Candidate{Answer: "我忘记了"},
			wantScore: 0.8,
			wantPass:  true,
		},
		{
			name:      "abstention not expected",
			question:  model.Question{ShouldAbstain: ptr(false)},
			candidate: model.Candidate{Answer: "The deposit is 3000."},
			wantScore: 0.4,
		},
		{
			name:      "abstention not expected with quote",
			question:  model.Question{ShouldAbstain: ptr(false), RequiredQuote: "Art. 3"},
			candidate: model.Candidate{Answer: "Per Art. 3 the deposit is 3000."},
			wantScore: 0.6,
		},
		{
			name:      "alternative quote accepted",
			question:  model.Question{RequiredQuote: "Section 4.2", AdditionalQuotes: []string{"§4.2"}},
			candidate: model.Candidate{Answer: "不知道 (§4.2)"},
			wantScore: 1.0,
			wantPass:  true,
		},
		{
			name:      "empty alternative quote always included",
			question:  model.Question{RequiredQuote: "Section 4.2", AdditionalQuotes: []string{""}},
			candidate: model.Candidate{Answer: "不详"},
			wantScore: 1.0,
			wantPass:  true,
		},
		{
			name:         "quote without abstention",
			question:     model.Question{RequiredQuote: "Section 4.2"},
			candidate:    model.Candidate{Answer: "Section 4.2 sets it at 10 days"},
			wantScore:    0.2,
			hallucinated: true,
		},
	}
	e := scoring.New(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := tt.question
			q.ID, q.Type = "cg", "conflict_gap"
			out := e.Grade(q, tt.candidate)
			if !approx(out.Score, tt.wantScore) {
				t.Errorf("Score = %v, want %v", out.Score, tt.wantScore)
			}
			if out.Passed != tt.wantPass {
				t.Errorf("Passed = %v, want %v", out.Passed, tt.wantPass)
			}
			if out.Details["hallucination_detected"] != tt.hallucinated {
				t.Errorf("hallucination_detected = %v, want %v", out.Details["hallucination_detected"], tt.hallucinated)
			}
		})
	}
}
