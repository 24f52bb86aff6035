/*
PURPOSE:
  Harness that drives the system under test through every loaded question
  and grades each answer.

REQUIREMENTS:
  User-specified:
  - Questions are processed in input order; outcomes keep that order.
  - One failing question never prevents the rest from being graded.
  - Unknown archetypes produce a failed outcome, not a halt.

  Implementation-discovered:
  - Grading is pure, so questions can be fanned out to a bounded worker pool.
  - A misbehaving system adapter may panic; that is contained per question.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli
  - Uses: internal/scoring, internal/model, internal/output

ERROR HANDLING:
  - Logs errors but continues (resilience).
  - Never returns an error: every failure becomes an Outcome.

IMPLEMENTATION RULES:
  - Parallel <= 1 runs strictly sequentially.
  - Parallel > 1 uses errgroup with SetLimit; results are stored by index.
  - A Sink (e.g. the CSV writer) sees outcomes as they finish, not in input order.

USAGE:
  h := engine.NewHarness(sys, scoring.New(cfg.AbstentionMarkers), cfg.Parallel)
  outcomes := h.Run(ctx, questions)

SELF-HEALING INSTRUCTIONS:
  - If ordering looks wrong in a report, check the index bookkeeping in runParallel.

RELATED FILES:
  - internal/engine/system.go
  - internal/scoring/engine.go

MAINTENANCE:
  - Update when per-question timing or hooks are added.
*/

package engine

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/daryltucker/lexbench/internal/model"
	"github.com/daryltucker/lexbench/internal/output"
	"github.com/daryltucker/lexbench/internal/scoring"
)

// Sink receives each outcome as soon as it is graded. Write may be called
// from several goroutines at once.
type Sink interface {
	Write(o model.Outcome) error
}

// Harness runs questions against a System and grades the answers.
type Harness struct {
	System   System
	Scorer   *scoring.Engine
	Parallel int

	// Sink, if set, is handed every outcome in completion order.
	Sink Sink
}

// NewHarness creates a Harness. parallel < 1 is treated as 1.
func NewHarness(sys System, scorer *scoring.Engine, parallel int) *Harness {
	if parallel < 1 {
		parallel = 1
	}
	return &Harness{System: sys, Scorer: scorer, Parallel: parallel}
}

// Run grades every question and returns one outcome per question, in
// input order.
func (h *Harness) Run(ctx context.Context, questions []model.Question) []model.Outcome {
	if h.Parallel > 1 {
		return h.runParallel(ctx, questions)
	}

	outcomes := make([]model.Outcome, 0, len(questions))
	for _, q := range questions {
		outcomes = append(outcomes, h.RunOne(ctx, q))
	}
	return outcomes
}

func (h *Harness) runParallel(ctx context.Context, questions []model.Question) []model.Outcome {
	outcomes := make([]model.Outcome, len(questions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.Parallel)
	for i, q := range questions {
		g.Go(func() error {
			outcomes[i] = h.RunOne(gctx, q)
			return nil
		})
	}
	_ = g.Wait() // failures are captured in the outcomes

	return outcomes
}

// RunOne queries the system for a single question and grades the answer.
func (h *Harness) RunOne(ctx context.Context, q model.Question) (out model.Outcome) {
	kind := q.Kind()
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			out = scoring.Failed(q, kind, fmt.Sprintf("panic: %v", r))
		}
		out.ElapsedMs = time.Since(start).Milliseconds()
		logOutcome(out)
		if h.Sink != nil {
			if err := h.Sink.Write(out); err != nil {
				output.Logger.Warn("Failed to stream outcome", "id", out.ID, "error", err)
			}
		}
	}()

	if err := ctx.Err(); err != nil {
		return scoring.Failed(q, kind, err.Error())
	}

	cand, err := h.System.Query(ctx, q.Text)
	if err != nil {
		return scoring.Failed(q, kind, err.Error())
	}
	return h.Scorer.Grade(q, cand)
}

func logOutcome(o model.Outcome) {
	if o.Error != "" {
		output.Logger.Error("Question failed", "id", o.ID, "type", o.Type, "error", o.Error)
		return
	}
	output.Logger.Info("Question graded",
		"id", o.ID,
		"type", o.Type,
		"passed", o.Passed,
		"score", fmt.Sprintf("%.2f", o.Score),
	)
}
