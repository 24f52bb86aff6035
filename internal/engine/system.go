/*
PURPOSE:
  Defines the system-under-test abstraction and the built-in mock.

REQUIREMENTS:
  User-specified:
  - Single capability: given question text, return a candidate answer.
  - A mock system for smoke-testing a bank.

ARCHITECTURE INTEGRATION:
  - Used by: internal/engine (Harness), internal/cli
  - Implementations: MockSystem, HTTPSystem (client.go)

ERROR HANDLING:
  - NewSystem rejects unknown kinds.

USAGE:
  sys, err := engine.NewSystem(cfg)

RELATED FILES:
  - internal/engine/client.go
  - internal/config/config.go
*/

package engine

import (
	"context"
	"fmt"

	"github.com/daryltucker/lexbench/internal/config"
	"github.com/daryltucker/lexbench/internal/model"
)

// System is the question-answering system under test.
type System interface {
	Query(ctx context.Context, question string) (model.Candidate, error)
}

// SystemFunc adapts a function to the System interface.
type SystemFunc func(ctx context.Context, question string) (model.Candidate, error)

// Query calls f.
func (f SystemFunc) Query(ctx context.Context, question string) (model.Candidate, error) {
	return f(ctx, question)
}

// MockSystem answers every question the same way. Useful for smoke-testing
// a question bank before a real system is wired in.
type MockSystem struct{}

// Query returns a fixed answer with no evidence and no citation.
func (MockSystem) Query(ctx context.Context, question string) (model.Candidate, error) {
	return model.Candidate{
		Answer:   "Mock answer",
		Evidence: []model.Snippet{},
		Citation: nil,
	}, nil
}

// NewSystem builds the system selected by cfg.System.Kind.
func NewSystem(cfg *config.Config) (System, error) {
	switch cfg.System.Kind {
	case config.SystemMock, "":
		return MockSystem{}, nil
	case config.SystemHTTP:
		return NewHTTPSystem(cfg.System), nil
	default:
		return nil, fmt.Errorf("unknown system kind %q", cfg.System.Kind)
	}
}
