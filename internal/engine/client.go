/*
PURPOSE:
  HTTP adapter for a question-answering system under test.
  Posts each question as JSON and decodes the candidate answer.

REQUIREMENTS:
  User-specified:
  - Single capability: given question text, return a candidate answer.
  - Any subset of candidate fields may be absent.

  Implementation-discovered:
  - RAG services are slow to warm up; retry with a delay.
  - Distinguish network failures from server-side errors in messages so the
    per-question error in the report is actionable.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine (Harness) via the System interface
  - Uses: internal/config, internal/model, internal/output

ERROR HANDLING:
  - Retries up to MaxRetries; returns the last error.
  - Non-200 responses are errors carrying status and body.
  - Context cancellation stops retrying immediately.

IMPLEMENTATION RULES:
  - Use net/http with a client-level timeout.
  - Safe for concurrent use (no per-request state on the struct).

USAGE:
  sys := engine.NewHTTPSystem(cfg.System)
  cand, err := sys.Query(ctx, "What is the total contract amount?")

SELF-HEALING INSTRUCTIONS:
  - If the service uses a different request shape, adapt requestBody.

RELATED FILES:
  - internal/config/config.go
  - internal/model/types.go

MAINTENANCE:
  - Update when the system-under-test contract changes.
*/

package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/daryltucker/lexbench/internal/config"
	"github.com/daryltucker/lexbench/internal/model"
	"github.com/daryltucker/lexbench/internal/output"
)

// HTTPSystem queries a system under test over HTTP.
type HTTPSystem struct {
	Config config.SystemConfig
	Client *http.Client
}

// NewHTTPSystem creates a new HTTPSystem.
func NewHTTPSystem(cfg config.SystemConfig) *HTTPSystem {
	return &HTTPSystem{
		Config: cfg,
		Client: &http.Client{Timeout: cfg.Timeout},
	}
}

type requestBody struct {
	Question string `json:"question"`
}

// Query posts question to the configured URL and decodes the answer.
func (h *HTTPSystem) Query(ctx context.Context, question string) (model.Candidate, error) {
	reqBody, err := json.Marshal(requestBody{Question: question})
	if err != nil {
		return model.Candidate{}, err
	}

	attempts := h.Config.MaxRetries
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			output.Logger.Info("Retrying query...", "attempt", i+1, "error", lastErr)
			select {
			case <-ctx.Done():
				return model.Candidate{}, ctx.Err()
			case <-time.After(h.Config.RetryDelay):
			}
		}

		cand, err := h.do(ctx, reqBody)
		if err == nil {
			return cand, nil
		}
		if ctx.Err() != nil {
			return model.Candidate{}, ctx.Err()
		}
		var perm *permanentError
		if errors.As(err, &perm) {
			return model.Candidate{}, err
		}
		lastErr = err
	}
	return model.Candidate{}, lastErr
}

// permanentError marks failures a retry cannot fix (4xx, undecodable body).
type permanentError struct{ err error }

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

func (h *HTTPSystem) do(ctx context.Context, reqBody []byte) (model.Candidate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.Config.URL, bytes.NewReader(reqBody))
	if err != nil {
		return model.Candidate{}, &permanentError{err}
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range h.Config.Headers {
		req.Header.Set(k, v)
	}

	resp, err := h.Client.Do(req)
	if err != nil {
		return model.Candidate{}, fmt.Errorf("network/connection error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.Candidate{}, fmt.Errorf("failed to read response body: %w", err)
	}

	switch {
	case resp.StatusCode >= 500:
		return model.Candidate{}, fmt.Errorf("server error (%s): %s", resp.Status, string(body))
	case resp.StatusCode != http.StatusOK:
		return model.Candidate{}, &permanentError{fmt.Errorf("request rejected (%s): %s", resp.Status, string(body))}
	}

	var cand model.Candidate
	if err := json.Unmarshal(body, &cand); err != nil {
		return model.Candidate{}, &permanentError{fmt.Errorf("invalid JSON answer: %w (body: %s)", err, string(body))}
	}
	return cand, nil
}
