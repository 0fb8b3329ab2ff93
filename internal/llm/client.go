// Package llm provides structured-output LLM clients. Every provider takes a
// message list plus a JSON schema and returns raw JSON that conforms to it;
// callers unmarshal into their own types.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"momentum-scout/internal/llmlog"
	"momentum-scout/internal/logger"
)

// ErrSchemaViolation marks provider output that parsed as JSON but failed
// the caller's schema checks.
var ErrSchemaViolation = errors.New("llm output violates required schema")

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Schema is the JSON Schema document the provider output must satisfy.
type Schema struct {
	Name       string
	Definition json.RawMessage
}

// Usage carries provider token counts (prompt_tokens, completion_tokens, ...).
type Usage map[string]int

type Client interface {
	Provider() string
	Model() string
	GenerateStructured(ctx context.Context, msgs []Message, schema Schema) (json.RawMessage, Usage, error)
}

// New builds a provider client by name. Unknown providers are an error, not
// a silent fallback.
func New(provider, model string, maxTokens int, temperature float64) (Client, error) {
	switch provider {
	case "openai":
		return NewOpenAI(model, maxTokens, temperature), nil
	case "claude":
		return NewClaude(model, maxTokens, temperature), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", provider)
	}
}

// Wrap adds retry with exponential backoff (1s, 2s, 4s, ...) and append-only
// interaction logging around a provider client. Only successful calls are
// logged; on exhaustion the last provider error propagates.
func Wrap(inner Client, maxAttempts int) Client {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &retryClient{inner: inner, maxAttempts: maxAttempts, sleep: time.Sleep}
}

type retryClient struct {
	inner       Client
	maxAttempts int
	sleep       func(time.Duration)
}

func (r *retryClient) Provider() string { return r.inner.Provider() }
func (r *retryClient) Model() string    { return r.inner.Model() }

func (r *retryClient) GenerateStructured(ctx context.Context, msgs []Message, schema Schema) (json.RawMessage, Usage, error) {
	delay := time.Second
	var lastErr error
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		out, usage, err := r.inner.GenerateStructured(ctx, msgs, schema)
		if err == nil {
			if logErr := llmlog.Append(llmlog.Record{
				Provider:        r.inner.Provider(),
				Model:           r.inner.Model(),
				InteractionKind: schema.Name,
				Input:           msgs,
				Output:          out,
				Usage:           usage,
			}); logErr != nil {
				logger.Warn(ctx, "Failed to append LLM interaction log", "error", logErr)
			}
			return out, usage, nil
		}
		lastErr = err
		if attempt == r.maxAttempts {
			break
		}
		logger.Warn(ctx, "LLM call failed, retrying",
			"provider", r.inner.Provider(),
			"attempt", attempt,
			"max_attempts", r.maxAttempts,
			"backoff", delay.String(),
			"error", err.Error(),
		)
		select {
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		default:
		}
		r.sleep(delay)
		delay *= 2
	}
	logger.ErrorWithErr(ctx, "LLM call exhausted retries", lastErr,
		"provider", r.inner.Provider(), "attempts", r.maxAttempts)
	return nil, nil, fmt.Errorf("llm call failed after %d attempts: %w", r.maxAttempts, lastErr)
}
