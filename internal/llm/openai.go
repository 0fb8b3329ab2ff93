package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"momentum-scout/internal/logger"
)

// OpenAI calls the chat completions API with a strict json_schema response
// format, so the model itself enforces the output shape.
type OpenAI struct {
	model       string
	maxTokens   int
	temperature float64
	endpoint    string
}

func NewOpenAI(model string, maxTokens int, temperature float64) *OpenAI {
	endpoint := "https://api.openai.com/v1/chat/completions"
	if ep := os.Getenv("OPENAI_API_ENDPOINT"); ep != "" {
		endpoint = ep
	}
	return &OpenAI{model: model, maxTokens: maxTokens, temperature: temperature, endpoint: endpoint}
}

func (c *OpenAI) Provider() string { return "openai" }
func (c *OpenAI) Model() string    { return c.model }

func (c *OpenAI) GenerateStructured(ctx context.Context, msgs []Message, schema Schema) (json.RawMessage, Usage, error) {
	ctx, span := logger.StartSpan(ctx, "openai-api-call")
	defer span.End()

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, nil, errors.New("OPENAI_API_KEY missing")
	}

	body := map[string]any{
		"model":       c.model,
		"messages":    msgs,
		"temperature": c.temperature,
		"max_tokens":  c.maxTokens,
		"response_format": map[string]any{
			"type": "json_schema",
			"json_schema": map[string]any{
				"name":   schema.Name,
				"strict": true,
				"schema": schema.Definition,
			},
		},
	}
	bb, _ := json.Marshal(body)

	logger.Debug(ctx, "Sending request to OpenAI", "model", c.model, "schema", schema.Name)
	start := time.Now()
	req, _ := http.NewRequestWithContext(ctx, "POST", c.endpoint, bytes.NewReader(bb))
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	latency := time.Since(start)
	if err != nil {
		logger.ErrorWithErr(ctx, "OpenAI API request failed", err, "latency_ms", latency.Milliseconds())
		return nil, nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, nil, fmt.Errorf("openai http %d: %s", resp.StatusCode, string(b))
	}

	var r struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Usage map[string]int `json:"usage"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return nil, nil, err
	}
	if len(r.Choices) == 0 {
		return nil, nil, errors.New("openai: no choices in response")
	}

	out := strings.TrimSpace(r.Choices[0].Message.Content)
	if !json.Valid([]byte(out)) {
		return nil, nil, fmt.Errorf("%w: response is not valid JSON", ErrSchemaViolation)
	}

	logger.Debug(ctx, "OpenAI response received", "latency_ms", latency.Milliseconds(), "output_length", len(out))
	return json.RawMessage(out), Usage(r.Usage), nil
}
