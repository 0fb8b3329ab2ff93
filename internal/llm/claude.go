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

// Claude calls the Anthropic Messages API. The API has no server-side schema
// enforcement, so the schema travels in the prompt and the output is checked
// client-side.
type Claude struct {
	model       string
	maxTokens   int
	temperature float64
	endpoint    string
}

func NewClaude(model string, maxTokens int, temperature float64) *Claude {
	endpoint := "https://api.anthropic.com/v1/messages"
	// proxy/bedrock/vertex deployments set their own endpoint
	if ep := os.Getenv("CLAUDE_API_ENDPOINT"); ep != "" {
		endpoint = ep
	}
	return &Claude{model: model, maxTokens: maxTokens, temperature: temperature, endpoint: endpoint}
}

func (c *Claude) Provider() string { return "claude" }
func (c *Claude) Model() string    { return c.model }

func (c *Claude) GenerateStructured(ctx context.Context, msgs []Message, schema Schema) (json.RawMessage, Usage, error) {
	ctx, span := logger.StartSpan(ctx, "claude-api-call")
	defer span.End()

	apiKey := os.Getenv("CLAUDE_API_KEY")
	if apiKey == "" {
		err := errors.New("CLAUDE_API_KEY missing")
		logger.ErrorWithErr(ctx, "Claude API key not configured", err)
		return nil, nil, err
	}

	// Messages API takes system as a top-level field, not a message role.
	system := ""
	user := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		if m.Role == "system" {
			system = m.Content
			continue
		}
		user = append(user, m)
	}
	if len(user) > 0 {
		last := len(user) - 1
		user[last].Content = fmt.Sprintf(
			"%s\n\nSchema:%s\n\nRespond ONLY with compact JSON matching the schema.",
			user[last].Content, string(schema.Definition))
	}

	reqBody := map[string]any{
		"model":       c.model,
		"system":      system,
		"messages":    user,
		"max_tokens":  c.maxTokens,
		"temperature": c.temperature,
	}
	bb, _ := json.Marshal(reqBody)

	logger.Debug(ctx, "Sending request to Claude", "model", c.model, "schema", schema.Name, "endpoint", c.endpoint)
	start := time.Now()
	req, _ := http.NewRequestWithContext(ctx, "POST", c.endpoint, bytes.NewReader(bb))
	req.Header.Set("x-api-key", apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	latency := time.Since(start)
	if err != nil {
		logger.ErrorWithErr(ctx, "Claude API request failed", err, "latency_ms", latency.Milliseconds())
		return nil, nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, nil, fmt.Errorf("claude http %d: %s", resp.StatusCode, string(b))
	}

	var r struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		Usage map[string]int `json:"usage"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return nil, nil, err
	}
	if len(r.Content) == 0 {
		return nil, nil, errors.New("claude: empty content in response")
	}

	out, err := extractJSONObject(r.Content[0].Text)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug(ctx, "Claude response received", "latency_ms", latency.Milliseconds(), "output_length", len(out))
	return out, Usage(r.Usage), nil
}

// extractJSONObject pulls the first {...} span out of model text, tolerating
// prose or code fences around it.
func extractJSONObject(text string) (json.RawMessage, error) {
	t := strings.TrimSpace(text)
	start := strings.Index(t, "{")
	end := strings.LastIndex(t, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("%w: no JSON object in response", ErrSchemaViolation)
	}
	sub := t[start : end+1]
	if !json.Valid([]byte(sub)) {
		return nil, fmt.Errorf("%w: extracted text is not valid JSON", ErrSchemaViolation)
	}
	return json.RawMessage(sub), nil
}
