// Package analyst vets technically shortlisted tickers against their news
// flow with an LLM risk check, then ranks the survivors.
package analyst

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"momentum-scout/internal/llm"
	"momentum-scout/internal/logger"
	"momentum-scout/internal/types"
)

const systemPromptTemplate = `You are a Senior Risk Manager for the Indian Stock Market (Nifty 500).

YOUR TASK:
Analyze the provided Technical Signals and News Headlines to determine the validity of the price move.

INPUT DATA:
You will receive a Stock Ticker, the Technical Signal (why our algo picked it), and recent News Headlines.

ANALYSIS LOGIC:
1. CONSISTENCY CHECK: Does the news explain the technical signal?
   - Price UP + Strong Earnings/Order = HIGH CONVICTION.
   - Price UP + No News = SPECULATION (Medium Risk).
   - Price UP + Bad News (Raids, Lawsuits) = OPERATOR TRAP (High Risk).

2. SOURCE CREDIBILITY:
   - Prioritize 'Exchange Filings', 'Earnings Calls', and 'Top Tier Media' (Mint, ET).
   - Ignore generic 'Market Wrap' headers.

3. SCORING:
   - Sentiment: -1 (Bearish) to +1 (Bullish).
   - Conviction: 1 (Gambling) to 10 (Institutional Quality).

CRITICAL INSTRUCTION - PRIMARY DRIVER:
You must categorize the 'primary_driver' into EXACTLY one of the following categories.
Do not invent new categories.

ALLOWED DRIVERS:
[%s]

ANALYSIS RULES:
1. If the news mentions a 'Block Deal', 'Promoter selling', or 'Stake sale', select "%s".
2. If the news mentions 'Bonus', 'Split', 'Buyback', or 'Dividend', select "%s".
3. If price is up > 3%% but there is NO relevant news, select "%s".
4. If news is negative (e.g., 'Tax Notice', 'Fraud') but price is rising, set 'is_operator_trap' to True.

OUTPUT FORMAT:
Return valid JSON only. Matches the requested schema.`

func systemPrompt() string {
	drivers := types.MarketDrivers()
	quoted := make([]string, len(drivers))
	for i, d := range drivers {
		quoted[i] = fmt.Sprintf("%q", string(d))
	}
	return fmt.Sprintf(systemPromptTemplate,
		strings.Join(quoted, ", "),
		types.DriverInsider, types.DriverCorpAction, types.DriverSpeculation)
}

// analysisSchema is the JSON Schema every provider response must satisfy.
// The driver enum is embedded so conforming providers cannot return a value
// outside the closed set.
func analysisSchema() llm.Schema {
	drivers := types.MarketDrivers()
	enum := make([]string, len(drivers))
	for i, d := range drivers {
		enum[i] = string(d)
	}
	def := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required": []string{
			"sentiment_score", "conviction_score", "primary_driver",
			"secondary_drivers", "is_operator_trap", "reasoning", "red_flags",
		},
		"properties": map[string]any{
			"sentiment_score":   map[string]any{"type": "number", "minimum": -1, "maximum": 1},
			"conviction_score":  map[string]any{"type": "integer", "minimum": 1, "maximum": 10},
			"primary_driver":    map[string]any{"type": "string", "enum": enum},
			"secondary_drivers": map[string]any{"type": "array", "items": map[string]any{"type": "string", "enum": enum}},
			"is_operator_trap":  map[string]any{"type": "boolean"},
			"reasoning":         map[string]any{"type": "string"},
			"red_flags":         map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
	}
	b, _ := json.Marshal(def)
	return llm.Schema{Name: "momentum_analysis", Definition: b}
}

type Analyzer struct {
	client llm.Client
}

func NewAnalyzer(client llm.Client) *Analyzer {
	return &Analyzer{client: client}
}

// buildUserPrompt renders the technical verdict and headlines. Metric keys
// are sorted so the same inputs always produce the same prompt.
func buildUserPrompt(verdict types.Verdict, articles []types.NewsArticle) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Technical Signals:\n%s. Supporting metrics:\n", verdict.Reason)
	keys := make([]string, 0, len(verdict.Metrics))
	for k := range verdict.Metrics {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "- %s: %v\n", k, verdict.Metrics[k])
	}

	b.WriteString("\n\nRecent News Headlines:\n")
	for _, a := range articles {
		fmt.Fprintf(&b, "- [%s] %s: %s\n", a.PublishedAt.Format("2006-01-02 15:04"), a.Source, a.Title)
	}
	return b.String()
}

func (a *Analyzer) Analyze(ctx context.Context, ticker string, verdict types.Verdict, articles []types.NewsArticle) (types.AnalysisResult, error) {
	ctx, span := logger.StartSpan(ctx, "analyze-ticker")
	defer span.End()
	logger.Info(ctx, "Analyzing ticker", "ticker", ticker, "headlines", len(articles))

	msgs := []llm.Message{
		{Role: "system", Content: systemPrompt()},
		{Role: "user", Content: buildUserPrompt(verdict, articles)},
	}

	out, _, err := a.client.GenerateStructured(ctx, msgs, analysisSchema())
	if err != nil {
		return types.AnalysisResult{}, fmt.Errorf("analyze %s: %w", ticker, err)
	}

	var result types.AnalysisResult
	if err := json.Unmarshal(out, &result); err != nil {
		return types.AnalysisResult{}, fmt.Errorf("analyze %s: %w: %v", ticker, llm.ErrSchemaViolation, err)
	}
	if err := validateResult(result); err != nil {
		return types.AnalysisResult{}, fmt.Errorf("analyze %s: %w", ticker, err)
	}

	logger.Info(ctx, "Ticker analyzed",
		"ticker", ticker,
		"sentiment", result.SentimentScore,
		"conviction", result.ConvictionScore,
		"driver", string(result.PrimaryDriver),
		"operator_trap", result.IsOperatorTrap,
	)
	return result, nil
}

func validateResult(r types.AnalysisResult) error {
	if !r.PrimaryDriver.Valid() {
		return fmt.Errorf("%w: primary_driver %q not in allowed set", llm.ErrSchemaViolation, r.PrimaryDriver)
	}
	for _, d := range r.SecondaryDrivers {
		if !d.Valid() {
			return fmt.Errorf("%w: secondary_driver %q not in allowed set", llm.ErrSchemaViolation, d)
		}
	}
	if r.SentimentScore < -1 || r.SentimentScore > 1 {
		return fmt.Errorf("%w: sentiment_score %v out of [-1,1]", llm.ErrSchemaViolation, r.SentimentScore)
	}
	if r.ConvictionScore < 1 || r.ConvictionScore > 10 {
		return fmt.Errorf("%w: conviction_score %d out of [1,10]", llm.ErrSchemaViolation, r.ConvictionScore)
	}
	return nil
}
