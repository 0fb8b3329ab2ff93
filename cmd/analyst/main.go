// The analyst command runs the news-vetting workflow over an existing
// shortlist and writes the ranked final shortlist into the analysis state.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"momentum-scout/internal/analyst"
	"momentum-scout/internal/llm"
	"momentum-scout/internal/llmlog"
	"momentum-scout/internal/logger"
	"momentum-scout/internal/news"
	"momentum-scout/internal/storage"
	"momentum-scout/internal/store"
	"momentum-scout/internal/types"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	_ = godotenv.Load()
	must(logger.Init())

	ctx := context.Background()
	defer logger.Shutdown(ctx)

	path := "config.yaml"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	cfg, err := store.LoadConfig(path)
	must(err)

	if err := llmlog.CompressOlder(cfg.Log.RetentionDays); err != nil {
		logger.Warn(ctx, "LLM log compression failed", "error", err.Error())
	}

	st, err := storage.NewLocal(cfg.DataDir)
	must(err)

	provider, err := llm.New(cfg.LLM.Provider, cfg.LLM.Model, cfg.LLM.MaxTokens, cfg.LLM.Temperature)
	must(err)
	client := llm.Wrap(provider, cfg.LLM.MaxRetries)

	newsSvc := news.NewService(
		news.NewFetcher(time.Duration(cfg.News.TimeoutSeconds)*time.Second),
		st,
		time.Duration(cfg.News.CacheExpiryHours)*time.Hour,
	)

	w := analyst.NewWorkflow(st, newsSvc, analyst.NewAnalyzer(client), cfg.News.LookbackDays)

	state := types.AnalystState{
		RunID:               runID(cfg),
		AnalysisID:          analysisID(cfg),
		Strategy:            cfg.Screen.Strategy,
		QueryPrefix:         cfg.News.QueryPrefix,
		QuerySuffix:         cfg.News.QuerySuffix,
		Filters:             cfg.Filters,
		ConvictionThreshold: cfg.Analyst.ConvictionThreshold,
		SentimentThreshold:  cfg.Analyst.SentimentThreshold,
		TopN:                cfg.Analyst.TopN,
	}

	final, err := w.Run(ctx, state)
	must(err)

	logger.Info(ctx, "Analysis run complete",
		"analysis_id", final.AnalysisID,
		"analyzed", len(final.AnalysisResults),
		"shortlisted", len(final.FinalShortlist),
	)
}

func runID(cfg *store.Config) string {
	if cfg.RunID != "" {
		return cfg.RunID
	}
	return fmt.Sprintf("run_%s", time.Now().Format("20060102"))
}

func analysisID(cfg *store.Config) string {
	if cfg.AnalysisID != "" {
		return cfg.AnalysisID
	}
	return fmt.Sprintf("analysis_%s_%s", cfg.Screen.Strategy, time.Now().Format("20060102_150405"))
}
