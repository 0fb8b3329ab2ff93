// The collect command walks the ticker universe, checks price history
// availability and warms the news cache, with a per-ticker sleep to stay
// inside upstream rate limits.
package main

import (
	"context"
	"log"
	"os"
	"sort"
	"time"

	"github.com/joho/godotenv"

	"momentum-scout/internal/logger"
	"momentum-scout/internal/market"
	"momentum-scout/internal/news"
	"momentum-scout/internal/storage"
	"momentum-scout/internal/store"
	"momentum-scout/internal/strategy"
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

	st, err := storage.NewLocal(cfg.DataDir)
	must(err)

	universe, err := st.LoadTickers()
	must(err)
	tickers := make([]string, 0, len(universe))
	for t := range universe {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	var fetcher strategy.HistoryFetcher = market.Static{}
	if cfg.Market.Source == "KITE" {
		fetcher = market.NewKite(os.Getenv("KITE_API_KEY"), os.Getenv("KITE_ACCESS_TOKEN"), cfg.Market.Exchange)
	}
	newsSvc := news.NewService(
		news.NewFetcher(time.Duration(cfg.News.TimeoutSeconds)*time.Second),
		st,
		time.Duration(cfg.News.CacheExpiryHours)*time.Hour,
	)

	op := logger.StartOperation(ctx, "collect-run", "universe", len(tickers))
	ctx = op.GetContext()

	pricesOK, newsOK := 0, 0
	for _, ticker := range tickers {
		series, err := fetcher.FetchHistory(ctx, ticker, cfg.Screen.HistoryDays)
		if err != nil || len(series) == 0 {
			logger.Warn(ctx, "No price history", "ticker", ticker)
		} else {
			pricesOK++
		}

		company := universe[ticker]
		if company == "" {
			company = ticker
		}
		query := news.BuildQuery(cfg.News.QueryPrefix, company, cfg.News.QuerySuffix, cfg.News.LookbackDays)
		if _, err := newsSvc.Get(ctx, query); err != nil {
			logger.Warn(ctx, "News collection failed", "ticker", ticker, "error", err.Error())
		} else {
			newsOK++
		}

		if cfg.Screen.SleepMillis > 0 {
			time.Sleep(time.Duration(cfg.Screen.SleepMillis) * time.Millisecond)
		}
	}

	op.End("prices_ok", pricesOK, "news_ok", newsOK)
	logger.Info(ctx, "Collection complete",
		"universe", len(tickers),
		"prices_ok", pricesOK,
		"news_ok", newsOK,
	)
}
