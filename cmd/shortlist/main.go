// The shortlist command screens the configured ticker universe under one
// strategy and writes the shortlist record to the data directory.
package main

import (
	"context"
	"log"
	"os"
	"sort"

	"github.com/joho/godotenv"

	"momentum-scout/internal/logger"
	"momentum-scout/internal/market"
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

	strat, err := strategy.Select(cfg.Screen.Strategy)
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

	sl := strategy.NewShortlister("shortlist_"+strat.Name(), strat, cfg.Screen.HistoryDays, buildFetcher(cfg), st)
	rec, err := sl.Run(ctx, tickers)
	must(err)

	logger.Info(ctx, "Shortlist run complete",
		"strategy", rec.Strategy,
		"universe", rec.NumTickers,
		"shortlisted", rec.NumShortlisted,
	)
}

func buildFetcher(cfg *store.Config) strategy.HistoryFetcher {
	if cfg.Market.Source == "KITE" {
		return market.NewKite(os.Getenv("KITE_API_KEY"), os.Getenv("KITE_ACCESS_TOKEN"), cfg.Market.Exchange)
	}
	return market.Static{}
}
