package strategy

import (
	"context"
	"fmt"
	"time"

	"momentum-scout/internal/logger"
	"momentum-scout/internal/types"
)

// HistoryFetcher provides a daily price history for one ticker. An empty
// series signals unavailable data; the batch keeps going.
type HistoryFetcher interface {
	FetchHistory(ctx context.Context, ticker string, days int) (types.Series, error)
}

// RecordStore persists the screening artifact.
type RecordStore interface {
	SaveShortlist(rec types.ShortlistRecord) error
}

// Shortlister screens a ticker universe under one configured strategy and
// persists a single ShortlistRecord for the run.
type Shortlister struct {
	shortlistID string
	strat       Strategy
	historyDays int
	fetcher     HistoryFetcher
	store       RecordStore
}

func NewShortlister(shortlistID string, strat Strategy, historyDays int, fetcher HistoryFetcher, store RecordStore) *Shortlister {
	return &Shortlister{
		shortlistID: shortlistID,
		strat:       strat,
		historyDays: historyDays,
		fetcher:     fetcher,
		store:       store,
	}
}

// Run evaluates every ticker, collects the passers, and persists one record.
// Per-ticker failures become non-pass verdicts; they never abort the batch.
func (sl *Shortlister) Run(ctx context.Context, tickers []string) (types.ShortlistRecord, error) {
	op := logger.StartOperation(ctx, "shortlist-run", "strategy", sl.strat.Name(), "universe", len(tickers))
	ctx = op.GetContext()

	results := make(map[string]types.Verdict, len(tickers))
	shortlisted := []string{}

	for _, ticker := range tickers {
		v := sl.evaluateTicker(ctx, ticker)
		results[ticker] = v
		if v.PassFilter {
			shortlisted = append(shortlisted, ticker)
		}
		logger.Signal(ctx, ticker, sl.strat.Name(), v.PassFilter, v.Reason)
	}

	rec := types.ShortlistRecord{
		ShortlistID:    sl.shortlistID,
		Strategy:       sl.strat.Name(),
		Timestamp:      time.Now().UTC(),
		NumTickers:     len(tickers),
		NumShortlisted: len(shortlisted),
		Shortlisted:    shortlisted,
		Results:        results,
	}

	if err := sl.store.SaveShortlist(rec); err != nil {
		op.EndWithError(err)
		return rec, fmt.Errorf("persist shortlist %s: %w", sl.shortlistID, err)
	}

	op.End("shortlisted", len(shortlisted))
	return rec, nil
}

// evaluateTicker fetches data and runs the strategy, converting fetch
// failures and panics into non-pass verdicts so the batch continues.
func (sl *Shortlister) evaluateTicker(ctx context.Context, ticker string) (v types.Verdict) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error(ctx, "Strategy evaluation panicked", "ticker", ticker, "panic", r)
			v = types.Verdict{PassFilter: false, Reason: fmt.Sprintf("evaluation error: %v", r)}
		}
	}()

	series, err := sl.fetcher.FetchHistory(ctx, ticker, sl.historyDays)
	if err != nil {
		logger.ErrorWithErr(ctx, "Price history fetch failed", err, "ticker", ticker)
		return types.Verdict{PassFilter: false, Reason: reasonDataError}
	}
	if len(series) == 0 {
		logger.Warn(ctx, "Empty price history", "ticker", ticker)
		return types.Verdict{PassFilter: false, Reason: reasonDataError}
	}

	return sl.strat.Evaluate(series)
}
