package analyst

import (
	"context"
	"fmt"
	"sort"

	"momentum-scout/internal/logger"
	"momentum-scout/internal/news"
	"momentum-scout/internal/newsfilter"
	"momentum-scout/internal/types"
)

// StateStore persists workflow state and serves the run's inputs.
type StateStore interface {
	SaveAnalystState(state types.AnalystState) error
	LoadShortlist(shortlistID string) (types.ShortlistRecord, error)
	LoadTickers() (map[string]string, error)
}

// NewsProvider returns articles for a search query.
type NewsProvider interface {
	Get(ctx context.Context, query string) ([]types.NewsArticle, error)
}

// TickerAnalyzer runs the per-ticker LLM vetting call.
type TickerAnalyzer interface {
	Analyze(ctx context.Context, ticker string, verdict types.Verdict, articles []types.NewsArticle) (types.AnalysisResult, error)
}

// Workflow drives one analysis run through its stages, persisting state
// after every mutating step. There is no resume: a restart begins at INIT.
type Workflow struct {
	store        StateStore
	newsSvc      NewsProvider
	analyzer     TickerAnalyzer
	lookbackDays int
}

func NewWorkflow(store StateStore, newsSvc NewsProvider, analyzer TickerAnalyzer, lookbackDays int) *Workflow {
	return &Workflow{store: store, newsSvc: newsSvc, analyzer: analyzer, lookbackDays: lookbackDays}
}

func (w *Workflow) persist(ctx context.Context, state *types.AnalystState, stage string) error {
	state.Stage = stage
	if err := w.store.SaveAnalystState(*state); err != nil {
		return fmt.Errorf("persist state at %s: %w", stage, err)
	}
	logger.Debug(ctx, "Workflow state persisted", "analysis_id", state.AnalysisID, "stage", stage)
	return nil
}

// Run executes INIT -> NEWS_FETCHED -> NEWS_FILTERED -> ANALYZING ->
// SHORTLISTED -> DONE. An analyzer failure is fatal and leaves the partially
// populated state on disk.
func (w *Workflow) Run(ctx context.Context, state types.AnalystState) (types.AnalystState, error) {
	ctx, span := logger.StartSpan(ctx, "analyst-workflow")
	defer span.End()
	timer := logger.StartOperation(ctx, "analyst-run", "analysis_id", state.AnalysisID, "strategy", state.Strategy)

	if err := w.persist(ctx, &state, types.StageInit); err != nil {
		return state, err
	}

	rec, err := w.store.LoadShortlist("shortlist_" + state.Strategy)
	if err != nil {
		return state, fmt.Errorf("load shortlist for %s: %w", state.Strategy, err)
	}
	companies, err := w.store.LoadTickers()
	if err != nil {
		return state, fmt.Errorf("load ticker universe: %w", err)
	}

	logger.Info(ctx, "Fetching news for shortlisted tickers", "tickers", len(rec.Shortlisted))
	rawNews := make(map[string][]types.NewsArticle, len(rec.Shortlisted))
	for _, ticker := range rec.Shortlisted {
		company := companies[ticker]
		if company == "" {
			company = ticker
		}
		query := news.BuildQuery(state.QueryPrefix, company, state.QuerySuffix, w.lookbackDays)
		articles, err := w.newsSvc.Get(ctx, query)
		if err != nil {
			// the analyst treats no news as a signal in itself, so a dead
			// feed degrades to an empty headline list rather than a halt
			logger.Warn(ctx, "News fetch failed, continuing with no headlines", "ticker", ticker, "error", err.Error())
			articles = nil
		}
		rawNews[ticker] = articles
	}
	if err := w.persist(ctx, &state, types.StageNewsFetched); err != nil {
		return state, err
	}

	chain := newsfilter.NewChain(ctx, state.Filters)
	state.FilteredNews = make(map[string][]types.NewsArticle, len(rawNews))
	for ticker, articles := range rawNews {
		state.FilteredNews[ticker] = chain.Run(ctx, articles)
	}
	if err := w.persist(ctx, &state, types.StageNewsFiltered); err != nil {
		return state, err
	}

	if err := w.persist(ctx, &state, types.StageAnalyzing); err != nil {
		return state, err
	}
	if state.AnalysisResults == nil {
		state.AnalysisResults = make(map[string]types.AnalysisResult, len(rec.Shortlisted))
	}
	for _, ticker := range rec.Shortlisted {
		result, err := w.analyzer.Analyze(ctx, ticker, rec.Results[ticker], state.FilteredNews[ticker])
		if err != nil {
			_ = w.store.SaveAnalystState(state)
			timer.EndWithError(err)
			return state, fmt.Errorf("analysis halted at %s: %w", ticker, err)
		}
		state.AnalysisResults[ticker] = result
		if err := w.persist(ctx, &state, types.StageAnalyzing); err != nil {
			return state, err
		}
	}

	state.FinalShortlist = Rank(rec.Shortlisted, state.AnalysisResults,
		state.ConvictionThreshold, state.SentimentThreshold, state.TopN)
	if err := w.persist(ctx, &state, types.StageShortlisted); err != nil {
		return state, err
	}

	w.logReport(ctx, state)
	if err := w.persist(ctx, &state, types.StageDone); err != nil {
		return state, err
	}
	timer.End("shortlisted", len(state.FinalShortlist))
	return state, nil
}

// logReport emits the final shortlist in rank order with each ticker's
// analysis summary.
func (w *Workflow) logReport(ctx context.Context, state types.AnalystState) {
	ranks := make([]int, 0, len(state.FinalShortlist))
	for r := range state.FinalShortlist {
		ranks = append(ranks, r)
	}
	sort.Ints(ranks)
	for _, r := range ranks {
		ticker := state.FinalShortlist[r]
		res := state.AnalysisResults[ticker]
		logger.Shortlist(ctx, r, ticker, res.ConvictionScore, res.SentimentScore,
			"driver", string(res.PrimaryDriver),
			"operator_trap", res.IsOperatorTrap,
			"red_flags", len(res.RedFlags),
		)
	}
	if len(ranks) == 0 {
		logger.Info(ctx, "Final shortlist is empty, no ticker cleared both thresholds")
	}
}
