package analyst

import (
	"sort"

	"momentum-scout/internal/types"
)

// Rank produces the final shortlist. Tickers must clear both thresholds,
// are ordered by descending conviction (ties keep their order in tickers),
// truncated to topN, and assigned contiguous ranks from 1.
func Rank(tickers []string, results map[string]types.AnalysisResult, convictionThreshold, sentimentThreshold float64, topN int) map[int]string {
	type scored struct {
		ticker string
		result types.AnalysisResult
	}
	qualified := make([]scored, 0, len(tickers))
	for _, t := range tickers {
		r, ok := results[t]
		if !ok {
			continue
		}
		if float64(r.ConvictionScore) >= convictionThreshold && r.SentimentScore >= sentimentThreshold {
			qualified = append(qualified, scored{ticker: t, result: r})
		}
	}

	sort.SliceStable(qualified, func(i, j int) bool {
		return qualified[i].result.ConvictionScore > qualified[j].result.ConvictionScore
	})

	if topN > 0 && len(qualified) > topN {
		qualified = qualified[:topN]
	}

	shortlist := make(map[int]string, len(qualified))
	for i, q := range qualified {
		shortlist[i+1] = q.ticker
	}
	return shortlist
}
