// Package strategy converts a price history into a pass/fail momentum
// verdict. Four atomic strategies read only the latest indicator values;
// the any/all ensembles compose them.
package strategy

import (
	"fmt"
	"math"

	"momentum-scout/internal/ta"
	"momentum-scout/internal/types"
)

type Strategy interface {
	Name() string
	Evaluate(s types.Series) types.Verdict
}

const reasonDataError = "Data Error"

func dataError() types.Verdict {
	return types.Verdict{PassFilter: false, Reason: reasonDataError}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ExplosiveBreakout targets a volume spike combined with fast price movement.
type ExplosiveBreakout struct{}

func (ExplosiveBreakout) Name() string { return "explosive_breakout" }

func (ExplosiveBreakout) Evaluate(s types.Series) types.Verdict {
	if len(s) == 0 {
		return dataError()
	}
	rvol := ta.Last(ta.RelativeVolume(s.Volumes(), 20))
	roc := ta.Last(ta.ROC(s.Closes(), 10))
	rsi := ta.Last(ta.RSI(s.Closes(), 14))
	if math.IsNaN(roc) || math.IsNaN(rsi) {
		return dataError()
	}
	return explosiveVerdict(rvol, roc, rsi)
}

func explosiveVerdict(rvol, roc, rsi float64) types.Verdict {
	pass := false
	reason := "Momentum weak"
	if rvol > 2.0 && roc > 10.0 {
		if rsi < 85 {
			pass = true
			reason = "Explosive Vol & Speed"
		} else {
			reason = "Overbought (RSI > 85)"
		}
	}
	return types.Verdict{
		PassFilter: pass,
		Metrics:    map[string]any{"RVOL": round2(rvol), "ROC": round2(roc)},
		Reason:     reason,
	}
}

// GoldenMomentum targets 12-month momentum leaders trading above their
// 200-day average.
type GoldenMomentum struct{}

func (GoldenMomentum) Name() string { return "golden_momentum" }

func (GoldenMomentum) Evaluate(s types.Series) types.Verdict {
	if len(s) == 0 {
		return dataError()
	}
	closes := s.Closes()
	mom := ta.Last(ta.Momentum12M1M(closes))
	sma200 := ta.Last(ta.SMA(closes, 200))
	price := closes[len(closes)-1]
	return goldenVerdict(mom, sma200, price)
}

func goldenVerdict(mom, sma200, price float64) types.Verdict {
	if math.IsNaN(mom) {
		return types.Verdict{PassFilter: false, Reason: "New Listing (<1yr)"}
	}
	pass := false
	reason := "Low 12M Momentum"
	if mom > 0.20 && price > sma200 {
		pass = true
		reason = "High 12M Relative Strength"
	}
	return types.Verdict{
		PassFilter: pass,
		Metrics:    map[string]any{"12M_Mom": fmt.Sprintf("%.0f%%", mom*100)},
		Reason:     reason,
	}
}

// ReversalHunter targets a fresh MACD histogram crossover while RSI sits in
// the 40-60 recovery band.
type ReversalHunter struct{}

func (ReversalHunter) Name() string { return "reversal_hunter" }

func (ReversalHunter) Evaluate(s types.Series) types.Verdict {
	if len(s) < 2 {
		return dataError()
	}
	closes := s.Closes()
	_, _, hist := ta.MACD(closes, 12, 26, 9)
	rsi := ta.Last(ta.RSI(closes, 14))
	lastHist := ta.Last(hist)
	prevHist := ta.Prev(hist)
	if math.IsNaN(lastHist) || math.IsNaN(prevHist) || math.IsNaN(rsi) {
		return dataError()
	}
	return reversalVerdict(lastHist, prevHist, rsi)
}

func reversalVerdict(hist, prevHist, rsi float64) types.Verdict {
	pass := false
	reason := "No Signal"
	if hist > 0 && prevHist < 0 {
		if rsi > 40 && rsi < 60 {
			pass = true
			reason = "Fresh MACD Crossover"
		} else {
			reason = "RSI too high/low"
		}
	}
	return types.Verdict{
		PassFilter: pass,
		Metrics:    map[string]any{"MACD_Hist": round2(hist), "RSI": round2(rsi)},
		Reason:     reason,
	}
}

// TrendSurfer targets an established uptrend (price above both moving
// averages) confirmed by a strong ADX.
type TrendSurfer struct{}

func (TrendSurfer) Name() string { return "trendsurfer" }

func (TrendSurfer) Evaluate(s types.Series) types.Verdict {
	if len(s) == 0 {
		return dataError()
	}
	closes := s.Closes()
	sma50 := ta.Last(ta.SMA(closes, 50))
	sma200 := ta.Last(ta.SMA(closes, 200))
	adx, _, _ := ta.ADX(s.Highs(), s.Lows(), closes, 14)
	lastADX := ta.Last(adx)
	price := closes[len(closes)-1]
	if math.IsNaN(sma50) || math.IsNaN(sma200) || math.IsNaN(lastADX) {
		return dataError()
	}
	return trendVerdict(price, sma50, sma200, lastADX)
}

func trendVerdict(price, sma50, sma200, adx float64) types.Verdict {
	pass := false
	reason := "Trend Weak"
	if price > sma50 && sma50 > sma200 && adx > 25 {
		pass = true
		reason = "Steady Uptrend (ADX > 25)"
	}
	return types.Verdict{
		PassFilter: pass,
		Metrics:    map[string]any{"ADX": round2(adx), "SMA_Diff": round2(sma50 - sma200)},
		Reason:     reason,
	}
}
