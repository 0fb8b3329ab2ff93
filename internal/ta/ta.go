// Package ta computes technical indicators over daily price series.
// Every function returns a series aligned with its input; positions where
// the indicator is undefined hold NaN unless a fallback is documented.
package ta

import "math"

// SMA returns the n-period simple moving average of vals. The first n-1
// positions are NaN.
func SMA(vals []float64, n int) []float64 {
	out := nanSeries(len(vals))
	if n <= 0 || len(vals) < n {
		return out
	}
	sum := 0.0
	for i, v := range vals {
		sum += v
		if i >= n {
			sum -= vals[i-n]
		}
		if i >= n-1 {
			out[i] = sum / float64(n)
		}
	}
	return out
}

// EMA returns the span-based exponential moving average (alpha = 2/(span+1)),
// seeded at the first value.
func EMA(vals []float64, span int) []float64 {
	return ewm(vals, 2.0/(float64(span)+1.0))
}

// RSI returns the Wilder-smoothed relative strength index. Undefined points
// (no movement yet) are 0 rather than NaN; a zero average loss pins the
// value at 100.
func RSI(closes []float64, length int) []float64 {
	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			gains[i] = d
		} else {
			losses[i] = -d
		}
	}
	avgGain := ewm(gains, 1.0/float64(length))
	avgLoss := ewm(losses, 1.0/float64(length))

	out := make([]float64, len(closes))
	for i := range closes {
		switch {
		case avgLoss[i] == 0 && avgGain[i] == 0:
			out[i] = 0
		case avgLoss[i] == 0:
			out[i] = 100
		default:
			rs := avgGain[i] / avgLoss[i]
			out[i] = 100 - 100/(1+rs)
		}
	}
	return out
}

// MACD returns the MACD line, signal line and histogram using span-based
// EMAs (not Wilder smoothing).
func MACD(closes []float64, fast, slow, signal int) (line, sig, hist []float64) {
	emaFast := EMA(closes, fast)
	emaSlow := EMA(closes, slow)

	line = make([]float64, len(closes))
	for i := range closes {
		line[i] = emaFast[i] - emaSlow[i]
	}
	sig = EMA(line, signal)
	hist = make([]float64, len(closes))
	for i := range closes {
		hist[i] = line[i] - sig[i]
	}
	return line, sig, hist
}

// ROC returns the percentage change of close versus n periods prior. The
// first n positions are NaN.
func ROC(closes []float64, n int) []float64 {
	out := nanSeries(len(closes))
	if n <= 0 {
		return out
	}
	for i := n; i < len(closes); i++ {
		if closes[i-n] != 0 {
			out[i] = (closes[i] - closes[i-n]) / closes[i-n] * 100
		}
	}
	return out
}

// ADX returns the average directional index plus the +DI/-DI series, all
// Wilder-smoothed with alpha = 1/length. A zero DI sum yields DX 0 rather
// than dividing by zero.
func ADX(highs, lows, closes []float64, length int) (adx, plusDI, minusDI []float64) {
	n := len(closes)
	tr := make([]float64, n)
	plusDM := make([]float64, n)
	minusDM := make([]float64, n)
	for i := 0; i < n; i++ {
		if i == 0 {
			tr[i] = highs[i] - lows[i]
			continue
		}
		tr[i] = math.Max(highs[i]-lows[i],
			math.Max(math.Abs(highs[i]-closes[i-1]), math.Abs(lows[i]-closes[i-1])))

		up := highs[i] - highs[i-1]
		down := lows[i-1] - lows[i]
		if up > down && up > 0 {
			plusDM[i] = up
		}
		if down > up && down > 0 {
			minusDM[i] = down
		}
	}

	alpha := 1.0 / float64(length)
	trS := ewm(tr, alpha)
	plusS := ewm(plusDM, alpha)
	minusS := ewm(minusDM, alpha)

	plusDI = make([]float64, n)
	minusDI = make([]float64, n)
	dx := make([]float64, n)
	for i := 0; i < n; i++ {
		if trS[i] == 0 {
			plusDI[i] = math.NaN()
			minusDI[i] = math.NaN()
			dx[i] = 0
			continue
		}
		plusDI[i] = 100 * plusS[i] / trS[i]
		minusDI[i] = 100 * minusS[i] / trS[i]
		if sum := plusDI[i] + minusDI[i]; sum != 0 {
			dx[i] = 100 * math.Abs(plusDI[i]-minusDI[i]) / sum
		}
	}
	adx = ewm(dx, alpha)
	return adx, plusDI, minusDI
}

// RelativeVolume returns volume divided by its rolling mean over window.
// Positions with a missing or zero denominator are 0.
func RelativeVolume(vols []float64, window int) []float64 {
	volSMA := SMA(vols, window)
	out := make([]float64, len(vols))
	for i := range vols {
		if math.IsNaN(volSMA[i]) || volSMA[i] == 0 {
			out[i] = 0
			continue
		}
		out[i] = vols[i] / volSMA[i]
	}
	return out
}

// Momentum12M1M returns the 12-month momentum skipping the most recent
// month: (close[t-21] / close[t-252]) - 1. Histories shorter than 252
// observations are entirely NaN.
func Momentum12M1M(closes []float64) []float64 {
	out := nanSeries(len(closes))
	if len(closes) < 252 {
		return out
	}
	for i := 252; i < len(closes); i++ {
		if closes[i-252] != 0 {
			out[i] = closes[i-21]/closes[i-252] - 1
		}
	}
	return out
}

// Last returns the final value of a series, or NaN when empty.
func Last(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	return vals[len(vals)-1]
}

// Prev returns the second-to-last value of a series, or NaN when shorter
// than two.
func Prev(vals []float64) float64 {
	if len(vals) < 2 {
		return math.NaN()
	}
	return vals[len(vals)-2]
}

// ewm is an exponentially weighted mean seeded at the first value, matching
// recursive smoothing with the given alpha.
func ewm(vals []float64, alpha float64) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		if i == 0 {
			out[i] = v
			continue
		}
		out[i] = (1-alpha)*out[i-1] + alpha*v
	}
	return out
}

func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
