package ta

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSMAKnownValues(t *testing.T) {
	closes := []float64{1, 2, 3, 4, 5}
	sma := SMA(closes, 3)

	if !math.IsNaN(sma[0]) || !math.IsNaN(sma[1]) {
		t.Errorf("expected NaN head, got %v %v", sma[0], sma[1])
	}
	want := []float64{2, 3, 4}
	for i, w := range want {
		if !almostEqual(sma[i+2], w) {
			t.Errorf("sma[%d] = %v, want %v", i+2, sma[i+2], w)
		}
	}
}

func TestSMAShortSeriesAllNaN(t *testing.T) {
	sma := SMA([]float64{10, 11}, 5)
	for i, v := range sma {
		if !math.IsNaN(v) {
			t.Errorf("sma[%d] = %v, expected NaN for insufficient history", i, v)
		}
	}
}

func TestEMASeedsAtFirstValue(t *testing.T) {
	ema := EMA([]float64{10, 10, 10, 10}, 5)
	for i, v := range ema {
		if !almostEqual(v, 10) {
			t.Errorf("ema[%d] = %v, want 10 for constant input", i, v)
		}
	}
}

func TestRSIBounds(t *testing.T) {
	closes := []float64{
		100, 102, 101, 105, 103, 108, 110, 107, 109, 112,
		111, 115, 114, 118, 116, 120, 119, 123, 121, 125,
	}
	rsi := RSI(closes, 14)
	for i, v := range rsi {
		if v < 0 || v > 100 {
			t.Errorf("rsi[%d] = %v, out of [0,100]", i, v)
		}
	}
}

func TestRSIAllGainsIsHundred(t *testing.T) {
	closes := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	rsi := RSI(closes, 5)
	if last := Last(rsi); !almostEqual(last, 100) {
		t.Errorf("rsi = %v, want 100 when there are no losses", last)
	}
}

func TestRSILeadingValueIsZero(t *testing.T) {
	rsi := RSI([]float64{50, 51, 52}, 14)
	if rsi[0] != 0 {
		t.Errorf("rsi[0] = %v, want 0 before any movement", rsi[0])
	}
}

func TestMACDHistogramIsLineMinusSignal(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + float64(i)*0.5 + math.Sin(float64(i))
	}
	line, sig, hist := MACD(closes, 12, 26, 9)
	for i := range closes {
		if !almostEqual(hist[i], line[i]-sig[i]) {
			t.Errorf("hist[%d] = %v, want %v", i, hist[i], line[i]-sig[i])
		}
	}
}

func TestROCHeadIsNaN(t *testing.T) {
	closes := []float64{100, 101, 102, 103, 104, 110}
	roc := ROC(closes, 5)
	for i := 0; i < 5; i++ {
		if !math.IsNaN(roc[i]) {
			t.Errorf("roc[%d] = %v, expected NaN", i, roc[i])
		}
	}
	if !almostEqual(roc[5], 10) {
		t.Errorf("roc[5] = %v, want 10", roc[5])
	}
}

func TestADXBounds(t *testing.T) {
	n := 50
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	for i := 0; i < n; i++ {
		base := 100 + float64(i)
		highs[i] = base + 2
		lows[i] = base - 2
		closes[i] = base + math.Sin(float64(i))
	}
	adx, plusDI, minusDI := ADX(highs, lows, closes, 14)
	check := func(name string, vals []float64) {
		for i, v := range vals {
			if math.IsNaN(v) {
				continue
			}
			if v < 0 || v > 100 {
				t.Errorf("%s[%d] = %v, out of [0,100]", name, i, v)
			}
		}
	}
	check("adx", adx)
	check("+di", plusDI)
	check("-di", minusDI)
}

func TestRelativeVolumeDefaultsToZero(t *testing.T) {
	vols := []float64{100, 200, 100, 200, 100}
	rv := RelativeVolume(vols, 20)
	for i, v := range rv {
		if v != 0 {
			t.Errorf("rv[%d] = %v, want 0 before window fills", i, v)
		}
	}
}

func TestRelativeVolumeSpike(t *testing.T) {
	vols := make([]float64, 25)
	for i := range vols {
		vols[i] = 100
	}
	vols[24] = 250
	rv := RelativeVolume(vols, 20)
	last := Last(rv)
	// rolling mean includes the spike bar itself
	if last < 2.0 || last > 2.6 {
		t.Errorf("relative volume = %v, expected spike ratio near 2.3", last)
	}
}

func TestMomentum12M1MShortHistory(t *testing.T) {
	closes := make([]float64, 200)
	for i := range closes {
		closes[i] = 100
	}
	mom := Momentum12M1M(closes)
	for i, v := range mom {
		if !math.IsNaN(v) {
			t.Errorf("mom[%d] = %v, expected NaN for <252 observations", i, v)
		}
	}
}

func TestMomentum12M1MValue(t *testing.T) {
	closes := make([]float64, 260)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	mom := Momentum12M1M(closes)
	last := Last(mom)
	i := len(closes) - 1
	want := closes[i-21]/closes[i-252] - 1
	if !almostEqual(last, want) {
		t.Errorf("momentum = %v, want %v", last, want)
	}
}

func TestLastAndPrev(t *testing.T) {
	if !math.IsNaN(Last(nil)) {
		t.Error("Last(nil) should be NaN")
	}
	if !math.IsNaN(Prev([]float64{1})) {
		t.Error("Prev of single element should be NaN")
	}
	vals := []float64{1, 2, 3}
	if Last(vals) != 3 || Prev(vals) != 2 {
		t.Errorf("Last/Prev = %v/%v, want 3/2", Last(vals), Prev(vals))
	}
}
