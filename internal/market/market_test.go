package market

import (
	"context"
	"testing"
)

func TestStaticIsDeterministicPerTicker(t *testing.T) {
	ctx := context.Background()
	a1, err := Static{}.FetchHistory(ctx, "TCS", 300)
	if err != nil {
		t.Fatal(err)
	}
	a2, _ := Static{}.FetchHistory(ctx, "TCS", 300)
	b, _ := Static{}.FetchHistory(ctx, "INFY", 300)

	if len(a1) != 300 {
		t.Fatalf("len = %d, want 300", len(a1))
	}
	for i := range a1 {
		if a1[i].Close != a2[i].Close {
			t.Fatalf("candle %d differs between identical fetches", i)
		}
	}
	same := true
	for i := range a1 {
		if a1[i].Close != b[i].Close {
			same = false
			break
		}
	}
	if same {
		t.Error("different tickers produced identical series")
	}
}

func TestStaticCandlesAreSane(t *testing.T) {
	series, err := Static{}.FetchHistory(context.Background(), "RELIANCE", 260)
	if err != nil {
		t.Fatal(err)
	}
	for i, c := range series {
		if c.Close <= 0 || c.Vol <= 0 {
			t.Fatalf("candle %d: non-positive close or volume: %+v", i, c)
		}
		if c.High < c.Low {
			t.Fatalf("candle %d: high below low: %+v", i, c)
		}
		if i > 0 && c.Ts <= series[i-1].Ts {
			t.Fatalf("candle %d: timestamps not strictly increasing", i)
		}
	}
}
