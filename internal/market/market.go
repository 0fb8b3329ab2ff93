// Package market supplies daily price history for the screener, either from
// the Zerodha Kite API or from a deterministic synthetic source for dry runs.
package market

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"sync"
	"time"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	"momentum-scout/internal/logger"
	"momentum-scout/internal/types"
)

// Kite fetches daily candles through gokiteconnect. Instrument tokens are
// resolved once per process from the exchange instrument dump.
type Kite struct {
	kc       *kiteconnect.Client
	exchange string

	mu     sync.Mutex
	tokens map[string]int
}

func NewKite(apiKey, accessToken, exchange string) *Kite {
	kc := kiteconnect.New(apiKey)
	kc.SetAccessToken(accessToken)
	return &Kite{kc: kc, exchange: exchange}
}

func (k *Kite) instrumentToken(ctx context.Context, ticker string) (int, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.tokens == nil {
		logger.Debug(ctx, "Loading instrument dump", "exchange", k.exchange)
		instruments, err := k.kc.GetInstrumentsByExchange(k.exchange)
		if err != nil {
			return 0, fmt.Errorf("load instruments for %s: %w", k.exchange, err)
		}
		k.tokens = make(map[string]int, len(instruments))
		for _, in := range instruments {
			k.tokens[in.Tradingsymbol] = in.InstrumentToken
		}
	}
	token, ok := k.tokens[ticker]
	if !ok {
		return 0, fmt.Errorf("no instrument token for %s on %s", ticker, k.exchange)
	}
	return token, nil
}

func (k *Kite) FetchHistory(ctx context.Context, ticker string, days int) (types.Series, error) {
	ctx, span := logger.StartSpan(ctx, "kite-fetch-history")
	defer span.End()

	token, err := k.instrumentToken(ctx, ticker)
	if err != nil {
		return nil, err
	}

	to := time.Now()
	from := to.AddDate(0, 0, -days)
	data, err := k.kc.GetHistoricalData(token, "day", from, to, false, false)
	if err != nil {
		return nil, fmt.Errorf("historical data for %s: %w", ticker, err)
	}

	series := make(types.Series, 0, len(data))
	for _, d := range data {
		series = append(series, types.Candle{
			Ts:    d.Date.Unix(),
			Open:  d.Open,
			High:  d.High,
			Low:   d.Low,
			Close: d.Close,
			Vol:   float64(d.Volume),
		})
	}
	logger.Debug(ctx, "History fetched", "ticker", ticker, "candles", len(series))
	return series, nil
}

// Static generates a reproducible synthetic daily history per ticker, for
// dry runs and tests without broker credentials.
type Static struct{}

func (Static) FetchHistory(_ context.Context, ticker string, days int) (types.Series, error) {
	h := fnv.New64a()
	h.Write([]byte(ticker))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	n := days
	base := 200 + rng.Float64()*1800
	drift := (rng.Float64() - 0.3) * 0.5
	now := time.Now().Unix()

	series := make(types.Series, 0, n)
	price := base
	for i := 0; i < n; i++ {
		price += drift + (rng.Float64()-0.5)*base*0.02
		if price < 1 {
			price = 1
		}
		high := price + rng.Float64()*base*0.01
		low := price - rng.Float64()*base*0.01
		series = append(series, types.Candle{
			Ts:    now - int64((n-i)*86400),
			Open:  price - drift,
			High:  high,
			Low:   low,
			Close: price,
			Vol:   50000 + rng.Float64()*500000,
		})
	}
	return series, nil
}
