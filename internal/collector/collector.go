// Package collector fetches price history from market data providers and
// turns it into validated, chronological series.
package collector

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/time/rate"

	"SignalSentinel/internal/calculator"
	"SignalSentinel/internal/logging"
	"SignalSentinel/internal/model"
)

// Collector fetches bars for a symbol and returns a validated series.
type Collector struct {
	Fetcher Fetcher
	Days    int // bars requested per symbol
	MinBars int
	logger  *logging.Logger
}

// NewCollector creates a Collector requesting days bars per symbol.
func NewCollector(fetcher Fetcher, days, minBars int, logger *logging.Logger) *Collector {
	if logger == nil {
		logger = logging.NewSilent()
	}
	return &Collector{Fetcher: fetcher, Days: days, MinBars: minBars, logger: logger}
}

// Collect fetches, orders and validates the daily history of symbol.
func (c *Collector) Collect(ctx context.Context, symbol string) (model.PriceSeries, error) {
	bars, err := c.Fetcher.FetchDailyBars(ctx, symbol, c.Days)
	if err != nil {
		return model.PriceSeries{}, fmt.Errorf("fetch daily bars from %s: %w", c.Fetcher.Name(), err)
	}

	series := model.PriceSeries{
		Symbol:    symbol,
		Bars:      normalize(bars),
		FetchedAt: time.Now().UTC(),
	}
	if dropped := len(bars) - len(series.Bars); dropped > 0 {
		c.logger.Debug().Str("symbol", symbol).Int("dropped", dropped).Msg("merged duplicate session bars")
	}
	if err := calculator.Validate(series, c.MinBars); err != nil {
		return model.PriceSeries{}, err
	}
	c.logger.Debug().Str("symbol", symbol).Int("bars", series.Len()).Str("source", c.Fetcher.Name()).Msg("collected")
	return series, nil
}

// normalize sorts bars chronologically and keeps the last bar of each
// calendar day, so a live intraday bar replaces an earlier snapshot.
func normalize(bars []model.PriceBar) []model.PriceBar {
	sorted := make([]model.PriceBar, len(bars))
	copy(sorted, bars)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	out := sorted[:0]
	for _, b := range sorted {
		if n := len(out); n > 0 && sameDay(out[n-1].Date, b.Date) {
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

func lastN(bars []model.PriceBar, n int) []model.PriceBar {
	if n > 0 && len(bars) > n {
		return bars[len(bars)-n:]
	}
	return bars
}

// newLimiter allows rps requests per second; rps <= 0 disables limiting.
func newLimiter(rps int) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(rps), rps)
}

// NewFetcher builds the fetcher named by provider.
func NewFetcher(provider, baseURL, apiKey, proxyURL string, rps int) (Fetcher, error) {
	switch provider {
	case "yahoo", "":
		f := NewYahooFetcher(proxyURL, rps)
		if baseURL != "" {
			f.BaseURL = baseURL
		}
		return f, nil
	case "vstrader":
		if baseURL == "" {
			return nil, fmt.Errorf("vstrader requires data_source.base_url")
		}
		return NewVsTraderFetcher(baseURL, apiKey, proxyURL, rps), nil
	case "mock":
		return &MockFetcher{Price: 100}, nil
	default:
		return nil, fmt.Errorf("unknown data provider %q", provider)
	}
}
