// Package seriestest builds deterministic price series for tests.
package seriestest

import (
	"time"

	"SignalSentinel/internal/model"
)

// Start is the date of the first generated bar.
var Start = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

// FromCloses builds one bar per close with a ±1 high/low band and constant volume.
func FromCloses(symbol string, closes []float64) model.PriceSeries {
	bars := make([]model.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = model.PriceBar{
			Date:   Start.AddDate(0, 0, i),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		}
	}
	return model.PriceSeries{Symbol: symbol, Bars: bars, FetchedAt: Start.AddDate(0, 0, len(closes))}
}

// Flat returns n bars all closing at price.
func Flat(symbol string, n int, price float64) model.PriceSeries {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = price
	}
	return FromCloses(symbol, closes)
}

// Linear returns n bars closing at start + i*step.
func Linear(symbol string, n int, start, step float64) model.PriceSeries {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = start + float64(i)*step
	}
	return FromCloses(symbol, closes)
}

// WithVolumes overwrites bar volumes in order. Extra volumes are ignored.
func WithVolumes(series model.PriceSeries, volumes []float64) model.PriceSeries {
	bars := make([]model.PriceBar, len(series.Bars))
	copy(bars, series.Bars)
	for i := range bars {
		if i < len(volumes) {
			bars[i].Volume = volumes[i]
		}
	}
	series.Bars = bars
	return series
}
