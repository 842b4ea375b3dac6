package model

import "time"

// PriceBar represents a single daily candlestick bar.
type PriceBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// PriceSeries holds the chronological bar history for one symbol.
type PriceSeries struct {
	Symbol    string     `json:"symbol"`
	Bars      []PriceBar `json:"bars"`
	FetchedAt time.Time  `json:"fetched_at"`
}

// Len returns the number of bars.
func (s PriceSeries) Len() int { return len(s.Bars) }

// Last returns the most recent bar. The series must not be empty.
func (s PriceSeries) Last() PriceBar { return s.Bars[len(s.Bars)-1] }

// Closes extracts close prices in chronological order.
func (s PriceSeries) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

// Highs extracts high prices in chronological order.
func (s PriceSeries) Highs() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.High
	}
	return out
}

// Lows extracts low prices in chronological order.
func (s PriceSeries) Lows() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Low
	}
	return out
}

// Volumes extracts volumes in chronological order.
func (s PriceSeries) Volumes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Volume
	}
	return out
}
