package calculator

import (
	"fmt"
	"math"

	"SignalSentinel/internal/model"
)

// Validate rejects series that are too short or contain malformed bars.
func Validate(series model.PriceSeries, minBars int) error {
	if series.Len() < minBars {
		return &model.InsufficientDataError{Symbol: series.Symbol, Have: series.Len(), Need: minBars}
	}
	for i, b := range series.Bars {
		if reason := checkBar(b); reason != "" {
			return &model.InvalidInputError{Symbol: series.Symbol, Index: i, Reason: reason}
		}
		if i > 0 && !b.Date.After(series.Bars[i-1].Date) {
			return &model.InvalidInputError{
				Symbol: series.Symbol,
				Index:  i,
				Reason: fmt.Sprintf("date %s not after previous bar %s", b.Date.Format("2006-01-02"), series.Bars[i-1].Date.Format("2006-01-02")),
			}
		}
	}
	return nil
}

func checkBar(b model.PriceBar) string {
	prices := []struct {
		name string
		v    float64
	}{
		{"open", b.Open}, {"high", b.High}, {"low", b.Low}, {"close", b.Close},
	}
	for _, p := range prices {
		if math.IsNaN(p.v) || math.IsInf(p.v, 0) {
			return p.name + " is not finite"
		}
		if p.v <= 0 {
			return fmt.Sprintf("%s %.4f is not positive", p.name, p.v)
		}
	}
	if b.High < b.Low {
		return fmt.Sprintf("high %.4f below low %.4f", b.High, b.Low)
	}
	if math.IsNaN(b.Volume) || b.Volume < 0 {
		return "volume is negative or not a number"
	}
	return ""
}
