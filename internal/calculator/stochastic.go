package calculator

import (
	"errors"

	"SignalSentinel/internal/model"
)

// CalculateStochastic returns %K for the latest bar and %D as the SMA of the
// last dPeriod %K values. Each %K is the close's position inside the kPeriod
// high/low range, scaled to 0..100.
func CalculateStochastic(highs, lows, closes []float64, kPeriod, dPeriod int) (k, d float64, err error) {
	if kPeriod <= 0 || dPeriod <= 0 {
		return 0, 0, errors.New("periods must be positive")
	}
	if len(closes) < kPeriod+dPeriod-1 || len(highs) != len(closes) || len(lows) != len(closes) {
		return 0, 0, errors.New("not enough data for stochastic calculation")
	}

	n := len(closes)
	ks := make([]float64, dPeriod)
	for j := 0; j < dPeriod; j++ {
		end := n - dPeriod + 1 + j
		high, low, err := RangeOver(highs[:end], lows[:end], kPeriod)
		if err != nil {
			return 0, 0, err
		}
		pos, err := PositionInRange(closes[end-1], high, low)
		if err != nil {
			return 0, 0, err
		}
		ks[j] = pos * 100
	}

	d, err = CalculateSMA(ks, dPeriod)
	if err != nil {
		return 0, 0, err
	}
	return ks[dPeriod-1], d, nil
}

// StochasticSignal: %K and %D both above overbought is SELL, both below
// oversold is BUY.
func StochasticSignal(k, d float64, cfg Config) (model.Action, string) {
	switch {
	case k > cfg.StochOverbought && d > cfg.StochOverbought:
		return model.ActionSell, "overbought"
	case k < cfg.StochOversold && d < cfg.StochOversold:
		return model.ActionBuy, "oversold"
	default:
		return model.ActionHold, "neutral"
	}
}

func computeStochastic(in *Input, cfg Config, set *model.IndicatorSet) error {
	k, d, err := CalculateStochastic(in.Highs, in.Lows, in.Closes, cfg.StochK, cfg.StochD)
	if err != nil {
		return in.insufficient(cfg.StochK + cfg.StochD - 1)
	}
	sig, interp := StochasticSignal(k, d, cfg)
	set.Stochastic = model.StochasticReading{K: k, D: d, Signal: sig, Interpretation: interp}
	return nil
}
