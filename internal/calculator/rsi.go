package calculator

import (
	"errors"

	"SignalSentinel/internal/model"
)

// CalculateRSI computes the Wilder-smoothed RSI over the given period.
// Requires at least period+1 closes.
//
// A window with no movement at all returns 50. A window with gains but no
// losses hits the zero-division guard and returns 100 (and 0 for the mirror
// case); saturated reports that the value is pinned by that guard.
func CalculateRSI(closes []float64, period int) (rsi float64, saturated bool, err error) {
	if period <= 0 {
		return 0, false, errors.New("period must be positive")
	}
	if len(closes) < period+1 {
		return 0, false, errors.New("not enough data for RSI calculation")
	}

	// Initial average gain/loss over the first `period` changes
	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	// Wilder smoothing for remaining bars
	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	switch {
	case avgGain == 0 && avgLoss == 0:
		return 50.0, false, nil
	case avgLoss == 0:
		return 100.0, true, nil
	case avgGain == 0:
		return 0.0, true, nil
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs), false, nil
}

// RSISignal maps an RSI value to a signal and interpretation band.
func RSISignal(rsi float64, cfg Config) (model.Action, string) {
	sig := model.ActionHold
	switch {
	case rsi > cfg.RSIOverbought:
		sig = model.ActionSell
	case rsi < cfg.RSIOversold:
		sig = model.ActionBuy
	}

	var interp string
	switch {
	case rsi > cfg.RSIExtremeOverbought:
		interp = "extremely overbought"
	case rsi > cfg.RSIOverbought:
		interp = "overbought"
	case rsi < cfg.RSIExtremeOversold:
		interp = "extremely oversold"
	case rsi < cfg.RSIOversold:
		interp = "oversold"
	default:
		interp = "neutral"
	}
	return sig, interp
}

func computeRSI(in *Input, cfg Config, set *model.IndicatorSet) error {
	rsi, saturated, err := CalculateRSI(in.Closes, cfg.RSIPeriod)
	if err != nil {
		return in.insufficient(cfg.RSIPeriod + 1)
	}
	sig, interp := RSISignal(rsi, cfg)
	set.RSI = model.RSIReading{
		Value:          rsi,
		Saturated:      saturated,
		Signal:         sig,
		Interpretation: interp,
	}
	return nil
}
