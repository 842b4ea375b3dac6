package calculator

import (
	"errors"

	"github.com/markcheno/go-talib"

	"SignalSentinel/internal/model"
)

// CalculateATR returns the latest Wilder average true range.
func CalculateATR(highs, lows, closes []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(closes) < period+1 || len(highs) != len(closes) || len(lows) != len(closes) {
		return 0, errors.New("not enough data for ATR calculation")
	}
	atr := talib.Atr(highs, lows, closes, period)
	return atr[len(atr)-1], nil
}

func computeATR(in *Input, cfg Config, set *model.IndicatorSet) error {
	atr, err := CalculateATR(in.Highs, in.Lows, in.Closes, cfg.ATRPeriod)
	if err != nil {
		return in.insufficient(cfg.ATRPeriod + 1)
	}
	pct := atr / in.Price() * 100

	interp := "normal volatility"
	switch {
	case pct > cfg.ATRHighPct:
		interp = "high volatility"
	case pct < cfg.ATRLowPct:
		interp = "low volatility"
	}
	set.ATR = model.ATRReading{
		Value:          atr,
		Percent:        pct,
		Signal:         model.ActionHold,
		Interpretation: interp,
	}
	return nil
}
