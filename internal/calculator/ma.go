package calculator

import (
	"errors"
	"fmt"

	"github.com/markcheno/go-talib"

	"SignalSentinel/internal/model"
)

// CalculateSMA computes the simple moving average of the last period prices.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, fmt.Errorf("not enough data for SMA%d calculation", period)
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// EMASeries returns the SMA-seeded exponential moving average for every bar.
// Entries before index period-1 are zero.
func EMASeries(prices []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	if len(prices) < period {
		return nil, fmt.Errorf("not enough data for EMA%d calculation", period)
	}
	return talib.Ema(prices, period), nil
}

// CalculateEMA returns the latest EMA value.
func CalculateEMA(prices []float64, period int) (float64, error) {
	series, err := EMASeries(prices, period)
	if err != nil {
		return 0, err
	}
	return series[len(series)-1], nil
}

// MovingAverageSignal: price > SMA20 > SMA50 is BUY, price < SMA20 < SMA50
// is SELL, anything else HOLD.
func MovingAverageSignal(price, short, long float64) (model.Action, string) {
	switch {
	case price > short && short > long:
		return model.ActionBuy, "bullish alignment: price above rising averages"
	case price < short && short < long:
		return model.ActionSell, "bearish alignment: price below falling averages"
	default:
		return model.ActionHold, "mixed alignment"
	}
}

func computeMovingAverages(in *Input, cfg Config, set *model.IndicatorSet) error {
	sma20, err := CalculateSMA(in.Closes, cfg.SMAShort)
	if err != nil {
		return in.insufficient(cfg.SMAShort)
	}
	sma50, err := CalculateSMA(in.Closes, cfg.SMALong)
	if err != nil {
		return in.insufficient(cfg.SMALong)
	}
	ema12, err := CalculateEMA(in.Closes, cfg.EMAFast)
	if err != nil {
		return in.insufficient(cfg.EMAFast)
	}
	ema26, err := CalculateEMA(in.Closes, cfg.EMASlow)
	if err != nil {
		return in.insufficient(cfg.EMASlow)
	}

	sig, interp := MovingAverageSignal(in.Price(), sma20, sma50)
	set.MovingAverages = model.MovingAverageReading{
		SMA20:          sma20,
		SMA50:          sma50,
		EMA12:          ema12,
		EMA26:          ema26,
		Signal:         sig,
		Interpretation: interp,
	}
	return nil
}
