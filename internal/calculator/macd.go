package calculator

import (
	"errors"
	"math"

	"github.com/markcheno/go-talib"

	"SignalSentinel/internal/model"
)

// macdEpsilon absorbs floating-point residue so a converged MACD reads as zero.
const macdEpsilon = 1e-9

// CalculateMACD returns the latest MACD line, signal line and histogram.
// The signal line is the EMA of the MACD series starting where the slow EMA
// becomes defined.
func CalculateMACD(closes []float64, fast, slow, signal int) (line, signalLine, histogram float64, err error) {
	if fast <= 0 || slow <= 0 || signal <= 0 {
		return 0, 0, 0, errors.New("periods must be positive")
	}
	if fast >= slow {
		return 0, 0, 0, errors.New("fast period must be shorter than slow period")
	}
	if len(closes) < slow+signal-1 {
		return 0, 0, 0, errors.New("not enough data for MACD calculation")
	}

	fastEMA := talib.Ema(closes, fast)
	slowEMA := talib.Ema(closes, slow)

	macd := make([]float64, 0, len(closes)-slow+1)
	for i := slow - 1; i < len(closes); i++ {
		macd = append(macd, fastEMA[i]-slowEMA[i])
	}
	sig := talib.Ema(macd, signal)

	line = zeroIfTiny(macd[len(macd)-1])
	signalLine = zeroIfTiny(sig[len(sig)-1])
	histogram = zeroIfTiny(line - signalLine)
	return line, signalLine, histogram, nil
}

// MACDSignal requires the line/signal spread and the histogram to agree in
// direction for BUY or SELL.
func MACDSignal(line, signalLine, histogram float64) (model.Action, string) {
	spread := line - signalLine
	switch {
	case spread > macdEpsilon && histogram > macdEpsilon:
		return model.ActionBuy, "bullish momentum: MACD above signal line"
	case spread < -macdEpsilon && histogram < -macdEpsilon:
		return model.ActionSell, "bearish momentum: MACD below signal line"
	default:
		return model.ActionHold, "flat momentum"
	}
}

func computeMACD(in *Input, cfg Config, set *model.IndicatorSet) error {
	line, signalLine, hist, err := CalculateMACD(in.Closes, cfg.MACDFast, cfg.MACDSlow, cfg.MACDSignal)
	if err != nil {
		return in.insufficient(cfg.MACDSlow + cfg.MACDSignal - 1)
	}
	sig, interp := MACDSignal(line, signalLine, hist)
	set.MACD = model.MACDReading{
		Line:           line,
		SignalLine:     signalLine,
		Histogram:      hist,
		Signal:         sig,
		Interpretation: interp,
	}
	return nil
}

func zeroIfTiny(v float64) float64 {
	if math.Abs(v) < macdEpsilon {
		return 0
	}
	return v
}
