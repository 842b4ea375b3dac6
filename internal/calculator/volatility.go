package calculator

import (
	"errors"
	"math"

	"github.com/markcheno/go-talib"

	"SignalSentinel/internal/model"
)

// CalculateVolatility returns the population standard deviation of the last
// window simple daily returns.
func CalculateVolatility(closes []float64, window int) (float64, error) {
	if window <= 1 {
		return 0, errors.New("window must be greater than 1")
	}
	if len(closes) < window+1 {
		return 0, errors.New("not enough data for volatility calculation")
	}
	returns := make([]float64, window)
	base := len(closes) - window - 1
	for i := 0; i < window; i++ {
		prev := closes[base+i]
		returns[i] = (closes[base+i+1] - prev) / prev
	}
	sd := talib.StdDev(returns, window, 1)
	return sd[len(sd)-1], nil
}

// CalculateVolumeRatio compares the mean of the last recent volumes with the
// mean of the prior window just before them. A zero baseline has no
// meaningful ratio and reads as 1.
func CalculateVolumeRatio(volumes []float64, recent, prior int) (recentAvg, priorAvg, ratio float64, err error) {
	if recent <= 0 || prior <= 0 {
		return 0, 0, 0, errors.New("windows must be positive")
	}
	n := len(volumes)
	if n < recent+prior {
		return 0, 0, 0, errors.New("not enough data for volume calculation")
	}
	recentAvg, _ = CalculateSMA(volumes, recent)
	priorAvg, _ = CalculateSMA(volumes[:n-recent], prior)

	ratio = 1
	if priorAvg > 0 {
		ratio = recentAvg / priorAvg
	}
	return recentAvg, priorAvg, ratio, nil
}

// VolumeInterpretation labels a volume ratio.
func VolumeInterpretation(ratio float64, cfg Config) string {
	switch {
	case ratio > cfg.VolumeSurge:
		return "surging volume"
	case ratio > cfg.VolumeElevated:
		return "elevated volume"
	case ratio < cfg.VolumeLight:
		return "light volume"
	default:
		return "normal volume"
	}
}

// CalculateTrend fits a least-squares line over the last window closes and
// expresses the slope across the window as a fraction of the latest close.
func CalculateTrend(closes []float64, window int, flat, full float64) (model.TrendReading, error) {
	if window <= 1 {
		return model.TrendReading{}, errors.New("window must be greater than 1")
	}
	if len(closes) < window {
		return model.TrendReading{}, errors.New("not enough data for trend calculation")
	}
	tail := closes[len(closes)-window:]
	slopes := talib.LinearRegSlope(tail, window)
	price := tail[len(tail)-1]
	change := slopes[len(slopes)-1] * float64(window) / price

	dir := model.TrendSideways
	switch {
	case change > flat:
		dir = model.TrendUp
	case change < -flat:
		dir = model.TrendDown
	}
	strength := 1.0
	if full > 0 {
		strength = math.Min(math.Abs(change)/full, 1)
	}
	return model.TrendReading{Direction: dir, Strength: strength, Change: change}, nil
}

func computeVolatility(in *Input, cfg Config, set *model.IndicatorSet) error {
	vol, err := CalculateVolatility(in.Closes, cfg.VolatilityWindow)
	if err != nil {
		return in.insufficient(cfg.VolatilityWindow + 1)
	}
	set.Volatility = vol
	return nil
}

func computeVolume(in *Input, cfg Config, set *model.IndicatorSet) error {
	recentAvg, priorAvg, ratio, err := CalculateVolumeRatio(in.Volumes, cfg.VolumeRecent, cfg.VolumePrior)
	if err != nil {
		return in.insufficient(cfg.VolumeRecent + cfg.VolumePrior)
	}
	set.Volume = model.VolumeReading{
		RecentAvg:      recentAvg,
		PriorAvg:       priorAvg,
		Ratio:          ratio,
		Interpretation: VolumeInterpretation(ratio, cfg),
	}
	return nil
}

func computeTrend(in *Input, cfg Config, set *model.IndicatorSet) error {
	trend, err := CalculateTrend(in.Closes, cfg.TrendWindow, cfg.TrendFlat, cfg.TrendFull)
	if err != nil {
		return in.insufficient(cfg.TrendWindow)
	}
	set.Trend = trend
	return nil
}
