package calculator

import (
	"errors"

	"github.com/markcheno/go-talib"

	"SignalSentinel/internal/model"
)

const (
	BandNearUpper = "near_upper"
	BandNearLower = "near_lower"
	BandMiddle    = "middle"
)

// CalculateBollinger returns the bands around the period SMA at k population
// standard deviations.
func CalculateBollinger(closes []float64, period int, k float64) (upper, middle, lower float64, err error) {
	if period <= 1 {
		return 0, 0, 0, errors.New("period must be greater than 1")
	}
	middle, err = CalculateSMA(closes, period)
	if err != nil {
		return 0, 0, 0, err
	}
	sd := talib.StdDev(closes[len(closes)-period:], period, 1)
	sigma := sd[len(sd)-1]
	return middle + k*sigma, middle, middle - k*sigma, nil
}

// BollingerPosition places price within the bands. edge is the fraction of
// the band range at each end that counts as "near" a band. Collapsed bands
// are always middle.
func BollingerPosition(price, upper, lower, edge float64) string {
	width := upper - lower
	if width <= 0 {
		return BandMiddle
	}
	switch {
	case price >= upper-edge*width:
		return BandNearUpper
	case price <= lower+edge*width:
		return BandNearLower
	default:
		return BandMiddle
	}
}

func computeBollinger(in *Input, cfg Config, set *model.IndicatorSet) error {
	upper, middle, lower, err := CalculateBollinger(in.Closes, cfg.BollingerPeriod, cfg.BollingerK)
	if err != nil {
		return in.insufficient(cfg.BollingerPeriod)
	}

	price := in.Price()
	reading := model.BollingerReading{
		Upper:    upper,
		Middle:   middle,
		Lower:    lower,
		Position: BollingerPosition(price, upper, lower, cfg.BollingerEdge),
		Signal:   model.ActionHold,
	}
	switch {
	case upper == lower:
		reading.Interpretation = "bands collapsed, no dispersion"
	case price >= upper:
		reading.Signal = model.ActionSell
		reading.Interpretation = "price at or above the upper band"
	case price <= lower:
		reading.Signal = model.ActionBuy
		reading.Interpretation = "price at or below the lower band"
	case reading.Position == BandNearUpper:
		reading.Interpretation = "price pressing the upper band"
	case reading.Position == BandNearLower:
		reading.Interpretation = "price pressing the lower band"
	default:
		reading.Interpretation = "price inside the bands"
	}
	set.Bollinger = reading
	return nil
}
