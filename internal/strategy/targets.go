package strategy

import (
	"math"

	"github.com/shopspring/decimal"

	"SignalSentinel/internal/model"
	"SignalSentinel/internal/pattern"
)

// targets derives target and stop prices from daily volatility. For BUY the
// nearest resistance above and support below may tighten them, never loosen.
func targets(action model.Action, price, vol, confidence float64, support, resistance []model.Level, cfg Config) (target, stop float64) {
	switch action {
	case model.ActionBuy:
		target = price * (1 + vol*cfg.TargetVolMultiple*confidence/100)
		stop = price * (1 - vol*cfg.StopVolMultiple)
		if r, ok := pattern.NearestAbove(resistance, price); ok {
			target = math.Min(target, r)
		}
		if s, ok := pattern.NearestBelow(support, price); ok {
			stop = math.Max(stop, s)
		}
	case model.ActionSell:
		target = price * (1 - vol*cfg.TargetVolMultiple*confidence/100)
		stop = price * (1 + vol*cfg.StopVolMultiple)
	default:
		target = price
		stop = price * (1 - vol*cfg.HoldStopVolMultiple)
	}
	return round(target, 2), round(stop, 2)
}

func round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
