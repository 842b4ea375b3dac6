package strategy

import (
	"fmt"
	"math"

	"SignalSentinel/internal/calculator"
	"SignalSentinel/internal/model"
)

// Vote is one directional opinion feeding the technical score.
type Vote struct {
	Name     string
	Signal   model.Action
	Strength float64 // 0..1
}

// technicalVotes collects the RSI, MACD, moving-average and pattern votes.
// Bollinger, stochastic and ATR are descriptive and do not vote.
func technicalVotes(ind model.IndicatorSet, patterns []model.Pattern, cfg Config) []Vote {
	rsiStrength := math.Abs(ind.RSI.Value-50) / 50
	if ind.RSI.Saturated {
		// pinned by the zero-division guard, not by an observed loss/gain balance
		rsiStrength = 0
	}

	votes := []Vote{
		{Name: "RSI", Signal: ind.RSI.Signal, Strength: rsiStrength},
		{Name: "MACD", Signal: ind.MACD.Signal, Strength: math.Min(math.Abs(ind.MACD.Histogram)/cfg.MACDScale, 1)},
		{Name: "MA", Signal: ind.MovingAverages.Signal, Strength: cfg.MAStrength},
	}
	for _, p := range patterns {
		votes = append(votes, Vote{Name: string(p.Type), Signal: p.Signal, Strength: p.Confidence})
	}
	return votes
}

// scoreTechnical nets BUY against SELL strength, normalized by the total
// directional strength (floored at MinTechnicalWeight) into [-1,1].
func scoreTechnical(votes []Vote, cfg Config) float64 {
	var net, total float64
	for _, v := range votes {
		dir := v.Signal.Direction()
		if dir == 0 {
			continue
		}
		net += dir * v.Strength
		total += v.Strength
	}
	return clamp(net/math.Max(total, cfg.MinTechnicalWeight), -1, 1)
}

// technicalSignal discretizes the technical score for reporting.
func technicalSignal(score float64, cfg Config) model.Action {
	switch {
	case score > cfg.TechnicalSignal:
		return model.ActionBuy
	case score < -cfg.TechnicalSignal:
		return model.ActionSell
	default:
		return model.ActionHold
	}
}

// scoreVolume maps the recent/prior volume ratio to a small bias.
func scoreVolume(ratio float64, ind calculator.Config, cfg Config) float64 {
	switch {
	case ratio > ind.VolumeSurge:
		return cfg.VolumeSurgeScore
	case ratio > ind.VolumeElevated:
		return cfg.VolumeElevatedScore
	case ratio < ind.VolumeLight:
		return cfg.VolumeLightScore
	default:
		return 0
	}
}

// decide maps the combined score to an action and its confidence.
// Both thresholds are exclusive.
func decide(combined float64, cfg Config) (model.Action, float64) {
	mag := math.Abs(combined)
	switch {
	case combined > cfg.BuyThreshold:
		return model.ActionBuy, math.Min(cfg.ConfidenceCap, cfg.DirectionalBase+mag*cfg.DirectionalSlope)
	case combined < cfg.SellThreshold:
		return model.ActionSell, math.Min(cfg.ConfidenceCap, cfg.DirectionalBase+mag*cfg.DirectionalSlope)
	default:
		return model.ActionHold, math.Max(cfg.HoldFloor, cfg.HoldBase-mag*cfg.HoldSlope)
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func signed(v float64) string {
	return fmt.Sprintf("%+.2f", v)
}
