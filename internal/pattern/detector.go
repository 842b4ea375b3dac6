// Package pattern recognizes chart patterns and support/resistance levels
// from recent bar extremes.
package pattern

import (
	"math"

	"SignalSentinel/internal/model"
)

// Detector finds chart patterns and price levels in a bar history.
// Implementations must be pure: the same bars always yield the same result.
type Detector interface {
	Patterns(bars []model.PriceBar) []model.Pattern
	Levels(bars []model.PriceBar) (support, resistance []model.Level)
}

// Config holds the lookbacks and tolerances of the heuristic detector.
type Config struct {
	DoubleWindow    int     `yaml:"double_window"`
	DoubleTolerance float64 `yaml:"double_tolerance"` // max relative gap between the two extremes

	HeadShouldersWindow    int     `yaml:"head_shoulders_window"`
	HeadShouldersTolerance float64 `yaml:"head_shoulders_tolerance"` // max relative gap between shoulders

	TriangleWindow     int     `yaml:"triangle_window"`
	TriangleFlat       float64 `yaml:"triangle_flat"` // |trend| below this is near-flat
	TriangleConfidence float64 `yaml:"triangle_confidence"`

	LevelWindow    int     `yaml:"level_window"`
	LevelNeighbors int     `yaml:"level_neighbors"`
	LevelCluster   float64 `yaml:"level_cluster"` // relative distance merging adjacent extrema
	LevelTouch     float64 `yaml:"level_touch"`   // relative distance counted as a touch
	LevelFullTouch int     `yaml:"level_full_touch"`
	MaxLevels      int     `yaml:"max_levels"`
}

// DefaultConfig returns the standard heuristic parameters.
func DefaultConfig() Config {
	return Config{
		DoubleWindow:    20,
		DoubleTolerance: 0.02,

		HeadShouldersWindow:    30,
		HeadShouldersTolerance: 0.05,

		TriangleWindow:     20,
		TriangleFlat:       0.1,
		TriangleConfidence: 0.6,

		LevelWindow:    50,
		LevelNeighbors: 2,
		LevelCluster:   0.02,
		LevelTouch:     0.01,
		LevelFullTouch: 3,
		MaxLevels:      3,
	}
}

// Heuristic is the threshold-based Detector.
type Heuristic struct {
	cfg Config
}

// NewHeuristic creates a heuristic detector.
func NewHeuristic(cfg Config) *Heuristic {
	return &Heuristic{cfg: cfg}
}

// Patterns returns every matching pattern in a fixed order: double top,
// double bottom, head and shoulders, ascending triangle, descending triangle.
// Windows longer than the history are skipped.
func (h *Heuristic) Patterns(bars []model.PriceBar) []model.Pattern {
	var out []model.Pattern
	highs, lows := columns(bars)

	if w := h.cfg.DoubleWindow; w >= 2 && len(bars) >= w {
		if p, ok := doubleTop(highs[len(highs)-w:], h.cfg.DoubleTolerance); ok {
			out = append(out, p)
		}
		if p, ok := doubleBottom(lows[len(lows)-w:], h.cfg.DoubleTolerance); ok {
			out = append(out, p)
		}
	}

	if w := h.cfg.HeadShouldersWindow; w >= 3 && len(bars) >= w {
		if p, ok := headAndShoulders(highs[len(highs)-w:], h.cfg.HeadShouldersTolerance); ok {
			out = append(out, p)
		}
	}

	if w := h.cfg.TriangleWindow; w >= 2 && len(bars) >= w {
		out = append(out, triangles(highs[len(highs)-w:], lows[len(lows)-w:], h.cfg)...)
	}
	return out
}

func doubleTop(highs []float64, tol float64) (model.Pattern, bool) {
	half := len(highs) / 2
	first, second := maxOf(highs[:half]), maxOf(highs[half:])
	diff := math.Abs(second-first) / first
	if diff >= tol {
		return model.Pattern{}, false
	}
	return model.Pattern{Type: model.PatternDoubleTop, Signal: model.ActionSell, Confidence: matchConfidence(diff, tol)}, true
}

func doubleBottom(lows []float64, tol float64) (model.Pattern, bool) {
	half := len(lows) / 2
	first, second := minOf(lows[:half]), minOf(lows[half:])
	diff := math.Abs(second-first) / first
	if diff >= tol {
		return model.Pattern{}, false
	}
	return model.Pattern{Type: model.PatternDoubleBottom, Signal: model.ActionBuy, Confidence: matchConfidence(diff, tol)}, true
}

func headAndShoulders(highs []float64, tol float64) (model.Pattern, bool) {
	third := len(highs) / 3
	left := maxOf(highs[:third])
	head := maxOf(highs[third : 2*third])
	right := maxOf(highs[2*third:])
	if head <= left || head <= right {
		return model.Pattern{}, false
	}
	diff := math.Abs(right-left) / left
	if diff >= tol {
		return model.Pattern{}, false
	}
	return model.Pattern{Type: model.PatternHeadAndShoulders, Signal: model.ActionSell, Confidence: matchConfidence(diff, tol)}, true
}

func triangles(highs, lows []float64, cfg Config) []model.Pattern {
	highTrend := relativeChange(highs)
	lowTrend := relativeChange(lows)
	flat := cfg.TriangleFlat

	var out []model.Pattern
	if math.Abs(lowTrend) < flat && highTrend >= flat {
		out = append(out, model.Pattern{Type: model.PatternAscendingTriangle, Signal: model.ActionBuy, Confidence: cfg.TriangleConfidence})
	}
	if math.Abs(highTrend) < flat && lowTrend <= -flat {
		out = append(out, model.Pattern{Type: model.PatternDescendingTriangle, Signal: model.ActionSell, Confidence: cfg.TriangleConfidence})
	}
	return out
}

// matchConfidence maps a gap of 0 to 1.0 and a gap at the tolerance to 0.5.
func matchConfidence(diff, tol float64) float64 {
	return 0.5 + 0.5*(1-diff/tol)
}

func relativeChange(values []float64) float64 {
	first := values[0]
	return (values[len(values)-1] - first) / first
}

func columns(bars []model.PriceBar) (highs, lows []float64) {
	highs = make([]float64, len(bars))
	lows = make([]float64, len(bars))
	for i, b := range bars {
		highs[i] = b.High
		lows[i] = b.Low
	}
	return highs, lows
}

func maxOf(values []float64) float64 {
	m := math.Inf(-1)
	for _, v := range values {
		if v > m {
			m = v
		}
	}
	return m
}

func minOf(values []float64) float64 {
	m := math.Inf(1)
	for _, v := range values {
		if v < m {
			m = v
		}
	}
	return m
}
