package pattern

import (
	"math"
	"sort"

	"SignalSentinel/internal/model"
)

// Levels clusters local lows into support and local highs into resistance.
// A local extreme must be strictly beyond LevelNeighbors bars on each side.
// Each side returns at most MaxLevels levels, most touched first.
func (h *Heuristic) Levels(bars []model.PriceBar) (support, resistance []model.Level) {
	if h.cfg.LevelWindow > 0 && len(bars) > h.cfg.LevelWindow {
		bars = bars[len(bars)-h.cfg.LevelWindow:]
	}
	highs, lows := columns(bars)

	k := h.cfg.LevelNeighbors
	var mins, maxs []float64
	for i := k; i < len(bars)-k; i++ {
		isMin, isMax := true, true
		for j := i - k; j <= i+k; j++ {
			if j == i {
				continue
			}
			if lows[j] <= lows[i] {
				isMin = false
			}
			if highs[j] >= highs[i] {
				isMax = false
			}
		}
		if isMin {
			mins = append(mins, lows[i])
		}
		if isMax {
			maxs = append(maxs, highs[i])
		}
	}

	support = h.rank(cluster(mins, h.cfg.LevelCluster), lows)
	resistance = h.rank(cluster(maxs, h.cfg.LevelCluster), highs)
	return support, resistance
}

// cluster sorts the extrema and merges each value into the current cluster
// while it is within tol of the previous value, returning each cluster's mean.
func cluster(values []float64, tol float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	var out []float64
	prev, sum, n := sorted[0], 0.0, 0
	for _, v := range sorted {
		if (v-prev)/prev > tol {
			out = append(out, sum/float64(n))
			sum, n = 0, 0
		}
		sum += v
		n++
		prev = v
	}
	return append(out, sum/float64(n))
}

func (h *Heuristic) rank(prices, touchSeries []float64) []model.Level {
	if len(prices) == 0 {
		return nil
	}
	levels := make([]model.Level, 0, len(prices))
	for _, p := range prices {
		touches := 0
		for _, v := range touchSeries {
			if math.Abs(v-p)/p <= h.cfg.LevelTouch {
				touches++
			}
		}
		strength := 1.0
		if h.cfg.LevelFullTouch > 0 {
			strength = math.Min(float64(touches)/float64(h.cfg.LevelFullTouch), 1)
		}
		levels = append(levels, model.Level{Price: p, Strength: strength, Touches: touches})
	}

	sort.SliceStable(levels, func(i, j int) bool {
		if levels[i].Touches != levels[j].Touches {
			return levels[i].Touches > levels[j].Touches
		}
		return levels[i].Price < levels[j].Price
	})
	if h.cfg.MaxLevels > 0 && len(levels) > h.cfg.MaxLevels {
		levels = levels[:h.cfg.MaxLevels]
	}
	return levels
}

// NearestAbove returns the lowest level price strictly above price.
func NearestAbove(levels []model.Level, price float64) (float64, bool) {
	best, found := math.Inf(1), false
	for _, l := range levels {
		if l.Price > price && l.Price < best {
			best, found = l.Price, true
		}
	}
	return best, found
}

// NearestBelow returns the highest level price strictly below price.
func NearestBelow(levels []model.Level, price float64) (float64, bool) {
	best, found := math.Inf(-1), false
	for _, l := range levels {
		if l.Price < price && l.Price > best {
			best, found = l.Price, true
		}
	}
	return best, found
}
