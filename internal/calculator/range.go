package calculator

import (
	"errors"
	"math"
)

// RangeOver scans the most recent window bars and returns the highest high and lowest low.
func RangeOver(highs, lows []float64, window int) (high, low float64, err error) {
	if len(highs) == 0 || len(highs) != len(lows) {
		return 0, 0, errors.New("highs and lows must be non-empty and aligned")
	}
	if window <= 0 {
		return 0, 0, errors.New("window must be positive")
	}
	n := len(highs)
	start := n - window
	if start < 0 {
		start = 0
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for i := start; i < n; i++ {
		if highs[i] > high {
			high = highs[i]
		}
		if lows[i] < low {
			low = lows[i]
		}
	}
	return high, low, nil
}

// PositionInRange returns where current sits within [low, high] (0.0~1.0).
// A flat range reads as the midpoint.
func PositionInRange(current, high, low float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	pos := (current - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos, nil
}
