package model

// PatternType enumerates the chart patterns the detector recognizes.
type PatternType string

const (
	PatternDoubleTop          PatternType = "double_top"
	PatternDoubleBottom       PatternType = "double_bottom"
	PatternHeadAndShoulders   PatternType = "head_and_shoulders"
	PatternAscendingTriangle  PatternType = "ascending_triangle"
	PatternDescendingTriangle PatternType = "descending_triangle"
)

// Pattern is an advisory chart pattern match.
type Pattern struct {
	Type       PatternType `json:"type"`
	Signal     Action      `json:"signal"`
	Confidence float64     `json:"confidence"` // 0..1
}

// Level is a support or resistance price with a touch-count strength.
type Level struct {
	Price    float64 `json:"price"`
	Strength float64 `json:"strength"` // 0..1
	Touches  int     `json:"touches"`
}
