package calculator

import (
	"fmt"

	"SignalSentinel/internal/model"
)

// Input is the column view of a validated price series.
type Input struct {
	Symbol  string
	Closes  []float64
	Highs   []float64
	Lows    []float64
	Volumes []float64
}

// NewInput splits a series into its price and volume columns.
func NewInput(series model.PriceSeries) *Input {
	return &Input{
		Symbol:  series.Symbol,
		Closes:  series.Closes(),
		Highs:   series.Highs(),
		Lows:    series.Lows(),
		Volumes: series.Volumes(),
	}
}

// Price is the latest close.
func (in *Input) Price() float64 { return in.Closes[len(in.Closes)-1] }

func (in *Input) insufficient(need int) error {
	return &model.InsufficientDataError{Symbol: in.Symbol, Have: len(in.Closes), Need: need}
}

// Indicator computes one reading and stores it on the set.
type Indicator struct {
	Name    string
	Compute func(in *Input, cfg Config, set *model.IndicatorSet) error
}

// Indicators is the evaluation order used by Compute.
var Indicators = []Indicator{
	{Name: "rsi", Compute: computeRSI},
	{Name: "macd", Compute: computeMACD},
	{Name: "bollinger", Compute: computeBollinger},
	{Name: "moving_averages", Compute: computeMovingAverages},
	{Name: "stochastic", Compute: computeStochastic},
	{Name: "atr", Compute: computeATR},
	{Name: "volatility", Compute: computeVolatility},
	{Name: "volume", Compute: computeVolume},
	{Name: "trend", Compute: computeTrend},
}

// Compute validates the series and evaluates every indicator on it.
func Compute(series model.PriceSeries, cfg Config) (model.IndicatorSet, error) {
	if err := Validate(series, cfg.MinBars); err != nil {
		return model.IndicatorSet{}, err
	}
	in := NewInput(series)
	set := model.IndicatorSet{Price: in.Price()}
	for _, ind := range Indicators {
		if err := ind.Compute(in, cfg, &set); err != nil {
			return model.IndicatorSet{}, fmt.Errorf("%s: %w", ind.Name, err)
		}
	}
	return set, nil
}
