package strategy

import (
	"errors"
	"fmt"
	"runtime"

	"SignalSentinel/internal/calculator"
	"SignalSentinel/internal/fundamental"
	"SignalSentinel/internal/pattern"
	"SignalSentinel/internal/sentiment"
)

// Weights are the fusion weights of the four factor scores.
type Weights struct {
	Technical   float64 `yaml:"technical"`
	Sentiment   float64 `yaml:"sentiment"`
	Fundamental float64 `yaml:"fundamental"`
	Volume      float64 `yaml:"volume"`
}

// Config carries every fusion threshold. Nested configs belong to the
// component packages the engine drives.
type Config struct {
	Weights       Weights `yaml:"weights"`
	BuyThreshold  float64 `yaml:"buy_threshold"`
	SellThreshold float64 `yaml:"sell_threshold"`

	// technical vote strengths
	MACDScale          float64 `yaml:"macd_scale"` // |histogram| giving full strength
	MAStrength         float64 `yaml:"ma_strength"`
	MinTechnicalWeight float64 `yaml:"min_technical_weight"` // floor of the vote normalizer
	TechnicalSignal    float64 `yaml:"technical_signal"`     // |score| needed to call the technical side BUY/SELL

	VolumeSurgeScore    float64 `yaml:"volume_surge_score"`
	VolumeElevatedScore float64 `yaml:"volume_elevated_score"`
	VolumeLightScore    float64 `yaml:"volume_light_score"`

	ConfidenceCap    float64 `yaml:"confidence_cap"`
	DirectionalBase  float64 `yaml:"directional_base"`
	DirectionalSlope float64 `yaml:"directional_slope"`
	HoldBase         float64 `yaml:"hold_base"`
	HoldSlope        float64 `yaml:"hold_slope"`
	HoldFloor        float64 `yaml:"hold_floor"`

	TargetVolMultiple   float64 `yaml:"target_vol_multiple"`
	StopVolMultiple     float64 `yaml:"stop_vol_multiple"`
	HoldStopVolMultiple float64 `yaml:"hold_stop_vol_multiple"`

	StrongConviction float64 `yaml:"strong_conviction"`
	MixedSignals     float64 `yaml:"mixed_signals"`

	Workers int `yaml:"workers"`

	Indicators  calculator.Config  `yaml:"indicators"`
	Patterns    pattern.Config     `yaml:"patterns"`
	Sentiment   sentiment.Config   `yaml:"sentiment"`
	Fundamental fundamental.Config `yaml:"fundamental"`
}

// DefaultConfig returns the standard fusion parameters.
func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			Technical:   0.4,
			Sentiment:   0.3,
			Fundamental: 0.2,
			Volume:      0.1,
		},
		BuyThreshold:  0.3,
		SellThreshold: -0.3,

		MACDScale:          10,
		MAStrength:         0.7,
		MinTechnicalWeight: 0.5,
		TechnicalSignal:    0.1,

		VolumeSurgeScore:    0.3,
		VolumeElevatedScore: 0.1,
		VolumeLightScore:    -0.1,

		ConfidenceCap:    95,
		DirectionalBase:  60,
		DirectionalSlope: 35,
		HoldBase:         70,
		HoldSlope:        20,
		HoldFloor:        50,

		TargetVolMultiple:   3,
		StopVolMultiple:     2,
		HoldStopVolMultiple: 1.5,

		StrongConviction: 0.5,
		MixedSignals:     0.2,

		Workers: runtime.GOMAXPROCS(0),

		Indicators:  calculator.DefaultConfig(),
		Patterns:    pattern.DefaultConfig(),
		Sentiment:   sentiment.DefaultConfig(),
		Fundamental: fundamental.DefaultConfig(),
	}
}

// Validate checks the fusion parameters for consistency.
func (c Config) Validate() error {
	w := c.Weights
	if w.Technical < 0 || w.Sentiment < 0 || w.Fundamental < 0 || w.Volume < 0 {
		return errors.New("fusion weights must be non-negative")
	}
	if w.Technical+w.Sentiment+w.Fundamental+w.Volume == 0 {
		return errors.New("at least one fusion weight must be positive")
	}
	if c.BuyThreshold <= c.SellThreshold {
		return fmt.Errorf("buy threshold %.2f must be above sell threshold %.2f", c.BuyThreshold, c.SellThreshold)
	}
	if c.MinTechnicalWeight <= 0 {
		return errors.New("min_technical_weight must be positive")
	}
	if c.Indicators.MinBars <= 0 {
		return errors.New("indicators.min_bars must be positive")
	}
	if c.Workers < 0 {
		return errors.New("workers must not be negative")
	}
	return nil
}
