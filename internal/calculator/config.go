package calculator

// Config holds indicator lookback windows and signal thresholds.
type Config struct {
	MinBars int `yaml:"min_bars"`

	RSIPeriod            int     `yaml:"rsi_period"`
	RSIOverbought        float64 `yaml:"rsi_overbought"`
	RSIOversold          float64 `yaml:"rsi_oversold"`
	RSIExtremeOverbought float64 `yaml:"rsi_extreme_overbought"`
	RSIExtremeOversold   float64 `yaml:"rsi_extreme_oversold"`

	MACDFast   int `yaml:"macd_fast"`
	MACDSlow   int `yaml:"macd_slow"`
	MACDSignal int `yaml:"macd_signal"`

	BollingerPeriod int     `yaml:"bollinger_period"`
	BollingerK      float64 `yaml:"bollinger_k"`
	BollingerEdge   float64 `yaml:"bollinger_edge"` // fraction of band range counted as "near" a band

	SMAShort int `yaml:"sma_short"`
	SMALong  int `yaml:"sma_long"`
	EMAFast  int `yaml:"ema_fast"`
	EMASlow  int `yaml:"ema_slow"`

	StochK          int     `yaml:"stoch_k"`
	StochD          int     `yaml:"stoch_d"`
	StochOverbought float64 `yaml:"stoch_overbought"`
	StochOversold   float64 `yaml:"stoch_oversold"`

	ATRPeriod  int     `yaml:"atr_period"`
	ATRHighPct float64 `yaml:"atr_high_pct"`
	ATRLowPct  float64 `yaml:"atr_low_pct"`

	VolatilityWindow int `yaml:"volatility_window"`

	VolumeRecent   int     `yaml:"volume_recent"`
	VolumePrior    int     `yaml:"volume_prior"`
	VolumeSurge    float64 `yaml:"volume_surge"`
	VolumeElevated float64 `yaml:"volume_elevated"`
	VolumeLight    float64 `yaml:"volume_light"`

	TrendWindow int     `yaml:"trend_window"`
	TrendFlat   float64 `yaml:"trend_flat"` // |change| below this is sideways
	TrendFull   float64 `yaml:"trend_full"` // |change| at which strength reaches 1
}

// DefaultConfig returns the standard lookbacks: RSI 14, MACD 12/26/9,
// Bollinger 20±2σ, SMA 20/50, EMA 12/26, Stochastic 14/3, ATR 14.
func DefaultConfig() Config {
	return Config{
		MinBars: 50,

		RSIPeriod:            14,
		RSIOverbought:        70,
		RSIOversold:          30,
		RSIExtremeOverbought: 80,
		RSIExtremeOversold:   20,

		MACDFast:   12,
		MACDSlow:   26,
		MACDSignal: 9,

		BollingerPeriod: 20,
		BollingerK:      2,
		BollingerEdge:   0.2,

		SMAShort: 20,
		SMALong:  50,
		EMAFast:  12,
		EMASlow:  26,

		StochK:          14,
		StochD:          3,
		StochOverbought: 80,
		StochOversold:   20,

		ATRPeriod:  14,
		ATRHighPct: 3,
		ATRLowPct:  1,

		VolatilityWindow: 20,

		VolumeRecent:   5,
		VolumePrior:    15,
		VolumeSurge:    1.5,
		VolumeElevated: 1.2,
		VolumeLight:    0.7,

		TrendWindow: 50,
		TrendFlat:   0.02,
		TrendFull:   0.2,
	}
}
