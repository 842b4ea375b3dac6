package model

// Action is a discrete trading recommendation.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
	ActionHold Action = "HOLD"
)

// Direction maps an action to +1, -1 or 0.
func (a Action) Direction() float64 {
	switch a {
	case ActionBuy:
		return 1
	case ActionSell:
		return -1
	default:
		return 0
	}
}

// RSIReading is the latest RSI value with its discrete signal.
// Saturated is set when the smoothing window had no losses (or no gains),
// so the value is pinned at an extreme by the zero-division guard.
type RSIReading struct {
	Value          float64 `json:"value"`
	Saturated      bool    `json:"saturated"`
	Signal         Action  `json:"signal"`
	Interpretation string  `json:"interpretation"`
}

// MACDReading holds the MACD line, its signal line and histogram.
type MACDReading struct {
	Line           float64 `json:"line"`
	SignalLine     float64 `json:"signal_line"`
	Histogram      float64 `json:"histogram"`
	Signal         Action  `json:"signal"`
	Interpretation string  `json:"interpretation"`
}

// BollingerReading holds the bands and where price sits within them.
type BollingerReading struct {
	Upper          float64 `json:"upper"`
	Middle         float64 `json:"middle"`
	Lower          float64 `json:"lower"`
	Position       string  `json:"position"` // near_upper, near_lower, middle
	Signal         Action  `json:"signal"`
	Interpretation string  `json:"interpretation"`
}

// MovingAverageReading holds the simple and exponential averages.
type MovingAverageReading struct {
	SMA20          float64 `json:"sma20"`
	SMA50          float64 `json:"sma50"`
	EMA12          float64 `json:"ema12"`
	EMA26          float64 `json:"ema26"`
	Signal         Action  `json:"signal"`
	Interpretation string  `json:"interpretation"`
}

// StochasticReading holds %K and %D.
type StochasticReading struct {
	K              float64 `json:"k"`
	D              float64 `json:"d"`
	Signal         Action  `json:"signal"`
	Interpretation string  `json:"interpretation"`
}

// ATRReading holds the average true range in price units and as % of price.
type ATRReading struct {
	Value          float64 `json:"value"`
	Percent        float64 `json:"percent"`
	Signal         Action  `json:"signal"`
	Interpretation string  `json:"interpretation"`
}

// VolumeReading compares recent volume to the prior baseline.
type VolumeReading struct {
	RecentAvg      float64 `json:"recent_avg"`
	PriorAvg       float64 `json:"prior_avg"`
	Ratio          float64 `json:"ratio"`
	Interpretation string  `json:"interpretation"`
}

// TrendDirection classifies the medium-term trend.
type TrendDirection string

const (
	TrendUp       TrendDirection = "up"
	TrendDown     TrendDirection = "down"
	TrendSideways TrendDirection = "sideways"
)

// TrendReading is the medium-term regression trend.
type TrendReading struct {
	Direction TrendDirection `json:"direction"`
	Strength  float64        `json:"strength"`
	Change    float64        `json:"change"` // relative change implied by the slope over the window
}

// IndicatorSet is a per-symbol snapshot of every computed indicator.
type IndicatorSet struct {
	Price          float64              `json:"price"`
	RSI            RSIReading           `json:"rsi"`
	MACD           MACDReading          `json:"macd"`
	Bollinger      BollingerReading     `json:"bollinger"`
	MovingAverages MovingAverageReading `json:"moving_averages"`
	Stochastic     StochasticReading    `json:"stochastic"`
	ATR            ATRReading           `json:"atr"`
	Volatility     float64              `json:"volatility"` // std-dev of daily returns
	Volume         VolumeReading        `json:"volume"`
	Trend          TrendReading         `json:"trend"`
}
