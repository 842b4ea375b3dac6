package model

import "time"

// Breakdown records each factor's score and the weighted combination.
type Breakdown struct {
	Technical   float64 `json:"technical"`
	Sentiment   float64 `json:"sentiment"`
	Fundamental float64 `json:"fundamental"`
	Volume      float64 `json:"volume"`
	Combined    float64 `json:"combined"`
}

// Signal is the final output of the fusion engine. Each analysis produces a
// fresh value; nothing mutates it afterwards.
type Signal struct {
	Symbol      string             `json:"symbol"`
	Action      Action             `json:"action"`
	Confidence  float64            `json:"confidence"` // 0..100
	Price       float64            `json:"price"`
	TargetPrice float64            `json:"target_price"`
	StopLoss    float64            `json:"stop_loss"`
	AIScore     float64            `json:"ai_score"` // 0..10
	Reasoning   string             `json:"reasoning"`
	Breakdown   Breakdown          `json:"breakdown"`
	Indicators  IndicatorSet       `json:"indicators"`
	Patterns    []Pattern          `json:"patterns"`
	Support     []Level            `json:"support"`
	Resistance  []Level            `json:"resistance"`
	Sentiment   *SentimentResult   `json:"sentiment,omitempty"`
	Fundamental *FundamentalResult `json:"fundamental,omitempty"`
	Warnings    []string           `json:"warnings,omitempty"`
	Timestamp   time.Time          `json:"timestamp"`
}
