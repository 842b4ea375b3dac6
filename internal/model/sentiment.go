package model

import "time"

// SentimentSource identifies where a sentiment item came from.
type SentimentSource string

const (
	SourceNews    SentimentSource = "news"
	SourceSocial  SentimentSource = "social"
	SourceAnalyst SentimentSource = "analyst"
	SourceOther   SentimentSource = "other"
)

// SentimentItem is one piece of sentiment evidence. Either Text is scored
// against the lexicons, or Score carries a pre-computed value in [-1,1].
type SentimentItem struct {
	Source     SentimentSource `json:"source"`
	Text       string          `json:"text,omitempty"`
	Score      *float64        `json:"score,omitempty"`
	Confidence float64         `json:"confidence,omitempty"` // only used with Score
	Weight     float64         `json:"weight,omitempty"`     // default 1
	Mentions   int             `json:"mentions,omitempty"`   // default 1
	Timestamp  time.Time       `json:"timestamp"`
}

// SentimentInput is the optional sentiment evidence passed to the engine.
type SentimentInput struct {
	Items []SentimentItem `json:"items"`
}

// SentimentLabel buckets an aggregate score.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNeutral  SentimentLabel = "neutral"
	SentimentNegative SentimentLabel = "negative"
)

// SourceSentiment is the per-source decomposition of an aggregate.
type SourceSentiment struct {
	Source   SentimentSource `json:"source"`
	Score    float64         `json:"score"`
	Weight   float64         `json:"weight"`
	Mentions int             `json:"mentions"`
	Latest   time.Time       `json:"latest"`
}

// SentimentResult is the aggregated sentiment.
type SentimentResult struct {
	Score      float64           `json:"score"`      // -1..1
	Confidence float64           `json:"confidence"` // 0..1
	Label      SentimentLabel    `json:"label"`
	Sources    []SourceSentiment `json:"sources,omitempty"`
}
