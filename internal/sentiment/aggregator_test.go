package sentiment

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalSentinel/internal/model"
)

func ptr(v float64) *float64 { return &v }

func TestScoreText(t *testing.T) {
	a := NewAggregator(DefaultConfig())

	tests := []struct {
		name  string
		text  string
		score float64
		conf  float64
	}{
		{"all positive", "Strong quarter: revenue growth and an analyst upgrade", 1, 0.75},
		{"negated general word", "This is not good", -1, 0.25},
		{"contraction negates", "The stock didn't rally", -1, 0.25},
		{"lexicons disagree", "good numbers yet bearish outlook", 0, 0.5},
		{"no sentiment words", "The company held its annual meeting", 0, 0},
		{"many hits cap confidence", "bullish rally surge soar upgrade", 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, conf := a.ScoreText(tt.text)
			assert.InDelta(t, tt.score, score, 1e-9)
			assert.InDelta(t, tt.conf, conf, 1e-9)
		})
	}
}

func TestAggregate_Empty(t *testing.T) {
	a := NewAggregator(DefaultConfig())
	res := a.Aggregate(model.SentimentInput{})
	assert.Equal(t, 0.0, res.Score)
	assert.LessOrEqual(t, res.Confidence, 0.1)
	assert.Equal(t, model.SentimentNeutral, res.Label)
	assert.Empty(t, res.Sources)
}

func TestAggregate_WeightsByReliabilityAndMentions(t *testing.T) {
	a := NewAggregator(DefaultConfig())
	t1 := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	res := a.Aggregate(model.SentimentInput{Items: []model.SentimentItem{
		{Source: model.SourceSocial, Score: ptr(-0.5), Confidence: 0.4, Mentions: 10, Timestamp: t1},
		{Source: model.SourceAnalyst, Score: ptr(0.8), Confidence: 0.9, Mentions: 1, Timestamp: t1},
		{Source: model.SourceSocial, Score: ptr(-0.5), Confidence: 0.4, Mentions: 10, Timestamp: t2},
	}})

	wa := 0.9 * math.Log(2)
	ws := 0.4 * math.Log(11)
	wantScore := (wa*0.8 - 2*ws*0.5) / (wa + 2*ws)
	assert.InDelta(t, wantScore, res.Score, 1e-9)
	assert.InDelta(t, (0.9*0.9+2*0.4*0.4)/(0.9+0.8), res.Confidence, 1e-9)
	assert.Equal(t, model.SentimentNegative, res.Label)

	require.Len(t, res.Sources, 2)
	assert.Equal(t, model.SourceAnalyst, res.Sources[0].Source)
	assert.InDelta(t, 0.8, res.Sources[0].Score, 1e-9)
	assert.Equal(t, model.SourceSocial, res.Sources[1].Source)
	assert.Equal(t, 20, res.Sources[1].Mentions)
	assert.Equal(t, t2, res.Sources[1].Latest)
}

func TestAggregate_TextItems(t *testing.T) {
	a := NewAggregator(DefaultConfig())
	res := a.Aggregate(model.SentimentInput{Items: []model.SentimentItem{
		{Source: model.SourceNews, Text: "Shares plunge after downgrade and lawsuit"},
	}})
	assert.InDelta(t, -1.0, res.Score, 1e-9)
	assert.InDelta(t, 0.75, res.Confidence, 1e-9)
	assert.Equal(t, model.SentimentNegative, res.Label)
}

func TestAggregate_Bounds(t *testing.T) {
	a := NewAggregator(DefaultConfig())
	res := a.Aggregate(model.SentimentInput{Items: []model.SentimentItem{
		{Source: model.SourceAnalyst, Score: ptr(5), Confidence: 3},
		{Source: "forum", Score: ptr(2), Weight: 4, Mentions: 1000},
	}})
	assert.LessOrEqual(t, res.Score, 1.0)
	assert.GreaterOrEqual(t, res.Score, -1.0)
	assert.LessOrEqual(t, res.Confidence, 1.0)
	assert.Equal(t, model.SentimentPositive, res.Label)
}
