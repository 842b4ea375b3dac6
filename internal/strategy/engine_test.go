package strategy

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalSentinel/internal/model"
	"SignalSentinel/internal/seriestest"
)

func f(v float64) *float64 { return &v }

func cheapFundamentals() *model.FundamentalInput {
	return &model.FundamentalInput{PE: f(12), PB: f(1.2), DividendYield: f(3.5), MarketCap: f(50e9)}
}

func TestAnalyze_InsufficientData(t *testing.T) {
	e := NewEngine(DefaultConfig())

	sig, err := e.Analyze(Request{Series: seriestest.Flat("AAPL", 49, 100)})
	assert.Nil(t, sig)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInsufficientData))

	sig, err = e.Analyze(Request{Series: seriestest.Flat("AAPL", 50, 100)})
	require.NoError(t, err)
	assert.Equal(t, "AAPL", sig.Symbol)
}

func TestAnalyze_InvalidInput(t *testing.T) {
	s := seriestest.Flat("AAPL", 60, 100)
	s.Bars[10].Low = -1
	_, err := NewEngine(DefaultConfig()).Analyze(Request{Series: s})
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestAnalyze_FlatSeries(t *testing.T) {
	sig, err := NewEngine(DefaultConfig()).Analyze(Request{Series: seriestest.Flat("FLAT", 60, 100)})
	require.NoError(t, err)

	assert.Equal(t, 50.0, sig.Indicators.RSI.Value)
	assert.Zero(t, sig.Indicators.MACD.Histogram)
	assert.Equal(t, model.ActionHold, sig.Action)
	assert.GreaterOrEqual(t, sig.Confidence, 50.0)
	assert.LessOrEqual(t, sig.Confidence, 70.0)
	assert.Zero(t, sig.Breakdown.Technical)
	assert.Zero(t, sig.Breakdown.Combined)
	assert.Equal(t, 5.0, sig.AIScore)
	assert.Equal(t, 100.0, sig.TargetPrice)
	assert.Equal(t, 100.0, sig.StopLoss)
	assert.Contains(t, sig.Reasoning, "Signals are mixed.")
	assert.Contains(t, sig.Reasoning, "sentiment data unavailable")
	assert.Len(t, sig.Warnings, 2)
}

func TestAnalyze_RisingSeries(t *testing.T) {
	sig, err := NewEngine(DefaultConfig()).Analyze(Request{Series: seriestest.Linear("UP", 60, 100, 1)})
	require.NoError(t, err)

	last := 159.0
	assert.True(t, sig.Indicators.RSI.Saturated)
	assert.InDelta(t, 1.0, sig.Breakdown.Technical, 1e-9)
	assert.InDelta(t, 0.4, sig.Breakdown.Combined, 1e-9)
	assert.Equal(t, model.ActionBuy, sig.Action)
	assert.InDelta(t, 74.0, sig.Confidence, 1e-9)
	assert.InDelta(t, 7.0, sig.AIScore, 1e-9)
	assert.Greater(t, sig.TargetPrice, last)
	assert.Less(t, sig.StopLoss, last)
	assert.Contains(t, sig.Reasoning, "Technical indicators point to BUY (confidence 100%)")
	assert.Contains(t, sig.Reasoning, "medium-term trend is up")
}

func TestAnalyze_AllInputs(t *testing.T) {
	sentiment := &model.SentimentInput{Items: []model.SentimentItem{
		{Source: model.SourceAnalyst, Score: f(1), Confidence: 0.9},
	}}
	sig, err := NewEngine(DefaultConfig()).Analyze(Request{
		Series:       seriestest.Linear("UP", 60, 100, 1),
		Sentiment:    sentiment,
		Fundamentals: cheapFundamentals(),
	})
	require.NoError(t, err)

	assert.Empty(t, sig.Warnings)
	assert.InDelta(t, 1.0, sig.Breakdown.Sentiment, 1e-9)
	assert.InDelta(t, 0.7, sig.Breakdown.Fundamental, 1e-9)
	assert.InDelta(t, 0.4+0.3+0.14, sig.Breakdown.Combined, 1e-9)
	assert.Equal(t, model.ActionBuy, sig.Action)
	assert.InDelta(t, 60+0.84*35, sig.Confidence, 1e-9)
	assert.InDelta(t, 9.2, sig.AIScore, 1e-9)
	require.NotNil(t, sig.Fundamental)
	assert.Contains(t, sig.Reasoning, "sentiment is positive (+1.00)")
	assert.Contains(t, sig.Reasoning, "fundamentals score +0.70 on P/E 12.0 suggests undervaluation")
	assert.Contains(t, sig.Reasoning, "Factors agree strongly.")
}

func TestAnalyze_EmptySentimentIsNeutral(t *testing.T) {
	sig, err := NewEngine(DefaultConfig()).Analyze(Request{
		Series:    seriestest.Linear("UP", 60, 100, 1),
		Sentiment: &model.SentimentInput{},
	})
	require.NoError(t, err)
	require.NotNil(t, sig.Sentiment)
	assert.Equal(t, model.SentimentNeutral, sig.Sentiment.Label)
	assert.LessOrEqual(t, sig.Sentiment.Confidence, 0.1)
	assert.Zero(t, sig.Breakdown.Sentiment)
	assert.Len(t, sig.Warnings, 1, "only fundamentals are missing")
}

func TestAnalyze_Idempotent(t *testing.T) {
	e := NewEngine(DefaultConfig())
	req := Request{
		Series: seriestest.Linear("UP", 80, 50, 0.5),
		Sentiment: &model.SentimentInput{Items: []model.SentimentItem{
			{Source: model.SourceNews, Text: "Analysts upgrade after record profit"},
			{Source: model.SourceSocial, Text: "not bullish, looks like a selloff", Mentions: 40},
		}},
		Fundamentals: cheapFundamentals(),
	}

	first, err := e.Analyze(req)
	require.NoError(t, err)
	second, err := e.Analyze(req)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
	assert.Equal(t, req.Series.Last().Date, first.Timestamp)
}

func TestAnalyze_WithClock(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	sig, err := NewEngine(DefaultConfig(), WithClock(func() time.Time { return at })).
		Analyze(Request{Series: seriestest.Flat("X", 60, 10)})
	require.NoError(t, err)
	assert.Equal(t, at, sig.Timestamp)
}

type stubDetector struct{}

func (stubDetector) Patterns([]model.PriceBar) []model.Pattern {
	return []model.Pattern{{Type: model.PatternHeadAndShoulders, Signal: model.ActionSell, Confidence: 0.9}}
}

func (stubDetector) Levels([]model.PriceBar) (support, resistance []model.Level) {
	return nil, nil
}

func TestAnalyze_CustomDetector(t *testing.T) {
	sig, err := NewEngine(DefaultConfig(), WithDetector(stubDetector{})).
		Analyze(Request{Series: seriestest.Flat("X", 60, 10)})
	require.NoError(t, err)
	require.Len(t, sig.Patterns, 1)
	assert.InDelta(t, -1.0, sig.Breakdown.Technical, 1e-9)
	assert.Contains(t, sig.Reasoning, "head and shoulders pattern detected (confidence 90%)")
	assert.Empty(t, sig.Support)
}

func TestAnalyze_CustomWeights(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Weights = Weights{Technical: 1}
	sig, err := NewEngine(cfg).Analyze(Request{Series: seriestest.Linear("UP", 60, 100, 1)})
	require.NoError(t, err)
	assert.Equal(t, model.ActionBuy, sig.Action)
	assert.Equal(t, 95.0, sig.Confidence)
	assert.Equal(t, 10.0, sig.AIScore)
}

func TestAnalyze_OutputBounds(t *testing.T) {
	e := NewEngine(DefaultConfig())
	for _, period := range []float64{3, 7, 13, 29} {
		for _, drift := range []float64{-0.8, -0.2, 0, 0.3, 1.1} {
			closes := make([]float64, 90)
			volumes := make([]float64, 90)
			for i := range closes {
				closes[i] = 150 + 20*math.Sin(float64(i)/period) + drift*float64(i)
				volumes[i] = 1000 + 700*math.Cos(float64(i)/period)
			}
			series := seriestest.WithVolumes(seriestest.FromCloses("GEN", closes), volumes)

			sig, err := e.Analyze(Request{Series: series, Fundamentals: cheapFundamentals()})
			require.NoError(t, err)
			assert.Contains(t, []model.Action{model.ActionBuy, model.ActionSell, model.ActionHold}, sig.Action)
			assert.GreaterOrEqual(t, sig.Confidence, 0.0)
			assert.LessOrEqual(t, sig.Confidence, 95.0)
			assert.GreaterOrEqual(t, sig.AIScore, 0.0)
			assert.LessOrEqual(t, sig.AIScore, 10.0)
			assert.GreaterOrEqual(t, sig.Indicators.RSI.Value, 0.0)
			assert.LessOrEqual(t, sig.Indicators.RSI.Value, 100.0)
			assert.LessOrEqual(t, math.Abs(sig.Breakdown.Combined), 1.0)
			assert.NotEmpty(t, sig.Reasoning)
		}
	}
}

func TestAnalyze_RisingRSIStaysOverbought(t *testing.T) {
	e := NewEngine(DefaultConfig())
	for n := 50; n <= 120; n += 10 {
		sig, err := e.Analyze(Request{Series: seriestest.Linear("UP", n, 100, 1)})
		require.NoError(t, err)
		assert.Equal(t, model.ActionSell, sig.Indicators.RSI.Signal, "n=%d", n)
		assert.LessOrEqual(t, sig.Indicators.RSI.Value, 100.0)
	}
}

func TestDecide(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		combined float64
		action   model.Action
		conf     float64
	}{
		{0.3, model.ActionHold, 64},
		{-0.3, model.ActionHold, 64},
		{0.31, model.ActionBuy, 60 + 0.31*35},
		{-0.31, model.ActionSell, 60 + 0.31*35},
		{1, model.ActionBuy, 95},
		{-1, model.ActionSell, 95},
		{0, model.ActionHold, 70},
	}
	for _, tt := range tests {
		action, conf := decide(tt.combined, cfg)
		assert.Equal(t, tt.action, action, "combined=%v", tt.combined)
		assert.InDelta(t, tt.conf, conf, 1e-9, "combined=%v", tt.combined)
	}

	cfg.HoldSlope = 100
	_, conf := decide(0.25, cfg)
	assert.Equal(t, 50.0, conf, "hold confidence never drops below the floor")
}

func TestScoreTechnical(t *testing.T) {
	cfg := DefaultConfig()
	assert.Zero(t, scoreTechnical(nil, cfg))

	votes := []Vote{
		{Signal: model.ActionBuy, Strength: 0.7},
		{Signal: model.ActionSell, Strength: 0.3},
		{Signal: model.ActionHold, Strength: 1},
	}
	assert.InDelta(t, 0.4, scoreTechnical(votes, cfg), 1e-9)

	weak := []Vote{{Signal: model.ActionSell, Strength: 0.1}}
	assert.InDelta(t, -0.2, scoreTechnical(weak, cfg), 1e-9)

	ind := model.IndicatorSet{RSI: model.RSIReading{Value: 100, Saturated: true, Signal: model.ActionSell}}
	v := technicalVotes(ind, nil, cfg)
	assert.Zero(t, v[0].Strength)
}

func TestTargets(t *testing.T) {
	cfg := DefaultConfig()

	target, stop := targets(model.ActionBuy, 100, 0.02, 80, nil, nil, cfg)
	assert.InDelta(t, 104.8, target, 1e-9)
	assert.InDelta(t, 96.0, stop, 1e-9)

	support := []model.Level{{Price: 98}, {Price: 90}}
	resistance := []model.Level{{Price: 103}, {Price: 120}}
	target, stop = targets(model.ActionBuy, 100, 0.02, 80, support, resistance, cfg)
	assert.InDelta(t, 103.0, target, 1e-9)
	assert.InDelta(t, 98.0, stop, 1e-9)

	// levels beyond the volatility band never loosen it
	target, stop = targets(model.ActionBuy, 100, 0.02, 80, []model.Level{{Price: 90}}, []model.Level{{Price: 110}}, cfg)
	assert.InDelta(t, 104.8, target, 1e-9)
	assert.InDelta(t, 96.0, stop, 1e-9)

	target, stop = targets(model.ActionSell, 100, 0.02, 80, support, resistance, cfg)
	assert.InDelta(t, 95.2, target, 1e-9)
	assert.InDelta(t, 104.0, stop, 1e-9)

	target, stop = targets(model.ActionHold, 100, 0.02, 70, nil, nil, cfg)
	assert.InDelta(t, 100.0, target, 1e-9)
	assert.InDelta(t, 97.0, stop, 1e-9)
}

func TestAnalyzeBatch(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workers = 2
	e := NewEngine(cfg)

	reqs := []Request{
		{Series: seriestest.Linear("UP", 60, 100, 1)},
		{Series: seriestest.Flat("SHORT", 20, 100)},
		{Series: seriestest.Flat("FLAT", 60, 100)},
		{Series: seriestest.Linear("DOWN", 60, 200, -1)},
	}
	results := e.AnalyzeBatch(context.Background(), reqs)
	require.Len(t, results, 4)

	for i, r := range results {
		assert.Equal(t, reqs[i].Series.Symbol, r.Symbol)
	}
	require.NoError(t, results[0].Err)
	assert.Equal(t, model.ActionBuy, results[0].Signal.Action)
	assert.ErrorIs(t, results[1].Err, model.ErrInsufficientData)
	assert.Nil(t, results[1].Signal)
	require.NoError(t, results[2].Err)
	assert.Equal(t, model.ActionHold, results[2].Signal.Action)
	require.NoError(t, results[3].Err)
}

func TestAnalyzeBatch_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := NewEngine(DefaultConfig()).AnalyzeBatch(ctx, []Request{
		{Series: seriestest.Flat("A", 60, 100)},
		{Series: seriestest.Flat("B", 60, 100)},
	})
	for _, r := range results {
		assert.ErrorIs(t, r.Err, context.Canceled)
		assert.Nil(t, r.Signal)
	}
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.Weights.Sentiment = -0.1
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Weights = Weights{}
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.BuyThreshold, cfg.SellThreshold = -0.3, 0.3
	assert.Error(t, cfg.Validate())
}
