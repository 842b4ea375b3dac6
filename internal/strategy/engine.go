// Package strategy fuses technical, sentiment, fundamental and volume
// evidence into a single trading signal.
package strategy

import (
	"time"

	"SignalSentinel/internal/calculator"
	"SignalSentinel/internal/fundamental"
	"SignalSentinel/internal/logging"
	"SignalSentinel/internal/model"
	"SignalSentinel/internal/pattern"
	"SignalSentinel/internal/sentiment"
)

// Request is one symbol's analysis input. Sentiment and Fundamentals are optional.
type Request struct {
	Series       model.PriceSeries
	Sentiment    *model.SentimentInput
	Fundamentals *model.FundamentalInput
}

// Engine is stateless between calls and safe for concurrent use.
type Engine struct {
	cfg         Config
	detector    pattern.Detector
	sentiment   *sentiment.Aggregator
	fundamental *fundamental.Scorer
	logger      *logging.Logger
	clock       func() time.Time
}

// Option customizes an Engine.
type Option func(*Engine)

// WithDetector substitutes the pattern detector.
func WithDetector(d pattern.Detector) Option {
	return func(e *Engine) { e.detector = d }
}

// WithLogger sets the logger used for degraded-input warnings.
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithClock stamps signals with clock() instead of the latest bar date.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) { e.clock = clock }
}

// NewEngine creates an engine. Without WithClock, Signal.Timestamp is the
// date of the latest bar so repeated calls are byte-identical.
func NewEngine(cfg Config, opts ...Option) *Engine {
	e := &Engine{
		cfg:         cfg,
		detector:    pattern.NewHeuristic(cfg.Patterns),
		sentiment:   sentiment.NewAggregator(cfg.Sentiment),
		fundamental: fundamental.NewScorer(cfg.Fundamental),
		logger:      logging.NewSilent(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// Analyze produces a signal for one symbol. It fails only on an unusable
// price series; missing optional inputs are recorded as warnings.
func (e *Engine) Analyze(req Request) (*model.Signal, error) {
	series := req.Series
	ind, err := calculator.Compute(series, e.cfg.Indicators)
	if err != nil {
		return nil, err
	}

	patterns := e.detector.Patterns(series.Bars)
	support, resistance := e.detector.Levels(series.Bars)

	sig := &model.Signal{
		Symbol:     series.Symbol,
		Price:      ind.Price,
		Indicators: ind,
		Patterns:   nonNil(patterns),
		Support:    nonNil(support),
		Resistance: nonNil(resistance),
		Timestamp:  e.timestamp(series),
	}

	var b model.Breakdown
	b.Technical = scoreTechnical(technicalVotes(ind, patterns, e.cfg), e.cfg)
	b.Volume = scoreVolume(ind.Volume.Ratio, e.cfg.Indicators, e.cfg)

	if req.Sentiment != nil {
		res := e.sentiment.Aggregate(*req.Sentiment)
		sig.Sentiment = &res
		b.Sentiment = res.Score
	} else {
		e.degraded(sig, "sentiment")
	}

	if req.Fundamentals != nil {
		res := e.fundamental.Score(*req.Fundamentals)
		sig.Fundamental = &res
		b.Fundamental = res.Score
	} else {
		e.degraded(sig, "fundamentals")
	}

	w := e.cfg.Weights
	b.Combined = clamp(w.Technical*b.Technical+w.Sentiment*b.Sentiment+w.Fundamental*b.Fundamental+w.Volume*b.Volume, -1, 1)
	sig.Breakdown = b

	sig.Action, sig.Confidence = decide(b.Combined, e.cfg)
	sig.TargetPrice, sig.StopLoss = targets(sig.Action, ind.Price, ind.Volatility, sig.Confidence, support, resistance, e.cfg)
	sig.Confidence = round(sig.Confidence, 1)
	sig.AIScore = round((b.Combined+1)*5, 1)
	sig.Reasoning = reasoning(sig, e.cfg)
	return sig, nil
}

func (e *Engine) degraded(sig *model.Signal, input string) {
	w := model.DegradedInputWarning{Symbol: sig.Symbol, Input: input}
	e.logger.Warn().Str("symbol", w.Symbol).Str("input", w.Input).Msg("optional input missing, contributing zero")
	sig.Warnings = append(sig.Warnings, w.Error())
}

func (e *Engine) timestamp(series model.PriceSeries) time.Time {
	if e.clock != nil {
		return e.clock()
	}
	return series.Last().Date
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
