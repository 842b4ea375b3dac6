package scheduler

import (
	"context"
	"strings"

	"SignalSentinel/internal/collector"
	"SignalSentinel/internal/model"
	"SignalSentinel/internal/strategy"
)

// FundamentalsLookup returns the static fundamentals for a symbol, or nil.
type FundamentalsLookup func(symbol string) *model.FundamentalInput

// Analyzer collects price history and runs the fusion engine. It satisfies
// cache.SignalSource.
type Analyzer struct {
	Collector    *collector.Collector
	Engine       *strategy.Engine
	Fundamentals FundamentalsLookup
}

// NewAnalyzer creates an Analyzer. fundamentals may be nil.
func NewAnalyzer(col *collector.Collector, engine *strategy.Engine, fundamentals FundamentalsLookup) *Analyzer {
	if fundamentals == nil {
		fundamentals = func(string) *model.FundamentalInput { return nil }
	}
	return &Analyzer{Collector: col, Engine: engine, Fundamentals: fundamentals}
}

func (a *Analyzer) request(ctx context.Context, symbol string) (strategy.Request, error) {
	series, err := a.Collector.Collect(ctx, symbol)
	if err != nil {
		return strategy.Request{}, err
	}
	return strategy.Request{Series: series, Fundamentals: a.Fundamentals(symbol)}, nil
}

// Signal analyzes one symbol.
func (a *Analyzer) Signal(ctx context.Context, symbol string) (*model.Signal, error) {
	req, err := a.request(ctx, strings.ToUpper(symbol))
	if err != nil {
		return nil, err
	}
	return a.Engine.Analyze(req)
}

// AnalyzeAll collects every symbol in turn (fetchers are rate limited) and
// analyzes the collected series as one batch. Results keep symbol order;
// collection failures appear as results carrying the error.
func (a *Analyzer) AnalyzeAll(ctx context.Context, symbols []string) []strategy.Result {
	results := make([]strategy.Result, len(symbols))
	var (
		reqs []strategy.Request
		idx  []int
	)
	for i, sym := range symbols {
		sym = strings.ToUpper(sym)
		results[i].Symbol = sym
		req, err := a.request(ctx, sym)
		if err != nil {
			results[i].Err = err
			continue
		}
		reqs = append(reqs, req)
		idx = append(idx, i)
	}

	for j, r := range a.Engine.AnalyzeBatch(ctx, reqs) {
		results[idx[j]] = r
	}
	return results
}
