package strategy

import (
	"context"

	"golang.org/x/sync/errgroup"

	"SignalSentinel/internal/model"
)

// Result is one symbol's outcome within a batch.
type Result struct {
	Symbol string
	Signal *model.Signal
	Err    error
}

// AnalyzeBatch analyzes requests concurrently on at most cfg.Workers
// goroutines. Results keep the request order and one failure never stops
// the others. Requests not yet started when ctx is done get ctx.Err().
func (e *Engine) AnalyzeBatch(ctx context.Context, reqs []Request) []Result {
	results := make([]Result, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	if e.cfg.Workers > 0 {
		g.SetLimit(e.cfg.Workers)
	}
	for i, req := range reqs {
		results[i].Symbol = req.Series.Symbol
		if err := gctx.Err(); err != nil {
			results[i].Err = err
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Signal, results[i].Err = e.Analyze(req)
			return nil
		})
	}
	_ = g.Wait()
	return results
}
