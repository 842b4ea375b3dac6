package strategy

import (
	"fmt"
	"math"
	"strings"

	"SignalSentinel/internal/model"
)

// reasoning renders one clause per factor followed by a conviction note.
// Output depends only on the signal contents.
func reasoning(sig *model.Signal, cfg Config) string {
	b := sig.Breakdown
	ind := sig.Indicators

	clauses := []string{
		fmt.Sprintf("Technical indicators point to %s (confidence %.0f%%)",
			technicalSignal(b.Technical, cfg), math.Abs(b.Technical)*100),
	}

	if sig.Sentiment != nil {
		clauses = append(clauses, fmt.Sprintf("sentiment is %s (%s)", sig.Sentiment.Label, signed(sig.Sentiment.Score)))
	} else {
		clauses = append(clauses, "sentiment data unavailable")
	}

	clauses = append(clauses, fmt.Sprintf("%s (ratio %.2f)", ind.Volume.Interpretation, ind.Volume.Ratio))

	if p, ok := topPattern(sig.Patterns); ok {
		clauses = append(clauses, fmt.Sprintf("%s pattern detected (confidence %.0f%%)",
			strings.ReplaceAll(string(p.Type), "_", " "), p.Confidence*100))
	}

	if sig.Fundamental != nil {
		c := fmt.Sprintf("fundamentals score %s", signed(sig.Fundamental.Score))
		if len(sig.Fundamental.Factors) > 0 {
			c += " on " + strings.Join(sig.Fundamental.Factors, ", ")
		}
		clauses = append(clauses, c)
	}

	clauses = append(clauses, fmt.Sprintf("medium-term trend is %s (strength %.0f%%)",
		ind.Trend.Direction, ind.Trend.Strength*100))

	text := strings.Join(clauses, "; ") + "."
	switch mag := math.Abs(b.Combined); {
	case mag > cfg.StrongConviction:
		text += " Factors agree strongly."
	case mag < cfg.MixedSignals:
		text += " Signals are mixed."
	}
	return text
}

// topPattern returns the highest-confidence pattern, earliest on ties.
func topPattern(patterns []model.Pattern) (model.Pattern, bool) {
	if len(patterns) == 0 {
		return model.Pattern{}, false
	}
	best := patterns[0]
	for _, p := range patterns[1:] {
		if p.Confidence > best.Confidence {
			best = p
		}
	}
	return best, true
}
