// Package fundamental scores valuation ratios with a fixed rule table.
package fundamental

import (
	"fmt"
	"math"

	"SignalSentinel/internal/model"
)

// Config holds the rule thresholds and their contributions.
type Config struct {
	PECheap     float64 `yaml:"pe_cheap"`
	PEExpensive float64 `yaml:"pe_expensive"`
	PECheapAdj  float64 `yaml:"pe_cheap_adj"`
	PEDearAdj   float64 `yaml:"pe_expensive_adj"`

	PBCheap     float64 `yaml:"pb_cheap"`
	PBExpensive float64 `yaml:"pb_expensive"`
	PBCheapAdj  float64 `yaml:"pb_cheap_adj"`
	PBDearAdj   float64 `yaml:"pb_expensive_adj"`

	DividendYieldMin float64 `yaml:"dividend_yield_min"` // percent
	DividendAdj      float64 `yaml:"dividend_adj"`

	LargeCap    float64 `yaml:"large_cap"`
	LargeCapAdj float64 `yaml:"large_cap_adj"`
}

// DefaultConfig returns the standard valuation rule table.
func DefaultConfig() Config {
	return Config{
		PECheap:     15,
		PEExpensive: 30,
		PECheapAdj:  0.3,
		PEDearAdj:   -0.2,

		PBCheap:     1.5,
		PBExpensive: 3,
		PBCheapAdj:  0.2,
		PBDearAdj:   -0.1,

		DividendYieldMin: 2,
		DividendAdj:      0.1,

		LargeCap:    10e9,
		LargeCapAdj: 0.1,
	}
}

// Scorer applies the rule table. Missing ratios contribute nothing.
type Scorer struct {
	cfg Config
}

// NewScorer creates a scorer.
func NewScorer(cfg Config) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score evaluates P/E, P/B, dividend yield and market cap in that order and
// returns the clamped sum with the factors that fired.
func (s *Scorer) Score(in model.FundamentalInput) model.FundamentalResult {
	var score float64
	factors := []string{}
	add := func(adj float64, format string, args ...any) {
		score += adj
		factors = append(factors, fmt.Sprintf(format, args...))
	}

	if pe := in.PE; pe != nil {
		switch {
		case *pe <= 0:
			factors = append(factors, "P/E not meaningful")
		case *pe < s.cfg.PECheap:
			add(s.cfg.PECheapAdj, "P/E %.1f suggests undervaluation", *pe)
		case *pe > s.cfg.PEExpensive:
			add(s.cfg.PEDearAdj, "P/E %.1f implies premium valuation", *pe)
		}
	}

	if pb := in.PB; pb != nil && *pb > 0 {
		switch {
		case *pb < s.cfg.PBCheap:
			add(s.cfg.PBCheapAdj, "P/B %.2f suggests undervaluation", *pb)
		case *pb > s.cfg.PBExpensive:
			add(s.cfg.PBDearAdj, "P/B %.2f implies premium valuation", *pb)
		}
	}

	if dy := in.DividendYield; dy != nil && *dy > s.cfg.DividendYieldMin {
		add(s.cfg.DividendAdj, "dividend yield %.1f%% supports income", *dy)
	}

	if mc := in.MarketCap; mc != nil && *mc > s.cfg.LargeCap {
		add(s.cfg.LargeCapAdj, "large cap (%.0fB) adds stability", *mc/1e9)
	}

	return model.FundamentalResult{
		Score:   math.Max(-1, math.Min(1, score)),
		Factors: factors,
	}
}
