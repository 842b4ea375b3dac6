package model

// FundamentalInput holds valuation ratios. Nil fields are unavailable and
// contribute nothing to the score.
type FundamentalInput struct {
	PE            *float64 `json:"pe,omitempty" yaml:"pe"`
	PB            *float64 `json:"pb,omitempty" yaml:"pb"`
	DividendYield *float64 `json:"dividend_yield,omitempty" yaml:"dividend_yield"` // percent, 2.5 means 2.5%
	MarketCap     *float64 `json:"market_cap,omitempty" yaml:"market_cap"`
}

// FundamentalResult is the bounded fundamental score with the rules that fired.
type FundamentalResult struct {
	Score   float64  `json:"score"` // -1..1
	Factors []string `json:"factors"`
}
