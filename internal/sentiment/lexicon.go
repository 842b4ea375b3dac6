package sentiment

import (
	"strings"
	"unicode"
)

// Lexicon maps lower-case words to a polarity of +1 or -1.
type Lexicon map[string]int

// GeneralLexicon covers everyday opinion words.
var GeneralLexicon = Lexicon{
	"good": 1, "great": 1, "excellent": 1, "positive": 1, "strong": 1,
	"love": 1, "best": 1, "happy": 1, "impressive": 1, "success": 1,
	"successful": 1, "win": 1, "improve": 1, "improved": 1, "confident": 1,
	"optimistic": 1, "solid": 1, "exciting": 1, "amazing": 1, "beat": 1,

	"bad": -1, "poor": -1, "terrible": -1, "negative": -1, "weak": -1,
	"worst": -1, "hate": -1, "fail": -1, "failed": -1, "failure": -1,
	"disappointing": -1, "concern": -1, "concerns": -1, "worried": -1,
	"pessimistic": -1, "risk": -1, "risky": -1, "problem": -1, "scandal": -1,
	"miss": -1,
}

// FinancialLexicon covers market and earnings vocabulary.
var FinancialLexicon = Lexicon{
	"bullish": 1, "rally": 1, "surge": 1, "soar": 1, "soared": 1,
	"upgrade": 1, "upgraded": 1, "outperform": 1, "buy": 1, "growth": 1,
	"profit": 1, "profitable": 1, "gain": 1, "gains": 1, "dividend": 1,
	"breakout": 1, "record": 1, "beats": 1, "expansion": 1, "overweight": 1,

	"bearish": -1, "selloff": -1, "plunge": -1, "plunged": -1, "crash": -1,
	"downgrade": -1, "downgraded": -1, "underperform": -1, "sell": -1,
	"loss": -1, "losses": -1, "decline": -1, "declined": -1, "debt": -1,
	"lawsuit": -1, "bankruptcy": -1, "default": -1, "recession": -1,
	"misses": -1, "underweight": -1,
}

var negators = map[string]bool{"not": true, "no": true, "never": true, "without": true}

// lexiconScore is the polarity tally of one lexicon over a text.
type lexiconScore struct {
	pos, neg int
}

func (s lexiconScore) hits() int { return s.pos + s.neg }

func (s lexiconScore) score() float64 {
	if s.hits() == 0 {
		return 0
	}
	return float64(s.pos-s.neg) / float64(s.hits())
}

// tokenize lower-cases text and splits it on anything but letters and apostrophes.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
}

// tally counts positive and negative words for each lexicon. A negator flips
// the polarity of the next word found in any lexicon.
func tally(tokens []string, lexicons ...Lexicon) []lexiconScore {
	out := make([]lexiconScore, len(lexicons))
	negate := false
	for _, tok := range tokens {
		if negators[tok] || strings.HasSuffix(tok, "n't") {
			negate = true
			continue
		}
		matched := false
		for i, lex := range lexicons {
			pol, ok := lex[tok]
			if !ok {
				continue
			}
			matched = true
			if negate {
				pol = -pol
			}
			if pol > 0 {
				out[i].pos++
			} else {
				out[i].neg++
			}
		}
		if matched {
			negate = false
		}
	}
	return out
}
