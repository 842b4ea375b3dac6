// Package sentiment turns scored or free-text evidence from news, social and
// analyst sources into one reliability-weighted sentiment score.
package sentiment

import (
	"math"
	"sort"
	"time"

	"SignalSentinel/internal/model"
)

// Config holds blending weights and label thresholds.
type Config struct {
	FinancialWeight   float64                           `yaml:"financial_weight"` // share of the financial lexicon in the blend
	HitConfidence     float64                           `yaml:"hit_confidence"`   // confidence added per lexicon hit
	PreScoredDefault  float64                           `yaml:"prescored_default_confidence"`
	EmptyConfidence   float64                           `yaml:"empty_confidence"`
	PositiveThreshold float64                           `yaml:"positive_threshold"`
	NegativeThreshold float64                           `yaml:"negative_threshold"`
	Reliability       map[model.SentimentSource]float64 `yaml:"reliability"`
}

// DefaultConfig weights analysts over news over social chatter.
func DefaultConfig() Config {
	return Config{
		FinancialWeight:   0.5,
		HitConfidence:     0.25,
		PreScoredDefault:  0.5,
		EmptyConfidence:   0.1,
		PositiveThreshold: 0.1,
		NegativeThreshold: -0.1,
		Reliability: map[model.SentimentSource]float64{
			model.SourceAnalyst: 0.9,
			model.SourceNews:    0.7,
			model.SourceSocial:  0.4,
			model.SourceOther:   0.5,
		},
	}
}

// Aggregator scores sentiment items. It holds no mutable state.
type Aggregator struct {
	cfg       Config
	general   Lexicon
	financial Lexicon
}

// NewAggregator creates an aggregator using the built-in lexicons.
func NewAggregator(cfg Config) *Aggregator {
	return &Aggregator{cfg: cfg, general: GeneralLexicon, financial: FinancialLexicon}
}

// ScoreText returns a [-1,1] score for text and a confidence that grows
// with the number of lexicon hits.
func (a *Aggregator) ScoreText(text string) (score, confidence float64) {
	t := tally(tokenize(text), a.general, a.financial)
	gen, fin := t[0], t[1]

	var sum, weight float64
	if gen.hits() > 0 {
		sum += (1 - a.cfg.FinancialWeight) * gen.score()
		weight += 1 - a.cfg.FinancialWeight
	}
	if fin.hits() > 0 {
		sum += a.cfg.FinancialWeight * fin.score()
		weight += a.cfg.FinancialWeight
	}
	if weight > 0 {
		score = sum / weight
	}
	confidence = math.Min(1, float64(gen.hits()+fin.hits())*a.cfg.HitConfidence)
	return clamp(score, -1, 1), confidence
}

// Aggregate combines items into one result. Each item is weighted by its
// source reliability × item weight × ln(mentions+1). An empty input yields
// the neutral default instead of an error.
func (a *Aggregator) Aggregate(in model.SentimentInput) model.SentimentResult {
	neutral := model.SentimentResult{Score: 0, Confidence: a.cfg.EmptyConfidence, Label: model.SentimentNeutral}
	if len(in.Items) == 0 {
		return neutral
	}

	type bucket struct {
		sum, weight float64
		mentions    int
		latest      time.Time
	}
	buckets := make(map[model.SentimentSource]*bucket)

	var scoreSum, weightSum, confSum, relSum float64
	for _, item := range in.Items {
		score, conf := a.scoreItem(item)
		rel := a.reliability(item.Source)
		mentions := item.Mentions
		if mentions <= 0 {
			mentions = 1
		}
		itemWeight := item.Weight
		if itemWeight <= 0 {
			itemWeight = 1
		}
		w := rel * itemWeight * math.Log(float64(mentions)+1)

		scoreSum += w * score
		weightSum += w
		confSum += rel * conf
		relSum += rel

		b, ok := buckets[item.Source]
		if !ok {
			b = &bucket{}
			buckets[item.Source] = b
		}
		b.sum += w * score
		b.weight += w
		b.mentions += mentions
		if item.Timestamp.After(b.latest) {
			b.latest = item.Timestamp
		}
	}
	if weightSum == 0 {
		return neutral
	}

	res := model.SentimentResult{
		Score: clamp(scoreSum/weightSum, -1, 1),
	}
	if relSum > 0 {
		res.Confidence = clamp(confSum/relSum, 0, 1)
	}
	res.Label = a.label(res.Score)

	for src, b := range buckets {
		s := model.SourceSentiment{Source: src, Weight: b.weight, Mentions: b.mentions, Latest: b.latest}
		if b.weight > 0 {
			s.Score = b.sum / b.weight
		}
		res.Sources = append(res.Sources, s)
	}
	sort.Slice(res.Sources, func(i, j int) bool { return res.Sources[i].Source < res.Sources[j].Source })
	return res
}

func (a *Aggregator) scoreItem(item model.SentimentItem) (score, confidence float64) {
	if item.Score != nil {
		conf := item.Confidence
		if conf <= 0 {
			conf = a.cfg.PreScoredDefault
		}
		return clamp(*item.Score, -1, 1), clamp(conf, 0, 1)
	}
	return a.ScoreText(item.Text)
}

func (a *Aggregator) reliability(src model.SentimentSource) float64 {
	if r, ok := a.cfg.Reliability[src]; ok {
		return r
	}
	return a.cfg.Reliability[model.SourceOther]
}

func (a *Aggregator) label(score float64) model.SentimentLabel {
	switch {
	case score > a.cfg.PositiveThreshold:
		return model.SentimentPositive
	case score < a.cfg.NegativeThreshold:
		return model.SentimentNegative
	default:
		return model.SentimentNeutral
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
