package factors

import (
	"fmt"

	"github.com/yourusername/keiba-engine/internal/models"
)

// DefaultWeights is the five-factor production weighting.
var DefaultWeights = map[string]float64{
	NamePastResults: 0.25,
	NameCourseFit:   0.20,
	NameTimeIndex:   0.20,
	NameLast3F:      0.20,
	NamePopularity:  0.15,
}

// SevenFactorWeights adds the pedigree and running-style factors.
var SevenFactorWeights = map[string]float64{
	NamePastResults:  0.25,
	NameCourseFit:    0.18,
	NameTimeIndex:    0.14,
	NameLast3F:       0.12,
	NamePopularity:   0.12,
	NamePedigree:     0.10,
	NameRunningStyle: 0.09,
}

// Combiner folds per-factor scores into a single total score using a
// weighted mean over the factors that actually produced a value.
type Combiner struct {
	weights map[string]float64
}

// NewCombiner validates and wraps a weight table. Weights must be
// non-negative and sum to a positive value; they need not sum to one
// because absent factors renormalize the mean anyway.
func NewCombiner(weights map[string]float64) (*Combiner, error) {
	if len(weights) == 0 {
		return nil, fmt.Errorf("combiner: empty weight table")
	}
	var sum float64
	for name, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("combiner: negative weight %.3f for factor %q", w, name)
		}
		sum += w
	}
	if sum <= 0 {
		return nil, fmt.Errorf("combiner: weights sum to zero")
	}
	copied := make(map[string]float64, len(weights))
	for name, w := range weights {
		copied[name] = w
	}
	return &Combiner{weights: copied}, nil
}

// Weights returns a copy of the weight table.
func (c *Combiner) Weights() map[string]float64 {
	out := make(map[string]float64, len(c.weights))
	for name, w := range c.weights {
		out[name] = w
	}
	return out
}

// Combine returns the weighted mean of the present scores. The
// denominator is the sum of the weights whose factors are present, so
// a horse is not penalized for factors that could not be computed.
// Returns an absent score when nothing is present.
func (c *Combiner) Combine(scores map[string]models.Score) models.Score {
	var weighted, weightSum float64
	for name, score := range scores {
		v, present := score.Value()
		if !present {
			continue
		}
		w, ok := c.weights[name]
		if !ok || w == 0 {
			continue
		}
		weighted += v * w
		weightSum += w
	}
	if weightSum == 0 {
		return models.NoScore()
	}
	return models.NewScore(round1(weighted / weightSum))
}
